package pipeline

// Outcome is a stage handler's verdict on one message. Retry-vs-drop is a
// first-class decision here, not a side effect of error propagation.
type Outcome int

const (
	// Done: fully processed, acknowledge.
	Done Outcome = iota

	// Drop: permanent failure (malformed payload, unusable oracle output).
	// The message is acknowledged and recorded as a dead letter; it will
	// never be redelivered.
	Drop

	// Retry: transient failure (broker, oracle, or database unavailable).
	// The message is requeued for redelivery.
	Retry
)

func (o Outcome) String() string {
	switch o {
	case Done:
		return "done"
	case Drop:
		return "drop"
	case Retry:
		return "retry"
	}
	return "unknown"
}
