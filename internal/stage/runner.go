package stage

import (
	"context"
	"encoding/json"
	"log/slog"

	"talentflow/internal/correlation"
	"talentflow/internal/pipeline"
	"talentflow/internal/store"
)

// Func is the unit of work of a stage: decode the body, act, report.
// A Retry outcome must carry the error that caused it.
type Func func(ctx context.Context, body []byte) (pipeline.Outcome, error)

// Runner adapts a stage Func to the bus handler contract. Done acks, Retry
// requeues by returning the error, and Drop records a dead letter and acks
// so the message never comes back.
type Runner struct {
	queue       string
	stage       Func
	deadLetters DeadLetterSink
}

func NewRunner(queue string, stage Func, deadLetters DeadLetterSink) *Runner {
	return &Runner{queue: queue, stage: stage, deadLetters: deadLetters}
}

func (r *Runner) Handle(ctx context.Context, body []byte) error {
	outcome, err := r.stage(ctx, body)
	switch outcome {
	case pipeline.Retry:
		slog.ErrorContext(ctx, "stage failed, message will be retried", "queue", r.queue, "error", err)
		return err
	case pipeline.Drop:
		r.drop(ctx, body, err)
		return nil
	default:
		return nil
	}
}

func (r *Runner) drop(ctx context.Context, body []byte, cause error) {
	reason := "dropped"
	if cause != nil {
		reason = cause.Error()
	}
	slog.WarnContext(ctx, "dropping message", "queue", r.queue, "reason", reason)

	payload := json.RawMessage(body)
	if !json.Valid(body) {
		// dead_letters.payload is JSONB; wrap non-JSON bodies so the insert
		// still succeeds.
		payload, _ = json.Marshal(string(body))
	}
	dl := &store.DeadLetter{Queue: r.queue, Payload: payload, Error: reason}
	if err := r.deadLetters.Save(ctx, dl); err != nil {
		slog.ErrorContext(ctx, "dead letter save failed", "queue", r.queue, "error", err)
	}
}

// withCorrelation restores the correlation id a payload carried across the
// queue boundary.
func withCorrelation(ctx context.Context, id string) context.Context {
	if id == "" {
		return correlation.With(ctx, correlation.New())
	}
	return correlation.With(ctx, id)
}
