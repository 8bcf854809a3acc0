// Package bus wraps NSQ as a durable, at-least-once message bus with named
// queues. One Bus instance is shared by every stage in the process: a single
// producer serves all publishes and each Consume call owns its queue.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/nsqio/go-nsq"
)

const (
	// retryAttempts bounds every broker backoff loop, publish and consumer
	// connect alike: 2s, 4s, 8s, 16s, 32s.
	retryAttempts = 5

	// channel is the NSQ channel name shared by all worker processes, so a
	// queue has exactly one logical consumer group.
	channel = "workers"
)

type producer interface {
	Publish(topic string, body []byte) error
	Stop()
}

// Handler processes one decoded message body. Returning nil acknowledges the
// message; returning an error requeues it for redelivery.
type Handler func(ctx context.Context, body []byte) error

type Bus struct {
	producer producer
	nsqdTCP  string
	nsqdHTTP string
	lookupd  string

	// mu serializes publishes: the underlying connection is shared by every
	// stage goroutine in the process.
	mu        sync.Mutex
	consumers []*nsq.Consumer
	cmu       sync.Mutex

	sleep func(time.Duration)
}

func New(nsqdTCP, nsqdHTTP, lookupd string) (*Bus, error) {
	cfg := nsq.NewConfig()
	p, err := nsq.NewProducer(nsqdTCP, cfg)
	if err != nil {
		return nil, fmt.Errorf("nsq producer: %w", err)
	}
	return &Bus{
		producer: p,
		nsqdTCP:  nsqdTCP,
		nsqdHTTP: nsqdHTTP,
		lookupd:  lookupd,
		sleep:    time.Sleep,
	}, nil
}

// Declare ensures the queue exists on nsqd. NSQ creates topics lazily on
// publish, but consumers querying lookupd 404 until then, so topics are
// created eagerly over nsqd's HTTP API. Safe to call repeatedly.
func (b *Bus) Declare(queue string) error {
	url := fmt.Sprintf("http://%s/topic/create?topic=%s", b.nsqdHTTP, queue)
	resp, err := http.Post(url, "application/json", nil) // #nosec G107 -- URL is built from internal NSQ config, not user input
	if err != nil {
		return fmt.Errorf("declare %s: %w", queue, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("declare %s: nsqd returned %d", queue, resp.StatusCode)
	}
	return nil
}

// Publish serializes payload as JSON and hands it to the broker. A broken
// connection is retried with exponential backoff (2,4,8,16,32 seconds); after
// the fifth failed attempt the last error is returned and the caller decides
// whether that is fatal. Publish never panics.
func (b *Bus) Publish(queue string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal for %s: %w", queue, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for attempt := 1; attempt <= retryAttempts; attempt++ {
		err = b.producer.Publish(queue, body)
		if err == nil {
			return nil
		}
		slog.Warn("publish failed", "queue", queue, "attempt", attempt, "error", err)
		b.sleep(time.Duration(1<<uint(attempt)) * time.Second)
	}
	return fmt.Errorf("publish to %s after %d attempts: %w", queue, retryAttempts, err)
}

// Consume registers h as the sole consumer of queue for this process.
// MaxInFlight is 1: at most one unacknowledged message per consumer, so
// processing within a stage is strictly sequential. Connecting to the broker
// is retried with the same backoff as Publish; exhausting the attempts
// returns the last error to the caller.
func (b *Bus) Consume(queue string, h Handler) error {
	cfg := nsq.NewConfig()
	cfg.MaxInFlight = 1
	cfg.MaxAttempts = 5

	consumer, err := nsq.NewConsumer(queue, channel, cfg)
	if err != nil {
		return fmt.Errorf("consumer for %s: %w", queue, err)
	}

	consumer.AddHandler(nsq.HandlerFunc(func(m *nsq.Message) error {
		if len(m.Body) == 0 {
			return nil
		}
		return h(context.Background(), m.Body)
	}))

	for attempt := 1; attempt <= retryAttempts; attempt++ {
		if b.lookupd != "" {
			err = consumer.ConnectToNSQLookupd(b.lookupd)
		} else {
			err = consumer.ConnectToNSQD(b.nsqdTCP)
		}
		if err == nil {
			break
		}
		slog.Warn("consumer connect failed", "queue", queue, "attempt", attempt, "error", err)
		b.sleep(time.Duration(1<<uint(attempt)) * time.Second)
	}
	if err != nil {
		return fmt.Errorf("connect consumer for %s after %d attempts: %w", queue, retryAttempts, err)
	}

	b.cmu.Lock()
	b.consumers = append(b.consumers, consumer)
	b.cmu.Unlock()

	slog.Info("consuming", "queue", queue, "channel", channel)
	return nil
}

// Close stops all consumers, giving each up to grace to finish its in-flight
// message, then stops the producer. Messages that do not finish in time are
// abandoned unacknowledged and the broker redelivers them.
func (b *Bus) Close(grace time.Duration) {
	b.cmu.Lock()
	consumers := b.consumers
	b.consumers = nil
	b.cmu.Unlock()

	for _, c := range consumers {
		c.Stop()
	}
	deadline := time.After(grace)
	for _, c := range consumers {
		select {
		case <-c.StopChan:
		case <-deadline:
			slog.Warn("consumer did not stop within grace period")
		}
	}

	b.producer.Stop()
}
