// Package events delivers engine notifications to observers. The engine
// publishes into a buffered channel; a background worker drains the channel
// into a sink (structured log, Kafka). Delivery is best-effort and never
// blocks or fails an engine operation.
package events

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"namegate/internal/naming"
)

// Sink receives drained events.
type Sink interface {
	Deliver(ctx context.Context, event naming.Event) error
}

// Bus is a channel-backed publisher. Publish is non-blocking: when the buffer
// is full the event is dropped and counted, not queued.
type Bus struct {
	inbox   chan naming.Event
	logger  *slog.Logger
	dropped func()
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithDropCounter registers a callback invoked once per dropped event, used
// to feed a metrics counter.
func WithDropCounter(fn func()) BusOption {
	return func(b *Bus) {
		if fn != nil {
			b.dropped = fn
		}
	}
}

// NewBus creates a bus with the given buffer size.
func NewBus(buffer int, logger *slog.Logger, opts ...BusOption) *Bus {
	b := &Bus{
		inbox:   make(chan naming.Event, buffer),
		logger:  logger,
		dropped: func() {},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Publish enqueues the event, assigning an ID when the engine did not.
func (b *Bus) Publish(ctx context.Context, event naming.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	select {
	case b.inbox <- event:
		return nil
	default:
		b.dropped()
		b.logger.WarnContext(ctx, "event buffer full, dropping event",
			"kind", event.Kind,
			"event_id", event.ID,
		)
		return nil
	}
}

// Inbox exposes the receive side for a Worker.
func (b *Bus) Inbox() <-chan naming.Event { return b.inbox }

// Worker consumes events from a bus and delivers them to a sink. It keeps
// background processing testable without wiring broker implementations.
type Worker struct {
	sink   Sink
	inbox  <-chan naming.Event
	logger *slog.Logger
}

// NewWorker creates a worker draining inbox into sink.
func NewWorker(sink Sink, inbox <-chan naming.Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run delivers events until the context is canceled. Delivery failures are
// logged and skipped; events are observational.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Deliver(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to deliver event",
					"kind", event.Kind,
					"event_id", event.ID,
					"error", err,
				)
			}
		}
	}
}

// LogSink writes events to the structured log. It is the default sink when no
// broker is configured.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a log-backed sink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(ctx context.Context, event naming.Event) error {
	s.logger.InfoContext(ctx, "name service event",
		"kind", event.Kind,
		"event_id", event.ID,
		"owner", event.Owner,
		"from", event.From,
		"to", event.To,
	)
	return nil
}
