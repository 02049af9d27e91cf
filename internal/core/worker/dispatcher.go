package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ibrahimkeyboad/goledger/internal/core/notifications"
)

const (
	DefaultQueueSize   = 256
	DefaultMaxAttempts = 5
)

// Sender delivers a single event.
type Sender interface {
	Send(ctx context.Context, event notifications.Event) error
}

// Dispatcher delivers webhook events in the background, one at a time.
// Publishing never blocks the caller: a full queue drops the event.
type Dispatcher struct {
	sender Sender
	queue  chan notifications.Event
	log    *zap.Logger
	done   chan struct{}

	MaxAttempts int
	// RetryDelay is the wait after the given failed attempt (1-based).
	RetryDelay func(attempt int) time.Duration
}

func NewDispatcher(sender Sender, queueSize int, log *zap.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Dispatcher{
		sender:      sender,
		queue:       make(chan notifications.Event, queueSize),
		log:         log,
		done:        make(chan struct{}),
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  defaultRetryDelay,
	}
}

// 20s, 30s, 40s, ...
func defaultRetryDelay(attempt int) time.Duration {
	return time.Duration(attempt*10+10) * time.Second
}

// Publish queues the event and reports whether it was accepted.
func (d *Dispatcher) Publish(event notifications.Event) bool {
	select {
	case d.queue <- event:
		return true
	default:
		d.log.Warn("webhook queue full, dropping event",
			zap.String("event", event.Event),
			zap.String("transaction_id", event.Data.ID.String()),
		)
		return false
	}
}

// Start runs the delivery loop until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		defer close(d.done)
		d.log.Info("webhook worker started")

		for {
			select {
			case <-ctx.Done():
				d.log.Info("webhook worker stopped", zap.Int("pending", len(d.queue)))
				return
			case event := <-d.queue:
				d.deliver(ctx, event)
			}
		}
	}()
}

// Done is closed once the loop started by Start has returned.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) deliver(ctx context.Context, event notifications.Event) {
	txID := event.Data.ID.String()

	for attempt := 1; attempt <= d.MaxAttempts; attempt++ {
		err := d.sender.Send(ctx, event)
		if err == nil {
			d.log.Info("webhook delivered", zap.String("transaction_id", txID), zap.Int("attempt", attempt))
			return
		}

		d.log.Warn("webhook delivery failed",
			zap.Error(err),
			zap.String("transaction_id", txID),
			zap.Int("attempt", attempt),
		)
		if attempt == d.MaxAttempts {
			break
		}

		wait := d.RetryDelay(attempt)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}

	d.log.Error("webhook abandoned, max attempts reached",
		zap.String("transaction_id", txID),
		zap.Int("attempts", d.MaxAttempts),
	)
}
