// Package worker runs notification delivery off the request path.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/daisyverse/backend/internal/notify"
)

// Dispatcher queues rendered emails and delivers them asynchronously with a
// bounded retry policy. Enqueue never blocks: when the queue is full the
// message is dropped and logged, because notification delivery must not
// slow down or fail order processing.
type Dispatcher struct {
	sender  notify.Sender
	queue   chan notify.Message
	retries int
	backoff time.Duration
}

func NewDispatcher(sender notify.Sender, queueSize, retries int, backoff time.Duration) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	if retries < 0 {
		retries = 0
	}
	return &Dispatcher{
		sender:  sender,
		queue:   make(chan notify.Message, queueSize),
		retries: retries,
		backoff: backoff,
	}
}

// Enqueue hands a message to the worker. Returns false when the queue is
// full and the message was dropped.
func (d *Dispatcher) Enqueue(msg notify.Message) bool {
	select {
	case d.queue <- msg:
		return true
	default:
		slog.Error("notification queue full, dropping message",
			"message_id", msg.ID, "to", msg.To, "subject", msg.Subject)
		return false
	}
}

// Run consumes the queue until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	slog.Info("notification worker started")

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-d.queue:
			d.deliver(ctx, msg)
		}
	}
}

// deliver attempts delivery with backoff between attempts. Exhausted
// retries are logged and the message is abandoned.
func (d *Dispatcher) deliver(ctx context.Context, msg notify.Message) {
	var err error
	for attempt := 0; attempt <= d.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(d.backoff * time.Duration(attempt)):
			}
		}

		if err = d.sender.Send(ctx, msg); err == nil {
			slog.Info("notification delivered", "message_id", msg.ID, "to", msg.To)
			return
		}
		slog.Warn("notification delivery failed",
			"message_id", msg.ID, "to", msg.To, "attempt", attempt+1, "error", err)
	}

	slog.Error("notification abandoned after retries",
		"message_id", msg.ID, "to", msg.To, "error", err)
}
