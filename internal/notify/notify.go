// Package notify renders and delivers order emails. Delivery failures are
// never fatal to order processing; the worker package retries them off the
// request path.
package notify

import (
	"context"

	"github.com/google/uuid"
)

// Message is a rendered email ready for delivery.
type Message struct {
	ID      uuid.UUID
	To      string
	Subject string
	HTML    string
}

// Sender delivers a single message. Implementations must honor ctx
// cancellation and return an error on failed delivery.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Discard drops messages. Used when no mail credentials are configured.
type Discard struct{}

func (Discard) Send(ctx context.Context, msg Message) error { return nil }
