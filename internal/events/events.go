package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TopicOrders   = "order_events"
	TopicProducts = "product_events"
)

const (
	OrderCreated       = "order_created"
	OrderStatusChanged = "order_status_changed"
	OrderDeleted       = "order_deleted"
	ProductCreated     = "product_created"
	ProductUpdated     = "product_updated"
	ProductDeleted     = "product_deleted"
)

// Envelope wraps every published event.
type Envelope struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func NewEnvelope(eventType string, payload any) Envelope {
	return Envelope{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher emits lifecycle events. Publishing is best-effort: callers log
// failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, event Envelope) error
	Close() error
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, Envelope) error { return nil }
func (Nop) Close() error                                            { return nil }
