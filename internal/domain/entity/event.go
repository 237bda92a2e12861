package entity

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a domain event emitted after a committed state change.
type EventType string

const (
	EventUserRegistered  EventType = "user.registered"
	EventCartCreated     EventType = "cart.created"
	EventCartItemsAdded  EventType = "cart.items_added"
	EventCartItemRemoved EventType = "cart.item_removed"
)

// String returns the string representation of the EventType.
func (t EventType) String() string {
	return string(t)
}

// DomainEvent is the payload published to the event bus.
type DomainEvent struct {
	ID         uuid.UUID      `json:"id"`
	Type       EventType      `json:"type"`
	UserID     uuid.UUID      `json:"user_id"`
	CartID     *uuid.UUID     `json:"cart_id,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewDomainEvent stamps a new event with a fresh ID and the current time.
func NewDomainEvent(eventType EventType, userID uuid.UUID) *DomainEvent {
	return &DomainEvent{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}

// WithCart sets the cart the event refers to.
func (e *DomainEvent) WithCart(cartID uuid.UUID) *DomainEvent {
	e.CartID = &cartID

	return e
}

// WithAttribute attaches an extra key/value to the event.
func (e *DomainEvent) WithAttribute(key string, value any) *DomainEvent {
	if e.Attributes == nil {
		e.Attributes = make(map[string]any)
	}
	e.Attributes[key] = value

	return e
}
