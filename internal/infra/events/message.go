// Package events publishes domain events to the configured message bus.
package events

import (
	"encoding/json"

	"shopcart/internal/domain/entity"
	"shopcart/internal/errors"
)

// encode serialises an event and derives the attributes every transport
// attaches for routing and tracing.
func encode(event *entity.DomainEvent) ([]byte, map[string]string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, nil, errors.Wrap(err, "marshal domain event")
	}

	attributes := map[string]string{
		"event_id":   event.ID.String(),
		"event_type": event.Type.String(),
		"user_id":    event.UserID.String(),
	}
	if event.CartID != nil {
		attributes["cart_id"] = event.CartID.String()
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return data, attributes, nil
}

// orderingKey keeps one user's events in order on partitioned transports.
func orderingKey(event *entity.DomainEvent) string {
	return event.UserID.String()
}
