package service

import (
	"context"

	"shopcart/internal/domain/entity"
)

// EventPublisher defines the interface for publishing domain events to a message bus
type EventPublisher interface {
	// Publish sends one event. Implementations block until the bus acknowledges it or ctx ends.
	Publish(ctx context.Context, event *entity.DomainEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
