// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"shopcart/config"
	deliverycontext "shopcart/internal/delivery/context"
	"shopcart/internal/domain/entity"
	domainerrors "shopcart/internal/domain/errors"
	"shopcart/internal/domain/service"
	"shopcart/internal/errors"
)

const (
	defaultOperationTimeout    = 5 * time.Second
	defaultEventPublishTimeout = 2 * time.Second
)

func operationTimeout(cfg *config.Config) time.Duration {
	if cfg != nil && cfg.HTTP.Timeouts.OperationTimeout > 0 {
		return cfg.HTTP.Timeouts.OperationTimeout
	}

	return defaultOperationTimeout
}

// withDeadline bounds one usecase call, hashing and store round-trips included.
func withDeadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// translateDeadline turns an expired operation deadline into ErrOperationTimeout,
// whichever layer noticed it first.
func translateDeadline(err error) error {
	if err == nil || !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return errors.Wrap(domainerrors.ErrOperationTimeout, err.Error())
}

func isContextError(err error) bool {
	return errors.IsAny(err, context.DeadlineExceeded, context.Canceled)
}

// eventEmitter publishes domain events after commit. Publishing is best
// effort: a failure is logged and never changes the operation's outcome.
type eventEmitter struct {
	publisher service.EventPublisher
	timeout   time.Duration
	logger    *slog.Logger
}

func newEventEmitter(publisher service.EventPublisher, cfg *config.Config, logger *slog.Logger) *eventEmitter {
	timeout := defaultEventPublishTimeout
	if cfg != nil && cfg.Events != nil && cfg.Events.PublishTimeout > 0 {
		timeout = cfg.Events.PublishTimeout
	}

	return &eventEmitter{publisher: publisher, timeout: timeout, logger: logger}
}

func (e *eventEmitter) emit(ctx context.Context, event *entity.DomainEvent) {
	if e == nil || e.publisher == nil {
		return
	}

	event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)

	// The operation already committed; its deadline no longer applies.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	if err := e.publisher.Publish(pubCtx, event); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, e.logger).Warn("Failed to publish domain event",
			slog.String("event_type", event.Type.String()),
			slog.String("event_id", event.ID.String()),
			slog.Any("error", err),
		)
	}
}
