// Package handler consumes domain events delivered as Pub/Sub push requests.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"shopcart/config"
	deliverycontext "shopcart/internal/delivery/context"
	"shopcart/internal/domain/constants"
	"shopcart/internal/domain/entity"
	"shopcart/internal/errors"
	"shopcart/internal/infra/events"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

var knownEventTypes = []entity.EventType{
	entity.EventUserRegistered,
	entity.EventCartCreated,
	entity.EventCartItemsAdded,
	entity.EventCartItemRemoved,
}

// tokenValidator checks a Google-signed OIDC token for the given audience.
type tokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// EventHandler receives pushed domain events and records them in the
// service log, one structured line per event.
type EventHandler struct {
	verifyPushAuth bool
	validateToken  tokenValidator
	logger         *slog.Logger
}

// EventHandlerParams holds dependencies for the EventHandler
type EventHandlerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewEventHandler creates a new push handler. Google push requests are
// authenticated outside local and develop environments.
func NewEventHandler(params EventHandlerParams) *EventHandler {
	verifyPushAuth := params.Config.Events != nil &&
		params.Config.Events.Provider == constants.EventProviderGoogle &&
		params.Config.Env.Env != constants.EnvLocal &&
		params.Config.Env.Env != constants.EnvDevelop

	return &EventHandler{
		verifyPushAuth: verifyPushAuth,
		validateToken:  idtoken.Validate,
		logger:         params.Logger,
	}
}

// HandlePush acknowledges an event with 200. A 400 tells the bus the message
// can never be processed.
func (h *EventHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := h.verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg events.PushMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event entity.DomainEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse domain event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	if !slices.Contains(knownEventTypes, event.Type) {
		// Newer producers may emit types this worker predates; ack so they are not redelivered.
		h.logger.Warn("[Worker] Ignoring unknown event type",
			slog.String("event_type", event.Type.String()),
			slog.String("message_id", pushMsg.Message.MessageID),
		)

		return c.NoContent(http.StatusOK)
	}

	requestID := extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	attrs := []slog.Attr{
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type.String()),
		slog.String("user_id", event.UserID.String()),
		slog.String("message_id", pushMsg.Message.MessageID),
		slog.Time("occurred_at", event.OccurredAt),
	}
	if event.CartID != nil {
		attrs = append(attrs, slog.String("cart_id", event.CartID.String()))
	}
	for key, value := range event.Attributes {
		attrs = append(attrs, slog.Any(key, value))
	}
	reqLogger.LogAttrs(ctx, slog.LevelInfo, "[Worker] Domain event received", attrs...)

	return c.NoContent(http.StatusOK)
}

// extractRequestID prefers message attributes, then the event payload, then
// the push request's own X-Request-Id, and finally generates one.
func extractRequestID(ctx context.Context, pushMsg *events.PushMessage, event *entity.DomainEvent) string {
	if requestID := pushMsg.Message.Attributes["request_id"]; requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.NewString()
}

// verifyPubSubToken checks the OIDC token Google attaches to authenticated
// push requests. The audience is the push endpoint URL.
func (h *EventHandler) verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}
	audience := scheme + "://" + req.Host + req.URL.Path

	payload, err := h.validateToken(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
