package middleware

import (
	"strings"

	deliverycontext "shopcart/internal/delivery/context"
	domainerrors "shopcart/internal/domain/errors"
	"shopcart/internal/errors"
	"shopcart/internal/usecase"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware resolves the caller's identity from a bearer token.
type AuthMiddleware struct {
	authUC usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUC usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUC: authUC}
}

// Authenticate lets requests without an Authorization header through
// anonymously. A header that is present must carry a valid bearer token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return next(c)
		}

		if len(authHeader) < len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			return errors.Wrap(domainerrors.ErrUnauthorized, "authorization header is not a bearer token")
		}

		token := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if token == "" {
			return errors.Wrap(domainerrors.ErrUnauthorized, "empty bearer token")
		}

		userID, err := m.authUC.Authenticate(c.Request().Context(), token)
		if err != nil {
			return err
		}

		deliverycontext.SetUserID(c, userID)

		return next(c)
	}
}

// RequireUser rejects anonymous requests. It must be used AFTER Authenticate.
func (m *AuthMiddleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := deliverycontext.GetUserID(c); !ok {
			return errors.Wrap(domainerrors.ErrUnauthorized, "authentication required")
		}

		return next(c)
	}
}
