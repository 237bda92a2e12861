package service

import (
	"shopcart/internal/errors"

	"github.com/google/uuid"
)

// Token verification failures. Callers see one unauthorized outcome for all of
// them; the distinction exists for server-side logs.
var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrTokenMalformed   = errors.New("token malformed")
)

// TokenService issues and verifies signed, self-contained identity tokens.
type TokenService interface {
	// Issue creates a token whose subject is userID, valid for the configured lifetime.
	Issue(userID uuid.UUID) (string, error)

	// Verify checks signature and expiry and returns the embedded user ID.
	Verify(token string) (uuid.UUID, error)
}
