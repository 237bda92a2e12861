// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"github.com/google/uuid"
)

// RegisteredMessage is the acknowledgement returned by a successful registration.
const RegisteredMessage = "registered"

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Email    string
	Password string
	UserName string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// RegisterOutput acknowledges a registration. No token is issued at this point.
type RegisterOutput struct {
	Msg string
}

// LoginOutput carries the session token issued after a successful login.
type LoginOutput struct {
	UserID   uuid.UUID
	UserName string
	Token    string
}

// AuthUsecase defines registration, login and token authentication.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Authenticate resolves a bearer token to the user it was issued for.
	// Every failure is ErrUnauthorized to the caller.
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}
