// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"shopcart/internal/domain/entity"
	"shopcart/internal/errors"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the unique constraint on users.email rejects an insert.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository is the credential store: lookup and insert of user records.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user. The store, not the caller, enforces email uniqueness:
	// a concurrent duplicate fails with ErrDuplicateEmail.
	Create(ctx context.Context, user *entity.User) error
}
