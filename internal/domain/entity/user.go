// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can log in and own a cart.
type User struct {
	ID           uuid.UUID // Global unique identifier, assigned by the store on creation.
	UserName     string    // Display name chosen at registration.
	Email        string    // Login identifier. Unique and compared case-sensitively as stored.
	PasswordHash string    // bcrypt digest of the user's password.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
