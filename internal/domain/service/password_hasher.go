// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "context"

// PasswordHasher defines the interface for password hashing and verification.
// Both calls are CPU-bound and may queue for a worker; they give up when ctx is done.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(ctx context.Context, password string) (string, error)

	// Check compares a plaintext password with a hash. A wrong password or a
	// malformed hash yields false with a nil error; an error means the check
	// itself could not run (cancellation, timeout).
	Check(ctx context.Context, password, hash string) (bool, error)
}
