// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"
	"runtime"

	"shopcart/config"
	"shopcart/internal/domain/service"
	"shopcart/internal/errors"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
// A weighted semaphore bounds how many hashes run at once so that a burst of
// logins cannot starve request handling of CPU.
type bcryptHasher struct {
	cost    int
	workers *semaphore.Weighted
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) (service.PasswordHasher, error) {
	cost := bcrypt.DefaultCost
	workers := 0
	if cfg.Auth != nil {
		cost = cfg.Auth.BcryptCost
		workers = cfg.Auth.HashWorkers
	}

	return newBcryptHasher(cost, workers)
}

func newBcryptHasher(cost, workers int) (*bcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &bcryptHasher{
		cost:    cost,
		workers: semaphore.NewWeighted(int64(workers)),
	}, nil
}

type hashResult struct {
	hash []byte
	err  error
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.workers.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, "waiting for hash worker")
	}

	done := make(chan hashResult, 1)
	go func() {
		defer h.workers.Release(1)
		hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		done <- hashResult{hash: hash, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "hashing password")
	case res := <-done:
		if res.err != nil {
			return "", errors.Wrap(res.err, "bcrypt.GenerateFromPassword")
		}

		return string(res.hash), nil
	}
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(ctx context.Context, password, hash string) (bool, error) {
	if err := h.workers.Acquire(ctx, 1); err != nil {
		return false, errors.Wrap(err, "waiting for hash worker")
	}

	done := make(chan bool, 1)
	go func() {
		defer h.workers.Release(1)
		// err is nil if the password and hash match; a malformed hash is a mismatch.
		done <- bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}()

	select {
	case <-ctx.Done():
		return false, errors.Wrap(ctx.Err(), "checking password")
	case ok := <-done:
		return ok, nil
	}
}
