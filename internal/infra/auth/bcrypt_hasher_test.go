package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"shopcart/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T, workers int) *bcryptHasher {
	t.Helper()

	hasher, err := newBcryptHasher(bcrypt.MinCost, workers)
	require.NoError(t, err)

	return hasher
}

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := newTestHasher(t, 2)
	ctx := context.Background()

	password := "StrongPass123!"
	hash, err := hasher.Hash(ctx, password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Same input, different salt
	again, err := hasher.Hash(ctx, password)
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := newTestHasher(t, 2)
	ctx := context.Background()
	password := "StrongPass123!"

	hash, err := hasher.Hash(ctx, password)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{name: "correct password", password: password, hash: hash, want: true},
		{name: "wrong password", password: "WrongPassword123!", hash: hash, want: false},
		{name: "empty password", password: "", hash: hash, want: false},
		{name: "malformed hash", password: password, hash: "invalid_hash", want: false},
		{name: "empty hash", password: password, hash: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := hasher.Check(ctx, tt.password, tt.hash)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestBcryptHasher_ContextCancelled(t *testing.T) {
	hasher := newTestHasher(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hasher.Hash(ctx, "StrongPass123!")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = hasher.Check(ctx, "StrongPass123!", "irrelevant")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBcryptHasher_WaitsForWorker(t *testing.T) {
	hasher := newTestHasher(t, 1)

	// Occupy the only slot.
	require.NoError(t, hasher.workers.Acquire(context.Background(), 1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := hasher.Hash(ctx, "StrongPass123!")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	hasher.workers.Release(1)

	_, err = hasher.Hash(context.Background(), "StrongPass123!")
	assert.NoError(t, err)
}

func TestBcryptHasher_ConcurrentUse(t *testing.T) {
	hasher := newTestHasher(t, 2)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hash, err := hasher.Hash(ctx, "StrongPass123!")
			assert.NoError(t, err)
			ok, err := hasher.Check(ctx, "StrongPass123!", hash)
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}

func TestNewBcryptHasher(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 10, HashWorkers: 3}}
	hasher, err := NewBcryptHasher(cfg)
	require.NoError(t, err)
	assert.NotNil(t, hasher)

	_, err = NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: 99}})
	assert.Error(t, err)

	_, err = newBcryptHasher(bcrypt.MinCost-1, 1)
	assert.Error(t, err)
}
