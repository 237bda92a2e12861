package usecase

import (
	"context"

	"shopcart/internal/domain/entity"

	"github.com/google/uuid"
)

// AddItemsInput is a batch of items for the caller's cart.
type AddItemsInput struct {
	UserID uuid.UUID
	Items  []entity.NewCartItem
}

// AddItemsOutput reports where the items went and how many were stored.
type AddItemsOutput struct {
	CartID uuid.UUID
	Added  int
}

// RemoveItemInput names the product line to remove from the caller's cart.
type RemoveItemInput struct {
	UserID    uuid.UUID
	ProductID string
}

// RemoveItemOutput identifies the cart the item was removed from.
type RemoveItemOutput struct {
	CartID uuid.UUID
}

// CartView is the read projection of a user's cart. Cart is nil when the
// user has never mutated their cart; Items is never nil.
type CartView struct {
	Cart  *entity.Cart
	Items []*entity.CartItem
}

// ItemViolation locates one invalid field in an AddItems batch.
type ItemViolation struct {
	Index  int    `json:"index"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// CartUsecase keeps each user at one cart and mutates its items.
type CartUsecase interface {
	// EnsureCart returns the user's cart ID, creating the cart on first use.
	EnsureCart(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)

	// AddItems validates the whole batch and inserts all of it or none of it.
	AddItems(ctx context.Context, input *AddItemsInput) (*AddItemsOutput, error)

	// RemoveItem deletes the earliest-added line for the product.
	RemoveItem(ctx context.Context, input *RemoveItemInput) (*RemoveItemOutput, error)

	// GetCart never creates a cart.
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
}
