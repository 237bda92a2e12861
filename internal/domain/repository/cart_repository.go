package repository

import (
	"context"

	"shopcart/internal/domain/entity"
	"shopcart/internal/errors"

	"github.com/google/uuid"
)

var (
	// ErrCartNotFound is returned when the user has no cart yet.
	ErrCartNotFound = errors.New("cart not found")
	// ErrItemNotFound is returned when no cart item matches the lookup.
	ErrItemNotFound = errors.New("cart item not found")
)

// CartRepository persists carts and their items.
type CartRepository interface {
	// EnsureCart returns the user's cart, creating it if needed. It must be a single
	// conflict-tolerant insert followed by a read of the surviving row, so any number of
	// concurrent callers for the same user observe the same cart. created reports whether
	// this call inserted the row.
	EnsureCart(ctx context.Context, userID uuid.UUID) (cart *entity.Cart, created bool, err error)

	// FindCartByUserID returns the user's cart or ErrCartNotFound.
	FindCartByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// AddItems bulk-inserts items into the cart. IDs and timestamps are filled in on return.
	AddItems(ctx context.Context, cartID uuid.UUID, items []*entity.CartItem) error

	// ListItems returns the cart's items in insertion order.
	ListItems(ctx context.Context, cartID uuid.UUID) ([]*entity.CartItem, error)

	// FindFirstItemByProductID returns the earliest-inserted item with the product ID,
	// or ErrItemNotFound.
	FindFirstItemByProductID(ctx context.Context, cartID uuid.UUID, productID string) (*entity.CartItem, error)

	// DeleteItem removes one item. It returns ErrItemNotFound when nothing was deleted.
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
}
