package entity

import (
	"time"

	"github.com/google/uuid"
)

// Cart is a user's collection of pending purchase lines.
// A user has at most one cart; it is created lazily on the first mutation.
type Cart struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartItem is one product line inside a cart.
// Price is kept as the decimal string the client sent so it round-trips exactly.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	CartID    uuid.UUID `json:"cartId"`
	ProductID string    `json:"productId"`
	ImgSrc    string    `json:"imgSrc"`
	Title     string    `json:"title"`
	Price     string    `json:"price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

// Upper bounds on item text, in characters. They match the cart_items column widths.
const (
	MaxProductIDLength = 255
	MaxTitleLength     = 255
	MaxPriceLength     = 32
)

// NewCartItem is the caller-supplied part of a cart item, before it belongs to a cart.
// Price and Quantity hold the numeric text as sent; the cart usecase parses them.
type NewCartItem struct {
	ProductID string
	ImgSrc    string
	Title     string
	Price     string
	Quantity  string
}
