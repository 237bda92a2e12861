package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartModel mirrors the 'carts' table. The unique index on user_id is what
// keeps a user at one cart when requests race.
type CartModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_carts_user_id"`
	User      *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CartModel) TableName() string {
	return "carts"
}

func (m *CartModel) BeforeCreate(_ *gorm.DB) error {
	return assignID(&m.ID)
}

// CartItemModel mirrors the 'cart_items' table. Rows for the same product are
// separate lines; (created_at, id) orders them by insertion.
type CartItemModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CartID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_cart_items_cart_product,priority:1"`
	Cart      *CartModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	ProductID string     `gorm:"type:varchar(255);not null;index:idx_cart_items_cart_product,priority:2"`
	ImgSrc    string     `gorm:"type:text"`
	Title     string     `gorm:"type:varchar(255)"`
	Price     string     `gorm:"type:varchar(32);not null"`
	Quantity  int        `gorm:"not null;check:chk_cart_items_quantity,quantity > 0"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CartItemModel) TableName() string {
	return "cart_items"
}

func (m *CartItemModel) BeforeCreate(_ *gorm.DB) error {
	return assignID(&m.ID)
}

// All lists every model in dependency order for schema bootstrap.
func All() []any {
	return []any{&UserModel{}, &CartModel{}, &CartItemModel{}}
}
