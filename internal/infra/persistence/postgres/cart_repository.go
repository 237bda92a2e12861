package postgres

import (
	"context"

	"shopcart/internal/domain/entity"
	domainerrors "shopcart/internal/domain/errors"
	"shopcart/internal/domain/repository"
	"shopcart/internal/errors"
	"shopcart/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// insertion order of items within a cart
const itemOrder = "created_at ASC, id ASC"

// cartRepository implements the domain.CartRepository interface using GORM.
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository returns a CartRepository backed by db, which may be a transaction.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

// EnsureCart issues INSERT ... ON CONFLICT (user_id) DO NOTHING and then
// reads the surviving row from the primary. A racing insert for the same
// user blocks on the unique index until the winner commits, so every caller
// reads the same cart.
func (repo *cartRepository) EnsureCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, bool, error) {
	candidate := &model.CartModel{UserID: userID}

	result := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(candidate)
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return nil, false, repository.ErrUserNotFound
		}

		return nil, false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to ensure cart")
	}
	created := result.RowsAffected == 1

	cart, err := repo.findCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			// The conflicting row vanished between the insert and the read.
			return nil, false, domainerrors.NewDatabaseExecuteError(err, "cart disappeared after upsert")
		}

		return nil, false, err
	}

	return cart, created, nil
}

// FindCartByUserID returns the user's cart or ErrCartNotFound.
func (repo *cartRepository) FindCartByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	return repo.findCart(ctx, userID)
}

func (repo *cartRepository) findCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	var cartM model.CartModel
	err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("user_id = ?", userID).
		Take(&cartM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find cart")
	}

	return toCartDomain(&cartM), nil
}

// AddItems inserts all items in one statement.
func (repo *cartRepository) AddItems(ctx context.Context, cartID uuid.UUID, items []*entity.CartItem) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]*model.CartItemModel, 0, len(items))
	for _, item := range items {
		item.CartID = cartID
		models = append(models, fromCartItemDomain(item))
	}

	if err := repo.db.WithContext(ctx).Create(&models).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrCartNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add cart items")
	}

	for i, m := range models {
		items[i].ID = m.ID
		items[i].CreatedAt = m.CreatedAt
	}

	return nil
}

// ListItems returns the cart's items in insertion order.
func (repo *cartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]*entity.CartItem, error) {
	var itemMs []*model.CartItemModel
	err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("cart_id = ?", cartID).
		Order(itemOrder).
		Find(&itemMs).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list cart items")
	}

	items := make([]*entity.CartItem, 0, len(itemMs))
	for _, m := range itemMs {
		items = append(items, toCartItemDomain(m))
	}

	return items, nil
}

// FindFirstItemByProductID picks the earliest-inserted line for the product.
func (repo *cartRepository) FindFirstItemByProductID(ctx context.Context, cartID uuid.UUID, productID string) (*entity.CartItem, error) {
	var itemM model.CartItemModel
	err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Order(itemOrder).
		Take(&itemM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrItemNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find cart item")
	}

	return toCartItemDomain(&itemM), nil
}

// DeleteItem removes exactly the item with itemID. A concurrent remove that
// already took it leaves zero rows affected, reported as ErrItemNotFound.
func (repo *cartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&model.CartItemModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete cart item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrItemNotFound
	}

	return nil
}

func toCartDomain(data *model.CartModel) *entity.Cart {
	if data == nil {
		return nil
	}

	return &entity.Cart{
		ID:        data.ID,
		UserID:    data.UserID,
		CreatedAt: data.CreatedAt,
	}
}

func toCartItemDomain(data *model.CartItemModel) *entity.CartItem {
	if data == nil {
		return nil
	}

	return &entity.CartItem{
		ID:        data.ID,
		CartID:    data.CartID,
		ProductID: data.ProductID,
		ImgSrc:    data.ImgSrc,
		Title:     data.Title,
		Price:     data.Price,
		Quantity:  data.Quantity,
		CreatedAt: data.CreatedAt,
	}
}

func fromCartItemDomain(data *entity.CartItem) *model.CartItemModel {
	if data == nil {
		return nil
	}

	return &model.CartItemModel{
		ID:        data.ID,
		CartID:    data.CartID,
		ProductID: data.ProductID,
		ImgSrc:    data.ImgSrc,
		Title:     data.Title,
		Price:     data.Price,
		Quantity:  data.Quantity,
		CreatedAt: data.CreatedAt,
	}
}
