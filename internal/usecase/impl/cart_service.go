package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"shopcart/config"
	deliverycontext "shopcart/internal/delivery/context"
	"shopcart/internal/domain/entity"
	domainerrors "shopcart/internal/domain/errors"
	"shopcart/internal/domain/repository"
	"shopcart/internal/domain/service"
	"shopcart/internal/errors"
	"shopcart/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const defaultMaxItemsPerBatch = 100

// cartService implements the CartUsecase interface.
type cartService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	cartRepo         repository.CartRepository
	events           *eventEmitter
	maxItemsPerBatch int
	timeout          time.Duration
	logger           *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	CartRepo       repository.CartRepository
	EventPublisher service.EventPublisher `optional:"true"`
	Config         *config.Config
	Logger         *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	maxItems := defaultMaxItemsPerBatch
	if params.Config != nil && params.Config.Cart != nil && params.Config.Cart.MaxItemsPerBatch > 0 {
		maxItems = params.Config.Cart.MaxItemsPerBatch
	}

	return &cartService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		cartRepo:         params.CartRepo,
		events:           newEventEmitter(params.EventPublisher, params.Config, params.Logger),
		maxItemsPerBatch: maxItems,
		timeout:          operationTimeout(params.Config),
		logger:           params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// EnsureCart returns the user's cart ID, creating the cart if needed.
func (srv *cartService) EnsureCart(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	ctx, cancel := withDeadline(ctx, srv.timeout)
	defer cancel()

	var (
		cart    *entity.Cart
		created bool
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		cart, created, err = srv.ensureCart(ctx, repoFactory, userID)

		return err
	})
	if err != nil {
		return uuid.Nil, translateDeadline(err)
	}

	if created {
		srv.cartCreated(ctx, cart)
	}

	return cart.ID, nil
}

// ensureCart checks the user and performs the conflict-tolerant insert within the caller's transaction.
func (srv *cartService) ensureCart(ctx context.Context, repoFactory repository.RepositoryFactory, userID uuid.UUID) (*entity.Cart, bool, error) {
	if _, err := repoFactory.UserRepo().FindByID(ctx, userID); err != nil {
		return nil, false, mapUserLookupError(err)
	}

	cart, created, err := repoFactory.CartRepo().EnsureCart(ctx, userID)
	if err != nil {
		return nil, false, mapUserLookupError(err)
	}

	return cart, created, nil
}

// AddItems rejects the batch if any item is invalid, then creates the cart
// if needed and inserts every item in one transaction.
func (srv *cartService) AddItems(ctx context.Context, input *usecase.AddItemsInput) (*usecase.AddItemsOutput, error) {
	if input == nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidItem, "missing input")
	}
	items, err := srv.validateItems(input.Items)
	if err != nil {
		srv.log(ctx).Info("Rejected cart batch", slog.String("userID", input.UserID.String()), slog.Any("error", err))

		return nil, err
	}

	ctx, cancel := withDeadline(ctx, srv.timeout)
	defer cancel()

	var (
		cart    *entity.Cart
		created bool
	)
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		cart, created, err = srv.ensureCart(ctx, repoFactory, input.UserID)
		if err != nil {
			return err
		}

		if err := repoFactory.CartRepo().AddItems(ctx, cart.ID, items); err != nil {
			return errors.Wrap(err, "failed to insert cart items")
		}

		return nil
	})
	if err != nil {
		return nil, translateDeadline(err)
	}

	if created {
		srv.cartCreated(ctx, cart)
	}
	srv.log(ctx).Info("Items added to cart",
		slog.String("userID", input.UserID.String()),
		slog.String("cartID", cart.ID.String()),
		slog.Int("added", len(items)),
	)
	srv.events.emit(ctx, entity.NewDomainEvent(entity.EventCartItemsAdded, input.UserID).
		WithCart(cart.ID).
		WithAttribute("added", len(items)))

	return &usecase.AddItemsOutput{CartID: cart.ID, Added: len(items)}, nil
}

// RemoveItem deletes the earliest-added line with the product ID.
func (srv *cartService) RemoveItem(ctx context.Context, input *usecase.RemoveItemInput) (*usecase.RemoveItemOutput, error) {
	if input == nil || strings.TrimSpace(input.ProductID) == "" {
		return nil, errors.WithStack(domainerrors.ErrMissingProductID)
	}
	productID := strings.TrimSpace(input.ProductID)

	ctx, cancel := withDeadline(ctx, srv.timeout)
	defer cancel()

	var cartID uuid.UUID
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		cart, err := cartRepo.FindCartByUserID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				return errors.Wrap(domainerrors.ErrCartNotFound, "user has no cart")
			}

			return errors.Wrap(err, "failed to find cart")
		}
		cartID = cart.ID

		item, err := cartRepo.FindFirstItemByProductID(ctx, cart.ID, productID)
		if err != nil {
			return mapItemError(err)
		}

		// A concurrent remove may take the same row first; then nothing is deleted.
		if err := cartRepo.DeleteItem(ctx, cart.ID, item.ID); err != nil {
			return mapItemError(err)
		}

		return nil
	})
	if err != nil {
		return nil, translateDeadline(err)
	}

	srv.events.emit(ctx, entity.NewDomainEvent(entity.EventCartItemRemoved, input.UserID).
		WithCart(cartID).
		WithAttribute("productId", productID))

	return &usecase.RemoveItemOutput{CartID: cartID}, nil
}

// GetCart reads the cart and its items. It never creates a cart.
func (srv *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error) {
	ctx, cancel := withDeadline(ctx, srv.timeout)
	defer cancel()

	view, err := srv.getCart(ctx, userID)

	return view, translateDeadline(err)
}

func (srv *cartService) getCart(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error) {
	if _, err := srv.userRepo.FindByID(ctx, userID); err != nil {
		return nil, mapUserLookupError(err)
	}

	cart, err := srv.cartRepo.FindCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return &usecase.CartView{Items: []*entity.CartItem{}}, nil
		}

		return nil, errors.Wrap(err, "failed to find cart")
	}

	items, err := srv.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cart items")
	}
	if items == nil {
		items = []*entity.CartItem{}
	}

	return &usecase.CartView{Cart: cart, Items: items}, nil
}

func (srv *cartService) cartCreated(ctx context.Context, cart *entity.Cart) {
	srv.log(ctx).Info("Cart created", slog.String("userID", cart.UserID.String()), slog.String("cartID", cart.ID.String()))
	srv.events.emit(ctx, entity.NewDomainEvent(entity.EventCartCreated, cart.UserID).WithCart(cart.ID))
}

// validateItems checks every item so the caller sees all problems at once,
// and returns the normalized items when there are none.
func (srv *cartService) validateItems(items []entity.NewCartItem) ([]*entity.CartItem, error) {
	if len(items) == 0 {
		return nil, domainerrors.ErrInvalidItem.WithDetails([]usecase.ItemViolation{{Index: -1, Field: "items", Reason: "at least one item is required"}})
	}
	if len(items) > srv.maxItemsPerBatch {
		return nil, domainerrors.ErrInvalidItem.WithDetails([]usecase.ItemViolation{{Index: -1, Field: "items", Reason: "too many items in one request"}})
	}

	var violations []usecase.ItemViolation
	valid := make([]*entity.CartItem, 0, len(items))
	for i, item := range items {
		productID := strings.TrimSpace(item.ProductID)
		price := strings.TrimSpace(item.Price)

		switch {
		case productID == "":
			violations = append(violations, usecase.ItemViolation{Index: i, Field: "productId", Reason: "must not be empty"})
		case utf8.RuneCountInString(productID) > entity.MaxProductIDLength:
			violations = append(violations, usecase.ItemViolation{Index: i, Field: "productId", Reason: tooLong(entity.MaxProductIDLength)})
		}
		if utf8.RuneCountInString(item.Title) > entity.MaxTitleLength {
			violations = append(violations, usecase.ItemViolation{Index: i, Field: "title", Reason: tooLong(entity.MaxTitleLength)})
		}
		quantity, reason := parseQuantity(item.Quantity)
		if reason != "" {
			violations = append(violations, usecase.ItemViolation{Index: i, Field: "quantity", Reason: reason})
		}
		if reason := checkPrice(price); reason != "" {
			violations = append(violations, usecase.ItemViolation{Index: i, Field: "price", Reason: reason})
		}

		valid = append(valid, &entity.CartItem{
			ProductID: productID,
			ImgSrc:    item.ImgSrc,
			Title:     item.Title,
			Price:     price,
			Quantity:  quantity,
		})
	}

	if len(violations) > 0 {
		return nil, domainerrors.ErrInvalidItem.WithDetails(violations)
	}

	return valid, nil
}

// parseQuantity accepts integral numeric text ("2", "2.0") between 1 and math.MaxInt32.
func parseQuantity(raw string) (int, string) {
	quantity, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !quantity.IsInteger() || !quantity.IsPositive() {
		return 0, "must be a positive integer"
	}
	if quantity.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, fmt.Sprintf("must be at most %d", math.MaxInt32)
	}

	return int(quantity.IntPart()), ""
}

func checkPrice(price string) string {
	if utf8.RuneCountInString(price) > entity.MaxPriceLength {
		return tooLong(entity.MaxPriceLength)
	}

	value, err := decimal.NewFromString(price)
	if err != nil {
		return "must be a numeric string"
	}
	if value.IsNegative() {
		return "must not be negative"
	}

	return ""
}

func tooLong(limit int) string {
	return fmt.Sprintf("must be at most %d characters", limit)
}

func mapUserLookupError(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(domainerrors.ErrUserNotFound, "user does not exist")
	}

	return errors.Wrap(err, "failed to resolve user")
}

func mapItemError(err error) error {
	if errors.Is(err, repository.ErrItemNotFound) {
		return errors.Wrap(domainerrors.ErrItemNotFound, "no such product in cart")
	}

	return errors.Wrap(err, "failed to remove cart item")
}
