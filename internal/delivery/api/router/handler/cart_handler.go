package handler

import (
	"log/slog"
	"net/http"

	"shopcart/internal/delivery/api/response"
	deliverycontext "shopcart/internal/delivery/context"
	"shopcart/internal/domain/entity"
	domainerrors "shopcart/internal/domain/errors"
	"shopcart/internal/errors"
	"shopcart/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CartHandlerParams holds dependencies for CartHandler, injected by Fx.
type CartHandlerParams struct {
	fx.In

	CartUC usecase.CartUsecase
	Logger *slog.Logger
}

// CartHandler serves the caller's own cart.
type CartHandler struct {
	cartUC usecase.CartUsecase
	logger *slog.Logger
}

// NewCartHandler is the constructor for CartHandler.
func NewCartHandler(params CartHandlerParams) *CartHandler {
	return &CartHandler{
		cartUC: params.CartUC,
		logger: params.Logger,
	}
}

// CartItemRequest is one line of an add-items request. Item rules are
// checked by the cart usecase so every violation is reported by index.
type CartItemRequest struct {
	ProductID string   `json:"productId"`
	ImgSrc    string   `json:"imgSrc"`
	Title     string   `json:"title"`
	Price     Price    `json:"price"`
	Quantity  Quantity `json:"quantity"`
}

// AddItemsRequest is the body of POST /api/v1/cart/items.
type AddItemsRequest struct {
	// UserID is optional; when present it must be the caller.
	UserID *uuid.UUID        `json:"userId"`
	Items  []CartItemRequest `json:"items"`
}

// CartResponse is the body of GET /api/v1/cart. Cart is null until the
// first item is added.
type CartResponse struct {
	Cart  *entity.Cart       `json:"cart"`
	Items []*entity.CartItem `json:"items"`
}

// AddItemsResponse reports where the items went.
type AddItemsResponse struct {
	CartID uuid.UUID `json:"cartId"`
	Added  int       `json:"added"`
}

// RemoveItemResponse identifies the cart the item was removed from.
type RemoveItemResponse struct {
	CartID uuid.UUID `json:"cartId"`
}

// GetCart returns the caller's cart and its items.
func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	view, err := h.cartUC.GetCart(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, CartResponse{Cart: view.Cart, Items: view.Items})
}

// AddItems appends a batch of items to the caller's cart, creating it if needed.
func (h *CartHandler) AddItems(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req AddItemsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid cart items input")
	}

	if req.UserID != nil && *req.UserID != userID {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).Warn("Cart write for another user rejected",
			slog.String("caller", userID.String()),
			slog.String("target", req.UserID.String()),
		)

		return errors.Wrap(domainerrors.ErrForbidden, "userId does not match the token")
	}

	items := make([]entity.NewCartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, entity.NewCartItem{
			ProductID: item.ProductID,
			ImgSrc:    item.ImgSrc,
			Title:     item.Title,
			Price:     string(item.Price),
			Quantity:  string(item.Quantity),
		})
	}

	output, err := h.cartUC.AddItems(c.Request().Context(), &usecase.AddItemsInput{UserID: userID, Items: items})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, AddItemsResponse{CartID: output.CartID, Added: output.Added})
}

// RemoveItem deletes one line with the product ID from the caller's cart.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	output, err := h.cartUC.RemoveItem(c.Request().Context(), &usecase.RemoveItemInput{
		UserID:    userID,
		ProductID: c.Param("productId"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, RemoveItemResponse{CartID: output.CartID})
}

func callerID(c echo.Context) (uuid.UUID, error) {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return uuid.Nil, errors.Wrap(domainerrors.ErrUnauthorized, "no caller identity")
	}

	return userID, nil
}
