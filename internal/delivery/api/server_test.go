package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"shopcart/config"
	apimiddleware "shopcart/internal/delivery/api/middleware"
	"shopcart/internal/delivery/api/router"
	"shopcart/internal/delivery/api/router/handler"
	deliverycontext "shopcart/internal/delivery/context"
	"shopcart/internal/infra/auth"
	"shopcart/internal/infra/persistence/postgres"
	"shopcart/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiEnvelope struct {
	Data  map[string]any `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

// newTestAPI wires the real stack against an in-memory SQLite database.
func newTestAPI(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: 4, TokenTTL: time.Hour},
		Cart: &config.CartConfig{MaxItemsPerBatch: 10},
	}
	cfg.HTTP.MaxRequestBodySize = "1KB"
	cfg.HTTP.Timeouts.OperationTimeout = 5 * time.Second
	cfg.SecretKey.Access = "api_test_secret_long_enough_for_hs256"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := postgres.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, postgres.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	hasher, err := auth.NewBcryptHasher(cfg)
	require.NoError(t, err)
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	userRepo := postgres.NewUserRepository(db)
	authUC := impl.NewAuthService(impl.AuthServiceParams{
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokens,
		Config:       cfg,
		Logger:       logger,
	})
	cartUC := impl.NewCartService(impl.CartServiceParams{
		TxManager: postgres.NewTransactionManager(db),
		UserRepo:  userRepo,
		CartRepo:  postgres.NewCartRepository(db),
		Config:    cfg,
		Logger:    logger,
	})

	return NewEcho(cfg, logger, apimiddleware.NewErrorMiddleware(logger), router.RouterParams{
		AuthHandler:    handler.NewAuthHandler(handler.AuthHandlerParams{AuthUC: authUC, Logger: logger}),
		CartHandler:    handler.NewCartHandler(handler.CartHandlerParams{CartUC: cartUC, Logger: logger}),
		AuthMiddleware: apimiddleware.NewAuthMiddleware(authUC),
	})
}

func call(t *testing.T, e *echo.Echo, method, target, token, body string) (int, apiEnvelope, http.Header) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())

	return rec.Code, env, rec.Header()
}

func registerAndLogin(t *testing.T, e *echo.Echo, email string) (userID, token string) {
	t.Helper()

	status, _, _ := call(t, e, http.MethodPost, "/register", "", `{"email":"`+email+`","password":"pw","userName":"Ana"}`)
	require.Equal(t, http.StatusOK, status)

	status, env, _ := call(t, e, http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"pw"}`)
	require.Equal(t, http.StatusOK, status)

	return env.Data["userId"].(string), env.Data["token"].(string)
}

func TestAPI_Health(t *testing.T) {
	e := newTestAPI(t)

	status, env, header := call(t, e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", env.Data["status"])
	assert.NotEmpty(t, header.Get(deliverycontext.HeaderXRequestID))
	assert.Equal(t, header.Get(deliverycontext.HeaderXRequestID), env.Meta.RequestID)
}

func TestAPI_AuthFlow(t *testing.T) {
	e := newTestAPI(t)

	status, env, _ := call(t, e, http.MethodPost, "/register", "", `{"email":"a@a.com","password":"pw","userName":"Ana"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "registered", env.Data["msg"])

	status, env, _ = call(t, e, http.MethodPost, "/auth/register", "", `{"email":"a@a.com","password":"pw2","userName":"Ana2"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "DUPLICATE_EMAIL", env.Error.Code)

	status, env, _ = call(t, e, http.MethodPost, "/login", "", `{"email":"a@a.com","password":"pw"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ana", env.Data["userName"])
	assert.NotEmpty(t, env.Data["token"])

	status, wrongPassword, _ := call(t, e, http.MethodPost, "/login", "", `{"email":"a@a.com","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	status, unknownEmail, _ := call(t, e, http.MethodPost, "/login", "", `{"email":"nobody@a.com","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, wrongPassword.Error, unknownEmail.Error)
}

func TestAPI_CartRequiresToken(t *testing.T) {
	e := newTestAPI(t)

	status, env, _ := call(t, e, http.MethodGet, "/api/v1/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	status, env, _ = call(t, e, http.MethodGet, "/api/v1/cart", "not.a.token", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid or expired token", env.Error.Message)
	assert.Nil(t, env.Error.Details)
}

func TestAPI_CartFlow(t *testing.T) {
	e := newTestAPI(t)
	userID, token := registerAndLogin(t, e, "cart@a.com")

	status, env, _ := call(t, e, http.MethodGet, "/api/v1/cart", token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, env.Data["cart"])
	assert.Equal(t, []any{}, env.Data["items"])

	body := `{"userId":"` + userID + `","items":[{"productId":"p1","imgSrc":"/p1.png","title":"Mug","price":"9.99","quantity":2}]}`
	var wg sync.WaitGroup
	cartIDs := make([]string, 2)
	for i := range cartIDs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status, env, _ := call(t, e, http.MethodPost, "/api/v1/cart/items", token, body)
			if assert.Equal(t, http.StatusOK, status) {
				cartIDs[i], _ = env.Data["cartId"].(string)
			}
		}(i)
	}
	wg.Wait()
	assert.NotEmpty(t, cartIDs[0])
	assert.Equal(t, cartIDs[0], cartIDs[1])

	status, env, _ = call(t, e, http.MethodGet, "/api/v1/cart", token, "")
	require.Equal(t, http.StatusOK, status)
	cart, ok := env.Data["cart"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, cartIDs[0], cart["id"])
	items, ok := env.Data["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "p1", first["productId"])
	assert.Equal(t, "9.99", first["price"])
	assert.Equal(t, float64(2), first["quantity"])

	status, env, _ = call(t, e, http.MethodDelete, "/api/v1/cart/items/does-not-exist", token, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ITEM_NOT_FOUND", env.Error.Code)

	status, env, _ = call(t, e, http.MethodDelete, "/api/v1/cart/items/p1", token, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, cartIDs[0], env.Data["cartId"])

	status, env, _ = call(t, e, http.MethodGet, "/api/v1/cart", token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, env.Data["items"], 1)
}

func TestAPI_AddItemsRejections(t *testing.T) {
	e := newTestAPI(t)
	_, token := registerAndLogin(t, e, "reject@a.com")
	otherID, _ := registerAndLogin(t, e, "other@a.com")

	status, env, _ := call(t, e, http.MethodPost, "/api/v1/cart/items", token,
		`{"userId":"`+otherID+`","items":[{"productId":"p1","price":"1","quantity":1}]}`)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	status, env, _ = call(t, e, http.MethodPost, "/api/v1/cart/items", token,
		`{"items":[{"productId":"p1","price":"1","quantity":1},{"productId":"p2","price":"x","quantity":1}]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ITEM", env.Error.Code)
	assert.NotNil(t, env.Error.Details)

	// Wider than the price column: rejected before it can reach the store.
	status, env, _ = call(t, e, http.MethodPost, "/api/v1/cart/items", token,
		`{"items":[{"productId":"p1","price":"`+strings.Repeat("9", 40)+`","quantity":1}]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ITEM", env.Error.Code)
	assert.Equal(t, []any{map[string]any{"index": float64(0), "field": "price", "reason": "must be at most 32 characters"}}, env.Error.Details)

	status, env, _ = call(t, e, http.MethodPost, "/api/v1/cart/items", token,
		`{"items":[{"productId":"p1","price":"1","quantity":1},{"productId":"p2","price":"1","quantity":1.5}]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ITEM", env.Error.Code)
	assert.Equal(t, []any{map[string]any{"index": float64(1), "field": "quantity", "reason": "must be a positive integer"}}, env.Error.Details)

	status, env, _ = call(t, e, http.MethodGet, "/api/v1/cart", token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, env.Data["cart"])

	status, env, _ = call(t, e, http.MethodPost, "/api/v1/cart/items", token, `{"items":[{"productId":"`+strings.Repeat("x", 2048)+`"}]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
	assert.Equal(t, "HTTP_ERROR", env.Error.Code)
}

func TestAPI_RemoveWithoutCart(t *testing.T) {
	e := newTestAPI(t)
	_, token := registerAndLogin(t, e, "nocart@a.com")

	status, env, _ := call(t, e, http.MethodDelete, "/api/v1/cart/items/p1", token, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "CART_NOT_FOUND", env.Error.Code)
}

func TestAPI_RemoveWithoutProductID(t *testing.T) {
	e := newTestAPI(t)
	_, token := registerAndLogin(t, e, "noproduct@a.com")

	for _, target := range []string{"/api/v1/cart/items", "/api/v1/cart/items/", "/api/v1/cart/items/%20"} {
		t.Run(target, func(t *testing.T) {
			status, env, _ := call(t, e, http.MethodDelete, target, token, "")
			assert.Equal(t, http.StatusBadRequest, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, "MISSING_PRODUCT_ID", env.Error.Code)
		})
	}
}
