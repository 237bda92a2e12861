// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"shopcart/internal/delivery/api/middleware"
	"shopcart/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	CartHandler    *handler.CartHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	cartHandler    *handler.CartHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		cartHandler:    params.CartHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	// Root-level aliases kept for existing clients.
	e.POST("/register", r.authHandler.Register)
	e.POST("/login", r.authHandler.Login)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
	}

	apiV1 := e.Group("/api/v1")
	apiV1.Use(r.authMiddleware.Authenticate)

	cartGroup := apiV1.Group("/cart")
	cartGroup.Use(r.authMiddleware.RequireUser)
	{
		cartGroup.GET("", r.cartHandler.GetCart)
		cartGroup.POST("/items", r.cartHandler.AddItems)
		cartGroup.DELETE("/items/:productId", r.cartHandler.RemoveItem)
		// Without a product ID the handler answers MISSING_PRODUCT_ID rather than a routing 404.
		cartGroup.DELETE("/items", r.cartHandler.RemoveItem)
		cartGroup.DELETE("/items/", r.cartHandler.RemoveItem)
	}
}
