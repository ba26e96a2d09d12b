// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"eatery/internal/delivery/api/middleware"
	"eatery/internal/delivery/api/router/handler"
	"eatery/internal/domain/policy"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler           *handler.AuthHandler
	UserHandler           *handler.UserHandler
	RestaurantHandler     *handler.RestaurantHandler
	CategoryHandler       *handler.CategoryHandler
	MenuHandler           *handler.MenuHandler
	ReviewHandler         *handler.ReviewHandler
	AuditHandler          *handler.AuditHandler
	HealthHandler         *handler.HealthHandler
	AuthMiddleware        *middleware.AuthMiddleware
	IdempotencyMiddleware *middleware.IdempotencyMiddleware
	PermissionMiddleware  *middleware.PermissionMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler       *handler.AuthHandler
	userHandler       *handler.UserHandler
	restaurantHandler *handler.RestaurantHandler
	categoryHandler   *handler.CategoryHandler
	menuHandler       *handler.MenuHandler
	reviewHandler     *handler.ReviewHandler
	auditHandler      *handler.AuditHandler
	healthHandler     *handler.HealthHandler
	authMiddleware    *middleware.AuthMiddleware
	idempotency       *middleware.IdempotencyMiddleware
	permission        *middleware.PermissionMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:       params.AuthHandler,
		userHandler:       params.UserHandler,
		restaurantHandler: params.RestaurantHandler,
		categoryHandler:   params.CategoryHandler,
		menuHandler:       params.MenuHandler,
		reviewHandler:     params.ReviewHandler,
		auditHandler:      params.AuditHandler,
		healthHandler:     params.HealthHandler,
		authMiddleware:    params.AuthMiddleware,
		idempotency:       params.IdempotencyMiddleware,
		permission:        params.PermissionMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.healthHandler.Health)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.Signup, r.idempotency.Handle)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/logout", r.authHandler.Logout, r.authMiddleware.Authenticate)
	}

	// API v1 routes
	apiV1 := e.Group("/api/v1")
	apiV1.Use(r.authMiddleware.Authenticate) // All API v1 routes require authentication

	apiV1.GET("/me", r.userHandler.Me, r.can(policy.ResourceUser, policy.ActionReadOwn)...)

	usersGroup := apiV1.Group("/users")
	{
		usersGroup.PATCH("/:id/role", r.userHandler.AssignRole, r.can(policy.ResourceUser, policy.ActionAssignRole)...)
		usersGroup.PATCH("/:id/active", r.userHandler.SetActive, r.can(policy.ResourceUser, policy.ActionSetActive)...)
	}

	restaurantsGroup := apiV1.Group("/restaurants")
	{
		restaurantsGroup.POST("", r.restaurantHandler.Create, r.can(policy.ResourceRestaurant, policy.ActionCreate)...)
		restaurantsGroup.GET("", r.restaurantHandler.List, r.can(policy.ResourceRestaurant, policy.ActionRead)...)
		restaurantsGroup.GET("/:id", r.restaurantHandler.Get, r.can(policy.ResourceRestaurant, policy.ActionRead)...)
		restaurantsGroup.PATCH("/:id", r.restaurantHandler.Update, r.can(policy.ResourceRestaurant, policy.ActionUpdate)...)
		restaurantsGroup.PATCH("/:id/status", r.restaurantHandler.ChangeStatus, r.can(policy.ResourceRestaurant, policy.ActionChangeStatus)...)
		restaurantsGroup.DELETE("/:id", r.restaurantHandler.SoftDelete, r.can(policy.ResourceRestaurant, policy.ActionDelete)...)
		restaurantsGroup.POST("/:id/restore", r.restaurantHandler.Restore, r.can(policy.ResourceRestaurant, policy.ActionRestore)...)
		restaurantsGroup.DELETE("/:id/hard", r.restaurantHandler.HardDelete, r.can(policy.ResourceRestaurant, policy.ActionHardDelete)...)
		restaurantsGroup.PATCH("/:id/owner", r.restaurantHandler.ReassignOwner, r.can(policy.ResourceRestaurant, policy.ActionReassignOwner)...)
		restaurantsGroup.GET("/:id/qr", r.restaurantHandler.QRCode, r.can(policy.ResourceRestaurant, policy.ActionRead)...)
		restaurantsGroup.POST("/qr/resolve", r.restaurantHandler.ResolveQR, r.can(policy.ResourceRestaurant, policy.ActionRead)...)

		// Children of a restaurant
		restaurantsGroup.POST("/:id/categories", r.categoryHandler.Create, r.can(policy.ResourceCategory, policy.ActionCreate)...)
		restaurantsGroup.GET("/:id/categories", r.categoryHandler.List, r.can(policy.ResourceCategory, policy.ActionRead)...)
		restaurantsGroup.POST("/:id/menus", r.menuHandler.Create, r.can(policy.ResourceMenu, policy.ActionCreate)...)
		restaurantsGroup.GET("/:id/menus", r.menuHandler.List, r.can(policy.ResourceMenu, policy.ActionRead)...)
		restaurantsGroup.POST("/:id/reviews", r.reviewHandler.Create, r.can(policy.ResourceReview, policy.ActionCreate)...)
		restaurantsGroup.GET("/:id/reviews", r.reviewHandler.List, r.can(policy.ResourceReview, policy.ActionRead)...)
	}

	categoriesGroup := apiV1.Group("/categories")
	{
		categoriesGroup.GET("/:id", r.categoryHandler.Get, r.can(policy.ResourceCategory, policy.ActionRead)...)
		categoriesGroup.PATCH("/:id", r.categoryHandler.Update, r.can(policy.ResourceCategory, policy.ActionUpdate)...)
		categoriesGroup.DELETE("/:id", r.categoryHandler.SoftDelete, r.can(policy.ResourceCategory, policy.ActionDelete)...)
		categoriesGroup.POST("/:id/restore", r.categoryHandler.Restore, r.can(policy.ResourceCategory, policy.ActionRestore)...)
		categoriesGroup.DELETE("/:id/hard", r.categoryHandler.HardDelete, r.can(policy.ResourceCategory, policy.ActionHardDelete)...)
	}

	menusGroup := apiV1.Group("/menus")
	{
		menusGroup.GET("/:id", r.menuHandler.Get, r.can(policy.ResourceMenu, policy.ActionRead)...)
		menusGroup.PATCH("/:id", r.menuHandler.Update, r.can(policy.ResourceMenu, policy.ActionUpdate)...)
		menusGroup.PATCH("/:id/status", r.menuHandler.ChangeStatus, r.can(policy.ResourceMenu, policy.ActionChangeStatus)...)
		menusGroup.DELETE("/:id", r.menuHandler.SoftDelete, r.can(policy.ResourceMenu, policy.ActionDelete)...)
		menusGroup.POST("/:id/restore", r.menuHandler.Restore, r.can(policy.ResourceMenu, policy.ActionRestore)...)
		menusGroup.DELETE("/:id/hard", r.menuHandler.HardDelete, r.can(policy.ResourceMenu, policy.ActionHardDelete)...)
	}

	reviewsGroup := apiV1.Group("/reviews")
	{
		reviewsGroup.GET("/:id", r.reviewHandler.Get, r.can(policy.ResourceReview, policy.ActionRead)...)
		reviewsGroup.PATCH("/:id", r.reviewHandler.Update, r.can(policy.ResourceReview, policy.ActionUpdateOwn)...)
		reviewsGroup.DELETE("/:id", r.reviewHandler.Delete, r.can(policy.ResourceReview, policy.ActionDeleteOwn)...)
		reviewsGroup.PATCH("/:id/moderation", r.reviewHandler.Moderate, r.can(policy.ResourceReview, policy.ActionModerate)...)
	}

	apiV1.GET("/audit", r.auditHandler.Query, r.can(policy.ResourceAudit, policy.ActionRead)...)
}

// can gates a route on the capability, then deduplicates mutating requests carrying an
// Idempotency-Key. Forbidden requests never reach the idempotency store.
func (r *router) can(res policy.Resource, actions ...policy.Action) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		r.permission.Require(res, actions...),
		r.idempotency.Handle,
	}
}
