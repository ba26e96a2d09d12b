package handler

import (
	"log/slog"
	"net/http"

	"eatery/internal/delivery/api/response"
	"eatery/internal/domain/entity"
	"eatery/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUC usecase.UserUsecase
	Logger *slog.Logger
}

// UserHandler holds dependencies for account administration handlers
type UserHandler struct {
	userUC usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		userUC: params.UserUC,
		logger: params.Logger,
	}
}

// AssignRoleRequest represents the request body for changing a role
type AssignRoleRequest struct {
	Role         string     `json:"role" validate:"required"`
	RestaurantID *uuid.UUID `json:"restaurant_id"`
}

// SetActiveRequest represents the request body for (de)activating an account
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// Me returns the caller's account and capabilities
func (h *UserHandler) Me(c echo.Context) error {
	profile, err := h.userUC.Me(c.Request().Context(), principal(c))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, profile)
}

// AssignRole changes the role of a user
func (h *UserHandler) AssignRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req AssignRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.userUC.AssignRole(c.Request().Context(), principal(c), id, usecase.AssignRoleInput{
		Role:         entity.Role(req.Role),
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, user)
}

// SetActive activates or deactivates a user
func (h *UserHandler) SetActive(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req SetActiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.userUC.SetActive(c.Request().Context(), principal(c), id, *req.Active)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, user)
}
