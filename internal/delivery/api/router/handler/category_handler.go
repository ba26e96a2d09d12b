package handler

import (
	"log/slog"
	"net/http"

	"eatery/internal/delivery/api/response"
	"eatery/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CategoryHandlerParams holds dependencies for CategoryHandler, injected by Fx.
type CategoryHandlerParams struct {
	fx.In

	CategoryUC usecase.CategoryUsecase
	Logger     *slog.Logger
}

// CategoryHandler holds dependencies for menu category handlers
type CategoryHandler struct {
	categoryUC usecase.CategoryUsecase
	logger     *slog.Logger
}

// NewCategoryHandler is the constructor for CategoryHandler
func NewCategoryHandler(params CategoryHandlerParams) *CategoryHandler {
	return &CategoryHandler{
		categoryUC: params.CategoryUC,
		logger:     params.Logger,
	}
}

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Position    int    `json:"position" validate:"gte=0"`
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Position    *int    `json:"position" validate:"omitempty,gte=0"`
}

// Create handles category creation under a restaurant
func (h *CategoryHandler) Create(c echo.Context) error {
	restaurantID, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req CreateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	category, err := h.categoryUC.Create(c.Request().Context(), principal(c), restaurantID, usecase.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Position:    req.Position,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, category)
}

// List handles listing the categories of a restaurant
func (h *CategoryHandler) List(c echo.Context) error {
	restaurantID, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	categories, err := h.categoryUC.List(c.Request().Context(), principal(c), restaurantID, queryBool(c, "include_inactive"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, categories)
}

// Get handles fetching one category
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	category, err := h.categoryUC.Get(c.Request().Context(), principal(c), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, category)
}

// Update handles partial category updates
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UpdateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	category, err := h.categoryUC.Update(c.Request().Context(), principal(c), id, usecase.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Position:    req.Position,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, category)
}

// SoftDelete handles hiding a category
func (h *CategoryHandler) SoftDelete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.categoryUC.SoftDelete(c.Request().Context(), principal(c), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.NoContent(c)
}

// Restore handles bringing a soft-deleted category back
func (h *CategoryHandler) Restore(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	category, err := h.categoryUC.Restore(c.Request().Context(), principal(c), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, category)
}

// HardDelete handles permanent removal
func (h *CategoryHandler) HardDelete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.categoryUC.HardDelete(c.Request().Context(), principal(c), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.NoContent(c)
}
