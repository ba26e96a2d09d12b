package handler

import (
	"log/slog"
	"net/http"

	"eatery/internal/delivery/api/response"
	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// MenuHandlerParams holds dependencies for MenuHandler, injected by Fx.
type MenuHandlerParams struct {
	fx.In

	MenuUC usecase.MenuUsecase
	Logger *slog.Logger
}

// MenuHandler holds dependencies for menu item handlers
type MenuHandler struct {
	menuUC usecase.MenuUsecase
	logger *slog.Logger
}

// NewMenuHandler is the constructor for MenuHandler
func NewMenuHandler(params MenuHandlerParams) *MenuHandler {
	return &MenuHandler{
		menuUC: params.MenuUC,
		logger: params.Logger,
	}
}

// CreateMenuRequest represents the request body for creating a menu item
type CreateMenuRequest struct {
	CategoryID  *uuid.UUID `json:"category_id"`
	Name        string     `json:"name" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	PriceCents  int64      `json:"price_cents" validate:"gte=0"`
}

// UpdateMenuRequest represents a partial menu update guarded by the expected version
type UpdateMenuRequest struct {
	ExpectedVersion int        `json:"version" validate:"required,gte=1"`
	CategoryID      *uuid.UUID `json:"category_id"`
	Name            *string    `json:"name" validate:"omitempty,max=200"`
	Description     *string    `json:"description" validate:"omitempty,max=2000"`
	PriceCents      *int64     `json:"price_cents" validate:"omitempty,gte=0"`
}

// Create handles menu item creation under a restaurant
func (h *MenuHandler) Create(c echo.Context) error {
	restaurantID, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req CreateMenuRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	menu, err := h.menuUC.Create(c.Request().Context(), principal(c), restaurantID, usecase.CreateMenuInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, menu)
}

// List handles listing the menu of a restaurant, optionally narrowed to one category
func (h *MenuHandler) List(c echo.Context) error {
	restaurantID, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	input := usecase.ListMenusInput{IncludeInactive: queryBool(c, "include_inactive")}
	if raw := c.QueryParam("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return response.HandleAppError(c, domainerrors.ErrInvalidInput.WithDetails("invalid category_id"))
		}
		input.CategoryID = &categoryID
	}

	menus, err := h.menuUC.List(c.Request().Context(), principal(c), restaurantID, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, menus)
}

// Get handles fetching one menu item
func (h *MenuHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	menu, err := h.menuUC.Get(c.Request().Context(), principal(c), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, menu)
}

// Update handles partial menu updates
func (h *MenuHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UpdateMenuRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	menu, err := h.menuUC.Update(c.Request().Context(), principal(c), id, usecase.UpdateMenuInput{
		ExpectedVersion: req.ExpectedVersion,
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		Description:     req.Description,
		PriceCents:      req.PriceCents,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, menu)
}

// ChangeStatus handles publication state changes
func (h *MenuHandler) ChangeStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req ChangeStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	menu, err := h.menuUC.ChangeStatus(c.Request().Context(), principal(c), id, entity.Status(req.Status))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, menu)
}

// SoftDelete handles hiding a menu item
func (h *MenuHandler) SoftDelete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.menuUC.SoftDelete(c.Request().Context(), principal(c), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.NoContent(c)
}

// Restore handles bringing a soft-deleted menu item back
func (h *MenuHandler) Restore(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	menu, err := h.menuUC.Restore(c.Request().Context(), principal(c), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, menu)
}

// HardDelete handles permanent removal
func (h *MenuHandler) HardDelete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.menuUC.HardDelete(c.Request().Context(), principal(c), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.NoContent(c)
}
