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

// RestaurantHandlerParams holds dependencies for RestaurantHandler, injected by Fx.
type RestaurantHandlerParams struct {
	fx.In

	RestaurantUC usecase.RestaurantUsecase
	Logger       *slog.Logger
}

// RestaurantHandler holds dependencies for restaurant handlers
type RestaurantHandler struct {
	restaurantUC usecase.RestaurantUsecase
	logger       *slog.Logger
}

// NewRestaurantHandler is the constructor for RestaurantHandler
func NewRestaurantHandler(params RestaurantHandlerParams) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantUC: params.RestaurantUC,
		logger:       params.Logger,
	}
}

// CreateRestaurantRequest represents the request body for creating a restaurant
type CreateRestaurantRequest struct {
	OwnerID     *uuid.UUID `json:"owner_id"`
	Name        string     `json:"name" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Address     string     `json:"address" validate:"max=500"`
	Phone       string     `json:"phone" validate:"max=50"`
	Latitude    float64    `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64    `json:"longitude" validate:"gte=-180,lte=180"`
}

// UpdateRestaurantRequest represents a partial restaurant update
type UpdateRestaurantRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Address     *string  `json:"address" validate:"omitempty,max=500"`
	Phone       *string  `json:"phone" validate:"omitempty,max=50"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// ChangeStatusRequest represents a publication state change
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ReassignOwnerRequest names the admin taking over a restaurant
type ReassignOwnerRequest struct {
	OwnerID uuid.UUID `json:"owner_id" validate:"required"`
}

// ResolveQRRequest carries the decoded content of a scanned QR code
type ResolveQRRequest struct {
	Content string `json:"content" validate:"required"`
}

// Create handles restaurant creation
func (h *RestaurantHandler) Create(c echo.Context) error {
	var req CreateRestaurantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	restaurant, err := h.restaurantUC.Create(c.Request().Context(), principal(c), usecase.CreateRestaurantInput{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, restaurant)
}

// List handles restaurant listing with optional status, owner and distance filters
func (h *RestaurantHandler) List(c echo.Context) error {
	input := usecase.ListRestaurantsInput{IncludeInactive: queryBool(c, "include_inactive")}

	var (
		status, ownerID    string
		lat, lng, radiusKm float64
	)
	err := echo.QueryParamsBinder(c).
		Int("page", &input.Page).
		Int("page_size", &input.PageSize).
		String("status", &status).
		String("owner_id", &ownerID).
		Float64("lat", &lat).
		Float64("lng", &lng).
		Float64("radius_km", &radiusKm).
		BindError()
	if err != nil {
		return response.HandleAppError(c, domainerrors.ErrInvalidInput.WithDetails("invalid query parameters"))
	}

	if status != "" {
		s := entity.Status(status)
		input.Status = &s
	}
	if ownerID != "" {
		id, err := uuid.Parse(ownerID)
		if err != nil {
			return response.HandleAppError(c, domainerrors.ErrInvalidInput.WithDetails("invalid owner_id"))
		}
		input.OwnerID = &id
	}
	if c.QueryParam("lat") != "" || c.QueryParam("lng") != "" || c.QueryParam("radius_km") != "" {
		input.Near = &usecase.NearFilter{Latitude: lat, Longitude: lng, RadiusKm: radiusKm}
	}

	page, err := h.restaurantUC.List(c.Request().Context(), principal(c), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, page.Items, page.Page, page.PageSize, page.Total)
}

// Get handles fetching one restaurant
func (h *RestaurantHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	restaurant, err := h.restaurantUC.Get(c.Request().Context(), principal(c), id, queryBool(c, "include_inactive"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, restaurant)
}

// Update handles partial restaurant updates
func (h *RestaurantHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UpdateRestaurantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	restaurant, err := h.restaurantUC.Update(c.Request().Context(), principal(c), id, usecase.UpdateRestaurantInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, restaurant)
}

// ChangeStatus handles publication state changes
func (h *RestaurantHandler) ChangeStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req ChangeStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	restaurant, err := h.restaurantUC.ChangeStatus(c.Request().Context(), principal(c), id, entity.Status(req.Status))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, restaurant)
}

// SoftDelete handles hiding a restaurant
func (h *RestaurantHandler) SoftDelete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.restaurantUC.SoftDelete(c.Request().Context(), principal(c), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.NoContent(c)
}

// Restore handles bringing a soft-deleted restaurant back
func (h *RestaurantHandler) Restore(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	restaurant, err := h.restaurantUC.Restore(c.Request().Context(), principal(c), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, restaurant)
}

// HardDelete handles permanent removal
func (h *RestaurantHandler) HardDelete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.restaurantUC.HardDelete(c.Request().Context(), principal(c), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.NoContent(c)
}

// ReassignOwner handles moving a restaurant to another admin
func (h *RestaurantHandler) ReassignOwner(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req ReassignOwnerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	restaurant, err := h.restaurantUC.ReassignOwner(c.Request().Context(), principal(c), id, req.OwnerID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, restaurant)
}

// ResolveQR returns the restaurant a scanned QR code points at
func (h *RestaurantHandler) ResolveQR(c echo.Context) error {
	var req ResolveQRRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	restaurant, err := h.restaurantUC.ResolveQR(c.Request().Context(), principal(c), req.Content)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, restaurant)
}

// QRCode returns a PNG QR code linking to the restaurant
func (h *RestaurantHandler) QRCode(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	png, err := h.restaurantUC.QRCode(c.Request().Context(), principal(c), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
