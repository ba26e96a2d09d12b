package handler

import (
	"log/slog"
	"net/http"

	"eatery/internal/delivery/api/response"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ReviewHandlerParams holds dependencies for ReviewHandler, injected by Fx.
type ReviewHandlerParams struct {
	fx.In

	ReviewUC usecase.ReviewUsecase
	Logger   *slog.Logger
}

// ReviewHandler holds dependencies for review handlers
type ReviewHandler struct {
	reviewUC usecase.ReviewUsecase
	logger   *slog.Logger
}

// NewReviewHandler is the constructor for ReviewHandler
func NewReviewHandler(params ReviewHandlerParams) *ReviewHandler {
	return &ReviewHandler{
		reviewUC: params.ReviewUC,
		logger:   params.Logger,
	}
}

// CreateReviewRequest represents the request body for reviewing a restaurant.
// The rating range is enforced by the use case so the error code stays specific.
type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment" validate:"max=2000"`
}

// UpdateReviewRequest represents a partial review update
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// ModerateReviewRequest shows or hides a review
type ModerateReviewRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// Create handles review creation
func (h *ReviewHandler) Create(c echo.Context) error {
	restaurantID, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req CreateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	review, err := h.reviewUC.Create(c.Request().Context(), principal(c), restaurantID, usecase.CreateReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, review)
}

// List handles listing the reviews of a restaurant
func (h *ReviewHandler) List(c echo.Context) error {
	restaurantID, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	input := usecase.ListReviewsInput{IncludeInactive: queryBool(c, "include_inactive")}
	if err := echo.QueryParamsBinder(c).
		Int("page", &input.Page).
		Int("page_size", &input.PageSize).
		BindError(); err != nil {
		return response.HandleAppError(c, domainerrors.ErrInvalidInput.WithDetails("invalid pagination"))
	}

	page, err := h.reviewUC.List(c.Request().Context(), principal(c), restaurantID, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, page.Items, page.Page, page.PageSize, page.Total)
}

// Get handles fetching one review
func (h *ReviewHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	review, err := h.reviewUC.Get(c.Request().Context(), principal(c), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, review)
}

// Update handles edits by the review author
func (h *ReviewHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UpdateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	review, err := h.reviewUC.Update(c.Request().Context(), principal(c), id, usecase.UpdateReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, review)
}

// Delete handles removal by the review author
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.reviewUC.Delete(c.Request().Context(), principal(c), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.NoContent(c)
}

// Moderate handles showing or hiding a review by the restaurant's staff
func (h *ReviewHandler) Moderate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req ModerateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	review, err := h.reviewUC.Moderate(c.Request().Context(), principal(c), id, *req.Active)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, review)
}
