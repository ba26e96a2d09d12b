package handler

import (
	"strconv"

	deliverycontext "eatery/internal/delivery/context"
	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// principal returns the authenticated caller, or nil for anonymous requests.
// Use cases reject a nil principal themselves.
func principal(c echo.Context) *entity.Principal {
	p, _ := deliverycontext.GetPrincipal(c)

	return p
}

// bindAndValidate decodes the request into req and checks its validate tags.
// Validation failures are returned as is so the error handler can list the fields.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrInvalidInput.WithDetails("malformed request")
	}

	return c.Validate(req)
}

// pathID parses the named path parameter as a UUID.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrInvalidInput.WithDetails("invalid " + name)
	}

	return id, nil
}

// queryBool reads an optional boolean query parameter; anything unparsable is false.
func queryBool(c echo.Context, name string) bool {
	v, err := strconv.ParseBool(c.QueryParam(name))

	return err == nil && v
}

// PageQuery is the pagination shared by listings.
type PageQuery struct {
	Page     int `query:"page" validate:"gte=0"`
	PageSize int `query:"page_size" validate:"gte=0,lte=100"`
}
