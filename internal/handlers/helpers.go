package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"shop-backend/internal/service"
	"shop-backend/internal/transport"
	"shop-backend/internal/upload"
)

// httpError maps service sentinels onto the API's status codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "missing or invalid fields")
	case errors.Is(err, service.ErrDuplicateEmail):
		return echo.NewHTTPError(http.StatusBadRequest, "Error registering user")
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, upload.ErrUnsupportedType):
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported file type")
	case errors.Is(err, upload.ErrPayloadTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be numeric")
	}
	return uint(id), nil
}

// bindProductForm accepts either a multipart/urlencoded form (the normal
// path, with an optional "image" file) or a plain JSON body.
func bindProductForm(c echo.Context) (transport.ProductForm, *multipart.FileHeader, error) {
	var form transport.ProductForm

	ct := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
		if err := c.Bind(&form); err != nil {
			return form, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		return form, nil, nil
	}

	values, err := c.FormParams()
	if err != nil {
		return form, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	form.Name = formString(values, "name")
	form.Description = formString(values, "description")
	form.Currency = formString(values, "currency")
	form.Category = formString(values, "category")
	form.SKU = formString(values, "sku")
	form.Brand = formString(values, "brand")
	form.Status = formString(values, "status")

	if form.Price, err = formFloat(values, "price"); err != nil {
		return form, nil, echo.NewHTTPError(http.StatusBadRequest, "price must be numeric")
	}
	if form.Stock, err = formUint(values, "stock"); err != nil {
		return form, nil, echo.NewHTTPError(http.StatusBadRequest, "stock must be a non-negative integer")
	}

	image, err := c.FormFile("image")
	if err != nil {
		image = nil // no file part supplied
	}
	return form, image, nil
}

func formString(values url.Values, key string) *string {
	if vs, ok := values[key]; ok && len(vs) > 0 {
		return &vs[0]
	}
	return nil
}

func formFloat(values url.Values, key string) (*float64, error) {
	s := formString(values, key)
	if s == nil {
		return nil, nil
	}
	f, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func formUint(values url.Values, key string) (*uint, error) {
	s := formString(values, key)
	if s == nil {
		return nil, nil
	}
	n, err := strconv.ParseUint(*s, 10, 64)
	if err != nil {
		return nil, err
	}
	u := uint(n)
	return &u, nil
}
