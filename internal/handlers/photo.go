package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shop-backend/internal/logging"
	"shop-backend/internal/service"
)

type PhotoHandler struct {
	Svc *service.PhotoService
}

func (h *PhotoHandler) GetPhoto(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "photo.get")

	id, err := idParam(c)
	if err != nil {
		return err
	}

	photo, err := h.Svc.Get(ctx, id)
	if err != nil {
		l.Warn("get_photo_failed", "id", id, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, photo)
}

func (h *PhotoHandler) GetPhotos(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "photo.list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		l.Error("list_photos_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching photos")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *PhotoHandler) CreatePhoto(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "photo.create")

	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}

	photo, err := h.Svc.Create(ctx, c.FormValue("title"), c.FormValue("description"), image)
	if err != nil {
		l.Warn("create_photo_failed", "error", err)
		return httpError(err)
	}

	l.Info("create_photo_success", "id", photo.ID)
	return c.JSON(http.StatusCreated, photo)
}

func (h *PhotoHandler) DeletePhoto(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "photo.delete")

	id, err := idParam(c)
	if err != nil {
		return err
	}

	photo, err := h.Svc.Delete(ctx, id)
	if err != nil {
		l.Warn("delete_photo_failed", "id", id, "error", err)
		return httpError(err)
	}

	l.Info("delete_photo_success", "id", id)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Photo deleted!",
		"photo":   photo,
	})
}
