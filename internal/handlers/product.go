package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shop-backend/internal/logging"
	"shop-backend/internal/service"
)

type ProductHandler struct {
	Svc *service.ProductService
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := idParam(c)
	if err != nil {
		return err
	}

	prod, err := h.Svc.Get(ctx, id)
	if err != nil {
		l.Warn("get_product_failed", "id", id, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	items, err := h.Svc.List(ctx, c.QueryParam("search"))
	if err != nil {
		l.Error("list_products_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching products")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	form, image, err := bindProductForm(c)
	if err != nil {
		l.Warn("create_product_failed", "status", 400, "error", err)
		return err
	}

	prod, err := h.Svc.Create(ctx, form, image)
	if err != nil {
		l.Warn("create_product_failed", "error", err)
		return httpError(err)
	}

	l.Info("create_product_success", "id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := idParam(c)
	if err != nil {
		return err
	}

	form, image, err := bindProductForm(c)
	if err != nil {
		l.Warn("update_product_failed", "status", 400, "error", err)
		return err
	}

	prod, err := h.Svc.Update(ctx, id, form, image)
	if err != nil {
		l.Warn("update_product_failed", "id", id, "error", err)
		return httpError(err)
	}

	l.Info("update_product_success", "id", id)
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := idParam(c)
	if err != nil {
		return err
	}

	prod, err := h.Svc.Delete(ctx, id)
	if err != nil {
		l.Warn("delete_product_failed", "id", id, "error", err)
		return httpError(err)
	}

	l.Info("delete_product_success", "id", id)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product deleted!",
		"product": prod,
	})
}
