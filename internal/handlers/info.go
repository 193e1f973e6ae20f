package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Info serves the unauthenticated deployment descriptor.
func Info(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"name":    "shop-backend",
		"contact": "support@example.com",
	})
}
