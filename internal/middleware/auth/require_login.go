package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"shop-backend/internal/token"
)

// RequireLogin gates a route group behind token verification. Existing
// clients send the raw token in the Authorization header, so both
// "Bearer <token>" and a bare token are accepted.
func RequireLogin(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "access denied")
			}

			raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			userID, err := tokens.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid token")
			}

			c.Set("userID", userID)
			return next(c)
		}
	}
}
