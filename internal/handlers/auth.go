package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shop-backend/internal/logging"
	"shop-backend/internal/service"
	"shop-backend/internal/transport"
)

type AuthHandler struct {
	Svc *service.AuthService
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password); err != nil {
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrDuplicateEmail) {
			l.Warn("register_failed", "status", 400, "reason", err.Error())
		} else {
			l.Error("register_failed", "status", 500, "error", err)
		}
		return httpError(err)
	}

	l.Info("register_success")
	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully"})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	signed, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("login_failed", "status", 404, "reason", "unknown email")
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			l.Warn("login_failed", "status", 400, "reason", "bad password")
			return httpError(err)
		default:
			l.Error("login_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Error logging in")
		}
	}

	l.Info("login_success")
	return c.JSON(http.StatusOK, echo.Map{"token": signed})
}
