package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ekoshkina/webshop/internal/events"
	"github.com/ekoshkina/webshop/internal/logging"
	"github.com/ekoshkina/webshop/internal/repo"
	"github.com/ekoshkina/webshop/internal/service"
	"github.com/ekoshkina/webshop/internal/service/token"
	"github.com/ekoshkina/webshop/internal/transport"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Producer EventPublisher
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_conflict", "status", 409, "username", req.Username)
			return echo.NewHTTPError(http.StatusConflict, "username already taken")
		}
		if errors.Is(err, service.ErrValidation) {
			l.Warn("register_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, events.TopicUserEvents, map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		// unknown username and wrong password produce the same answer
		if errors.Is(err, repo.ErrInvalidCredentials) || errors.Is(err, service.ErrValidation) {
			l.Warn("login_failed", "status", 401)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(token.CreateCookie("accessToken", result.AccessToken, "/", result.AccessExp))
	c.SetCookie(token.CreateCookie("refreshToken", result.RefreshToken, "/", result.RefreshExp))

	publish(c, h.Producer, events.TopicUserEvents, map[string]any{
		"type":     "user_logged_in",
		"userID":   result.UserID,
		"username": req.Username,
	})

	return c.JSON(http.StatusOK, transport.LoginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		IsAdmin:      result.IsAdmin,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing refresh cookie")
	}

	if err := h.Svc.Logout(ctx, refreshCookie.Value); err != nil {
		l.Error("logout_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(token.CreateCookie("accessToken", "", "/", expired))
	c.SetCookie(token.CreateCookie("refreshToken", "", "/", expired))

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
