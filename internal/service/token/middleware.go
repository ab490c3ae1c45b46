package token

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/ekoshkina/webshop/internal/service"
)

func (t *TokenService) refreshCookies(c echo.Context, newAccess, newRefresh string) {
	c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(service.AccessTokenTTL)))
	c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(service.RefreshTokenTTL)))
}

func (t *TokenService) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		newAccess, newRefresh, _, err := t.CheckCookie(c)
		if err != nil {
			return err
		}

		if newRefresh == "" {
			return next(c)
		}

		t.refreshCookies(c, newAccess, newRefresh)
		if err := t.setContextFromAccess(c, newAccess); err != nil {
			return err
		}
		return next(c)
	}
}

func (t *TokenService) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		newAccess, newRefresh, role, err := t.CheckCookie(c)
		if err != nil {
			return err
		}
		if role != service.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}

		if newRefresh == "" {
			return next(c)
		}

		t.refreshCookies(c, newAccess, newRefresh)
		if err := t.setContextFromAccess(c, newAccess); err != nil {
			return err
		}
		return next(c)
	}
}

func (t *TokenService) setContextFromAccess(c echo.Context, access string) error {
	tk, err := jwt.Parse(access, func(j *jwt.Token) (interface{}, error) { return t.JWTSecret, nil })
	if err != nil || !tk.Valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := tk.Claims.(jwt.MapClaims)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return setUserContext(c, claims)
}
