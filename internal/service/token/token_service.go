package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ekoshkina/webshop/internal/models"
	"github.com/ekoshkina/webshop/internal/repo"
	"github.com/ekoshkina/webshop/internal/service"
)

type TokenService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

func CreateCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// UserID reads the authenticated user id placed into the context by the
// middleware below.
func UserID(c echo.Context) (uint, error) {
	v, ok := c.Get("userID").(uint)
	if !ok || v == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return v, nil
}

func setUserContext(c echo.Context, claims jwt.MapClaims) error {
	sub, ok := claims["sub"].(float64)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid role claim")
	}
	c.Set("userID", uint(sub))
	c.Set("role", role)
	return nil
}

// CheckCookie validates the access cookie and, when it has expired, rotates
// the refresh token. It returns the (possibly new) access token, a new
// refresh token when rotation happened, and the caller's role.
func (t *TokenService) CheckCookie(c echo.Context) (string, string, string, error) {
	asCookie, err := c.Cookie("accessToken")
	if err == nil {
		token, perr := jwt.Parse(asCookie.Value, func(j *jwt.Token) (interface{}, error) {
			if _, ok := j.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", j.Header["alg"])
			}
			return t.JWTSecret, nil
		})
		if perr == nil && token.Valid {
			claims := token.Claims.(jwt.MapClaims)
			role, ok := claims["role"].(string)
			if !ok {
				return "", "", "", echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			if err := setUserContext(c, claims); err != nil {
				return "", "", "", err
			}
			return asCookie.Value, "", role, nil
		}
		if !errors.Is(perr, jwt.ErrTokenExpired) {
			return "", "", "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
	}

	rfCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return "", "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing auth cookie")
	}

	newAccess, newRefresh, claims, err := t.RotateToken(c.Request().Context(), rfCookie.Value)
	if err != nil {
		return "", "", "", echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	role, ok := claims["role"].(string)
	if !ok {
		return "", "", "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	return newAccess, newRefresh, role, nil
}

func (t *TokenService) RotateToken(ctx context.Context, rawToken string) (string, string, jwt.MapClaims, error) {
	claims, err := t.validateRefresh(ctx, rawToken)
	if err != nil {
		return "", "", nil, err
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return "", "", nil, errors.New("invalid subject claim")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return "", "", nil, errors.New("invalid role claim")
	}
	userID := uint(sub)

	newAccess, err := t.signAccessToken(userID, role)
	if err != nil {
		return "", "", nil, err
	}

	newRefresh, refreshExp, jti, err := t.signRefreshToken(userID, role)
	if err != nil {
		return "", "", nil, err
	}

	if err := t.Repo.RevokeRefreshToken(ctx, rawToken); err != nil {
		return "", "", nil, err
	}
	stored := models.RefreshToken{
		Token:     newRefresh,
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: refreshExp.Unix(),
	}
	if err := t.Repo.SaveRefreshToken(ctx, &stored); err != nil {
		return "", "", nil, err
	}

	return newAccess, newRefresh, claims, nil
}

func (t *TokenService) validateRefresh(ctx context.Context, rawToken string) (jwt.MapClaims, error) {
	tk, err := jwt.Parse(rawToken, func(j *jwt.Token) (interface{}, error) {
		if _, ok := j.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", j.Header["alg"])
		}
		return t.RefreshSecret, nil
	})
	if err != nil || !tk.Valid {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	claims, ok := tk.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("cannot parse claims")
	}
	if typ, ok := claims["typ"]; !ok || typ != "refresh" {
		return nil, errors.New("not a refresh token")
	}

	stored, err := t.Repo.RefreshTokenByValue(ctx, rawToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("refresh token not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if stored.Revoked {
		return nil, errors.New("refresh token revoked")
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return nil, errors.New("refresh token expired")
	}

	return claims, nil
}

func (t *TokenService) signAccessToken(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(service.AccessTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.JWTSecret)
}

func (t *TokenService) signRefreshToken(userID uint, role string) (string, time.Time, string, error) {
	exp := time.Now().Add(service.RefreshTokenTTL)
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"typ":  "refresh",
		"jti":  jti,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.RefreshSecret)
	if err != nil {
		return "", time.Time{}, "", err
	}
	return signed, exp, jti, nil
}
