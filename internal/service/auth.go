package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ekoshkina/webshop/internal/hash"
	"github.com/ekoshkina/webshop/internal/logging"
	"github.com/ekoshkina/webshop/internal/models"
	"github.com/ekoshkina/webshop/internal/repo"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	RoleUser  = "user"
	RoleAdmin = "admin"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	UserID       uint
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	IsAdmin      bool
}

// Register creates a credential record. The role field comes straight from
// the request: "admin" grants administrative capability to whoever asks for
// it, matching the behavior of the original signup form.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password required: %w", ErrValidation)
	}

	if role != RoleAdmin {
		role = RoleUser
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         role,
	}

	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		return nil, err
	}

	l.Info("user_registered", "user_id", user.ID, "role", user.Role)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password required: %w", ErrValidation)
	}

	user, err := s.Repo.UserExist(ctx, username, password)
	if err != nil {
		return nil, err
	}

	accessExp := time.Now().Add(AccessTokenTTL)
	accessToken, err := s.signAccessToken(user.ID, user.Role, accessExp)
	if err != nil {
		l.Error("login_error", "error", err)
		return nil, err
	}

	refreshExp := time.Now().Add(RefreshTokenTTL)
	refreshToken, jti, err := s.signRefreshToken(user.ID, user.Role, refreshExp)
	if err != nil {
		l.Error("login_error", "error", err)
		return nil, err
	}

	stored := models.RefreshToken{
		Token:     refreshToken,
		JTI:       jti,
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}
	if err := s.Repo.SaveRefreshToken(ctx, &stored); err != nil {
		l.Error("login_error", "error", err)
		return nil, err
	}

	l.Info("user_logged_in", "user_id", user.ID)
	return &LoginResult{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		IsAdmin:      user.Role == RoleAdmin,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *AuthService) signAccessToken(userID uint, role string, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.JWTSecret)
}

func (s *AuthService) signRefreshToken(userID uint, role string, exp time.Time) (string, string, error) {
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"typ":  "refresh",
		"jti":  jti,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.RefreshSecret)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}
