package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekoshkina/webshop/internal/models"
	"github.com/ekoshkina/webshop/internal/repo"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	return &AuthService{
		Repo:          repo.New(db),
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func TestRegisterCreatesUser(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "secret", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, RoleUser, user.Role)
	assert.NotEqual(t, "secret", user.PasswordHash)
}

func TestRegisterHonorsAdminFlag(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	admin, err := svc.Register(ctx, "boss", "secret", "admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role)

	// anything other than "admin" falls back to a plain user
	user, err := svc.Register(ctx, "crook", "secret", "superadmin")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, user.Role)
}

func TestRegisterConflict(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrUserAlreadyExist)

	var count int64
	require.NoError(t, svc.Repo.DB.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoginInvalidCredentialsUndifferentiated(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret", "")
	require.NoError(t, err)

	res, err1 := svc.Login(ctx, "alice", "wrong")
	assert.Nil(t, res)
	require.Error(t, err1)
	assert.ErrorIs(t, err1, repo.ErrInvalidCredentials)

	res, err2 := svc.Login(ctx, "nobody", "secret")
	assert.Nil(t, res)
	require.Error(t, err2)
	assert.ErrorIs(t, err2, repo.ErrInvalidCredentials)

	assert.Equal(t, err1.Error(), err2.Error())
}

func TestLoginIssuesTokens(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "secret", "admin")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsAdmin)
	assert.Equal(t, user.ID, res.UserID)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)

	tk, err := jwt.Parse(res.AccessToken, func(j *jwt.Token) (interface{}, error) { return svc.JWTSecret, nil })
	require.NoError(t, err)
	require.True(t, tk.Valid)

	claims := tk.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(user.ID), claims["sub"])
	assert.Equal(t, RoleAdmin, claims["role"])

	var stored models.RefreshToken
	require.NoError(t, svc.Repo.DB.Where("token = ?", res.RefreshToken).First(&stored).Error)
	assert.Equal(t, user.ID, stored.UserID)
	assert.False(t, stored.Revoked)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret", "")
	require.NoError(t, err)
	res, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.RefreshToken))

	var stored models.RefreshToken
	require.NoError(t, svc.Repo.DB.Where("token = ?", res.RefreshToken).First(&stored).Error)
	assert.True(t, stored.Revoked)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "secret", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, "alice", "", "")
	assert.ErrorIs(t, err, ErrValidation)
}
