package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekoshkina/webshop/internal/models"
	"github.com/ekoshkina/webshop/internal/transport"
)

func register(t *testing.T, env *testEnv, username, password, role string) {
	t.Helper()
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", transport.RegisterRequest{
		Username: username,
		Password: password,
		Role:     role,
	})
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "alice", "secret", "")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", transport.LoginRequest{
		Username: "alice",
		Password: "secret",
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.False(t, resp.IsAdmin)

	names := map[string]bool{}
	for _, ck := range rec.Result().Cookies() {
		names[ck.Name] = true
		assert.True(t, ck.HttpOnly)
	}
	assert.True(t, names["accessToken"])
	assert.True(t, names["refreshToken"])
}

func TestRegisterConflictKeepsSingleRecord(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "alice", "secret", "")

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", transport.RegisterRequest{
		Username: "alice",
		Password: "other",
	})
	err := env.Auth.Register(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "alice", "secret", "")

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", transport.LoginRequest{
		Username: "alice",
		Password: "wrong",
	})
	err1 := env.Auth.Login(c)
	require.Error(t, err1)
	he1 := err1.(*echo.HTTPError)
	assert.Equal(t, http.StatusUnauthorized, he1.Code)

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/login", transport.LoginRequest{
		Username: "nobody",
		Password: "secret",
	})
	err2 := env.Auth.Login(c)
	require.Error(t, err2)
	he2 := err2.(*echo.HTTPError)
	assert.Equal(t, http.StatusUnauthorized, he2.Code)

	assert.Equal(t, he1.Message, he2.Message)
}

func TestSignupAdminFlag(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "boss", "secret", "admin")

	var user models.User
	require.NoError(t, env.DB.Where("username = ?", "boss").First(&user).Error)
	assert.Equal(t, "admin", user.Role)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", transport.LoginRequest{
		Username: "boss",
		Password: "secret",
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsAdmin)
}

func TestLogoutRevokesAndClearsCookies(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "alice", "secret", "")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", transport.LoginRequest{
		Username: "alice",
		Password: "secret",
	})
	require.NoError(t, env.Auth.Login(c))

	var loginResp transport.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))

	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/logout", nil)
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: loginResp.RefreshToken})
	require.NoError(t, env.Auth.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.RefreshToken
	require.NoError(t, env.DB.Where("token = ?", loginResp.RefreshToken).First(&stored).Error)
	assert.True(t, stored.Revoked)
}
