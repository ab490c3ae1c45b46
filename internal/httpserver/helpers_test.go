package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ekoshkina/webshop/internal/models"
	"github.com/ekoshkina/webshop/internal/repo"
	"github.com/ekoshkina/webshop/internal/service"
)

type testEnv struct {
	T    *testing.T
	E    *echo.Echo
	DB   *gorm.DB
	Auth *AuthHTTP
	Cart *CartHTTP
	Cat  *CatalogHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
	))

	r := repo.New(db)

	return &testEnv{
		T:  t,
		E:  echo.New(),
		DB: db,
		Auth: &AuthHTTP{
			Svc: &service.AuthService{
				Repo:          r,
				JWTSecret:     []byte("test-jwt-secret"),
				RefreshSecret: []byte("test-refresh-secret"),
			},
		},
		Cart: &CartHTTP{Svc: &service.CartService{Repo: r}},
		Cat:  &CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asUser mimics what the auth middleware puts into the request context.
func asUser(c echo.Context, userID uint) {
	c.Set("userID", userID)
	c.Set("role", service.RoleUser)
}

func (env *testEnv) createProduct(name string, price float64) *models.Product {
	env.T.Helper()
	p := models.Product{Name: name, Description: name, Price: price}
	require.NoError(env.T, env.DB.Create(&p).Error)
	return &p
}
