package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ekoshkina/webshop/internal/models"
	"github.com/ekoshkina/webshop/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
	))

	return db
}

func newCartService(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return &CartService{Repo: repo.New(db)}, db
}

func createProduct(t *testing.T, db *gorm.DB, name string, price float64) *models.Product {
	t.Helper()
	p := models.Product{Name: name, Description: name + " description", Price: price}
	require.NoError(t, db.Create(&p).Error)
	return &p
}
