package service

import (
	"context"
	"fmt"

	"github.com/ekoshkina/webshop/internal/models"
	"github.com/ekoshkina/webshop/internal/repo"
	"github.com/ekoshkina/webshop/internal/transport"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) GetProducts(ctx context.Context, categoryID *uint, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, categoryID, offset, limit)
}

func (s *CatalogService) GetCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.GetCategories(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name required: %w", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}

	prod := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
	}
	return s.Repo.CreateProduct(ctx, &prod)
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	return s.Repo.PatchProduct(ctx, req, id)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	return s.Repo.DeleteProduct(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name required: %w", ErrValidation)
	}
	cat := models.Category{Name: req.Name}
	return s.Repo.CreateCategory(ctx, &cat)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	return s.Repo.DeleteCategory(ctx, id)
}
