package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ekoshkina/webshop/internal/models"
	"github.com/ekoshkina/webshop/internal/repo"
)

type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionIncrease, DirectionDecrease:
		return Direction(s), nil
	}
	return "", fmt.Errorf("direction must be %q or %q: %w", DirectionIncrease, DirectionDecrease, ErrValidation)
}

type CartLine struct {
	Item      models.CartItem
	Product   models.Product
	LineTotal float64
}

type CartView struct {
	Lines []CartLine
	Total float64
}

// AdjustOutcome is a tagged result: AdjustQuantity either updated the line
// or removed it, and the two cases carry different payloads.
type AdjustOutcome interface {
	adjustOutcome()
}

type AdjustUpdated struct {
	NewQuantity uint
	NewTotal    float64
	CartTotal   float64
}

type AdjustRemoved struct {
	CartTotal float64
}

func (AdjustUpdated) adjustOutcome() {}
func (AdjustRemoved) adjustOutcome() {}

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) AddOne(ctx context.Context, userID, productID uint) error {
	if productID == 0 {
		return fmt.Errorf("product id required: %w", ErrValidation)
	}

	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return err
	}

	return s.Repo.AddOne(ctx, userID, productID)
}

func (s *CartService) RemoveOne(ctx context.Context, userID, productID uint) error {
	if productID == 0 {
		return fmt.Errorf("product id required: %w", ErrValidation)
	}

	err := s.Repo.RemoveOne(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// nothing in the cart for this product, nothing to remove
		return nil
	}
	return err
}

func (s *CartService) ListCart(ctx context.Context, userID uint) (*CartView, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Lines: make([]CartLine, 0, len(items))}
	for _, it := range items {
		p, err := s.Repo.GetProduct(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		line := CartLine{
			Item:      it,
			Product:   *p,
			LineTotal: float64(it.Quantity) * p.Price,
		}
		view.Lines = append(view.Lines, line)
		view.Total += line.LineTotal
	}

	return view, nil
}

func (s *CartService) AdjustQuantity(ctx context.Context, userID, itemID uint, dir Direction) (AdjustOutcome, error) {
	switch dir {
	case DirectionIncrease:
		item, err := s.Repo.IncrementItem(ctx, userID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
			}
			return nil, err
		}
		return s.updatedOutcome(ctx, userID, item)

	case DirectionDecrease:
		deleted, item, err := s.Repo.DecrementItem(ctx, userID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
			}
			return nil, err
		}
		if deleted {
			total, err := s.cartTotal(ctx, userID)
			if err != nil {
				return nil, err
			}
			return AdjustRemoved{CartTotal: total}, nil
		}
		return s.updatedOutcome(ctx, userID, item)
	}

	return nil, fmt.Errorf("unknown direction %q: %w", dir, ErrValidation)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) (float64, error) {
	if err := s.Repo.DeleteItem(ctx, userID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
		}
		return 0, err
	}
	return s.cartTotal(ctx, userID)
}

func (s *CartService) updatedOutcome(ctx context.Context, userID uint, item *models.CartItem) (AdjustOutcome, error) {
	p, err := s.Repo.GetProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	total, err := s.cartTotal(ctx, userID)
	if err != nil {
		return nil, err
	}
	return AdjustUpdated{
		NewQuantity: item.Quantity,
		NewTotal:    float64(item.Quantity) * p.Price,
		CartTotal:   total,
	}, nil
}

// cartTotal re-derives the total from the current rows on every call, so it
// can never drift from the underlying line items.
func (s *CartService) cartTotal(ctx context.Context, userID uint) (float64, error) {
	view, err := s.ListCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	return view.Total, nil
}
