package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/ekoshkina/webshop/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddOne applies the get-or-create-then-increment as one transaction: the
// arithmetic UPDATE hits an existing row atomically, the INSERT covers the
// first add for this (user, product) pair.
func (r *GormRepo) AddOne(ctx context.Context, userID, productID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Update("quantity", gorm.Expr("quantity + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		item := models.CartItem{UserID: userID, ProductID: productID, Quantity: 1}
		return tx.Create(&item).Error
	})
}

// RemoveOne decrements the (user, product) row or deletes it at quantity 1.
// A missing row surfaces as gorm.ErrRecordNotFound for the caller to treat
// as a no-op.
func (r *GormRepo) RemoveOne(ctx context.Context, userID, productID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		if err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error; err != nil {
			return err
		}
		if item.Quantity > 1 {
			return tx.Model(&item).Update("quantity", gorm.Expr("quantity - ?", 1)).Error
		}
		return tx.Delete(&item).Error
	})
}

// GetItem is the ownership-constrained lookup: an id belonging to another
// user is indistinguishable from a missing one.
func (r *GormRepo) GetItem(ctx context.Context, userID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) IncrementItem(ctx context.Context, userID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
			return err
		}
		if err := tx.Model(&item).Update("quantity", gorm.Expr("quantity + ?", 1)).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", itemID).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) DecrementItem(ctx context.Context, userID, itemID uint) (bool, *models.CartItem, error) {
	var item models.CartItem
	deleted := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
			return err
		}
		if item.Quantity > 1 {
			if err := tx.Model(&item).Update("quantity", gorm.Expr("quantity - ?", 1)).Error; err != nil {
				return err
			}
			return tx.Where("id = ?", itemID).First(&item).Error
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return deleted, &item, nil
}

func (r *GormRepo) DeleteItem(ctx context.Context, userID, itemID uint) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
