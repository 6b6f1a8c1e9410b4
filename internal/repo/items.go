package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/online_store/internal/models"
)

func (r *GormRepo) CreateItem(ctx context.Context, item *models.Item) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) ListItems(ctx context.Context) ([]models.Item, error) {
	items := make([]models.Item, 0)
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem overwrites name and price of an existing item and returns the
// stored row. gorm.ErrRecordNotFound when id is absent.
func (r *GormRepo) UpdateItem(ctx context.Context, id uint, name string, price int64) (*models.Item, error) {
	var item models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
			return err
		}
		if err := tx.Model(&item).Updates(map[string]any{"name": name, "price": price}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes the item and, when cascade is set, its images and cart
// lines in the same transaction. Returns false when no item matched.
func (r *GormRepo) DeleteItem(ctx context.Context, id uint, cascade bool) (bool, error) {
	deleted := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Item{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true

		if !cascade {
			return nil
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.ItemImage{}).Error; err != nil {
			return err
		}
		return tx.Where("item_id = ?", id).Delete(&models.CartLine{}).Error
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *GormRepo) ItemExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
