package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/online_store/internal/models"
)

// AddImage stores data as a new image of itemID. The item check and the
// insert share one transaction; false means the item does not exist.
func (r *GormRepo) AddImage(ctx context.Context, itemID uint, data []byte) (*models.ItemImage, bool, error) {
	var img *models.ItemImage
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Item{}).Where("id = ?", itemID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		img = &models.ItemImage{ItemID: itemID, Data: data}
		return tx.Create(img).Error
	})
	if err != nil {
		return nil, false, err
	}
	return img, img != nil, nil
}

// FirstImage returns the lowest-id image of itemID.
func (r *GormRepo) FirstImage(ctx context.Context, itemID uint) (*models.ItemImage, error) {
	var img models.ItemImage
	if err := r.DB.WithContext(ctx).Where("item_id = ?", itemID).Order("id ASC").First(&img).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *GormRepo) CountImages(ctx context.Context, itemID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.ItemImage{}).Where("item_id = ?", itemID).Count(&n).Error
	return n, err
}
