package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/online_store/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0)
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// UpsertCartLine inserts the (userID, itemID) line or overwrites the quantity
// of the existing one in a single statement, then reads the stored row back.
func (r *GormRepo) UpsertCartLine(ctx context.Context, userID string, itemID uint, quantity int) (*models.CartLine, error) {
	var line models.CartLine
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.CartLine{UserID: userID, ItemID: itemID, Quantity: quantity}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND item_id = ?", userID, itemID).First(&line).Error
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// SetCartLineQuantity updates an existing line only. False when no line matched.
func (r *GormRepo) SetCartLineQuantity(ctx context.Context, userID string, itemID uint, quantity int) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.CartLine{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Update("quantity", quantity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) DeleteCartLine(ctx context.Context, userID string, itemID uint) (bool, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ? AND item_id = ?", userID, itemID).Delete(&models.CartLine{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID string) (int64, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}
