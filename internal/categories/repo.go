package categories

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository covers the category writes this service owns.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	UnassignProducts(ctx context.Context, categoryID uint) (int64, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) UnassignProducts(ctx context.Context, categoryID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		UpdateColumn("category_id", nil)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
