package products

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the catalog gateway used by cart and checkout.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Product, error)
	DecrementStock(ctx context.Context, id uint, qty int) error
	DetachFromOrderItems(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) (bool, error)
	ListLowStock(ctx context.Context, threshold int) ([]models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
// sqlite has no row locks and ignores the clause.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStock lowers stock by qty without going below zero. Rows already
// at zero are left alone.
func (r *repository) DecrementStock(ctx context.Context, id uint, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock > 0", id).
		UpdateColumn("stock", gorm.Expr("CASE WHEN stock > ? THEN stock - ? ELSE 0 END", qty, qty)).
		Error
}

// DetachFromOrderItems keeps order history when a product goes away.
func (r *repository) DetachFromOrderItems(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("product_id = ?", id).
		UpdateColumn("product_id", nil).
		Error
}

func (r *repository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ListLowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND stock < ?", true, threshold).
		Order("stock ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
