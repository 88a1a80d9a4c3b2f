package orders

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Order, string, error)
	UpdateAdminFields(ctx context.Context, id uint, updates map[string]any) error
	DeleteItems(ctx context.Context, orderID uint) error
	Delete(ctx context.Context, id uint) (bool, error)
	CountByStatus(ctx context.Context, status *enums.OrderStatus) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts the order and its Items in the current transaction.
func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns newest orders first. Query matches order number, customer
// name or email case-insensitively.
func (r *repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Order, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.Order{})
	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(order_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ?)", pattern, pattern, pattern)
	}
	if cursor != nil {
		qb = qb.Where("id < ?", cursor.ID)
	}

	var rows []models.Order
	if err := qb.Order("id DESC").Limit(pagination.LimitWithBuffer(params.Limit)).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{ID: rows[len(rows)-1].ID})
	}
	return rows, nextCursor, nil
}

func (r *repository) UpdateAdminFields(ctx context.Context, id uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) DeleteItems(ctx context.Context, orderID uint) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error
}

func (r *repository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CountByStatus(ctx context.Context, status *enums.OrderStatus) (int64, error) {
	qb := r.db.WithContext(ctx).Model(&models.Order{})
	if status != nil {
		qb = qb.Where("status = ?", *status)
	}
	var count int64
	if err := qb.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
