package models

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/money"
)

// Product is the catalog row read by pricing and checkout. Catalog CRUD lives
// outside this service; only stock is written here.
type Product struct {
	ID              uint         `gorm:"column:id;primaryKey;autoIncrement"`
	CategoryID      *uint        `gorm:"column:category_id"`
	Name            string       `gorm:"column:name;size:200;not null"`
	Slug            string       `gorm:"column:slug;size:220;not null;uniqueIndex:products_slug_key"`
	SKU             *string      `gorm:"column:sku;size:60;uniqueIndex:products_sku_key"`
	OriginalPrice   money.Money  `gorm:"column:original_price;not null"`
	DiscountedPrice *money.Money `gorm:"column:discounted_price"`
	DealPrice       *money.Money `gorm:"column:deal_price"`
	Image           string       `gorm:"column:image;size:300"`
	IsActive        bool         `gorm:"column:is_active;not null"`
	Stock           int          `gorm:"column:stock;not null;default:0"`
	CreatedAt       time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the table name explicit.
func (Product) TableName() string {
	return "products"
}
