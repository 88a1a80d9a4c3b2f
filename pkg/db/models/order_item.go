package models

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/money"
)

// OrderItem snapshots a cart entry at checkout. ProductID is nulled when the
// product is deleted or had already vanished; name, SKU and price survive.
type OrderItem struct {
	ID          uint        `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     uint        `gorm:"column:order_id;not null;index"`
	ProductID   *uint       `gorm:"column:product_id;index"`
	ProductName string      `gorm:"column:product_name;size:200;not null"`
	ProductSKU  *string     `gorm:"column:product_sku;size:60"`
	UnitPrice   money.Money `gorm:"column:unit_price;not null"`
	Quantity    int         `gorm:"column:quantity;not null"`
	LineTotal   money.Money `gorm:"column:line_total;not null"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
