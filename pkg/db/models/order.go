package models

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/money"
)

// Order is the durable record produced by checkout. Money fields and items are
// immutable once written; admins may only edit status, tracking and notes.
type Order struct {
	ID              uint              `gorm:"column:id;primaryKey;autoIncrement"`
	OrderNumber     string            `gorm:"column:order_number;size:20;not null;uniqueIndex:orders_order_number_key"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CustomerName    string            `gorm:"column:customer_name;size:200;not null"`
	CustomerEmail   string            `gorm:"column:customer_email;size:200;not null"`
	CustomerPhone   string            `gorm:"column:customer_phone;size:50"`
	ShippingAddress string            `gorm:"column:shipping_address;not null"`
	City            string            `gorm:"column:city;size:100;not null"`
	PostalCode      string            `gorm:"column:postal_code;size:20;not null"`
	Country         string            `gorm:"column:country;size:100;not null"`
	Notes           *string           `gorm:"column:notes"`
	AdminNotes      *string           `gorm:"column:admin_notes"`
	TrackingNumber  *string           `gorm:"column:tracking_number;size:100"`
	Subtotal        money.Money       `gorm:"column:subtotal;not null"`
	DeliveryCost    money.Money       `gorm:"column:delivery_cost;not null"`
	DiscountAmount  money.Money       `gorm:"column:discount_amount;not null"`
	TotalAmount     money.Money       `gorm:"column:total_amount;not null"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}

// ItemCount sums quantities across the order's items.
func (o Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}
