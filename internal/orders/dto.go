package orders

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/money"
)

// ListFilters describe the admin order list inputs.
type ListFilters struct {
	Status *enums.OrderStatus
	Query  string
}

// OrderList wraps a page of orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// AdminUpdateInput carries the only fields admins may change. Nil leaves a
// field untouched; an empty string clears tracking number or notes.
type AdminUpdateInput struct {
	Status         *enums.OrderStatus
	TrackingNumber *string
	AdminNotes     *string
}

// LowStockProduct is a dashboard row.
type LowStockProduct struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// Dashboard summarises order and stock state for the admin home.
type Dashboard struct {
	TotalOrders   int64             `json:"total_orders"`
	PendingOrders int64             `json:"pending_orders"`
	LowStock      []LowStockProduct `json:"low_stock"`
}

// OrderSummary is the list row.
type OrderSummary struct {
	ID            uint              `json:"id"`
	OrderNumber   string            `json:"order_number"`
	Status        enums.OrderStatus `json:"status"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email"`
	TotalAmount   money.Money       `json:"total_amount"`
	CreatedAt     time.Time         `json:"created_at"`
}

// OrderItemDTO is the public shape of an order line.
type OrderItemDTO struct {
	ProductID   *uint       `json:"product_id"`
	ProductName string      `json:"product_name"`
	ProductSKU  *string     `json:"product_sku"`
	UnitPrice   money.Money `json:"unit_price"`
	Quantity    int         `json:"quantity"`
	LineTotal   money.Money `json:"line_total"`
}

// OrderDTO is the confirmation/detail shape. Admin-only fields are omitted
// unless the caller asks for them.
type OrderDTO struct {
	ID              uint              `json:"id"`
	OrderNumber     string            `json:"order_number"`
	Status          enums.OrderStatus `json:"status"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone,omitempty"`
	ShippingAddress string            `json:"shipping_address"`
	City            string            `json:"city"`
	PostalCode      string            `json:"postal_code"`
	Country         string            `json:"country"`
	Notes           *string           `json:"notes,omitempty"`
	TrackingNumber  *string           `json:"tracking_number,omitempty"`
	AdminNotes      *string           `json:"admin_notes,omitempty"`
	Subtotal        money.Money       `json:"subtotal"`
	DeliveryCost    money.Money       `json:"delivery_cost"`
	DiscountAmount  money.Money       `json:"discount_amount"`
	TotalAmount     money.Money       `json:"total_amount"`
	ItemCount       int               `json:"item_count"`
	Items           []OrderItemDTO    `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// NewOrderDTO maps a persisted order. withAdmin includes admin notes.
func NewOrderDTO(order *models.Order, withAdmin bool) OrderDTO {
	dto := OrderDTO{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		ShippingAddress: order.ShippingAddress,
		City:            order.City,
		PostalCode:      order.PostalCode,
		Country:         order.Country,
		Notes:           order.Notes,
		TrackingNumber:  order.TrackingNumber,
		Subtotal:        order.Subtotal,
		DeliveryCost:    order.DeliveryCost,
		DiscountAmount:  order.DiscountAmount,
		TotalAmount:     order.TotalAmount,
		ItemCount:       order.ItemCount(),
		Items:           make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	if withAdmin {
		dto.AdminNotes = order.AdminNotes
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}
	return dto
}

func newOrderSummary(order models.Order) OrderSummary {
	return OrderSummary{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		TotalAmount:   order.TotalAmount,
		CreatedAt:     order.CreatedAt,
	}
}
