// Package pricing derives display prices and cart totals. Everything here is
// pure arithmetic over money.Money; callers fetch products and settings.
package pricing

import (
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/shopspring/decimal"
)

// Delivery holds the two shop-wide delivery settings.
type Delivery struct {
	Cost          money.Money `json:"delivery_cost"`
	FreeThreshold money.Money `json:"free_delivery_threshold"`
}

// DefaultDelivery matches the values seeded into a fresh settings table.
var DefaultDelivery = Delivery{
	Cost:          money.MustParse("5.00"),
	FreeThreshold: money.MustParse("50.00"),
}

// Quote is a derived view of a cart's totals.
type Quote struct {
	Subtotal    money.Money `json:"subtotal"`
	DeliveryFee money.Money `json:"delivery_fee"`
	Total       money.Money `json:"total"`
	ItemCount   int         `json:"item_count"`
}

// FreeDelivery reports whether the fee was waived.
func (q Quote) FreeDelivery() bool {
	return q.DeliveryFee.IsZero()
}

// EffectivePrice is the deal price if set and non-zero, otherwise the
// discounted price if set and non-zero, otherwise the original price.
func EffectivePrice(p models.Product) money.Money {
	if p.DealPrice != nil && !p.DealPrice.IsZero() {
		return *p.DealPrice
	}
	if p.DiscountedPrice != nil && !p.DiscountedPrice.IsZero() {
		return *p.DiscountedPrice
	}
	return p.OriginalPrice
}

// DiscountPercent is the whole-number saving of the effective price against
// the original, truncated toward zero. It is 0 when there is no saving.
func DiscountPercent(p models.Product) int {
	original := p.OriginalPrice
	effective := EffectivePrice(p)
	if !original.IsPositive() || effective.GreaterThanOrEqual(original) {
		return 0
	}
	saving := original.Decimal().Sub(effective.Decimal())
	pct := saving.Mul(decimal.NewFromInt(100)).Div(original.Decimal())
	return int(pct.Truncate(0).IntPart())
}

// QuoteEntries totals cart entries using their snapshot prices.
// The fee is waived only when the threshold is positive and reached.
func QuoteEntries(entries []cart.Entry, delivery Delivery) Quote {
	subtotal := money.Zero
	count := 0
	for _, entry := range entries {
		subtotal = subtotal.Add(entry.LineTotal())
		count += entry.Quantity
	}

	fee := delivery.Cost
	if delivery.FreeThreshold.IsPositive() && subtotal.GreaterThanOrEqual(delivery.FreeThreshold) {
		fee = money.Zero
	}

	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
		ItemCount:   count,
	}
}

// QuoteCart is QuoteEntries over a cart snapshot.
func QuoteCart(c *cart.Cart, delivery Delivery) Quote {
	return QuoteEntries(c.Snapshot(), delivery)
}
