package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/pricing"
	"github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"gorm.io/gorm"
)

// DefaultMaxAttempts bounds order number retries.
const DefaultMaxAttempts = 10

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type deliverySource interface {
	Delivery(ctx context.Context) (pricing.Delivery, error)
}

// Service turns carts into orders.
type Service interface {
	// CreateOrder persists the cart as an order in one transaction and clears
	// the cart on success. On any error the cart is left untouched.
	CreateOrder(ctx context.Context, c *cart.Cart, customer CustomerInfo, quote pricing.Quote) (*models.Order, error)
	// Checkout loads the session cart and delivery settings, quotes and
	// creates the order, then saves the emptied cart.
	Checkout(ctx context.Context, sessionID string, customer CustomerInfo) (*models.Order, error)
}

// Dependencies wires the checkout service.
type Dependencies struct {
	Tx          txRunner
	Orders      orders.Repository
	Products    products.Repository
	Carts       cart.Store
	Settings    deliverySource
	Numbers     orders.NumberGenerator
	Metrics     *metrics.CheckoutMetrics
	Logger      *logger.Logger
	MaxAttempts int
	Now         func() time.Time
}

type service struct {
	tx          txRunner
	orders      orders.Repository
	products    products.Repository
	carts       cart.Store
	settings    deliverySource
	numbers     orders.NumberGenerator
	metrics     *metrics.CheckoutMetrics
	logg        *logger.Logger
	maxAttempts int
	now         func() time.Time
}

// NewService builds the checkout service.
func NewService(deps Dependencies) (Service, error) {
	if deps.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if deps.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if deps.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if deps.Carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if deps.Settings == nil {
		return nil, fmt.Errorf("settings source required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if deps.Numbers == nil {
		deps.Numbers = orders.NewRandomNumberGenerator(nil)
	}
	if deps.MaxAttempts <= 0 {
		deps.MaxAttempts = DefaultMaxAttempts
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{
		tx:          deps.Tx,
		orders:      deps.Orders,
		products:    deps.Products,
		carts:       deps.Carts,
		settings:    deps.Settings,
		numbers:     deps.Numbers,
		metrics:     deps.Metrics,
		logg:        deps.Logger,
		maxAttempts: deps.MaxAttempts,
		now:         deps.Now,
	}, nil
}

func (s *service) Checkout(ctx context.Context, sessionID string, customer CustomerInfo) (*models.Order, error) {
	ctx = s.logg.WithSessionID(ctx, sessionID)

	delivery, err := s.settings.Delivery(ctx)
	if err != nil {
		s.metrics.IncFailure(metrics.ReasonSettingsUnavailable)
		return nil, err
	}
	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	order, err := s.CreateOrder(ctx, c, customer, pricing.QuoteCart(c, delivery))
	if err != nil {
		return nil, err
	}

	// The order is committed; a failed cart write only leaves a stale cart.
	if err := s.carts.Save(ctx, sessionID, c); err != nil {
		s.logg.Error(s.logg.WithOrderNumber(ctx, order.OrderNumber), "checkout.cart_clear_failed", err)
	}
	return order, nil
}

func (s *service) CreateOrder(ctx context.Context, c *cart.Cart, customer CustomerInfo, quote pricing.Quote) (*models.Order, error) {
	started := s.now()
	order, err := s.createOrder(ctx, c, customer, quote)
	if err != nil {
		s.metrics.ObserveDuration("failure", s.now().Sub(started))
		return nil, err
	}
	s.metrics.ObserveDuration("success", s.now().Sub(started))
	return order, nil
}

func (s *service) createOrder(ctx context.Context, c *cart.Cart, customer CustomerInfo, quote pricing.Quote) (*models.Order, error) {
	if c == nil || c.IsEmpty() {
		s.metrics.IncFailure(metrics.ReasonEmptyCart)
		return nil, ErrEmptyCart
	}
	customer = customer.normalized()
	if err := customer.validate(); err != nil {
		return nil, err
	}

	entries := c.Snapshot()
	if err := checkQuote(entries, quote); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout cancelled")
		}

		number := s.numbers.Next(s.now())
		order, vanished, err := s.persist(ctx, number, entries, customer, quote)
		if err == nil {
			s.afterCommit(ctx, order, vanished)
			c.Clear()
			return order, nil
		}

		if orders.IsOrderNumberConflict(err) {
			s.metrics.IncCollision()
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"order_number": number,
				"attempt":      attempt,
			}), "checkout.order_number_collision")
			continue
		}

		s.metrics.IncFailure(metrics.ReasonPersistence)
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	s.metrics.IncFailure(metrics.ReasonNumberExhausted)
	s.logg.Warn(s.logg.WithField(ctx, "attempts", s.maxAttempts), "checkout.order_number_exhausted")
	return nil, ErrOrderNumberExhausted.Clone().WithDetails(map[string]any{"attempts": s.maxAttempts})
}

// persist writes the order, its items and the stock decrements in one
// transaction. Products are locked in ascending id order.
func (s *service) persist(ctx context.Context, number string, entries []cart.Entry, customer CustomerInfo, quote pricing.Quote) (*models.Order, []uint, error) {
	var (
		order    *models.Order
		vanished []uint
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		productRepo := s.products.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		vanished = vanished[:0]
		items := make([]models.OrderItem, 0, len(entries))
		decrements := make([]cart.Entry, 0, len(entries))
		for _, entry := range entries {
			product, err := productRepo.FindByIDForUpdate(ctx, entry.ProductID)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				product = nil
				vanished = append(vanished, entry.ProductID)
			case err != nil:
				return fmt.Errorf("lock product %d: %w", entry.ProductID, err)
			}
			items = append(items, newOrderItem(entry, product))
			if product != nil && product.Stock > 0 {
				decrements = append(decrements, entry)
			}
		}

		order = newOrder(number, customer, quote, items)
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}

		for _, entry := range decrements {
			if err := productRepo.DecrementStock(ctx, entry.ProductID, entry.Quantity); err != nil {
				return fmt.Errorf("decrement stock for product %d: %w", entry.ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return order, vanished, nil
}

func (s *service) afterCommit(ctx context.Context, order *models.Order, vanished []uint) {
	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
	for _, productID := range vanished {
		s.metrics.IncVanished()
		s.logg.Warn(s.logg.WithField(ctx, "product_id", productID), "checkout.product_vanished")
	}
	s.metrics.IncCreated()
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"total":      order.TotalAmount.String(),
		"item_count": order.ItemCount(),
	}), "checkout.order_created")
}

func newOrderItem(entry cart.Entry, product *models.Product) models.OrderItem {
	item := models.OrderItem{
		ProductName: entry.Name,
		UnitPrice:   entry.UnitPrice,
		Quantity:    entry.Quantity,
		LineTotal:   entry.LineTotal(),
	}
	if product != nil {
		id := product.ID
		item.ProductID = &id
		item.ProductSKU = product.SKU
	}
	return item
}

func newOrder(number string, customer CustomerInfo, quote pricing.Quote, items []models.OrderItem) *models.Order {
	order := &models.Order{
		OrderNumber:     number,
		Status:          enums.OrderStatusPending,
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		ShippingAddress: customer.Address,
		City:            customer.City,
		PostalCode:      customer.PostalCode,
		Country:         customer.Country,
		Subtotal:        quote.Subtotal,
		DeliveryCost:    quote.DeliveryFee,
		DiscountAmount:  money.Zero,
		TotalAmount:     quote.Total,
		Items:           items,
	}
	if customer.Notes != "" {
		notes := customer.Notes
		order.Notes = &notes
	}
	return order
}

// checkQuote keeps subtotal equal to the sum of line totals and total equal
// to subtotal plus delivery.
func checkQuote(entries []cart.Entry, quote pricing.Quote) error {
	subtotal := money.Zero
	for _, entry := range entries {
		subtotal = subtotal.Add(entry.LineTotal())
	}
	if !subtotal.Equal(quote.Subtotal) || !quote.Total.Equal(quote.Subtotal.Add(quote.DeliveryFee)) {
		return ErrQuoteMismatch.Clone().WithDetails(map[string]any{
			"cart_subtotal":  subtotal.String(),
			"quote_subtotal": quote.Subtotal.String(),
			"quote_total":    quote.Total.String(),
		})
	}
	return nil
}
