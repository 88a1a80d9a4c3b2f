package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/money"
)

type stubCheckout struct {
	order     *models.Order
	err       error
	sessionID string
	customer  checkout.CustomerInfo
}

func (s *stubCheckout) Checkout(_ context.Context, sessionID string, customer checkout.CustomerInfo) (*models.Order, error) {
	s.sessionID = sessionID
	s.customer = customer
	return s.order, s.err
}

type stubOrderLookup map[string]*models.Order

func (s stubOrderLookup) GetByNumber(_ context.Context, number string) (*models.Order, error) {
	order, ok := s[number]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	return order, nil
}

func sampleOrder() *models.Order {
	adminNotes := "call before delivery"
	productID := uint(2)
	return &models.Order{
		ID:              7,
		OrderNumber:     "ORD-20240115-0042",
		Status:          enums.OrderStatusPending,
		CustomerName:    "Ada Lovelace",
		CustomerEmail:   "ada@example.com",
		ShippingAddress: "12 Analytical Way",
		City:            "London",
		PostalCode:      "N1 9GU",
		Country:         "UK",
		AdminNotes:      &adminNotes,
		Subtotal:        money.MustParse("25.50"),
		DeliveryCost:    money.MustParse("5.00"),
		DiscountAmount:  money.Zero,
		TotalAmount:     money.MustParse("30.50"),
		Items: []models.OrderItem{{
			ProductID:   &productID,
			ProductName: "Honey",
			UnitPrice:   money.MustParse("12.75"),
			Quantity:    2,
			LineTotal:   money.MustParse("25.50"),
		}},
	}
}

func TestCheckoutCreateReturnsCreatedOrder(t *testing.T) {
	svc := &stubCheckout{order: sampleOrder()}
	handler := withSession(CheckoutCreate(svc, nil))

	body := `{"name":" Ada Lovelace ","email":"ada@example.com","address":"12 Analytical Way","city":"London","postal_code":"N1 9GU","country":"UK","notes":"  ring twice  "}`
	resp := serve(t, handler, http.MethodPost, "/api/v1/checkout", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	assert.Equal(t, testSession, svc.sessionID)
	assert.Equal(t, "ring twice", svc.customer.Notes)
	assert.Equal(t, "London", svc.customer.City)

	var env struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "ORD-20240115-0042", env.Data["order_number"])
	assert.Equal(t, "30.50", env.Data["total_amount"])
	assert.Equal(t, float64(2), env.Data["item_count"])
	assert.NotContains(t, env.Data, "admin_notes")
}

func TestCheckoutCreateErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		body   string
		status int
	}{
		{name: "empty cart", err: checkout.ErrEmptyCart, body: `{"name":"a"}`, status: http.StatusBadRequest},
		{name: "exhausted", err: checkout.ErrOrderNumberExhausted, body: `{"name":"a"}`, status: http.StatusConflict},
		{name: "malformed email", body: `{"email":"not-an-email"}`, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"coupon":"FREE"}`, status: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := withSession(CheckoutCreate(&stubCheckout{err: tc.err}, nil))
			resp := serve(t, handler, http.MethodPost, "/api/v1/checkout", tc.body)
			assert.Equal(t, tc.status, resp.Code)
		})
	}
}

func TestCheckoutCreateRequiresSession(t *testing.T) {
	resp := serve(t, CheckoutCreate(&stubCheckout{}, nil), http.MethodPost, "/api/v1/checkout", `{}`)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestOrderConfirmation(t *testing.T) {
	order := sampleOrder()
	r := chi.NewRouter()
	r.Get("/api/v1/orders/{orderNumber}", OrderConfirmation(stubOrderLookup{order.OrderNumber: order}, nil))

	resp := serve(t, r, http.MethodGet, "/api/v1/orders/"+order.OrderNumber, "")
	require.Equal(t, http.StatusOK, resp.Code)
	var env struct {
		Data orders.OrderDTO `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, order.OrderNumber, env.Data.OrderNumber)
	assert.Nil(t, env.Data.AdminNotes)
	require.Len(t, env.Data.Items, 1)
	assert.True(t, env.Data.Items[0].LineTotal.Equal(money.MustParse("25.50")))

	resp = serve(t, r, http.MethodGet, "/api/v1/orders/ORD-20240115-9999", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
