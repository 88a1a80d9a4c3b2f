package orders

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubLowStock struct {
	products []models.Product
	err      error
}

func (s stubLowStock) LowStock(context.Context) ([]models.Product, error) {
	return s.products, s.err
}

func newTestService(t *testing.T, lister lowStockLister) (Service, Repository, *gorm.DB) {
	t.Helper()
	client, conn := dbtest.Client(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, client, lister, logger.New(logger.Options{Output: io.Discard}))
	require.NoError(t, err)
	return svc, repo, conn
}

func strPtr(s string) *string { return &s }

func statusPtr(s enums.OrderStatus) *enums.OrderStatus { return &s }

func TestGetByNumber(t *testing.T) {
	svc, repo, _ := newTestService(t, stubLowStock{})
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newOrder("ORD-20240115-4821", "Ana", "a@x.io", enums.OrderStatusPending)))

	order, err := svc.GetByNumber(ctx, " ORD-20240115-4821 ")
	require.NoError(t, err)
	assert.Equal(t, "Ana", order.CustomerName)

	_, err = svc.GetByNumber(ctx, "ORD-20240115-0000")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.GetByNumber(ctx, "'; drop table orders; --")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateAdminFields(t *testing.T) {
	svc, repo, _ := newTestService(t, stubLowStock{})
	ctx := context.Background()
	order := newOrder("ORD-20240115-4821", "Ana", "a@x.io", enums.OrderStatusPending)
	require.NoError(t, repo.Create(ctx, order))

	updated, err := svc.Update(ctx, order.ID, AdminUpdateInput{
		Status:         statusPtr(enums.OrderStatusConfirmed),
		TrackingNumber: strPtr(" TRK-1 "),
		AdminNotes:     strPtr("called customer"),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, updated.Status)
	require.NotNil(t, updated.TrackingNumber)
	assert.Equal(t, "TRK-1", *updated.TrackingNumber)
	require.NotNil(t, updated.AdminNotes)
	assert.Equal(t, "15.00", updated.TotalAmount.String(), "money fields untouched")
	assert.Len(t, updated.Items, 1)

	updated, err = svc.Update(ctx, order.ID, AdminUpdateInput{TrackingNumber: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.TrackingNumber)
	assert.NotNil(t, updated.AdminNotes, "nil input leaves notes alone")
}

func TestUpdateRejectsIllegalTransition(t *testing.T) {
	svc, repo, _ := newTestService(t, stubLowStock{})
	ctx := context.Background()
	order := newOrder("ORD-20240115-4821", "Ana", "a@x.io", enums.OrderStatusCancelled)
	require.NoError(t, repo.Create(ctx, order))

	_, err := svc.Update(ctx, order.ID, AdminUpdateInput{Status: statusPtr(enums.OrderStatusShipped)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	assert.NotNil(t, pkgerrors.As(err).Details())
	assert.Nil(t, ErrInvalidTransition.Details())

	_, err = svc.Update(ctx, 9999, AdminUpdateInput{})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeleteOrder(t *testing.T) {
	svc, repo, conn := newTestService(t, stubLowStock{})
	ctx := context.Background()
	order := newOrder("ORD-20240115-4821", "Ana", "a@x.io", enums.OrderStatusPending)
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, svc.Delete(ctx, order.ID))
	var items int64
	require.NoError(t, conn.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&items).Error)
	assert.Zero(t, items)

	assert.ErrorIs(t, svc.Delete(ctx, order.ID), ErrOrderNotFound)
}

func TestListValidatesInput(t *testing.T) {
	svc, repo, _ := newTestService(t, stubLowStock{})
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newOrder("ORD-20240115-4821", "Ana", "a@x.io", enums.OrderStatusPending)))

	list, err := svc.List(ctx, ListFilters{}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, "15.00", list.Orders[0].TotalAmount.String())

	_, err = svc.List(ctx, ListFilters{Status: statusPtr("archived")}, pagination.Params{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.List(ctx, ListFilters{}, pagination.Params{Cursor: "%%%"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDashboard(t *testing.T) {
	lister := stubLowStock{products: []models.Product{{ID: 3, Name: "Mug", Stock: 1}}}
	svc, repo, _ := newTestService(t, lister)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newOrder("ORD-20240115-1001", "A", "a@x.io", enums.OrderStatusPending)))
	require.NoError(t, repo.Create(ctx, newOrder("ORD-20240115-1002", "B", "b@x.io", enums.OrderStatusShipped)))

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), dash.TotalOrders)
	assert.Equal(t, int64(1), dash.PendingOrders)
	require.Len(t, dash.LowStock, 1)
	assert.Equal(t, "Mug", dash.LowStock[0].Name)

	failing, _, _ := newTestService(t, stubLowStock{err: errors.New("down")})
	_, err = failing.Dashboard(ctx)
	assert.Error(t, err)
}

func TestNewOrderDTOHidesAdminNotes(t *testing.T) {
	order := newOrder("ORD-20240115-4821", "Ana", "a@x.io", enums.OrderStatusPending)
	order.AdminNotes = strPtr("internal")
	order.Items[0].Quantity = 3

	public := NewOrderDTO(order, false)
	assert.Nil(t, public.AdminNotes)
	assert.Equal(t, 3, public.ItemCount)
	assert.Equal(t, money.MustParse("10.00"), public.Items[0].UnitPrice)

	admin := NewOrderDTO(order, true)
	require.NotNil(t, admin.AdminNotes)
}
