package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type lowStockLister interface {
	LowStock(ctx context.Context) ([]models.Product, error)
}

// Service exposes order reads for visitors and the admin-side edits.
type Service interface {
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	Get(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error)
	Update(ctx context.Context, id uint, input AdminUpdateInput) (*models.Order, error)
	Delete(ctx context.Context, id uint) error
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	products lowStockLister
	logg     *logger.Logger
}

// NewService builds the order service with the required dependencies.
func NewService(repo Repository, tx txRunner, products lowStockLister, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("low stock lister required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, products: products, logg: logg}, nil
}

func (s *service) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if !IsValidNumber(orderNumber) {
		return nil, ErrOrderNotFound
	}
	order, err := s.repo.FindByNumber(ctx, orderNumber)
	return order, mapLookupError(err)
}

func (s *service) Get(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	return order, mapLookupError(err)
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	rows, next, err := s.repo.List(ctx, filters, params)
	if err != nil {
		if _, cerr := pagination.ParseCursor(params.Cursor); cerr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, cerr, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := &OrderList{Orders: make([]OrderSummary, 0, len(rows)), NextCursor: next}
	for _, row := range rows {
		out.Orders = append(out.Orders, newOrderSummary(row))
	}
	return out, nil
}

// Update applies an admin edit. Status changes must follow the lifecycle
// table; money fields and items are never touched.
func (s *service) Update(ctx context.Context, id uint, input AdminUpdateInput) (*models.Order, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapLookupError(err)
		}

		changes := map[string]any{}
		if input.Status != nil {
			if !current.Status.CanTransitionTo(*input.Status) {
				return ErrInvalidTransition.Clone().WithDetails(map[string]any{
					"from": current.Status,
					"to":   *input.Status,
				})
			}
			if *input.Status != current.Status {
				changes["status"] = *input.Status
			}
		}
		if input.TrackingNumber != nil {
			changes["tracking_number"] = nullIfBlank(*input.TrackingNumber)
		}
		if input.AdminNotes != nil {
			changes["admin_notes"] = nullIfBlank(*input.AdminNotes)
		}

		if err := repo.UpdateAdminFields(ctx, id, changes); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		updated, err = repo.FindByID(ctx, id)
		return mapLookupError(err)
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithOrderNumber(ctx, updated.OrderNumber)
	s.logg.Info(s.logg.WithField(logCtx, "status", updated.Status), "order.admin_updated")
	return updated, nil
}

// Delete removes the order's items and then the order, in one transaction.
func (s *service) Delete(ctx context.Context, id uint) error {
	var deleted bool
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteItems(ctx, id); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		var err error
		deleted, err = repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	if !deleted {
		return ErrOrderNotFound
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", id), "order.deleted")
	return nil
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	total, err := s.repo.CountByStatus(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	pendingStatus := enums.OrderStatusPending
	pending, err := s.repo.CountByStatus(ctx, &pendingStatus)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending orders")
	}
	lowStock, err := s.products.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	out := &Dashboard{
		TotalOrders:   total,
		PendingOrders: pending,
		LowStock:      make([]LowStockProduct, 0, len(lowStock)),
	}
	for _, product := range lowStock {
		out.LowStock = append(out.LowStock, LowStockProduct{ID: product.ID, Name: product.Name, Stock: product.Stock})
	}
	return out, nil
}

func mapLookupError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
}

func nullIfBlank(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
