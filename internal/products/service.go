package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound    = pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	ErrProductUnavailable = pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service wraps the catalog operations the storefront performs itself.
type Service interface {
	GetPurchasable(ctx context.Context, id uint) (*models.Product, error)
	Delete(ctx context.Context, id uint) error
	LowStock(ctx context.Context) ([]models.Product, error)
}

type service struct {
	repo              Repository
	tx                txRunner
	logg              *logger.Logger
	lowStockThreshold int
}

// NewService builds the product service.
func NewService(repo Repository, tx txRunner, logg *logger.Logger, lowStockThreshold int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg, lowStockThreshold: lowStockThreshold}, nil
}

// GetPurchasable returns an active product that may be added to a cart.
// Stock is advisory and not checked here.
func (s *service) GetPurchasable(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, ErrProductUnavailable
	}
	return product, nil
}

// Delete removes a product after detaching it from order history, in one
// transaction.
func (s *service) Delete(ctx context.Context, id uint) error {
	var deleted bool
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DetachFromOrderItems(ctx, id); err != nil {
			return fmt.Errorf("detach order items: %w", err)
		}
		var err error
		deleted, err = repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !deleted {
		return ErrProductNotFound
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id), "product.deleted")
	return nil
}

func (s *service) LowStock(ctx context.Context) ([]models.Product, error) {
	rows, err := s.repo.ListLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock products")
	}
	return rows, nil
}
