package categories

import (
	"context"
	"fmt"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "category not found")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type Service interface {
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

// Delete unassigns the category's products and removes it. Products survive.
func (s *service) Delete(ctx context.Context, id uint) error {
	var (
		deleted    bool
		unassigned int64
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		if unassigned, err = repo.UnassignProducts(ctx, id); err != nil {
			return fmt.Errorf("unassign products: %w", err)
		}
		deleted, err = repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"category_id":         id,
		"products_unassigned": unassigned,
	}), "category.deleted")
	return nil
}
