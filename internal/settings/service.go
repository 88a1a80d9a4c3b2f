package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/pricing"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"gorm.io/gorm"
)

const (
	KeyDeliveryCost          = "delivery_cost"
	KeyFreeDeliveryThreshold = "free_delivery_threshold"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the typed delivery settings.
type Service interface {
	Delivery(ctx context.Context) (pricing.Delivery, error)
	UpdateDelivery(ctx context.Context, input pricing.Delivery) (pricing.Delivery, error)
	EnsureDefaults(ctx context.Context) error
}

type service struct {
	repo     Repository
	tx       txRunner
	defaults pricing.Delivery
	logg     *logger.Logger
}

// NewService builds the settings service. defaults apply when a key is absent.
func NewService(repo Repository, tx txRunner, defaults pricing.Delivery, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, defaults: defaults, logg: logg}, nil
}

// Delivery reads both values in one query. A missing key falls back to the
// default, a blank value means zero and a malformed value is logged and
// replaced by the default.
func (s *service) Delivery(ctx context.Context) (pricing.Delivery, error) {
	values, err := s.repo.GetMany(ctx, KeyDeliveryCost, KeyFreeDeliveryThreshold)
	if err != nil {
		return pricing.Delivery{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery settings")
	}
	return pricing.Delivery{
		Cost:          s.resolve(ctx, values, KeyDeliveryCost, s.defaults.Cost),
		FreeThreshold: s.resolve(ctx, values, KeyFreeDeliveryThreshold, s.defaults.FreeThreshold),
	}, nil
}

func (s *service) resolve(ctx context.Context, values map[string]string, key string, fallback money.Money) money.Money {
	raw, ok := values[key]
	if !ok {
		return fallback
	}
	if strings.TrimSpace(raw) == "" {
		return money.Zero
	}
	parsed, err := money.Parse(raw)
	if err != nil || parsed.IsNegative() {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"setting": key, "value": raw}), "settings.invalid_value")
		return fallback
	}
	return parsed
}

func (s *service) UpdateDelivery(ctx context.Context, input pricing.Delivery) (pricing.Delivery, error) {
	if input.Cost.IsNegative() || input.FreeThreshold.IsNegative() {
		return pricing.Delivery{}, pkgerrors.New(pkgerrors.CodeValidation, "delivery settings must not be negative")
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Upsert(ctx, KeyDeliveryCost, input.Cost.String()); err != nil {
			return err
		}
		return repo.Upsert(ctx, KeyFreeDeliveryThreshold, input.FreeThreshold.String())
	})
	if err != nil {
		return pricing.Delivery{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery settings")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"delivery_cost":           input.Cost.String(),
		"free_delivery_threshold": input.FreeThreshold.String(),
	}), "settings.delivery_updated")
	return input, nil
}

// EnsureDefaults seeds absent keys without touching existing values.
func (s *service) EnsureDefaults(ctx context.Context) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.InsertIfMissing(ctx, KeyDeliveryCost, s.defaults.Cost.String()); err != nil {
			return fmt.Errorf("seed %s: %w", KeyDeliveryCost, err)
		}
		if err := repo.InsertIfMissing(ctx, KeyFreeDeliveryThreshold, s.defaults.FreeThreshold.String()); err != nil {
			return fmt.Errorf("seed %s: %w", KeyFreeDeliveryThreshold, err)
		}
		return nil
	})
}
