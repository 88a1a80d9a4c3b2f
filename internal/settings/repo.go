package settings

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository reads and writes site_settings rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	Upsert(ctx context.Context, key, value string) error
	InsertIfMissing(ctx context.Context, key, value string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	var rows []models.SiteSetting
	if err := r.db.WithContext(ctx).Where(map[string]any{"key": keys}).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

func (r *repository) Upsert(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.SiteSetting{Key: key, Value: value}).Error
}

func (r *repository) InsertIfMissing(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.SiteSetting{Key: key, Value: value}).Error
}
