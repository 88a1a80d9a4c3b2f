// Package dbtest opens isolated sqlite databases with the storefront schema.
package dbtest

import (
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open returns a fresh in-memory database migrated with every model. The
// pool is pinned to one connection so concurrent tests serialise on it the
// way row locks serialise them in postgres.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:storefront_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}

// Client wraps Open in a db.Client for services that need WithTx.
func Client(t *testing.T) (*db.Client, *gorm.DB) {
	t.Helper()
	conn := Open(t)
	return db.NewFromGorm(conn), conn
}

// SeedProduct inserts a product and fails the test on error.
func SeedProduct(t *testing.T, conn *gorm.DB, product models.Product) models.Product {
	t.Helper()
	if product.Slug == "" {
		product.Slug = "product-" + uuid.NewString()
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}
