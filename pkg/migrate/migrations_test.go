package migrate

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no migration matching %s", pattern)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CONSTRAINT orders_order_number_key UNIQUE (order_number)",
		"CHECK (status IN ('pending', 'confirmed', 'processing', 'shipped', 'delivered', 'cancelled', 'refunded'))",
		"CREATE TABLE IF NOT EXISTS order_items",
		"order_id BIGINT NOT NULL REFERENCES orders(id)",
		"product_id BIGINT REFERENCES products(id)",
		"CHECK (quantity > 0)",
	}
	for _, sub := range checks {
		assert.Contains(t, content, sub)
	}
	assert.NotContains(t, strings.ToUpper(content), "ON DELETE CASCADE")
}

func TestCatalogMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_catalog_tables.sql")

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS categories",
		"CREATE TABLE IF NOT EXISTS products",
		"CONSTRAINT products_slug_key UNIQUE (slug)",
		"CONSTRAINT products_sku_key UNIQUE (sku)",
		"CHECK (stock >= 0)",
		"is_active BOOLEAN NOT NULL DEFAULT TRUE",
	} {
		assert.Contains(t, content, sub)
	}
}

func TestSettingsMigrationSeedsDeliveryDefaults(t *testing.T) {
	content := readMigration(t, "*_create_site_settings_table.sql")
	assert.Contains(t, content, "('delivery_cost', '5.00')")
	assert.Contains(t, content, "('free_delivery_threshold', '50.00')")
	assert.Contains(t, content, "ON CONFLICT (key) DO NOTHING")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Order Index!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_order_index.sql"))
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
}

func TestCreateSQLMigrationRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	path, err := createSQLMigration(dir, "orders tracking", at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20240301120000_orders_tracking.sql"), path)

	_, err = createSQLMigration(dir, "Orders--Tracking", at)
	assert.ErrorContains(t, err, "already exists")
}

func TestValidateDirChecksAnnotations(t *testing.T) {
	cases := map[string]string{
		"down before up": "-- +goose Down\n-- +goose Up\n",
		"unbalanced":     "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n",
		"stray end":      "-- +goose Up\n-- +goose StatementEnd\n-- +goose Down\n",
		"missing down":   "-- +goose Up\nSELECT 1;\n",
	}
	for name, body := range cases {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "20240301120000_case.sql"), []byte(body), 0o644))
		assert.Error(t, ValidateDir(dir), name)
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	assert.Error(t, ValidateDir(dir))
}

func TestDialect(t *testing.T) {
	got, err := Dialect(config.DriverPostgres)
	require.NoError(t, err)
	assert.Equal(t, "postgres", got)

	_, err = Dialect(config.DriverSQLite)
	assert.Error(t, err)
}

func TestMaybeRunDevAutoMigratesSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{
		App:          config.AppConfig{Env: config.AppEnvDev},
		DB:           config.DBConfig{Driver: config.DriverSQLite},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
	}
	logg := logger.New(logger.Options{Output: io.Discard})

	require.NoError(t, MaybeRunDev(context.Background(), cfg, logg, db.NewFromGorm(conn)))
	for _, table := range []string{"categories", "products", "orders", "order_items", "site_settings"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
}

func TestMaybeRunDevSkipsOutsideDev(t *testing.T) {
	cfg := &config.Config{
		App:          config.AppConfig{Env: config.AppEnvProd},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
	}
	assert.NoError(t, MaybeRunDev(context.Background(), cfg, logger.New(logger.Options{Output: io.Discard}), nil))
}
