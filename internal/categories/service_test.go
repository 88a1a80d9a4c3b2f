package categories

import (
	"context"
	"io"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteUnassignsProducts(t *testing.T) {
	client, conn := dbtest.Client(t)
	svc, err := NewService(NewRepository(conn), client, logger.New(logger.Options{Output: io.Discard}))
	require.NoError(t, err)

	category := models.Category{Name: "Kitchen", Slug: "kitchen"}
	require.NoError(t, conn.Create(&category).Error)
	product := dbtest.SeedProduct(t, conn, models.Product{Name: "Mug", CategoryID: &category.ID, OriginalPrice: money.MustParse("4"), IsActive: true})

	require.NoError(t, svc.Delete(context.Background(), category.ID))

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, product.ID).Error)
	assert.Nil(t, reloaded.CategoryID)

	var count int64
	require.NoError(t, conn.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, svc.Delete(context.Background(), category.ID), ErrCategoryNotFound)
}
