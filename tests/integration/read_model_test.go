//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/repo"
	"github.com/light-bringer/priceopt-service/internal/pkg/committer"
	"github.com/light-bringer/priceopt-service/tests/testutil"
)

func TestReadModel(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	store := repo.NewSpannerStore(client, committer.NewCommitter(client))

	testutil.SeedLinearHistory(t, store, "garden7", "garden_tools")
	testutil.CreateTestProduct(t, client, "bed1", "bed_bath_table")
	testutil.CreateTestProduct(t, client, "bed2", "bed_bath_table")

	t.Run("get product counts history", func(t *testing.T) {
		dto, err := store.GetProduct(ctx, "garden7")
		require.NoError(t, err)
		assert.Equal(t, "garden_tools", dto.Category)
		assert.Equal(t, int64(10), dto.HistoryRecords)
	})

	t.Run("get unknown product", func(t *testing.T) {
		_, err := store.GetProduct(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("list products pages by id", func(t *testing.T) {
		first, err := store.ListProducts(ctx, &contracts.ListFilter{PageSize: 2})
		require.NoError(t, err)
		require.Len(t, first.Products, 2)
		assert.Equal(t, "bed1", first.Products[0].ProductID)
		assert.Equal(t, "bed2", first.NextPageToken)

		second, err := store.ListProducts(ctx, &contracts.ListFilter{PageSize: 2, PageToken: first.NextPageToken})
		require.NoError(t, err)
		require.Len(t, second.Products, 1)
		assert.Equal(t, "garden7", second.Products[0].ProductID)
		assert.Empty(t, second.NextPageToken)
	})

	t.Run("list products by category", func(t *testing.T) {
		result, err := store.ListProducts(ctx, &contracts.ListFilter{Category: "bed_bath_table"})
		require.NoError(t, err)
		assert.Len(t, result.Products, 2)
	})

	t.Run("categories", func(t *testing.T) {
		categories, err := store.ListCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"bed_bath_table", "garden_tools"}, categories)
	})

	t.Run("summary", func(t *testing.T) {
		summary, err := store.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), summary.TotalProducts)
		assert.Equal(t, int64(10), summary.TotalRecords)
		assert.Greater(t, summary.TotalRevenue, 0.0)
		assert.InDelta(t, 13.3, summary.AveragePrice, 1e-9)
	})
}
