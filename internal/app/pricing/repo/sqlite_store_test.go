package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testProduct(id, category string) *domain.Product {
	return &domain.Product{
		ID:                id,
		Category:          category,
		NameLength:        40,
		DescriptionLength: 900,
		PhotosQty:         2,
		WeightGrams:       1500,
		Score:             4.1,
		Volume:            3200,
	}
}

func testHistory(productID string, prices ...float64) []domain.HistoryRecord {
	records := make([]domain.HistoryRecord, len(prices))
	for i, p := range prices {
		records[i] = domain.HistoryRecord{
			ID:           fmt.Sprintf("%s-%02d", productID, i+1),
			ProductID:    productID,
			Year:         2017,
			Month:        i + 1,
			UnitPrice:    p,
			Quantity:     float64(10 + i),
			TotalPrice:   p * float64(10+i),
			FreightPrice: 15.1,
			Customers:    int64(20 + i),
			Weekday:      22,
			Weekend:      8,
			Holiday:      1,
			ProductScore: 4.1,
			Seasonality:  10.26,
			Competitors: []domain.CompetitorQuote{
				{Number: 1, Price: p + 1.5, Score: 3.9, Freight: 15.0},
				{Number: 2, Price: p - 0.5, Score: 4.2, Freight: 12.3},
			},
		}
		if i > 0 {
			records[i].LagPrice = domain.Float64Ptr(prices[i-1])
		}
	}
	return records
}

func TestSQLiteStore_History(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	records := testHistory("bed1", 45.95, 45.95, 39.99)
	n, err := store.WriteHistories(ctx, []contracts.ProductHistory{
		{Product: testProduct("bed1", "bed_bath_table"), Records: records},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	t.Run("round trips records in period order", func(t *testing.T) {
		got, err := store.GetHistory(ctx, "bed1")
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, records[0].ID, got[0].ID)
		assert.Nil(t, got[0].LagPrice)
		require.NotNil(t, got[2].LagPrice)
		assert.Equal(t, 45.95, *got[2].LagPrice)
		assert.Equal(t, 39.99, got[2].UnitPrice)
		assert.Equal(t, 15.1, got[2].FreightPrice)
		assert.Equal(t, 10.26, got[2].Seasonality)

		require.Len(t, got[1].Competitors, 2)
		assert.Equal(t, int64(1), got[1].Competitors[0].Number)
		assert.Equal(t, 47.45, got[1].Competitors[0].Price)
		assert.Equal(t, 12.3, got[1].Competitors[1].Freight)
	})

	t.Run("unknown product has no history", func(t *testing.T) {
		got, err := store.GetHistory(ctx, "ghost")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("re-ingest replaces rows and quotes", func(t *testing.T) {
		updated := testHistory("bed1", 45.95, 45.95, 41.00)
		updated[2].Competitors = updated[2].Competitors[:1]

		_, err := store.WriteHistories(ctx, []contracts.ProductHistory{
			{Product: testProduct("bed1", "bed_bath_table"), Records: updated},
		})
		require.NoError(t, err)

		got, err := store.GetHistory(ctx, "bed1")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, 41.0, got[2].UnitPrice)
		assert.Len(t, got[2].Competitors, 1)
	})

	t.Run("history round-trip drives the optimizer", func(t *testing.T) {
		got, err := store.GetHistory(ctx, "bed1")
		require.NoError(t, err)
		assert.Equal(t, "bed1", got[0].ProductID)
		assert.InDelta(t, 46.45, got[0].CompetitorSignal().MeanPrice, 1e-9)
	})
}

func TestSQLiteStore_ReadModel(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	batch := []contracts.ProductHistory{
		{Product: testProduct("a1", "garden_tools"), Records: testHistory("a1", 10, 20)},
		{Product: testProduct("b2", "bed_bath_table"), Records: testHistory("b2", 30)},
		{Product: testProduct("c3", "garden_tools"), Records: nil},
	}
	_, err := store.WriteHistories(ctx, batch)
	require.NoError(t, err)

	t.Run("get product", func(t *testing.T) {
		p, err := store.GetProduct(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "garden_tools", p.Category)
		assert.Equal(t, int64(2), p.HistoryRecords)
		assert.Equal(t, int64(1500), p.WeightGrams)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := store.GetProduct(ctx, "zz")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("list pages by id", func(t *testing.T) {
		page, err := store.ListProducts(ctx, &contracts.ListFilter{PageSize: 2})
		require.NoError(t, err)
		require.Len(t, page.Products, 2)
		assert.Equal(t, "a1", page.Products[0].ProductID)
		assert.Equal(t, "b2", page.NextPageToken)

		next, err := store.ListProducts(ctx, &contracts.ListFilter{PageSize: 2, PageToken: page.NextPageToken})
		require.NoError(t, err)
		require.Len(t, next.Products, 1)
		assert.Equal(t, "c3", next.Products[0].ProductID)
		assert.Empty(t, next.NextPageToken)
	})

	t.Run("list filters by category", func(t *testing.T) {
		page, err := store.ListProducts(ctx, &contracts.ListFilter{Category: "garden_tools"})
		require.NoError(t, err)
		require.Len(t, page.Products, 2)
		assert.Equal(t, "c3", page.Products[1].ProductID)
	})

	t.Run("categories are distinct and sorted", func(t *testing.T) {
		categories, err := store.ListCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"bed_bath_table", "garden_tools"}, categories)
	})

	t.Run("summary", func(t *testing.T) {
		s, err := store.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), s.TotalProducts)
		assert.Equal(t, int64(3), s.TotalRecords)
		// 10*10 + 20*11 + 30*10
		assert.InDelta(t, 620.0, s.TotalRevenue, 1e-9)
		assert.InDelta(t, 20.0, s.AveragePrice, 1e-9)
	})
}

func TestSQLiteStore_EmptySummary(t *testing.T) {
	s, err := openTestStore(t).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &contracts.Summary{}, s)
}
