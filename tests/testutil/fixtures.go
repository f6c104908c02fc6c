package testutil

import (
	"context"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/pricingtest"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/usecases/ingest_history"
	"github.com/light-bringer/priceopt-service/internal/models/m_product"
)

// CreateTestProduct inserts a product row without history.
func CreateTestProduct(t *testing.T, client *spanner.Client, productID, category string) {
	t.Helper()

	p := pricingtest.Product(productID, category)
	mutation := m_product.NewModel().UpsertMut(&m_product.Data{
		ProductID:         p.ID,
		Category:          p.Category,
		NameLength:        p.NameLength,
		DescriptionLength: p.DescriptionLength,
		PhotosQty:         p.PhotosQty,
		WeightGrams:       p.WeightGrams,
		Score:             p.Score,
		Volume:            p.Volume,
	})
	_, err := client.Apply(context.Background(), []*spanner.Mutation{mutation})
	require.NoError(t, err, "failed to create test product")
}

// SeedLinearHistory writes a product with the ten-month linear demand
// history through the given writer and returns the stored records.
func SeedLinearHistory(t *testing.T, w contracts.HistoryWriter, productID, category string) []domain.HistoryRecord {
	t.Helper()

	p := pricingtest.Product(productID, category)
	records := pricingtest.LinearHistory(productID)
	for i := range records {
		records[i].ID = ingest_history.HistoryID(productID, records[i].Year, records[i].Month)
	}

	written, err := w.WriteHistories(context.Background(), []contracts.ProductHistory{{Product: &p, Records: records}})
	require.NoError(t, err, "failed to seed history")
	require.Equal(t, 1, written)
	return records
}
