package get_price_history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/pricingtest"
)

func TestQuery_Execute(t *testing.T) {
	store := pricingtest.NewStore()
	store.Put(pricingtest.Product("garden7", "garden_tools"), pricingtest.LinearHistory("garden7"))
	store.Put(pricingtest.Product("bed1", "bed_bath_table"), nil)
	q := NewQuery(store, store)
	ctx := context.Background()

	t.Run("ordered records with quotes", func(t *testing.T) {
		resp, err := q.Execute(ctx, &Request{ProductID: "garden7"})
		require.NoError(t, err)
		require.Len(t, resp.Records, 10)

		first := resp.Records[0]
		assert.Equal(t, "01-2024", first.MonthYear)
		assert.Nil(t, first.LagPrice)
		require.Len(t, first.Competitors, 1)
		assert.Equal(t, 12.0, first.Competitors[0].Price)

		last := resp.Records[9]
		assert.Equal(t, 10, last.Month)
		assert.Equal(t, 17.0, last.UnitPrice)
		require.NotNil(t, last.LagPrice)
		assert.Equal(t, 14.0, *last.LagPrice)
	})

	t.Run("known product without history", func(t *testing.T) {
		resp, err := q.Execute(ctx, &Request{ProductID: "bed1"})
		require.NoError(t, err)
		assert.NotNil(t, resp.Records)
		assert.Empty(t, resp.Records)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := q.Execute(ctx, &Request{ProductID: "nope"})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}
