package get_product

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
	q := NewQuery(store)

	t.Run("found", func(t *testing.T) {
		dto, err := q.Execute(context.Background(), &Request{ProductID: "garden7"})
		require.NoError(t, err)
		assert.Equal(t, "garden7", dto.ProductID)
		assert.Equal(t, "garden_tools", dto.Category)
		assert.Equal(t, int64(10), dto.HistoryRecords)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := q.Execute(context.Background(), &Request{ProductID: "bed1"})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("blank id", func(t *testing.T) {
		_, err := q.Execute(context.Background(), &Request{ProductID: ""})
		assert.ErrorIs(t, err, domain.ErrInvalidProductID)
	})
}
