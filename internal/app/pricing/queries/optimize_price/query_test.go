package optimize_price

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/pricingtest"
	"github.com/light-bringer/priceopt-service/internal/pkg/clock"
)

func newQuery(t *testing.T, store *pricingtest.Store, results *pricingtest.Cache) *Query {
	t.Helper()
	optimizer, err := domain.NewPriceOptimizer(domain.DefaultOptimizerConfig())
	require.NoError(t, err)

	clk := clock.NewMockClock(time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC))
	if results == nil {
		return NewQuery(store, optimizer, nil, "priceopt", clk)
	}
	return NewQuery(store, optimizer, results, "priceopt", clk)
}

func TestQuery_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("optimizes stored history", func(t *testing.T) {
		store := pricingtest.NewStore()
		store.Put(pricingtest.Product("garden7", "garden_tools"), pricingtest.LinearHistory("garden7"))

		result, err := newQuery(t, store, nil).Execute(ctx, &Request{ProductID: "garden7"})
		require.NoError(t, err)

		assert.Equal(t, "garden7", result.ProductID)
		assert.InDelta(t, 17.0, result.CurrentPrice, 1e-9)
		assert.InDelta(t, 11.9, result.OptimizedPrice, 1e-6)
		assert.InDelta(t, 963.9, result.ExpectedRevenue, 1e-4)
		assert.InDelta(t, -30.0, result.PriceChangePercentage, 1e-6)
		assert.Less(t, result.Elasticity, 0.0)
	})

	t.Run("trims the product id", func(t *testing.T) {
		store := pricingtest.NewStore()
		store.Put(pricingtest.Product("garden7", "garden_tools"), pricingtest.LinearHistory("garden7"))

		result, err := newQuery(t, store, nil).Execute(ctx, &Request{ProductID: "  garden7 "})
		require.NoError(t, err)
		assert.Equal(t, "garden7", result.ProductID)
	})

	t.Run("blank product id", func(t *testing.T) {
		store := pricingtest.NewStore()
		_, err := newQuery(t, store, nil).Execute(ctx, &Request{ProductID: " "})
		assert.ErrorIs(t, err, domain.ErrInvalidProductID)
		assert.Zero(t, store.HistoryCalls)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := newQuery(t, pricingtest.NewStore(), nil).Execute(ctx, &Request{ProductID: "nope"})
		var nf *domain.NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "nope", nf.ProductID)
	})

	t.Run("too little history", func(t *testing.T) {
		store := pricingtest.NewStore()
		store.Put(pricingtest.Product("bed1", "bed_bath_table"), pricingtest.SingleRecord("bed1"))

		_, err := newQuery(t, store, nil).Execute(ctx, &Request{ProductID: "bed1"})
		assert.ErrorIs(t, err, domain.ErrInsufficientData)
	})

	t.Run("storage failure is wrapped", func(t *testing.T) {
		store := pricingtest.NewStore()
		store.Err = errors.New("session expired")

		_, err := newQuery(t, store, nil).Execute(ctx, &Request{ProductID: "garden7"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session expired")
		assert.Equal(t, domain.KindInternal, domain.ErrorKind(err))
	})
}

func TestQuery_Execute_Cache(t *testing.T) {
	ctx := context.Background()

	t.Run("second call is served from cache", func(t *testing.T) {
		store := pricingtest.NewStore()
		store.Put(pricingtest.Product("garden7", "garden_tools"), pricingtest.LinearHistory("garden7"))
		results := pricingtest.NewCache()
		q := newQuery(t, store, results)

		first, err := q.Execute(ctx, &Request{ProductID: "garden7"})
		require.NoError(t, err)

		keys := results.Keys()
		require.Len(t, keys, 1)
		assert.True(t, strings.HasPrefix(keys[0], "priceopt:optimize_price:garden7:"))

		second, err := q.Execute(ctx, &Request{ProductID: "garden7"})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("new history uses a new key", func(t *testing.T) {
		store := pricingtest.NewStore()
		history := pricingtest.LinearHistory("garden7")
		store.Put(pricingtest.Product("garden7", "garden_tools"), history[:9])
		results := pricingtest.NewCache()
		q := newQuery(t, store, results)

		before, err := q.Execute(ctx, &Request{ProductID: "garden7"})
		require.NoError(t, err)

		store.Put(pricingtest.Product("garden7", "garden_tools"), history)
		after, err := q.Execute(ctx, &Request{ProductID: "garden7"})
		require.NoError(t, err)

		assert.Len(t, results.Keys(), 2)
		assert.InDelta(t, 14.0, before.CurrentPrice, 1e-9)
		assert.InDelta(t, 17.0, after.CurrentPrice, 1e-9)
	})

	t.Run("cache failures fall back to computing", func(t *testing.T) {
		store := pricingtest.NewStore()
		store.Put(pricingtest.Product("garden7", "garden_tools"), pricingtest.LinearHistory("garden7"))
		results := pricingtest.NewCache()
		results.GetErr = errors.New("connection refused")
		results.SetErr = errors.New("connection refused")

		result, err := newQuery(t, store, results).Execute(ctx, &Request{ProductID: "garden7"})
		require.NoError(t, err)
		assert.InDelta(t, 11.9, result.OptimizedPrice, 1e-6)
	})

	t.Run("failures are not cached", func(t *testing.T) {
		store := pricingtest.NewStore()
		store.Put(pricingtest.Product("bed1", "bed_bath_table"), pricingtest.SingleRecord("bed1"))
		results := pricingtest.NewCache()

		_, err := newQuery(t, store, results).Execute(ctx, &Request{ProductID: "bed1"})
		assert.ErrorIs(t, err, domain.ErrInsufficientData)
		assert.Empty(t, results.Keys())
	})
}
