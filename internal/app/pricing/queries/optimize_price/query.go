package optimize_price

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
	"github.com/light-bringer/priceopt-service/internal/pkg/cache"
	"github.com/light-bringer/priceopt-service/internal/pkg/clock"
	"github.com/light-bringer/priceopt-service/internal/pkg/logging"
	"github.com/light-bringer/priceopt-service/internal/pkg/metrics"
)

// Operation names the query in metrics and cache keys.
const Operation = "optimize_price"

// Request contains the product to optimize.
type Request struct {
	ProductID string
}

// Query loads a product's history and runs the price optimizer on it.
type Query struct {
	history     contracts.HistoryReader
	optimizer   *domain.PriceOptimizer
	cache       contracts.ResultCache
	cachePrefix string
	clock       clock.Clock
}

// NewQuery creates a new optimize price query. results may be nil.
func NewQuery(
	history contracts.HistoryReader,
	optimizer *domain.PriceOptimizer,
	results contracts.ResultCache,
	cachePrefix string,
	clk clock.Clock,
) *Query {
	return &Query{
		history:     history,
		optimizer:   optimizer,
		cache:       results,
		cachePrefix: cachePrefix,
		clock:       clk,
	}
}

// Execute returns the revenue-maximizing price. Results are cached under the
// history fingerprint, so new data for the product never hits a stale entry.
func (q *Query) Execute(ctx context.Context, req *Request) (*domain.OptimizationResult, error) {
	start := q.clock.Now()
	result, err := q.execute(ctx, req)
	metrics.ObservePricing(Operation, outcome(err), clock.Since(q.clock, start))
	return result, err
}

func (q *Query) execute(ctx context.Context, req *Request) (*domain.OptimizationResult, error) {
	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		return nil, domain.ErrInvalidProductID
	}

	history, err := q.history.GetHistory(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	var key string
	if q.cache != nil && len(history) > 0 {
		key = cache.Key(q.cachePrefix, Operation, productID, cache.Fingerprint(history, q.optimizer.Config()))
		var cached domain.OptimizationResult
		found, err := q.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			log.Printf("optimize: cache read failed for %s: %v", productID, err)
			metrics.ObserveCache(Operation, metrics.CacheError)
		case found:
			logging.Debugf("%s: cache hit %s", Operation, key)
			metrics.ObserveCache(Operation, metrics.CacheHit)
			return &cached, nil
		default:
			metrics.ObserveCache(Operation, metrics.CacheMiss)
		}
	}

	result, err := q.optimizer.Optimize(productID, history)
	if err != nil {
		if domain.ErrorKind(err) == domain.KindModelFit {
			log.Printf("optimize: model fit failed for %s: %v", productID, err)
		}
		return nil, err
	}

	if key != "" {
		if err := q.cache.Set(ctx, key, result); err != nil {
			log.Printf("optimize: cache write failed for %s: %v", productID, err)
		}
	}
	return result, nil
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	return domain.ErrorKind(err)
}
