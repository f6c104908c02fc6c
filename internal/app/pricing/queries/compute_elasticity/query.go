package compute_elasticity

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
const Operation = "compute_elasticity"

// Request contains the product to evaluate.
type Request struct {
	ProductID string
}

// Query estimates the point price elasticity of a product.
type Query struct {
	history     contracts.HistoryReader
	optimizer   *domain.PriceOptimizer
	cache       contracts.ResultCache
	cachePrefix string
	clock       clock.Clock
}

// NewQuery creates a new compute elasticity query. results may be nil.
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

// Execute fits the demand model and evaluates the elasticity at the most
// recent period.
func (q *Query) Execute(ctx context.Context, req *Request) (*domain.ElasticityEstimate, error) {
	start := q.clock.Now()
	estimate, err := q.execute(ctx, req)

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = domain.ErrorKind(err)
	}
	metrics.ObservePricing(Operation, outcome, clock.Since(q.clock, start))
	return estimate, err
}

func (q *Query) execute(ctx context.Context, req *Request) (*domain.ElasticityEstimate, error) {
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
		var cached domain.ElasticityEstimate
		found, err := q.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			log.Printf("elasticity: cache read failed for %s: %v", productID, err)
			metrics.ObserveCache(Operation, metrics.CacheError)
		case found:
			logging.Debugf("%s: cache hit %s", Operation, key)
			metrics.ObserveCache(Operation, metrics.CacheHit)
			return &cached, nil
		default:
			metrics.ObserveCache(Operation, metrics.CacheMiss)
		}
	}

	estimate, err := q.optimizer.EstimateElasticity(productID, history)
	if err != nil {
		return nil, err
	}
	if estimate.Anomalous {
		log.Printf("elasticity: positive elasticity %.4f for %s", estimate.Elasticity, productID)
	}

	if key != "" {
		if err := q.cache.Set(ctx, key, estimate); err != nil {
			log.Printf("elasticity: cache write failed for %s: %v", productID, err)
		}
	}
	return estimate, nil
}
