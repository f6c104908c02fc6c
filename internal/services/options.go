package services

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/spanner"
	"github.com/redis/go-redis/v9"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/analytics_summary"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/compute_elasticity"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/get_price_history"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/get_product"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/list_categories"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/list_products"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/optimize_price"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/repo"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/usecases/ingest_history"
	"github.com/light-bringer/priceopt-service/internal/pkg/cache"
	"github.com/light-bringer/priceopt-service/internal/pkg/clock"
	"github.com/light-bringer/priceopt-service/internal/pkg/committer"
	"github.com/light-bringer/priceopt-service/internal/pkg/config"
	"github.com/light-bringer/priceopt-service/internal/transport/grpc/pricing"
	httptransport "github.com/light-bringer/priceopt-service/internal/transport/http"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	Config *config.Config

	SpannerClient *spanner.Client
	SQLiteStore   *repo.SQLiteStore
	RedisClient   *redis.Client

	Store     contracts.HistoryStore
	Optimizer *domain.PriceOptimizer

	OptimizePrice     *optimize_price.Query
	ComputeElasticity *compute_elasticity.Query
	IngestHistory     *ingest_history.Interactor

	PricingHandler *pricing.Handler
	HTTPHandler    *httptransport.Handler
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config) (*ServiceOptions, error) {
	opts := &ServiceOptions{Config: cfg}

	// 1. Open the configured history store
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		store, err := repo.OpenSQLite(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite store: %w", err)
		}
		opts.SQLiteStore = store
		opts.Store = store
	default:
		client, err := spanner.NewClient(ctx, cfg.Storage.SpannerDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		opts.SpannerClient = client
		opts.Store = repo.NewSpannerStore(client, committer.NewCommitter(client))
	}

	// 2. Result cache is optional; the service runs without it
	var results contracts.ResultCache
	if cfg.Cache.Enabled {
		client, err := cache.Connect(ctx, cfg.Cache.RedisURL)
		if err != nil {
			log.Printf("Result cache disabled: %v", err)
		} else {
			opts.RedisClient = client
			results = cache.NewRedisCache(client, cfg.Cache.TTL)
		}
	}

	if err := opts.wire(results); err != nil {
		opts.Close()
		return nil, err
	}
	return opts, nil
}

// NewServiceOptionsWithStore wires the application on an existing store.
// results may be nil.
func NewServiceOptionsWithStore(cfg *config.Config, store contracts.HistoryStore, results contracts.ResultCache) (*ServiceOptions, error) {
	opts := &ServiceOptions{Config: cfg, Store: store}
	if err := opts.wire(results); err != nil {
		return nil, err
	}
	return opts, nil
}

func (s *ServiceOptions) wire(results contracts.ResultCache) error {
	// 1. Create infrastructure components
	clk := clock.NewRealClock()
	optimizer, err := domain.NewPriceOptimizer(s.Config.Optimizer.Domain())
	if err != nil {
		return fmt.Errorf("failed to create optimizer: %w", err)
	}
	s.Optimizer = optimizer

	// 2. Create pricing queries
	prefix := s.Config.Cache.Prefix
	s.OptimizePrice = optimize_price.NewQuery(s.Store, optimizer, results, prefix, clk)
	s.ComputeElasticity = compute_elasticity.NewQuery(s.Store, optimizer, results, prefix, clk)

	// 3. Create ingest use case
	s.IngestHistory = ingest_history.NewInteractor(s.Store, clk)

	// 4. Create transport handlers
	s.PricingHandler = pricing.NewHandler(s.OptimizePrice, s.ComputeElasticity)
	s.HTTPHandler = httptransport.NewHandler(httptransport.Queries{
		GetProduct:        get_product.NewQuery(s.Store),
		ListProducts:      list_products.NewQuery(s.Store),
		GetPriceHistory:   get_price_history.NewQuery(s.Store, s.Store),
		ListCategories:    list_categories.NewQuery(s.Store),
		AnalyticsSummary:  analytics_summary.NewQuery(s.Store),
		ComputeElasticity: s.ComputeElasticity,
		OptimizePrice:     s.OptimizePrice,
	}, 0)
	return nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
	if s.SQLiteStore != nil {
		if err := s.SQLiteStore.Close(); err != nil {
			log.Printf("Failed to close SQLite store: %v", err)
		}
	}
	if s.RedisClient != nil {
		if err := s.RedisClient.Close(); err != nil {
			log.Printf("Failed to close Redis client: %v", err)
		}
	}
}
