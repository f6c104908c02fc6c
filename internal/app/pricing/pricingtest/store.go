// Package pricingtest provides in-memory fakes and fixtures for tests of the
// pricing application layer and its transports.
package pricingtest

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
)

// Store is an in-memory contracts.HistoryStore.
type Store struct {
	mu       sync.Mutex
	products map[string]domain.Product
	history  map[string][]domain.HistoryRecord

	// Err, when set, is returned by every method.
	Err error
	// HistoryCalls counts GetHistory invocations.
	HistoryCalls int
}

var _ contracts.HistoryStore = (*Store)(nil)

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		products: make(map[string]domain.Product),
		history:  make(map[string][]domain.HistoryRecord),
	}
}

// Put replaces a product and its history.
func (s *Store) Put(p domain.Product, records []domain.HistoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	s.history[p.ID] = domain.SortedHistory(records)
}

func (s *Store) GetHistory(ctx context.Context, productID string) ([]domain.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.HistoryCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]domain.HistoryRecord, len(s.history[productID]))
	copy(out, s.history[productID])
	return out, nil
}

func (s *Store) WriteHistories(ctx context.Context, batch []contracts.ProductHistory) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	for _, ph := range batch {
		s.products[ph.Product.ID] = *ph.Product

		byPeriod := make(map[[2]int]domain.HistoryRecord)
		for _, rec := range s.history[ph.Product.ID] {
			byPeriod[[2]int{rec.Year, rec.Month}] = rec
		}
		for _, rec := range ph.Records {
			byPeriod[[2]int{rec.Year, rec.Month}] = rec
		}
		merged := make([]domain.HistoryRecord, 0, len(byPeriod))
		for _, rec := range byPeriod {
			merged = append(merged, rec)
		}
		s.history[ph.Product.ID] = domain.SortedHistory(merged)
	}
	return len(batch), nil
}

func (s *Store) GetProduct(ctx context.Context, productID string) (*contracts.ProductDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.products[productID]
	if !ok {
		return nil, &domain.NotFoundError{ProductID: productID}
	}
	return s.dto(p), nil
}

func (s *Store) ListProducts(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	ids := make([]string, 0, len(s.products))
	for id, p := range s.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.PageToken != "" && id <= filter.PageToken {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	size := filter.NormalizedPageSize()
	result := &contracts.ListResult{Products: []*contracts.ProductDTO{}}
	for i, id := range ids {
		if i == size {
			result.NextPageToken = ids[i-1]
			break
		}
		result.Products = append(result.Products, s.dto(s.products[id]))
	}
	return result, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) Summary(ctx context.Context) (*contracts.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	sum := &contracts.Summary{TotalProducts: int64(len(s.products))}
	var prices float64
	for _, records := range s.history {
		for _, rec := range records {
			sum.TotalRecords++
			sum.TotalRevenue += rec.TotalPrice
			prices += rec.UnitPrice
		}
	}
	if sum.TotalRecords > 0 {
		sum.AveragePrice = prices / float64(sum.TotalRecords)
	}
	return sum, nil
}

func (s *Store) dto(p domain.Product) *contracts.ProductDTO {
	return &contracts.ProductDTO{
		ProductID:         p.ID,
		Category:          p.Category,
		NameLength:        p.NameLength,
		DescriptionLength: p.DescriptionLength,
		PhotosQty:         p.PhotosQty,
		WeightGrams:       p.WeightGrams,
		Score:             p.Score,
		Volume:            p.Volume,
		HistoryRecords:    int64(len(s.history[p.ID])),
	}
}

// Cache is an in-memory contracts.ResultCache that stores JSON like the
// Redis implementation does.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]byte

	// GetErr and SetErr, when set, are returned by Get and Set.
	GetErr error
	SetErr error
}

var _ contracts.ResultCache = (*Cache)(nil)

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return false, c.GetErr
	}
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *Cache) Set(ctx context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SetErr != nil {
		return c.SetErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

// Keys returns the stored keys in ascending order.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
