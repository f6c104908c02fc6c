package contracts

import (
	"context"
)

// ProductDTO is a data transfer object for product queries.
type ProductDTO struct {
	ProductID         string  `json:"productId"`
	Category          string  `json:"category"`
	NameLength        int64   `json:"nameLength"`
	DescriptionLength int64   `json:"descriptionLength"`
	PhotosQty         int64   `json:"photosQty"`
	WeightGrams       int64   `json:"weightGrams"`
	Score             float64 `json:"score"`
	Volume            float64 `json:"volume"`
	HistoryRecords    int64   `json:"historyRecords"`
}

// ListFilter defines filtering options for listing products.
type ListFilter struct {
	Category  string
	PageSize  int
	PageToken string // product id to resume after
}

// Page sizes for ListProducts.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// NormalizedPageSize clamps the requested page size into [1, MaxPageSize].
func (f *ListFilter) NormalizedPageSize() int {
	switch {
	case f.PageSize <= 0:
		return DefaultPageSize
	case f.PageSize > MaxPageSize:
		return MaxPageSize
	default:
		return f.PageSize
	}
}

// ListResult contains paginated product list results.
type ListResult struct {
	Products      []*ProductDTO `json:"products"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}

// Summary aggregates the whole dataset.
type Summary struct {
	TotalProducts int64   `json:"totalProducts"`
	TotalRecords  int64   `json:"totalRecords"`
	TotalRevenue  float64 `json:"totalRevenue"`
	AveragePrice  float64 `json:"averagePrice"`
}

// ReadModel defines the catalog and analytics queries.
type ReadModel interface {
	// GetProduct returns domain.ErrProductNotFound when the id is unknown.
	GetProduct(ctx context.Context, productID string) (*ProductDTO, error)

	// ListProducts returns products ordered by id.
	ListProducts(ctx context.Context, filter *ListFilter) (*ListResult, error)

	// ListCategories returns the distinct categories in ascending order.
	ListCategories(ctx context.Context) ([]string, error)

	Summary(ctx context.Context) (*Summary, error)
}
