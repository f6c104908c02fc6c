package list_categories

import (
	"context"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
)

// Query lists the product categories.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new list categories query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{readModel: readModel}
}

// Execute returns the distinct categories in ascending order.
func (q *Query) Execute(ctx context.Context) ([]string, error) {
	categories, err := q.readModel.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}
