package list_products

import (
	"context"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
)

// Request contains filtering and pagination parameters.
type Request struct {
	Category  string
	PageSize  int
	PageToken string
}

// Query handles the list products query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new list products query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute lists one page of products ordered by id.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.ListResult, error) {
	filter := &contracts.ListFilter{
		Category:  req.Category,
		PageSize:  req.PageSize,
		PageToken: req.PageToken,
	}
	filter.PageSize = filter.NormalizedPageSize()
	return q.readModel.ListProducts(ctx, filter)
}
