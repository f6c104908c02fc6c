package get_product

import (
	"context"
	"strings"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
)

// Request contains the product ID to retrieve.
type Request struct {
	ProductID string
}

// Query handles the get product query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new get product query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves a product by ID.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.ProductDTO, error) {
	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		return nil, domain.ErrInvalidProductID
	}
	return q.readModel.GetProduct(ctx, productID)
}
