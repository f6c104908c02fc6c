package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
	"github.com/light-bringer/priceopt-service/internal/models/m_price_history"
	"github.com/light-bringer/priceopt-service/internal/models/m_product"
	"github.com/light-bringer/priceopt-service/internal/pkg/query"
)

// ReadModelImpl implements ReadModel for Spanner.
type ReadModelImpl struct {
	client *spanner.Client
	model  *m_product.Model
}

// NewReadModel creates a new ReadModel implementation.
func NewReadModel(client *spanner.Client) *ReadModelImpl {
	return &ReadModelImpl{
		client: client,
		model:  m_product.NewModel(),
	}
}

// GetProduct retrieves a product DTO by ID.
func (rm *ReadModelImpl) GetProduct(ctx context.Context, productID string) (*contracts.ProductDTO, error) {
	txn := rm.client.ReadOnlyTransaction()
	defer txn.Close()

	row, err := txn.ReadRow(ctx, m_product.TableName, spanner.Key{productID}, rm.model.ReadColumns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, &domain.NotFoundError{ProductID: productID}
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	stmt := query.From(m_price_history.TableName).
		Where(query.Eq(m_price_history.ProductID, productID)).
		Count().
		Build()
	records, err := singleInt64(ctx, txn, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to count history: %w", err)
	}

	return productDataToDTO(&data, records), nil
}

// ListProducts retrieves a page of products ordered by id. The page token is
// the last id of the previous page.
func (rm *ReadModelImpl) ListProducts(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	pageSize := filter.NormalizedPageSize()

	b := query.From(m_product.TableName).Select(rm.model.ReadColumns()...)
	if filter.Category != "" {
		b = b.Where(query.Eq(m_product.Category, filter.Category))
	}
	if filter.PageToken != "" {
		b = b.Where(query.Gt(m_product.ProductID, filter.PageToken))
	}
	// one extra row tells whether another page exists
	stmt := b.OrderBy(m_product.ProductID, query.Asc).Limit(int64(pageSize + 1)).Build()

	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	products := make([]*contracts.ProductDTO, 0, pageSize)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}
		products = append(products, productDataToDTO(&data, 0))
	}

	return pageOf(products, pageSize), nil
}

// ListCategories returns distinct categories in ascending order.
func (rm *ReadModelImpl) ListCategories(ctx context.Context) ([]string, error) {
	stmt := query.From(m_product.TableName).
		Select("DISTINCT " + m_product.Category).
		OrderBy(m_product.Category, query.Asc).
		Build()

	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	categories := []string{}
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return categories, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate categories: %w", err)
		}
		var category string
		if err := row.Column(0, &category); err != nil {
			return nil, fmt.Errorf("failed to parse category: %w", err)
		}
		categories = append(categories, category)
	}
}

// Summary aggregates product and history totals.
func (rm *ReadModelImpl) Summary(ctx context.Context) (*contracts.Summary, error) {
	txn := rm.client.ReadOnlyTransaction()
	defer txn.Close()

	products, err := singleInt64(ctx, txn, query.From(m_product.TableName).Count().Build())
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	// INT64 / INT64 yields FLOAT64 in Spanner
	stmt := query.From(m_price_history.TableName).
		Select(
			"COUNT(*)",
			fmt.Sprintf("COALESCE(SUM(%s / %s), 0)", m_price_history.TotalPriceNumerator, m_price_history.TotalPriceDenominator),
			fmt.Sprintf("COALESCE(AVG(%s / %s), 0)", m_price_history.UnitPriceNumerator, m_price_history.UnitPriceDenominator),
		).
		Build()

	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate history: %w", err)
	}

	summary := &contracts.Summary{TotalProducts: products}
	if err := row.Columns(&summary.TotalRecords, &summary.TotalRevenue, &summary.AveragePrice); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}
	return summary, nil
}

func singleInt64(ctx context.Context, txn *spanner.ReadOnlyTransaction, stmt spanner.Statement) (int64, error) {
	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Column(0, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// pageOf trims a limit+1 result to one page and derives the next token.
func pageOf(products []*contracts.ProductDTO, pageSize int) *contracts.ListResult {
	result := &contracts.ListResult{Products: products}
	if len(products) > pageSize {
		result.Products = products[:pageSize]
		result.NextPageToken = products[pageSize-1].ProductID
	}
	return result
}
