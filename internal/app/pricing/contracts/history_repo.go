package contracts

import (
	"context"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
)

// HistoryReader loads the sales history the optimizer fits on.
type HistoryReader interface {
	// GetHistory returns the product's records ordered by (year, month) with
	// competitor quotes attached. A product without records yields an empty
	// slice and no error.
	GetHistory(ctx context.Context, productID string) ([]domain.HistoryRecord, error)
}

// ProductHistory is one product with the records ingested for it.
type ProductHistory struct {
	Product *domain.Product
	Records []domain.HistoryRecord
}

// HistoryWriter persists ingested data.
type HistoryWriter interface {
	// WriteHistories upserts each product and its records. Every
	// ProductHistory is written atomically; written counts the leading
	// entries that were stored before any error.
	WriteHistories(ctx context.Context, batch []ProductHistory) (written int, err error)
}

// HistoryStore is implemented by every storage backend.
type HistoryStore interface {
	HistoryReader
	HistoryWriter
	ReadModel
}
