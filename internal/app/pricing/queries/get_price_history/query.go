package get_price_history

import (
	"context"
	"fmt"
	"strings"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
)

// Request contains the product whose history is listed.
type Request struct {
	ProductID string
}

// CompetitorDTO is one competitor quote.
type CompetitorDTO struct {
	Number  int64   `json:"number"`
	Price   float64 `json:"price"`
	Score   float64 `json:"score"`
	Freight float64 `json:"freight"`
}

// RecordDTO is one month of history.
type RecordDTO struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	MonthYear    string          `json:"monthYear"`
	UnitPrice    float64         `json:"unitPrice"`
	Quantity     float64         `json:"quantity"`
	TotalPrice   float64         `json:"totalPrice"`
	FreightPrice float64         `json:"freightPrice"`
	LagPrice     *float64        `json:"lagPrice"`
	Customers    int64           `json:"customers"`
	Competitors  []CompetitorDTO `json:"competitors"`
}

// Response lists the history in (year, month) order.
type Response struct {
	ProductID string      `json:"productId"`
	Records   []RecordDTO `json:"records"`
}

// Query lists the sales history of a product.
type Query struct {
	history   contracts.HistoryReader
	readModel contracts.ReadModel
}

// NewQuery creates a new get price history query.
func NewQuery(history contracts.HistoryReader, readModel contracts.ReadModel) *Query {
	return &Query{history: history, readModel: readModel}
}

// Execute returns the product's history. A known product without records
// yields an empty list; an unknown one is not found.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		return nil, domain.ErrInvalidProductID
	}

	records, err := q.history.GetHistory(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if len(records) == 0 {
		if _, err := q.readModel.GetProduct(ctx, productID); err != nil {
			return nil, err
		}
	}

	resp := &Response{ProductID: productID, Records: make([]RecordDTO, 0, len(records))}
	for _, rec := range domain.SortedHistory(records) {
		dto := RecordDTO{
			Year:         rec.Year,
			Month:        rec.Month,
			MonthYear:    fmt.Sprintf("%02d-%04d", rec.Month, rec.Year),
			UnitPrice:    rec.UnitPrice,
			Quantity:     rec.Quantity,
			TotalPrice:   rec.TotalPrice,
			FreightPrice: rec.FreightPrice,
			LagPrice:     rec.LagPrice,
			Customers:    rec.Customers,
			Competitors:  make([]CompetitorDTO, 0, len(rec.Competitors)),
		}
		for _, c := range rec.Competitors {
			dto.Competitors = append(dto.Competitors, CompetitorDTO(c))
		}
		resp.Records = append(resp.Records, dto)
	}
	return resp, nil
}
