package m_price_history

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents a price history record in the database.
type Data struct {
	HistoryID               string            `spanner:"history_id"`
	ProductID               string            `spanner:"product_id"`
	Year                    int64             `spanner:"year"`
	Month                   int64             `spanner:"month"`
	Quantity                float64           `spanner:"quantity"`
	UnitPriceNumerator      int64             `spanner:"unit_price_numerator"`
	UnitPriceDenominator    int64             `spanner:"unit_price_denominator"`
	TotalPriceNumerator     int64             `spanner:"total_price_numerator"`
	TotalPriceDenominator   int64             `spanner:"total_price_denominator"`
	FreightPriceNumerator   int64             `spanner:"freight_price_numerator"`
	FreightPriceDenominator int64             `spanner:"freight_price_denominator"`
	Customers               int64             `spanner:"customers"`
	Weekday                 int64             `spanner:"weekday"`
	Weekend                 int64             `spanner:"weekend"`
	Holiday                 int64             `spanner:"holiday"`
	ProductScore            float64           `spanner:"product_score"`
	Seasonality             float64           `spanner:"seasonality"`
	LagPriceNumerator       spanner.NullInt64 `spanner:"lag_price_numerator"`
	LagPriceDenominator     spanner.NullInt64 `spanner:"lag_price_denominator"`
	CreatedAt               time.Time         `spanner:"created_at"`
}
