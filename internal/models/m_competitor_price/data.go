package m_competitor_price

// Data represents one competitor quote for a history row.
type Data struct {
	HistoryID          string  `spanner:"history_id"`
	CompetitorNumber   int64   `spanner:"competitor_number"`
	PriceNumerator     int64   `spanner:"price_numerator"`
	PriceDenominator   int64   `spanner:"price_denominator"`
	Score              float64 `spanner:"score"`
	FreightNumerator   int64   `spanner:"freight_numerator"`
	FreightDenominator int64   `spanner:"freight_denominator"`
}
