package m_competitor_price

// Table name constant. Rows are interleaved in price_history.
const TableName = "competitor_prices"

// Field name constants
const (
	HistoryID          = "history_id"
	CompetitorNumber   = "competitor_number"
	PriceNumerator     = "price_numerator"
	PriceDenominator   = "price_denominator"
	Score              = "score"
	FreightNumerator   = "freight_numerator"
	FreightDenominator = "freight_denominator"
)
