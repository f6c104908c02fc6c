package m_price_history

// Table name constant
const TableName = "price_history"

// Secondary index used by per-product reads.
const ByProductIndex = "price_history_by_product"

// Field name constants for type-safe database access
const (
	HistoryID               = "history_id"
	ProductID               = "product_id"
	Year                    = "year"
	Month                   = "month"
	Quantity                = "quantity"
	UnitPriceNumerator      = "unit_price_numerator"
	UnitPriceDenominator    = "unit_price_denominator"
	TotalPriceNumerator     = "total_price_numerator"
	TotalPriceDenominator   = "total_price_denominator"
	FreightPriceNumerator   = "freight_price_numerator"
	FreightPriceDenominator = "freight_price_denominator"
	Customers               = "customers"
	Weekday                 = "weekday"
	Weekend                 = "weekend"
	Holiday                 = "holiday"
	ProductScore            = "product_score"
	Seasonality             = "seasonality"
	LagPriceNumerator       = "lag_price_numerator"
	LagPriceDenominator     = "lag_price_denominator"
	CreatedAt               = "created_at"
)
