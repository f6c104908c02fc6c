package m_price_history

import (
	"cloud.google.com/go/spanner"
)

// Model provides type-safe database operations for price history.
type Model struct{}

// NewModel creates a new price history model.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a price history record.
// created_at is always the commit timestamp.
func (m *Model) InsertMut(data *Data) (*spanner.Mutation, error) {
	row := *data
	row.CreatedAt = spanner.CommitTimestamp
	return spanner.InsertOrUpdateStruct(TableName, &row)
}

// ReadColumns returns the column names for reading price history.
func (m *Model) ReadColumns() []string {
	return []string{
		HistoryID,
		ProductID,
		Year,
		Month,
		Quantity,
		UnitPriceNumerator,
		UnitPriceDenominator,
		TotalPriceNumerator,
		TotalPriceDenominator,
		FreightPriceNumerator,
		FreightPriceDenominator,
		Customers,
		Weekday,
		Weekend,
		Holiday,
		ProductScore,
		Seasonality,
		LagPriceNumerator,
		LagPriceDenominator,
		CreatedAt,
	}
}
