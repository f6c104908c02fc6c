package m_competitor_price

import (
	"cloud.google.com/go/spanner"
)

// Model provides type-safe database operations for competitor quotes.
type Model struct{}

// NewModel creates a new competitor price model.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for one quote.
func (m *Model) InsertMut(data *Data) (*spanner.Mutation, error) {
	return spanner.InsertOrUpdateStruct(TableName, data)
}

// DeleteForHistoryMut removes every quote stored for one history row.
func (m *Model) DeleteForHistoryMut(historyID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{historyID}.AsPrefix())
}

// ReadColumns returns the column names for reading quotes.
func (m *Model) ReadColumns() []string {
	return []string{
		HistoryID,
		CompetitorNumber,
		PriceNumerator,
		PriceDenominator,
		Score,
		FreightNumerator,
		FreightDenominator,
	}
}
