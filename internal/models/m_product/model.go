package m_product

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the products table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a Spanner mutation that inserts the product or refreshes
// its attributes on re-ingest.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		[]string{
			ProductID,
			Category,
			NameLength,
			DescriptionLength,
			PhotosQty,
			WeightGrams,
			Score,
			Volume,
			UpdatedAt,
		},
		[]interface{}{
			data.ProductID,
			data.Category,
			data.NameLength,
			data.DescriptionLength,
			data.PhotosQty,
			data.WeightGrams,
			data.Score,
			data.Volume,
			spanner.CommitTimestamp,
		},
	)
}

// ReadColumns returns the column names for reading products.
func (m *Model) ReadColumns() []string {
	return []string{
		ProductID,
		Category,
		NameLength,
		DescriptionLength,
		PhotosQty,
		WeightGrams,
		Score,
		Volume,
		UpdatedAt,
	}
}
