package m_product

// Field name constants for the products table.
const (
	TableName = "products"

	ProductID         = "product_id"
	Category          = "category"
	NameLength        = "name_length"
	DescriptionLength = "description_length"
	PhotosQty         = "photos_qty"
	WeightGrams       = "weight_g"
	Score             = "score"
	Volume            = "volume"
	UpdatedAt         = "updated_at"
)
