package m_product

import (
	"time"
)

// Data represents the database model for the products table.
type Data struct {
	ProductID         string    `spanner:"product_id"`
	Category          string    `spanner:"category"`
	NameLength        int64     `spanner:"name_length"`
	DescriptionLength int64     `spanner:"description_length"`
	PhotosQty         int64     `spanner:"photos_qty"`
	WeightGrams       int64     `spanner:"weight_g"`
	Score             float64   `spanner:"score"`
	Volume            float64   `spanner:"volume"`
	UpdatedAt         time.Time `spanner:"updated_at"`
}
