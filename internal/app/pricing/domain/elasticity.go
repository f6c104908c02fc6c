package domain

// ElasticityEstimate is a point elasticity with the values it was computed from.
type ElasticityEstimate struct {
	ProductID        string  `json:"productId"`
	Elasticity       float64 `json:"elasticity"`
	PriceCoefficient float64 `json:"priceCoefficient"`
	CurrentPrice     float64 `json:"currentPrice"`
	CurrentQuantity  float64 `json:"currentQuantity"`
	// Anomalous marks a positive elasticity. The value is reported unchanged;
	// interpreting it is left to the caller.
	Anomalous bool `json:"anomalous"`
}

// Elasticity computes the point price elasticity of demand:
//
//	priceCoefficient · currentPrice / currentQuantity
//
// A zero quantity has no defined elasticity.
func Elasticity(model *FittedModel, currentPrice, currentQuantity float64) (float64, error) {
	if currentQuantity == 0 {
		return 0, &UndefinedElasticityError{CurrentPrice: currentPrice}
	}
	return model.PriceCoefficient() * (currentPrice / currentQuantity), nil
}
