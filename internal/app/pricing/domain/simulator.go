package domain

import "fmt"

const (
	// DefaultGridSize is the number of candidate prices evaluated.
	DefaultGridSize = 20
	// DefaultPriceBand is the relative half-width of the candidate range.
	DefaultPriceBand = 0.30
)

// Scenario is the model's prediction at one candidate price.
type Scenario struct {
	Price             float64 `json:"price"`
	PredictedQuantity float64 `json:"predictedQuantity"`
	PredictedRevenue  float64 `json:"predictedRevenue"`
}

// ScenarioSimulator evaluates a fitted model over a grid of prices around the
// current one.
//
// Every covariate other than the unit price is held at its last observed
// value. Predictions therefore assume nothing else changes when the price
// does; that ceteris-paribus assumption is the main limit on how far the
// scenarios can be trusted.
type ScenarioSimulator struct {
	band float64
}

// NewScenarioSimulator creates a simulator for a band in (0, 1).
func NewScenarioSimulator(band float64) (*ScenarioSimulator, error) {
	if band <= 0 || band >= 1 {
		return nil, fmt.Errorf("%w: price band %.4f must be in (0, 1)", ErrInvalidConfig, band)
	}
	return &ScenarioSimulator{band: band}, nil
}

// Band returns the relative half-width of the grid.
func (s *ScenarioSimulator) Band() float64 {
	return s.band
}

// PriceGrid returns size evenly spaced prices over
// [(1-band)·current, (1+band)·current], in strictly ascending order.
func PriceGrid(current, band float64, size int) ([]float64, error) {
	if current <= 0 {
		return nil, ErrInvalidPrice
	}
	if size < 2 {
		return nil, fmt.Errorf("%w: grid size %d must be at least 2", ErrInvalidConfig, size)
	}
	lo := current * (1 - band)
	hi := current * (1 + band)
	step := (hi - lo) / float64(size-1)

	grid := make([]float64, size)
	for i := range grid {
		grid[i] = lo + step*float64(i)
	}
	grid[size-1] = hi
	return grid, nil
}

// Simulate predicts quantity and revenue for each grid price, starting from
// the base row.
func (s *ScenarioSimulator) Simulate(model *FittedModel, base FeatureRow, currentPrice float64, gridSize int) ([]Scenario, error) {
	grid, err := PriceGrid(currentPrice, s.band, gridSize)
	if err != nil {
		return nil, err
	}

	scenarios := make([]Scenario, len(grid))
	for i, price := range grid {
		qty := model.Predict(base.WithPrice(price))
		scenarios[i] = Scenario{
			Price:             price,
			PredictedQuantity: qty,
			PredictedRevenue:  price * qty,
		}
	}
	return scenarios, nil
}
