package domain

import (
	"errors"
	"fmt"
	"math"
)

// OptimizerConfig tunes the optimization pipeline.
type OptimizerConfig struct {
	MinSamples   int
	GridSize     int
	PriceBand    float64
	RidgeAlpha   float64
	MaxCondition float64
}

// DefaultOptimizerConfig returns the documented defaults.
func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		MinSamples:   DefaultMinSamples,
		GridSize:     DefaultGridSize,
		PriceBand:    DefaultPriceBand,
		RidgeAlpha:   DefaultRidgeAlpha,
		MaxCondition: DefaultMaxCondition,
	}
}

// OptimizationResult is the recommendation for one product.
type OptimizationResult struct {
	ProductID             string       `json:"productId"`
	CurrentPrice          float64      `json:"currentPrice"`
	OptimizedPrice        float64      `json:"optimizedPrice"`
	ExpectedRevenue       float64      `json:"expectedRevenue"`
	PriceChangePercentage float64      `json:"priceChangePercentage"`
	Elasticity            float64      `json:"elasticity"`
	Scenarios             []Scenario   `json:"scenarios"`
	Model                 *FittedModel `json:"model"`
}

// PriceOptimizer runs feature construction, model fit, elasticity and the
// scenario search. It holds no mutable state and is safe for concurrent use.
type PriceOptimizer struct {
	features  *FeatureBuilder
	model     *DemandModel
	simulator *ScenarioSimulator
	gridSize  int
	cfg       OptimizerConfig
}

// NewPriceOptimizer validates cfg and builds the pipeline.
func NewPriceOptimizer(cfg OptimizerConfig) (*PriceOptimizer, error) {
	if cfg.MinSamples < MinFitSamples {
		return nil, fmt.Errorf("%w: min samples %d must be at least %d", ErrInvalidConfig, cfg.MinSamples, MinFitSamples)
	}
	if cfg.GridSize < 2 {
		return nil, fmt.Errorf("%w: grid size %d must be at least 2", ErrInvalidConfig, cfg.GridSize)
	}
	if cfg.RidgeAlpha <= 0 {
		return nil, fmt.Errorf("%w: ridge alpha must be positive", ErrInvalidConfig)
	}
	simulator, err := NewScenarioSimulator(cfg.PriceBand)
	if err != nil {
		return nil, err
	}
	return &PriceOptimizer{
		features:  NewFeatureBuilder(cfg.MinSamples),
		model:     NewDemandModel(cfg.RidgeAlpha, cfg.MaxCondition),
		simulator: simulator,
		gridSize:  cfg.GridSize,
		cfg:       cfg,
	}, nil
}

// Config returns the configuration the optimizer was built with.
func (o *PriceOptimizer) Config() OptimizerConfig {
	return o.cfg
}

// Features exposes the builder so callers can encode rows the same way the
// optimizer does.
func (o *PriceOptimizer) Features() *FeatureBuilder {
	return o.features
}

// fitted is the shared prefix of Optimize and EstimateElasticity.
type fitted struct {
	design   *Design
	model    *FittedModel
	latest   HistoryRecord
	estimate *ElasticityEstimate
}

func (o *PriceOptimizer) fit(productID string, history []HistoryRecord) (*fitted, error) {
	if len(history) == 0 {
		return nil, &NotFoundError{ProductID: productID}
	}

	design, err := o.features.Build(productID, history)
	if err != nil {
		return nil, err
	}

	model, err := o.model.Fit(design.Rows, design.Quantities)
	if err != nil {
		var fitErr *ModelFitError
		if errors.As(err, &fitErr) {
			fitErr.ProductID = productID
		}
		return nil, err
	}

	ordered := SortedHistory(history)
	latest := ordered[len(ordered)-1]
	if latest.UnitPrice <= 0 {
		return nil, fmt.Errorf("product %q: %w", productID, ErrInvalidPrice)
	}

	e, err := Elasticity(model, latest.UnitPrice, latest.Quantity)
	if err != nil {
		var undefined *UndefinedElasticityError
		if errors.As(err, &undefined) {
			undefined.ProductID = productID
		}
		return nil, err
	}

	return &fitted{
		design: design,
		model:  model,
		latest: latest,
		estimate: &ElasticityEstimate{
			ProductID:        productID,
			Elasticity:       e,
			PriceCoefficient: model.PriceCoefficient(),
			CurrentPrice:     latest.UnitPrice,
			CurrentQuantity:  latest.Quantity,
			Anomalous:        e > 0,
		},
	}, nil
}

// EstimateElasticity fits the demand model and evaluates the elasticity at
// the most recent record.
func (o *PriceOptimizer) EstimateElasticity(productID string, history []HistoryRecord) (*ElasticityEstimate, error) {
	f, err := o.fit(productID, history)
	if err != nil {
		return nil, err
	}
	return f.estimate, nil
}

// Optimize returns the revenue-maximizing price for the product. Identical
// history always yields an identical result.
func (o *PriceOptimizer) Optimize(productID string, history []HistoryRecord) (*OptimizationResult, error) {
	f, err := o.fit(productID, history)
	if err != nil {
		return nil, err
	}

	current := f.latest.UnitPrice
	scenarios, err := o.simulator.Simulate(f.model, f.design.Base, current, o.gridSize)
	if err != nil {
		return nil, err
	}

	best := SelectOptimal(scenarios, current)
	return &OptimizationResult{
		ProductID:             productID,
		CurrentPrice:          current,
		OptimizedPrice:        best.Price,
		ExpectedRevenue:       best.PredictedRevenue,
		PriceChangePercentage: (best.Price - current) / current * 100,
		Elasticity:            f.estimate.Elasticity,
		Scenarios:             scenarios,
		Model:                 f.model,
	}, nil
}

// SelectOptimal returns the scenario with the highest predicted revenue.
// Equal revenues prefer the price closest to current, then the lower price,
// so the recommendation avoids large swings when the model is indifferent.
// scenarios must be non-empty and sorted by ascending price.
func SelectOptimal(scenarios []Scenario, currentPrice float64) Scenario {
	best := scenarios[0]
	for _, s := range scenarios[1:] {
		switch {
		case s.PredictedRevenue > best.PredictedRevenue:
			best = s
		case s.PredictedRevenue == best.PredictedRevenue:
			if math.Abs(s.Price-currentPrice) < math.Abs(best.Price-currentPrice) {
				best = s
			}
		}
	}
	return best
}
