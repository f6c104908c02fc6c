package domain

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultRidgeAlpha is the penalty used when plain least squares is ill-posed.
	// It applies to standardized columns.
	DefaultRidgeAlpha = 1.0
	// DefaultMaxCondition bounds the condition number accepted for plain OLS.
	DefaultMaxCondition = 1e10
)

// FittedModel is a linear demand model: quantity ≈ Intercept + Σ Coefficients[i]·x[i].
type FittedModel struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	RSquared     float64   `json:"rSquared"` // in-sample only
	FeatureOrder []string  `json:"featureOrder"`
	RidgeLambda  float64   `json:"ridgeLambda"` // 0 for ordinary least squares
	Samples      int       `json:"samples"`
}

// PredictRaw evaluates the linear model without clamping.
func (m *FittedModel) PredictRaw(row FeatureRow) float64 {
	q := m.Intercept
	for i, c := range m.Coefficients {
		q += c * row[i]
	}
	return q
}

// Predict returns the expected quantity for row, never below zero.
func (m *FittedModel) Predict(row FeatureRow) float64 {
	return math.Max(0, m.PredictRaw(row))
}

// PriceCoefficient is the partial effect of unit price on quantity.
func (m *FittedModel) PriceCoefficient() float64 {
	return m.Coefficients[FeatureUnitPrice]
}

// DemandModel fits FittedModels by least squares on standardized columns,
// falling back to ridge regression when the normal equations are ill-posed.
type DemandModel struct {
	ridgeAlpha   float64
	maxCondition float64
}

// NewDemandModel creates a DemandModel. Non-positive arguments select defaults.
func NewDemandModel(ridgeAlpha, maxCondition float64) *DemandModel {
	if ridgeAlpha <= 0 {
		ridgeAlpha = DefaultRidgeAlpha
	}
	if maxCondition <= 0 {
		maxCondition = DefaultMaxCondition
	}
	return &DemandModel{ridgeAlpha: ridgeAlpha, maxCondition: maxCondition}
}

// Fit estimates a FittedModel from rows and observed quantities.
//
// Columns without variance cannot be identified; they get a zero coefficient
// and their level is absorbed by the intercept.
func (m *DemandModel) Fit(rows []FeatureRow, y []float64) (*FittedModel, error) {
	n := len(rows)
	if n != len(y) {
		return nil, &ModelFitError{Reason: "feature rows and quantities differ in length"}
	}
	if n < 2 {
		return nil, &ModelFitError{Reason: "at least two observations are required"}
	}
	for i := range rows {
		if !isFinite(y[i]) {
			return nil, &ModelFitError{Reason: "non-finite quantity in training data"}
		}
		for _, v := range rows[i] {
			if !isFinite(v) {
				return nil, &ModelFitError{Reason: "non-finite feature in training data"}
			}
		}
	}

	var means, stds [NumFeatures]float64
	active := make([]int, 0, NumFeatures)
	col := make([]float64, n)
	for j := 0; j < NumFeatures; j++ {
		for i := range rows {
			col[i] = rows[i][j]
		}
		means[j], stds[j] = stat.MeanStdDev(col, nil)
		if stds[j] > 1e-9*math.Max(1, math.Abs(means[j])) {
			active = append(active, j)
		}
	}
	if len(active) == 0 {
		return nil, &ModelFitError{Reason: "no feature varies across the history"}
	}

	yMean := stat.Mean(y, nil)
	k := len(active)

	z := mat.NewDense(n, k, nil)
	for i := range rows {
		for a, j := range active {
			z.Set(i, a, (rows[i][j]-means[j])/stds[j])
		}
	}

	gram := mat.NewSymDense(k, nil)
	rhs := mat.NewVecDense(k, nil)
	for a := 0; a < k; a++ {
		var s float64
		for i := 0; i < n; i++ {
			s += z.At(i, a) * (y[i] - yMean)
		}
		rhs.SetVec(a, s)
		for b := 0; b <= a; b++ {
			var g float64
			for i := 0; i < n; i++ {
				g += z.At(i, a) * z.At(i, b)
			}
			gram.SetSym(a, b, g)
		}
	}

	lambda := 0.0
	var beta *mat.VecDense
	if n > k+1 {
		beta = solveSPD(gram, rhs, m.maxCondition)
	}
	if beta == nil {
		lambda = m.ridgeAlpha
		ridge := mat.NewSymDense(k, nil)
		ridge.CopySym(gram)
		for a := 0; a < k; a++ {
			ridge.SetSym(a, a, ridge.At(a, a)+lambda)
		}
		beta = solveSPD(ridge, rhs, math.Inf(1))
		if beta == nil {
			return nil, &ModelFitError{Reason: "regularized normal equations are singular"}
		}
	}

	model := &FittedModel{
		Coefficients: make([]float64, NumFeatures),
		FeatureOrder: FeatureOrder(),
		RidgeLambda:  lambda,
		Samples:      n,
	}
	model.Intercept = yMean
	for a, j := range active {
		c := beta.AtVec(a) / stds[j]
		model.Coefficients[j] = c
		model.Intercept -= c * means[j]
	}
	model.RSquared = rSquared(model, rows, y, yMean)

	if !isFinite(model.Intercept) || !isFinite(model.RSquared) {
		return nil, &ModelFitError{Reason: "solution is not finite"}
	}
	for _, c := range model.Coefficients {
		if !isFinite(c) {
			return nil, &ModelFitError{Reason: "solution is not finite"}
		}
	}
	return model, nil
}

// solveSPD solves a·x = b through a Cholesky factorization. It returns nil
// when a is not positive definite or its condition number exceeds maxCond.
func solveSPD(a *mat.SymDense, b *mat.VecDense, maxCond float64) *mat.VecDense {
	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil
	}
	if chol.Cond() > maxCond {
		return nil
	}
	var x mat.VecDense
	if err := chol.SolveVecTo(&x, b); err != nil {
		return nil
	}
	return &x
}

// rSquared is computed on the training rows; there is no holdout split
// because per-product series are short.
func rSquared(model *FittedModel, rows []FeatureRow, y []float64, yMean float64) float64 {
	var ssRes, ssTot float64
	for i := range rows {
		r := y[i] - model.PredictRaw(rows[i])
		ssRes += r * r
		d := y[i] - yMean
		ssTot += d * d
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
