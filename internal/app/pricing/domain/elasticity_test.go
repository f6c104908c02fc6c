package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElasticity(t *testing.T) {
	model := &FittedModel{Coefficients: make([]float64, NumFeatures)}
	model.Coefficients[FeatureUnitPrice] = -10

	t.Run("point elasticity", func(t *testing.T) {
		e, err := Elasticity(model, 17, 30)
		require.NoError(t, err)
		assert.InDelta(t, -5.6667, e, 1e-4)
	})

	t.Run("zero quantity is undefined", func(t *testing.T) {
		_, err := Elasticity(model, 17, 0)
		assert.ErrorIs(t, err, ErrUndefinedElasticity)
	})

	t.Run("positive coefficient is reported as is", func(t *testing.T) {
		model := &FittedModel{Coefficients: make([]float64, NumFeatures)}
		model.Coefficients[FeatureUnitPrice] = 2
		e, err := Elasticity(model, 10, 40)
		require.NoError(t, err)
		assert.Equal(t, 0.5, e)
	})
}
