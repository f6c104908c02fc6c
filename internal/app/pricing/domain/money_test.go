package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid money creation", func(t *testing.T) {
		m, err := NewMoney(4595, 100)
		require.NoError(t, err)
		num, den, err := m.Parts()
		require.NoError(t, err)
		assert.Equal(t, int64(919), num)
		assert.Equal(t, int64(20), den)
		assert.Equal(t, 45.95, m.Float64())
	})

	t.Run("zero denominator returns error", func(t *testing.T) {
		_, err := NewMoney(100, 0)
		assert.Error(t, err)
	})

	t.Run("negative denominator returns error", func(t *testing.T) {
		_, err := NewMoney(100, -1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "positive")
	})

	t.Run("negative numerator allowed", func(t *testing.T) {
		m, err := NewMoney(-100, 1)
		require.NoError(t, err)
		assert.True(t, m.IsNegative())
		assert.False(t, m.IsPositive())
	})
}

func TestParseMoney(t *testing.T) {
	t.Run("parses decimal text exactly", func(t *testing.T) {
		m, err := ParseMoney(" 89.9 ")
		require.NoError(t, err)
		want, _ := NewMoney(899, 10)
		assert.True(t, m.Equals(want))
		assert.Equal(t, "89.90", m.String())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseMoney("twelve")
		assert.Error(t, err)
	})

	t.Run("from decimal", func(t *testing.T) {
		m := MoneyFromDecimal(decimal.New(12345, -2))
		assert.Equal(t, 123.45, m.Float64())
	})
}

func TestMoneyFromFloat(t *testing.T) {
	m := MoneyFromFloat(45.95)
	num, den, err := m.Parts()
	require.NoError(t, err)
	assert.Equal(t, int64(919), num)
	assert.Equal(t, int64(20), den)
}

func TestMoney_PartsOverflow(t *testing.T) {
	huge := decimal.NewFromFloat(math.MaxFloat64)
	m := MoneyFromDecimal(huge)

	_, _, err := m.Parts()
	assert.ErrorIs(t, err, ErrMoneyOverflow)
}
