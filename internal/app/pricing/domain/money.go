package domain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMoneyOverflow is returned when a value cannot be stored as an int64 fraction.
var ErrMoneyOverflow = errors.New("money value exceeds int64 numerator/denominator")

// Money is an exact monetary amount backed by big.Rat. Prices are stored as
// numerator/denominator pairs so ingested values round-trip without drift;
// the optimizer itself works on float64 views.
type Money struct {
	rat *big.Rat
}

// NewMoney creates a Money from numerator and denominator.
// Example: NewMoney(4595, 100) represents 45.95
func NewMoney(numerator, denominator int64) (*Money, error) {
	if denominator == 0 {
		return nil, fmt.Errorf("denominator cannot be zero")
	}
	if denominator < 0 {
		return nil, fmt.Errorf("denominator must be positive")
	}
	return &Money{rat: big.NewRat(numerator, denominator)}, nil
}

// MoneyFromDecimal converts an exact decimal into Money.
func MoneyFromDecimal(d decimal.Decimal) *Money {
	return &Money{rat: d.Rat()}
}

// MoneyFromFloat converts f using its shortest decimal representation, so
// values that originated as decimal text convert exactly.
func MoneyFromFloat(f float64) *Money {
	return MoneyFromDecimal(decimal.NewFromFloat(f))
}

// ParseMoney parses a decimal string such as "45.95".
func ParseMoney(s string) (*Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid money value %q: %w", s, err)
	}
	return MoneyFromDecimal(d), nil
}

// Parts returns the reduced numerator and denominator.
func (m *Money) Parts() (numerator, denominator int64, err error) {
	if !m.rat.Num().IsInt64() || !m.rat.Denom().IsInt64() {
		return 0, 0, ErrMoneyOverflow
	}
	return m.rat.Num().Int64(), m.rat.Denom().Int64(), nil
}

// Float64 returns the nearest float64 value.
func (m *Money) Float64() float64 {
	f, _ := m.rat.Float64()
	return f
}

// IsNegative returns true if the money value is negative.
func (m *Money) IsNegative() bool {
	return m.rat.Sign() < 0
}

// IsPositive returns true if the money value is positive.
func (m *Money) IsPositive() bool {
	return m.rat.Sign() > 0
}

// Equals returns true if this Money value equals another.
func (m *Money) Equals(other *Money) bool {
	return m.rat.Cmp(other.rat) == 0
}

// String formats the value with two decimals.
func (m *Money) String() string {
	return m.rat.FloatString(2)
}
