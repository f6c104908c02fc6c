package analytics_summary

import (
	"context"
	"fmt"
	"math"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
)

// Query aggregates the whole dataset.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new analytics summary query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{readModel: readModel}
}

// Execute returns product and record counts with revenue and average unit
// price rounded to cents.
func (q *Query) Execute(ctx context.Context) (*contracts.Summary, error) {
	summary, err := q.readModel.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute summary: %w", err)
	}
	out := *summary
	out.TotalRevenue = roundCents(out.TotalRevenue)
	out.AveragePrice = roundCents(out.AveragePrice)
	return &out, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
