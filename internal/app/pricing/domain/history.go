package domain

import "sort"

// Product holds the catalog attributes of a retail product.
type Product struct {
	ID                string
	Category          string
	NameLength        int64
	DescriptionLength int64
	PhotosQty         int64
	WeightGrams       int64
	Score             float64
	Volume            float64
}

// CompetitorQuote is one competitor's observed offer in a period.
type CompetitorQuote struct {
	Number  int64
	Price   float64
	Score   float64
	Freight float64
}

// HistoryRecord is one product-month observation. Records are immutable once
// ingested; the optimizer only reads them.
type HistoryRecord struct {
	ID           string
	ProductID    string
	Year         int
	Month        int
	UnitPrice    float64
	Quantity     float64
	TotalPrice   float64
	FreightPrice float64
	Customers    int64
	Weekday      int64
	Weekend      int64
	Holiday      int64
	ProductScore float64
	Seasonality  float64
	LagPrice     *float64 // nil for the first period of a series
	Competitors  []CompetitorQuote
}

// CompetitorSignal aggregates the period's competitor quotes.
type CompetitorSignal struct {
	MeanPrice   float64
	MeanScore   float64
	MeanFreight float64
}

// CompetitorSignal returns the mean competitor price, score and freight.
// A period without quotes yields the zero signal.
func (r HistoryRecord) CompetitorSignal() CompetitorSignal {
	if len(r.Competitors) == 0 {
		return CompetitorSignal{}
	}
	var s CompetitorSignal
	for _, c := range r.Competitors {
		s.MeanPrice += c.Price
		s.MeanScore += c.Score
		s.MeanFreight += c.Freight
	}
	n := float64(len(r.Competitors))
	s.MeanPrice /= n
	s.MeanScore /= n
	s.MeanFreight /= n
	return s
}

// HasLag reports whether the record carries the prior period's price.
func (r HistoryRecord) HasLag() bool {
	return r.LagPrice != nil
}

// Before orders records by (year, month).
func (r HistoryRecord) Before(other HistoryRecord) bool {
	if r.Year != other.Year {
		return r.Year < other.Year
	}
	return r.Month < other.Month
}

// SortedHistory returns a copy of history ordered by (year, month).
// The input slice is left untouched.
func SortedHistory(history []HistoryRecord) []HistoryRecord {
	out := make([]HistoryRecord, len(history))
	copy(out, history)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Before(out[j])
	})
	return out
}

// Float64Ptr is a helper for optional prices.
func Float64Ptr(v float64) *float64 {
	return &v
}
