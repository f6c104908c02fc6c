package domain

// Feature indexes a column of the design matrix.
type Feature int

// Feature order is part of the model contract: coefficients are reported in
// exactly this order.
const (
	FeatureUnitPrice Feature = iota
	FeatureFreightPrice
	FeatureLagPrice
	FeatureWeekday
	FeatureWeekend
	FeatureHoliday
	FeatureCompetitorPrice
	FeatureCompetitorScore
	FeatureMonth
	FeatureYear
)

// NumFeatures is the width of a FeatureRow.
const NumFeatures = int(FeatureYear) + 1

// DefaultMinSamples is the smallest design matrix the builder accepts.
const DefaultMinSamples = 3

// MinFitSamples is the fewest rows a demand model can be fitted on.
const MinFitSamples = 2

var featureNames = [NumFeatures]string{
	"unit_price",
	"freight_price",
	"lag_price",
	"weekday",
	"weekend",
	"holiday",
	"competitor_mean_price",
	"competitor_mean_score",
	"month",
	"year",
}

// String returns the column name of the feature.
func (f Feature) String() string {
	if f < 0 || int(f) >= NumFeatures {
		return "unknown"
	}
	return featureNames[f]
}

// FeatureOrder returns the column names in design-matrix order.
func FeatureOrder() []string {
	names := make([]string, NumFeatures)
	copy(names, featureNames[:])
	return names
}

// FeatureRow is one encoded observation.
type FeatureRow [NumFeatures]float64

// WithPrice returns a copy of the row with the unit price replaced.
func (r FeatureRow) WithPrice(price float64) FeatureRow {
	r[FeatureUnitPrice] = price
	return r
}

// Design is the regression input built from one product's history.
type Design struct {
	ProductID  string
	Rows       []FeatureRow
	Quantities []float64
	Dropped    int // records without a lag price

	// Base is the most recent record encoded as the operating point that
	// scenarios vary the price around.
	Base FeatureRow
}

// FeatureBuilder turns ordered history into a design matrix.
type FeatureBuilder struct {
	minSamples int
}

// NewFeatureBuilder creates a builder; minSamples below 1 falls back to
// DefaultMinSamples.
func NewFeatureBuilder(minSamples int) *FeatureBuilder {
	if minSamples < 1 {
		minSamples = DefaultMinSamples
	}
	return &FeatureBuilder{minSamples: minSamples}
}

// MinSamples returns the configured minimum row count.
func (b *FeatureBuilder) MinSamples() int {
	return b.minSamples
}

// RowFor encodes a single record. ok is false when the record has no lag price.
func (b *FeatureBuilder) RowFor(rec HistoryRecord) (row FeatureRow, ok bool) {
	if !rec.HasLag() {
		return row, false
	}
	comp := rec.CompetitorSignal()

	row[FeatureUnitPrice] = rec.UnitPrice
	row[FeatureFreightPrice] = rec.FreightPrice
	row[FeatureLagPrice] = *rec.LagPrice
	row[FeatureWeekday] = float64(rec.Weekday)
	row[FeatureWeekend] = float64(rec.Weekend)
	row[FeatureHoliday] = float64(rec.Holiday)
	row[FeatureCompetitorPrice] = comp.MeanPrice
	row[FeatureCompetitorScore] = comp.MeanScore
	row[FeatureMonth] = float64(rec.Month)
	row[FeatureYear] = float64(rec.Year)
	return row, true
}

// Build encodes the history of one product. Records lacking a lag price are
// dropped rather than imputed.
func (b *FeatureBuilder) Build(productID string, history []HistoryRecord) (*Design, error) {
	ordered := SortedHistory(history)

	d := &Design{
		ProductID:  productID,
		Rows:       make([]FeatureRow, 0, len(ordered)),
		Quantities: make([]float64, 0, len(ordered)),
	}
	for _, rec := range ordered {
		row, ok := b.RowFor(rec)
		if !ok {
			d.Dropped++
			continue
		}
		d.Rows = append(d.Rows, row)
		d.Quantities = append(d.Quantities, rec.Quantity)
	}

	if len(d.Rows) < b.minSamples {
		return nil, &InsufficientDataError{
			ProductID: productID,
			Rows:      len(d.Rows),
			Required:  b.minSamples,
		}
	}

	base, err := b.BaseRow(productID, ordered)
	if err != nil {
		return nil, err
	}
	d.Base = base
	return d, nil
}

// BaseRow encodes the most recent record of ordered history. A missing lag
// price is taken from the previous period's unit price; with no previous
// period the row cannot be built.
func (b *FeatureBuilder) BaseRow(productID string, ordered []HistoryRecord) (FeatureRow, error) {
	if len(ordered) == 0 {
		return FeatureRow{}, &NotFoundError{ProductID: productID}
	}
	latest := ordered[len(ordered)-1]
	if !latest.HasLag() {
		if len(ordered) < 2 {
			return FeatureRow{}, &MissingLagError{ProductID: productID, Year: latest.Year, Month: latest.Month}
		}
		lag := ordered[len(ordered)-2].UnitPrice
		latest.LagPrice = &lag
	}
	row, _ := b.RowFor(latest)
	return row, nil
}
