package domain

// seasonalHistory is a short ridge-path series: six months with a gently
// rising price and falling demand.
func seasonalHistory() []HistoryRecord {
	prices := []float64{10, 10, 11, 11, 12, 12}
	qty := []float64{100, 98, 90, 88, 80, 78}
	freight := []float64{2.0, 2.1, 2.05, 2.2, 2.15, 2.3}
	weekday := []int64{22, 21, 23, 22, 23, 20}
	weekend := []int64{9, 8, 8, 8, 8, 10}
	holiday := []int64{1, 0, 0, 1, 1, 0}
	compPrice := []float64{11.0, 11.2, 11.1, 11.5, 11.6, 11.8}
	compScore := []float64{4.0, 4.1, 4.0, 4.2, 4.1, 4.0}

	out := make([]HistoryRecord, len(prices))
	for i := range prices {
		rec := HistoryRecord{
			ProductID:    "bed1",
			Year:         2024,
			Month:        i + 1,
			UnitPrice:    prices[i],
			Quantity:     qty[i],
			TotalPrice:   prices[i] * qty[i],
			FreightPrice: freight[i],
			Weekday:      weekday[i],
			Weekend:      weekend[i],
			Holiday:      holiday[i],
			Competitors: []CompetitorQuote{
				{Number: 1, Price: compPrice[i], Score: compScore[i]},
			},
		}
		if i > 0 {
			rec.LagPrice = Float64Ptr(prices[i-1])
		}
		out[i] = rec
	}
	return out
}

// julyWithoutLag is a period following seasonalHistory whose lag price was
// never recorded. Its covariates differ from June's on purpose.
func julyWithoutLag() HistoryRecord {
	return HistoryRecord{
		ProductID:    "bed1",
		Year:         2024,
		Month:        7,
		UnitPrice:    20,
		Quantity:     50,
		TotalPrice:   1000,
		FreightPrice: 9,
		Weekday:      21,
		Weekend:      10,
		Holiday:      1,
		Competitors: []CompetitorQuote{
			{Number: 1, Price: 13, Score: 3.5},
		},
	}
}

// julyBase is julyWithoutLag encoded with June's price as its lag.
func julyBase() FeatureRow {
	var row FeatureRow
	row[FeatureUnitPrice] = 20
	row[FeatureFreightPrice] = 9
	row[FeatureLagPrice] = 12
	row[FeatureWeekday] = 21
	row[FeatureWeekend] = 10
	row[FeatureHoliday] = 1
	row[FeatureCompetitorPrice] = 13
	row[FeatureCompetitorScore] = 3.5
	row[FeatureMonth] = 7
	row[FeatureYear] = 2024
	return row
}

// linearHistory has quantity = 200 - 10*price exactly, with enough varied
// rows for an unregularized fit.
func linearHistory() []HistoryRecord {
	prices := []float64{10, 12, 11, 14, 12, 15, 13, 15, 14, 17}
	out := make([]HistoryRecord, len(prices))
	for i, p := range prices {
		rec := HistoryRecord{
			ProductID:    "garden7",
			Year:         2024,
			Month:        i + 1,
			UnitPrice:    p,
			Quantity:     200 - 10*p,
			FreightPrice: 3.0,
			Weekday:      22,
			Weekend:      8,
			Holiday:      1,
			Competitors: []CompetitorQuote{
				{Number: 1, Price: 12.0, Score: 4.0},
			},
		}
		if i > 0 {
			rec.LagPrice = Float64Ptr(prices[i-1])
		}
		out[i] = rec
	}
	return out
}

func reversed(history []HistoryRecord) []HistoryRecord {
	out := make([]HistoryRecord, len(history))
	for i, rec := range history {
		out[len(history)-1-i] = rec
	}
	return out
}
