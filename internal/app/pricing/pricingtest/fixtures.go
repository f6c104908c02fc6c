package pricingtest

import "github.com/light-bringer/priceopt-service/internal/app/pricing/domain"

// Product returns catalog attributes for id in category.
func Product(id, category string) domain.Product {
	return domain.Product{
		ID:                id,
		Category:          category,
		NameLength:        40,
		DescriptionLength: 300,
		PhotosQty:         1,
		WeightGrams:       900,
		Score:             4.2,
		Volume:            1200,
	}
}

// LinearHistory has quantity = 200 - 10*price exactly over ten months. The
// optimizer fits it without regularization; the latest price is 17 with a
// quantity of 30, and the best price in the default band is 11.9.
func LinearHistory(productID string) []domain.HistoryRecord {
	prices := []float64{10, 12, 11, 14, 12, 15, 13, 15, 14, 17}
	out := make([]domain.HistoryRecord, len(prices))
	for i, p := range prices {
		rec := domain.HistoryRecord{
			ProductID:    productID,
			Year:         2024,
			Month:        i + 1,
			UnitPrice:    p,
			Quantity:     200 - 10*p,
			TotalPrice:   p * (200 - 10*p),
			FreightPrice: 3.0,
			Weekday:      22,
			Weekend:      8,
			Holiday:      1,
			Competitors: []domain.CompetitorQuote{
				{Number: 1, Price: 12.0, Score: 4.0},
			},
		}
		if i > 0 {
			rec.LagPrice = domain.Float64Ptr(prices[i-1])
		}
		out[i] = rec
	}
	return out
}

// SingleRecord is a one-month history, too short to fit.
func SingleRecord(productID string) []domain.HistoryRecord {
	return []domain.HistoryRecord{{
		ProductID: productID,
		Year:      2024,
		Month:     1,
		UnitPrice: 10,
		Quantity:  5,
		LagPrice:  domain.Float64Ptr(10),
	}}
}
