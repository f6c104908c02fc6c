package repo

import (
	"fmt"
	"math"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
	"github.com/light-bringer/priceopt-service/internal/models/m_competitor_price"
	"github.com/light-bringer/priceopt-service/internal/models/m_price_history"
	"github.com/light-bringer/priceopt-service/internal/models/m_product"
)

// moneyParts splits a price into the numerator/denominator stored on disk.
func moneyParts(field string, v float64) (int64, int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, 0, fmt.Errorf("%s is not finite", field)
	}
	num, den, err := domain.MoneyFromFloat(v).Parts()
	if err != nil {
		return 0, 0, fmt.Errorf("%s %v: %w", field, v, err)
	}
	return num, den, nil
}

// moneyValue rebuilds a price from its stored parts.
func moneyValue(field string, num, den int64) (float64, error) {
	m, err := domain.NewMoney(num, den)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", field, err)
	}
	return m.Float64(), nil
}

func productToData(p *domain.Product) *m_product.Data {
	return &m_product.Data{
		ProductID:         p.ID,
		Category:          p.Category,
		NameLength:        p.NameLength,
		DescriptionLength: p.DescriptionLength,
		PhotosQty:         p.PhotosQty,
		WeightGrams:       p.WeightGrams,
		Score:             p.Score,
		Volume:            p.Volume,
	}
}

func productDataToDTO(data *m_product.Data, records int64) *contracts.ProductDTO {
	return &contracts.ProductDTO{
		ProductID:         data.ProductID,
		Category:          data.Category,
		NameLength:        data.NameLength,
		DescriptionLength: data.DescriptionLength,
		PhotosQty:         data.PhotosQty,
		WeightGrams:       data.WeightGrams,
		Score:             data.Score,
		Volume:            data.Volume,
		HistoryRecords:    records,
	}
}

// recordToData converts a domain record to its row. Returns error if a
// price exceeds int64 bounds.
func recordToData(rec *domain.HistoryRecord) (*m_price_history.Data, error) {
	data := &m_price_history.Data{
		HistoryID:    rec.ID,
		ProductID:    rec.ProductID,
		Year:         int64(rec.Year),
		Month:        int64(rec.Month),
		Quantity:     rec.Quantity,
		Customers:    rec.Customers,
		Weekday:      rec.Weekday,
		Weekend:      rec.Weekend,
		Holiday:      rec.Holiday,
		ProductScore: rec.ProductScore,
		Seasonality:  rec.Seasonality,
	}

	var err error
	if data.UnitPriceNumerator, data.UnitPriceDenominator, err = moneyParts("unit price", rec.UnitPrice); err != nil {
		return nil, err
	}
	if data.TotalPriceNumerator, data.TotalPriceDenominator, err = moneyParts("total price", rec.TotalPrice); err != nil {
		return nil, err
	}
	if data.FreightPriceNumerator, data.FreightPriceDenominator, err = moneyParts("freight price", rec.FreightPrice); err != nil {
		return nil, err
	}

	// lag price is nil for the first period of a series
	if rec.LagPrice != nil {
		num, den, err := moneyParts("lag price", *rec.LagPrice)
		if err != nil {
			return nil, err
		}
		data.LagPriceNumerator.Int64, data.LagPriceNumerator.Valid = num, true
		data.LagPriceDenominator.Int64, data.LagPriceDenominator.Valid = den, true
	}

	return data, nil
}

// dataToRecord converts a stored row to a domain record without competitors.
func dataToRecord(data *m_price_history.Data) (*domain.HistoryRecord, error) {
	rec := &domain.HistoryRecord{
		ID:           data.HistoryID,
		ProductID:    data.ProductID,
		Year:         int(data.Year),
		Month:        int(data.Month),
		Quantity:     data.Quantity,
		Customers:    data.Customers,
		Weekday:      data.Weekday,
		Weekend:      data.Weekend,
		Holiday:      data.Holiday,
		ProductScore: data.ProductScore,
		Seasonality:  data.Seasonality,
	}

	var err error
	if rec.UnitPrice, err = moneyValue("unit price", data.UnitPriceNumerator, data.UnitPriceDenominator); err != nil {
		return nil, err
	}
	if rec.TotalPrice, err = moneyValue("total price", data.TotalPriceNumerator, data.TotalPriceDenominator); err != nil {
		return nil, err
	}
	if rec.FreightPrice, err = moneyValue("freight price", data.FreightPriceNumerator, data.FreightPriceDenominator); err != nil {
		return nil, err
	}

	if data.LagPriceNumerator.Valid && data.LagPriceDenominator.Valid {
		lag, err := moneyValue("lag price", data.LagPriceNumerator.Int64, data.LagPriceDenominator.Int64)
		if err != nil {
			return nil, err
		}
		rec.LagPrice = &lag
	}

	return rec, nil
}

func quoteToData(historyID string, q *domain.CompetitorQuote) (*m_competitor_price.Data, error) {
	data := &m_competitor_price.Data{
		HistoryID:        historyID,
		CompetitorNumber: q.Number,
		Score:            q.Score,
	}
	var err error
	if data.PriceNumerator, data.PriceDenominator, err = moneyParts("competitor price", q.Price); err != nil {
		return nil, err
	}
	if data.FreightNumerator, data.FreightDenominator, err = moneyParts("competitor freight", q.Freight); err != nil {
		return nil, err
	}
	return data, nil
}

func dataToQuote(data *m_competitor_price.Data) (domain.CompetitorQuote, error) {
	q := domain.CompetitorQuote{Number: data.CompetitorNumber, Score: data.Score}
	var err error
	if q.Price, err = moneyValue("competitor price", data.PriceNumerator, data.PriceDenominator); err != nil {
		return q, err
	}
	if q.Freight, err = moneyValue("competitor freight", data.FreightNumerator, data.FreightDenominator); err != nil {
		return q, err
	}
	return q, nil
}
