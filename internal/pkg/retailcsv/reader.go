// Package retailcsv reads the retail price dataset: one row per product and
// month with the product's catalog attributes, sales, calendar counts and up
// to three competitor quotes.
package retailcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
)

// Column names as they appear in the dataset header. The misspelled
// "lenght" columns are part of the published file.
const (
	ColProductID         = "product_id"
	ColCategory          = "product_category_name"
	ColQuantity          = "qty"
	ColTotalPrice        = "total_price"
	ColFreightPrice      = "freight_price"
	ColUnitPrice         = "unit_price"
	ColNameLength        = "product_name_lenght"
	ColDescriptionLength = "product_description_lenght"
	ColPhotosQty         = "product_photos_qty"
	ColWeightGrams       = "product_weight_g"
	ColProductScore      = "product_score"
	ColCustomers         = "customers"
	ColWeekday           = "weekday"
	ColWeekend           = "weekend"
	ColHoliday           = "holiday"
	ColMonth             = "month"
	ColYear              = "year"
	ColSeasonality       = "s"
	ColVolume            = "volume"
	ColLagPrice          = "lag_price"
)

// MaxCompetitors is the number of comp_i/ps_i/fp_i column triples.
const MaxCompetitors = 3

var requiredColumns = []string{
	ColProductID, ColCategory, ColQuantity, ColTotalPrice, ColFreightPrice, ColUnitPrice,
	ColNameLength, ColDescriptionLength, ColPhotosQty, ColWeightGrams, ColProductScore,
	ColCustomers, ColWeekday, ColWeekend, ColHoliday, ColMonth, ColYear, ColVolume,
}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// RowError describes a row that could not be parsed. Reading can continue
// after a RowError.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Row is one parsed line. Record has no ID; ingest assigns it.
type Row struct {
	Line    int
	Product domain.Product
	Record  domain.HistoryRecord
}

// Reader parses rows from a CSV stream.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
	line    int
}

// NewReader consumes the header and checks that every required column is present.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	return &Reader{csv: cr, columns: columns, line: 1}, nil
}

// Next returns the next row, io.EOF at the end of input, or a *RowError for
// a malformed row.
func (r *Reader) Next() (*Row, error) {
	fields, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		r.line++
		return nil, &RowError{Line: r.line, Column: "*", Err: err}
	}
	r.line++

	p := rowParser{fields: fields, columns: r.columns, line: r.line}
	row := &Row{Line: r.line}

	row.Product = domain.Product{
		ID:                p.text(ColProductID),
		Category:          p.text(ColCategory),
		NameLength:        p.integer(ColNameLength),
		DescriptionLength: p.integer(ColDescriptionLength),
		PhotosQty:         p.integer(ColPhotosQty),
		WeightGrams:       p.integer(ColWeightGrams),
		Score:             p.float(ColProductScore),
		Volume:            p.float(ColVolume),
	}

	row.Record = domain.HistoryRecord{
		ProductID:    row.Product.ID,
		Year:         int(p.integer(ColYear)),
		Month:        int(p.integer(ColMonth)),
		UnitPrice:    p.money(ColUnitPrice),
		Quantity:     p.float(ColQuantity),
		TotalPrice:   p.money(ColTotalPrice),
		FreightPrice: p.money(ColFreightPrice),
		Customers:    p.integer(ColCustomers),
		Weekday:      p.integer(ColWeekday),
		Weekend:      p.integer(ColWeekend),
		Holiday:      p.integer(ColHoliday),
		ProductScore: row.Product.Score,
		Seasonality:  p.optionalFloat(ColSeasonality),
		LagPrice:     p.optionalMoney(ColLagPrice),
	}

	// a quote is kept only when price, score and freight are all present
	for i := 1; i <= MaxCompetitors; i++ {
		price := p.optionalMoney(fmt.Sprintf("comp_%d", i))
		score := p.optionalMoney(fmt.Sprintf("ps%d", i))
		freight := p.optionalMoney(fmt.Sprintf("fp%d", i))
		if price == nil || score == nil || freight == nil {
			continue
		}
		row.Record.Competitors = append(row.Record.Competitors, domain.CompetitorQuote{
			Number:  int64(i),
			Price:   *price,
			Score:   *score,
			Freight: *freight,
		})
	}

	if p.err != nil {
		return nil, p.err
	}
	if row.Product.ID == "" {
		return nil, &RowError{Line: r.line, Column: ColProductID, Err: errors.New("empty product id")}
	}
	if row.Record.Month < 1 || row.Record.Month > 12 {
		return nil, &RowError{Line: r.line, Column: ColMonth, Err: fmt.Errorf("month %d out of range", row.Record.Month)}
	}
	return row, nil
}

// rowParser records the first conversion error of a row.
type rowParser struct {
	fields  []string
	columns map[string]int
	line    int
	err     error
}

func (p *rowParser) raw(col string) (string, bool) {
	i, ok := p.columns[col]
	if !ok || i >= len(p.fields) {
		return "", false
	}
	v := strings.TrimSpace(p.fields[i])
	return v, v != ""
}

func (p *rowParser) fail(col string, err error) {
	if p.err == nil {
		p.err = &RowError{Line: p.line, Column: col, Err: err}
	}
}

func (p *rowParser) text(col string) string {
	v, _ := p.raw(col)
	return v
}

func (p *rowParser) integer(col string) int64 {
	v, ok := p.raw(col)
	if !ok {
		p.fail(col, errors.New("empty value"))
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// some exports write integers as "2.0"
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != float64(int64(f)) {
			p.fail(col, err)
			return 0
		}
		n = int64(f)
	}
	return n
}

func (p *rowParser) float(col string) float64 {
	v, ok := p.raw(col)
	if !ok {
		p.fail(col, errors.New("empty value"))
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(col, err)
	}
	return f
}

func (p *rowParser) optionalFloat(col string) float64 {
	if _, ok := p.raw(col); !ok {
		return 0
	}
	return p.float(col)
}

func (p *rowParser) money(col string) float64 {
	v, ok := p.raw(col)
	if !ok {
		p.fail(col, errors.New("empty value"))
		return 0
	}
	m, err := domain.ParseMoney(v)
	if err != nil {
		p.fail(col, err)
		return 0
	}
	return m.Float64()
}

func (p *rowParser) optionalMoney(col string) *float64 {
	if _, ok := p.raw(col); !ok {
		return nil
	}
	v := p.money(col)
	return &v
}
