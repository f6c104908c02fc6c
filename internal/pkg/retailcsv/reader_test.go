package retailcsv

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "product_id,product_category_name,month_year,qty,total_price,freight_price,unit_price," +
	"product_name_lenght,product_description_lenght,product_photos_qty,product_weight_g,product_score," +
	"customers,weekday,weekend,holiday,month,year,s,volume," +
	"comp_1,ps1,fp1,comp_2,ps2,fp2,comp_3,ps3,fp3,lag_price\n"

func TestReader_Next(t *testing.T) {
	t.Run("parses a full row", func(t *testing.T) {
		data := header +
			"bed1,bed_bath_table,01-05-2017,1,45.95,15.1,45.95,39,161,2,350,4,57,23,8,1,5,2017,10.267394,3800," +
			"89.9,3.9,15.011897,215,4.4,8.76,45.95,4,15.1,45.9\n"

		r, err := NewReader(strings.NewReader(data))
		require.NoError(t, err)

		row, err := r.Next()
		require.NoError(t, err)

		assert.Equal(t, 2, row.Line)
		assert.Equal(t, "bed1", row.Product.ID)
		assert.Equal(t, "bed_bath_table", row.Product.Category)
		assert.Equal(t, int64(39), row.Product.NameLength)
		assert.Equal(t, int64(161), row.Product.DescriptionLength)
		assert.Equal(t, int64(2), row.Product.PhotosQty)
		assert.Equal(t, int64(350), row.Product.WeightGrams)
		assert.Equal(t, 4.0, row.Product.Score)
		assert.Equal(t, 3800.0, row.Product.Volume)

		rec := row.Record
		assert.Equal(t, "bed1", rec.ProductID)
		assert.Equal(t, 2017, rec.Year)
		assert.Equal(t, 5, rec.Month)
		assert.Equal(t, 45.95, rec.UnitPrice)
		assert.Equal(t, 1.0, rec.Quantity)
		assert.Equal(t, 45.95, rec.TotalPrice)
		assert.Equal(t, 15.1, rec.FreightPrice)
		assert.Equal(t, int64(57), rec.Customers)
		assert.Equal(t, int64(23), rec.Weekday)
		assert.Equal(t, int64(8), rec.Weekend)
		assert.Equal(t, int64(1), rec.Holiday)
		assert.InDelta(t, 10.267394, rec.Seasonality, 1e-9)
		require.NotNil(t, rec.LagPrice)
		assert.Equal(t, 45.9, *rec.LagPrice)

		require.Len(t, rec.Competitors, 3)
		assert.Equal(t, int64(1), rec.Competitors[0].Number)
		assert.Equal(t, 89.9, rec.Competitors[0].Price)
		assert.Equal(t, 3.9, rec.Competitors[0].Score)
		assert.InDelta(t, 15.011897, rec.Competitors[0].Freight, 1e-9)
		assert.Equal(t, int64(3), rec.Competitors[2].Number)

		_, err = r.Next()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("blank lag and partial competitor triples", func(t *testing.T) {
		data := header +
			"bed1,bed_bath_table,01-05-2017,1,45.95,15.1,45.95,39,161,2,350,4,57,23,8,1,5,2017,,3800," +
			"89.9,,15.01,215,4.4,8.76,,,,\n"

		r, err := NewReader(strings.NewReader(data))
		require.NoError(t, err)

		row, err := r.Next()
		require.NoError(t, err)
		assert.Nil(t, row.Record.LagPrice)
		assert.Equal(t, 0.0, row.Record.Seasonality)
		require.Len(t, row.Record.Competitors, 1)
		assert.Equal(t, int64(2), row.Record.Competitors[0].Number)
	})

	t.Run("integers written as floats", func(t *testing.T) {
		data := header +
			"bed1,bed_bath_table,01-05-2017,1,45.95,15.1,45.95,39.0,161,2,350,4,57,23,8,1,5.0,2017,,3800,,,,,,,,,,\n"

		r, err := NewReader(strings.NewReader(data))
		require.NoError(t, err)

		row, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, int64(39), row.Product.NameLength)
		assert.Equal(t, 5, row.Record.Month)
		assert.Empty(t, row.Record.Competitors)
	})

	t.Run("bad value reports line and column and reading continues", func(t *testing.T) {
		data := header +
			"bed1,bed_bath_table,01-05-2017,1,abc,15.1,45.95,39,161,2,350,4,57,23,8,1,5,2017,,3800,,,,,,,,,,\n" +
			"bed1,bed_bath_table,01-06-2017,2,91.9,15.1,45.95,39,161,2,350,4,57,22,8,1,6,2017,,3800,,,,,,,,,,45.95\n"

		r, err := NewReader(strings.NewReader(data))
		require.NoError(t, err)

		_, err = r.Next()
		var rowErr *RowError
		require.True(t, errors.As(err, &rowErr))
		assert.Equal(t, 2, rowErr.Line)
		assert.Equal(t, ColTotalPrice, rowErr.Column)

		row, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, 3, row.Line)
		assert.Equal(t, 6, row.Record.Month)
	})

	t.Run("month out of range", func(t *testing.T) {
		data := header +
			"bed1,bed_bath_table,01-05-2017,1,45.95,15.1,45.95,39,161,2,350,4,57,23,8,1,13,2017,,3800,,,,,,,,,,\n"

		r, err := NewReader(strings.NewReader(data))
		require.NoError(t, err)

		_, err = r.Next()
		var rowErr *RowError
		require.True(t, errors.As(err, &rowErr))
		assert.Equal(t, ColMonth, rowErr.Column)
	})

	t.Run("empty product id", func(t *testing.T) {
		data := header +
			",bed_bath_table,01-05-2017,1,45.95,15.1,45.95,39,161,2,350,4,57,23,8,1,5,2017,,3800,,,,,,,,,,\n"

		r, err := NewReader(strings.NewReader(data))
		require.NoError(t, err)

		_, err = r.Next()
		var rowErr *RowError
		require.True(t, errors.As(err, &rowErr))
		assert.Equal(t, ColProductID, rowErr.Column)
	})
}

func TestNewReader(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		_, err := NewReader(strings.NewReader("product_id,qty\nbed1,1\n"))
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := NewReader(strings.NewReader(""))
		assert.Error(t, err)
	})

	t.Run("columns in any order", func(t *testing.T) {
		data := "year,month,product_id,product_category_name,qty,total_price,freight_price,unit_price," +
			"product_name_lenght,product_description_lenght,product_photos_qty,product_weight_g,product_score," +
			"customers,weekday,weekend,holiday,volume\n" +
			"2018,1,garden7,garden_tools,30,510,12.5,17,40,300,1,900,4.2,80,22,9,0,1200\n"

		r, err := NewReader(strings.NewReader(data))
		require.NoError(t, err)

		row, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, "garden7", row.Product.ID)
		assert.Equal(t, 2018, row.Record.Year)
		assert.Equal(t, 1, row.Record.Month)
		assert.Equal(t, 17.0, row.Record.UnitPrice)
		assert.Nil(t, row.Record.LagPrice)
	})
}
