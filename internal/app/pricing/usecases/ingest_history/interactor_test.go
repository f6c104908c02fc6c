package ingest_history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/pricingtest"
	"github.com/light-bringer/priceopt-service/internal/pkg/clock"
	"github.com/light-bringer/priceopt-service/internal/pkg/retailcsv"
)

// recordingWriter stores batches and fails on a chosen product.
type recordingWriter struct {
	batches [][]contracts.ProductHistory
	failOn  string
}

func (w *recordingWriter) WriteHistories(ctx context.Context, batch []contracts.ProductHistory) (int, error) {
	w.batches = append(w.batches, batch)
	for i, ph := range batch {
		if ph.Product.ID == w.failOn {
			return i, errors.New("deadline exceeded")
		}
	}
	return len(batch), nil
}

func row(productID, category string, year, month int, price float64) retailcsv.Row {
	return retailcsv.Row{
		Product: pricingtest.Product(productID, category),
		Record: domain.HistoryRecord{
			ProductID: productID,
			Year:      year,
			Month:     month,
			UnitPrice: price,
			Quantity:  3,
		},
	}
}

func newInteractor(w contracts.HistoryWriter) *Interactor {
	clk := clock.NewMockClock(time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC))
	clk.Step(time.Second)
	return NewInteractor(w, clk)
}

func TestInteractor_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("groups and orders records per product", func(t *testing.T) {
		w := &recordingWriter{}
		var stored []string

		summary, err := newInteractor(w).Execute(ctx, &Request{
			Rows: []retailcsv.Row{
				row("garden7", "garden_tools", 2018, 2, 17),
				row("bed1", "bed_bath_table", 2017, 6, 45.9),
				row("garden7", "garden_tools", 2017, 12, 15),
				row("bed1", "bed_bath_table", 2017, 5, 45.95),
				row("garden7", "garden_tools", 2018, 1, 16),
			},
			Skipped: 2,
			OnProduct: func(productID string, records int) {
				stored = append(stored, productID)
			},
		})
		require.NoError(t, err)

		assert.Equal(t, 2, summary.Products)
		assert.Equal(t, 5, summary.Records)
		assert.Equal(t, 2, summary.Skipped)
		assert.Zero(t, summary.Duplicates)
		assert.Equal(t, time.Second, summary.Elapsed)
		assert.Equal(t, []string{"bed1", "garden7"}, stored)

		require.Len(t, w.batches, 1)
		garden := w.batches[0][1]
		assert.Equal(t, "garden7", garden.Product.ID)
		require.Len(t, garden.Records, 3)
		assert.Equal(t, 12, garden.Records[0].Month)
		assert.Equal(t, 1, garden.Records[1].Month)
		assert.Equal(t, 2, garden.Records[2].Month)
		for _, rec := range garden.Records {
			assert.Equal(t, HistoryID("garden7", rec.Year, rec.Month), rec.ID)
		}
	})

	t.Run("repeated period keeps the later row", func(t *testing.T) {
		w := &recordingWriter{}
		summary, err := newInteractor(w).Execute(ctx, &Request{
			Rows: []retailcsv.Row{
				row("bed1", "bed_bath_table", 2017, 5, 40),
				row("bed1", "bed_bath_table", 2017, 5, 45.95),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Records)
		assert.Equal(t, 1, summary.Duplicates)
		assert.Equal(t, 45.95, w.batches[0][0].Records[0].UnitPrice)
	})

	t.Run("product attributes come from the latest period", func(t *testing.T) {
		latest := row("bed1", "bed_bath_table", 2018, 1, 50)
		latest.Product.PhotosQty = 4
		w := &recordingWriter{}

		_, err := newInteractor(w).Execute(ctx, &Request{
			Rows: []retailcsv.Row{latest, row("bed1", "bed_bath_table", 2017, 5, 45.95)},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), w.batches[0][0].Product.PhotosQty)
	})

	t.Run("batches products", func(t *testing.T) {
		w := &recordingWriter{}
		rows := []retailcsv.Row{
			row("a", "c", 2017, 1, 1),
			row("b", "c", 2017, 1, 1),
			row("c", "c", 2017, 1, 1),
		}
		summary, err := newInteractor(w).Execute(ctx, &Request{Rows: rows, BatchSize: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Products)
		require.Len(t, w.batches, 2)
		assert.Len(t, w.batches[0], 2)
		assert.Len(t, w.batches[1], 1)
	})

	t.Run("write failure reports partial progress", func(t *testing.T) {
		w := &recordingWriter{failOn: "b"}
		rows := []retailcsv.Row{
			row("a", "c", 2017, 1, 1),
			row("a", "c", 2017, 2, 1),
			row("b", "c", 2017, 1, 1),
			row("c", "c", 2017, 1, 1),
		}
		summary, err := newInteractor(w).Execute(ctx, &Request{Rows: rows})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "product b")
		assert.Equal(t, 1, summary.Products)
		assert.Equal(t, 2, summary.Records)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		w := &recordingWriter{}

		_, err := newInteractor(w).Execute(cctx, &Request{Rows: []retailcsv.Row{row("a", "c", 2017, 1, 1)}})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, w.batches)
	})

	t.Run("re-ingest is idempotent", func(t *testing.T) {
		store := pricingtest.NewStore()
		rows := []retailcsv.Row{
			row("bed1", "bed_bath_table", 2017, 5, 45.95),
			row("bed1", "bed_bath_table", 2017, 6, 45.9),
		}
		in := newInteractor(store)

		_, err := in.Execute(ctx, &Request{Rows: rows})
		require.NoError(t, err)
		_, err = in.Execute(ctx, &Request{Rows: rows})
		require.NoError(t, err)

		history, err := store.GetHistory(ctx, "bed1")
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})
}

func TestHistoryID(t *testing.T) {
	assert.Equal(t, HistoryID("bed1", 2017, 5), HistoryID("bed1", 2017, 5))
	assert.NotEqual(t, HistoryID("bed1", 2017, 5), HistoryID("bed1", 2017, 6))
	assert.NotEqual(t, HistoryID("bed1", 2017, 5), HistoryID("bed2", 2017, 5))
	assert.Len(t, HistoryID("bed1", 2017, 5), 36)
}

func TestClampWritten(t *testing.T) {
	assert.Equal(t, 0, clampWritten(-1, 3, nil))
	assert.Equal(t, 3, clampWritten(5, 3, nil))
	assert.Equal(t, 2, clampWritten(3, 3, errors.New("boom")))
	assert.Equal(t, 1, clampWritten(1, 3, errors.New("boom")))
}
