package ingest_history

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
	"github.com/light-bringer/priceopt-service/internal/pkg/clock"
	"github.com/light-bringer/priceopt-service/internal/pkg/metrics"
	"github.com/light-bringer/priceopt-service/internal/pkg/retailcsv"
)

// DefaultBatchSize is the number of products written per storage call.
const DefaultBatchSize = 50

// historyNamespace scopes the name-based history record ids.
var historyNamespace = uuid.MustParse("5c1f3d7e-9a0b-4c55-8e2f-6b7a1d0c9e41")

// Request carries parsed dataset rows.
type Request struct {
	Rows []retailcsv.Row
	// Skipped counts rows the caller already rejected while parsing.
	Skipped int
	// BatchSize defaults to DefaultBatchSize.
	BatchSize int
	// OnProduct, when set, is called after each product is stored.
	OnProduct func(productID string, records int)
}

// Summary reports what an ingest run stored.
type Summary struct {
	Products   int
	Records    int
	Skipped    int
	Duplicates int
	Elapsed    time.Duration
}

// Interactor handles the ingest history use case.
type Interactor struct {
	writer contracts.HistoryWriter
	clock  clock.Clock
}

// NewInteractor creates a new ingest history interactor.
func NewInteractor(writer contracts.HistoryWriter, clk clock.Clock) *Interactor {
	return &Interactor{
		writer: writer,
		clock:  clk,
	}
}

// HistoryID returns the stable id of a product's record for a period, so
// ingesting the same file twice overwrites instead of duplicating.
func HistoryID(productID string, year, month int) string {
	name := fmt.Sprintf("%s/%04d-%02d", productID, year, month)
	return uuid.NewSHA1(historyNamespace, []byte(name)).String()
}

// Execute groups rows by product, orders each product's records by period and
// writes them in batches. On a storage error the summary covers the batches
// stored before it.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Summary, error) {
	start := i.clock.Now()
	summary := &Summary{Skipped: req.Skipped}

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	histories, duplicates := group(req.Rows)
	summary.Duplicates = duplicates

	for lo := 0; lo < len(histories); lo += batchSize {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = clock.Since(i.clock, start)
			return summary, err
		}

		hi := lo + batchSize
		if hi > len(histories) {
			hi = len(histories)
		}
		batch := histories[lo:hi]

		written, err := i.writer.WriteHistories(ctx, batch)
		written = clampWritten(written, len(batch), err)
		for _, ph := range batch[:written] {
			summary.Products++
			summary.Records += len(ph.Records)
			metrics.AddIngested(len(ph.Records))
			if req.OnProduct != nil {
				req.OnProduct(ph.Product.ID, len(ph.Records))
			}
		}
		if err != nil {
			summary.Elapsed = clock.Since(i.clock, start)
			return summary, fmt.Errorf("failed to write product %s: %w", batch[written].Product.ID, err)
		}
	}

	summary.Elapsed = clock.Since(i.clock, start)
	log.Printf("ingest: stored %d products, %d records (%d skipped, %d duplicates) in %s",
		summary.Products, summary.Records, summary.Skipped, summary.Duplicates, summary.Elapsed)
	return summary, nil
}

// clampWritten keeps a writer's count inside the batch; on error the
// product at the returned index is the one that failed.
func clampWritten(written, size int, err error) int {
	switch {
	case written < 0:
		written = 0
	case written > size:
		written = size
	}
	if err != nil && written == size {
		written = size - 1
	}
	return written
}

// group builds one ProductHistory per product, ordered by product id. A
// repeated (year, month) keeps the later row. Product attributes come from
// the most recent period.
func group(rows []retailcsv.Row) ([]contracts.ProductHistory, int) {
	type period struct{ year, month int }
	type entry struct {
		product domain.Product
		latest  period
		records map[period]domain.HistoryRecord
	}

	duplicates := 0
	byProduct := make(map[string]*entry)
	for _, row := range rows {
		id := row.Product.ID
		p := period{row.Record.Year, row.Record.Month}

		e, ok := byProduct[id]
		if !ok {
			e = &entry{product: row.Product, latest: p, records: make(map[period]domain.HistoryRecord)}
			byProduct[id] = e
		}
		if _, seen := e.records[p]; seen {
			duplicates++
		}

		rec := row.Record
		rec.ProductID = id
		rec.ID = HistoryID(id, p.year, p.month)
		e.records[p] = rec

		if p.year > e.latest.year || (p.year == e.latest.year && p.month >= e.latest.month) {
			e.latest = p
			e.product = row.Product
		}
	}

	ids := make([]string, 0, len(byProduct))
	for id := range byProduct {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]contracts.ProductHistory, 0, len(ids))
	for _, id := range ids {
		e := byProduct[id]
		records := make([]domain.HistoryRecord, 0, len(e.records))
		for _, rec := range e.records {
			records = append(records, rec)
		}
		product := e.product
		out = append(out, contracts.ProductHistory{
			Product: &product,
			Records: domain.SortedHistory(records),
		})
	}
	return out, duplicates
}
