package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
	"github.com/light-bringer/priceopt-service/internal/models/m_competitor_price"
	"github.com/light-bringer/priceopt-service/internal/models/m_price_history"
	"github.com/light-bringer/priceopt-service/internal/models/m_product"
	"github.com/light-bringer/priceopt-service/internal/pkg/committer"
	"github.com/light-bringer/priceopt-service/internal/pkg/query"
)

// HistoryRepo implements HistoryReader and HistoryWriter for Spanner.
type HistoryRepo struct {
	client      *spanner.Client
	comm        *committer.Committer
	products    *m_product.Model
	history     *m_price_history.Model
	competitors *m_competitor_price.Model
}

// NewHistoryRepo creates a new HistoryRepo.
func NewHistoryRepo(client *spanner.Client, comm *committer.Committer) *HistoryRepo {
	return &HistoryRepo{
		client:      client,
		comm:        comm,
		products:    m_product.NewModel(),
		history:     m_price_history.NewModel(),
		competitors: m_competitor_price.NewModel(),
	}
}

// GetHistory returns the product's records ordered by (year, month).
func (r *HistoryRepo) GetHistory(ctx context.Context, productID string) ([]domain.HistoryRecord, error) {
	// both reads see the same snapshot
	txn := r.client.ReadOnlyTransaction()
	defer txn.Close()

	stmt := query.FromIndex(m_price_history.TableName, m_price_history.ByProductIndex).
		Select(r.history.ReadColumns()...).
		Where(query.Eq(m_price_history.ProductID, productID)).
		OrderBy(m_price_history.Year, query.Asc).
		OrderBy(m_price_history.Month, query.Asc).
		Build()

	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	var records []domain.HistoryRecord
	index := make(map[string]int)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate price history: %w", err)
		}

		var data m_price_history.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse price history: %w", err)
		}

		rec, err := dataToRecord(&data)
		if err != nil {
			return nil, fmt.Errorf("history %s: %w", data.HistoryID, err)
		}
		index[rec.ID] = len(records)
		records = append(records, *rec)
	}

	if len(records) == 0 {
		return records, nil
	}

	if err := r.attachCompetitors(ctx, txn, records, index); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *HistoryRepo) attachCompetitors(ctx context.Context, txn *spanner.ReadOnlyTransaction, records []domain.HistoryRecord, index map[string]int) error {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}

	stmt := query.From(m_competitor_price.TableName).
		Select(r.competitors.ReadColumns()...).
		Where(query.In(m_competitor_price.HistoryID, ids)).
		OrderBy(m_competitor_price.HistoryID, query.Asc).
		OrderBy(m_competitor_price.CompetitorNumber, query.Asc).
		Build()

	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to iterate competitor prices: %w", err)
		}

		var data m_competitor_price.Data
		if err := row.ToStruct(&data); err != nil {
			return fmt.Errorf("failed to parse competitor price: %w", err)
		}
		quote, err := dataToQuote(&data)
		if err != nil {
			return fmt.Errorf("history %s: %w", data.HistoryID, err)
		}

		i, ok := index[data.HistoryID]
		if !ok {
			continue
		}
		records[i].Competitors = append(records[i].Competitors, quote)
	}
}

// WriteHistories upserts products and their records, one commit plan per
// product, packed into as few Spanner commits as the mutation limit allows.
func (r *HistoryRepo) WriteHistories(ctx context.Context, batch []contracts.ProductHistory) (int, error) {
	plans := make([]*committer.CommitPlan, 0, len(batch))
	for _, ph := range batch {
		plan, err := r.planFor(ph)
		if err != nil {
			return 0, fmt.Errorf("product %s: %w", ph.Product.ID, err)
		}
		plans = append(plans, plan)
	}

	written, err := r.comm.ApplyAll(ctx, plans)
	if err != nil {
		return written, fmt.Errorf("failed to write history: %w", err)
	}
	return written, nil
}

// planFor returns the mutations for one product. Repositories return
// mutations; the committer applies them.
func (r *HistoryRepo) planFor(ph contracts.ProductHistory) (*committer.CommitPlan, error) {
	plan := committer.NewPlan()
	plan.Add(r.products.UpsertMut(productToData(ph.Product)))

	for i := range ph.Records {
		rec := &ph.Records[i]
		data, err := recordToData(rec)
		if err != nil {
			return nil, err
		}
		mut, err := r.history.InsertMut(data)
		if err != nil {
			return nil, fmt.Errorf("failed to build history mutation: %w", err)
		}
		plan.Add(mut)
		// quotes missing from the new data must not survive a re-ingest
		plan.Add(r.competitors.DeleteForHistoryMut(rec.ID))

		for j := range rec.Competitors {
			quote, err := quoteToData(rec.ID, &rec.Competitors[j])
			if err != nil {
				return nil, err
			}
			mut, err := r.competitors.InsertMut(quote)
			if err != nil {
				return nil, fmt.Errorf("failed to build competitor mutation: %w", err)
			}
			plan.Add(mut)
		}
	}
	return plan, nil
}
