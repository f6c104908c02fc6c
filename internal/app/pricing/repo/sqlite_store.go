package repo

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/contracts"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
	"github.com/light-bringer/priceopt-service/internal/models/m_competitor_price"
	"github.com/light-bringer/priceopt-service/internal/models/m_price_history"
	"github.com/light-bringer/priceopt-service/internal/models/m_product"
	"github.com/light-bringer/priceopt-service/internal/pkg/query"
)

//go:embed sqlite_schema.sql
var sqliteSchema string

// SQLiteStore implements HistoryStore on a local SQLite file. It backs
// development and the offline CLI; production uses Spanner.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetHistory returns the product's records ordered by (year, month).
func (s *SQLiteStore) GetHistory(ctx context.Context, productID string) ([]domain.HistoryRecord, error) {
	stmt := query.From(m_price_history.TableName).
		Select(m_price_history.NewModel().ReadColumns()...).
		Where(query.Eq(m_price_history.ProductID, productID)).
		OrderBy(m_price_history.Year, query.Asc).
		OrderBy(m_price_history.Month, query.Asc).
		Build()

	rows, err := s.db.QueryContext(ctx, stmt.SQL, query.NamedArgs(stmt)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	index := make(map[string]int)
	for rows.Next() {
		var d m_price_history.Data
		var createdAt any
		var lagNum, lagDen sql.NullInt64
		if err := rows.Scan(
			&d.HistoryID, &d.ProductID, &d.Year, &d.Month, &d.Quantity,
			&d.UnitPriceNumerator, &d.UnitPriceDenominator,
			&d.TotalPriceNumerator, &d.TotalPriceDenominator,
			&d.FreightPriceNumerator, &d.FreightPriceDenominator,
			&d.Customers, &d.Weekday, &d.Weekend, &d.Holiday,
			&d.ProductScore, &d.Seasonality, &lagNum, &lagDen, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan price history: %w", err)
		}
		d.LagPriceNumerator.Int64, d.LagPriceNumerator.Valid = lagNum.Int64, lagNum.Valid
		d.LagPriceDenominator.Int64, d.LagPriceDenominator.Valid = lagDen.Int64, lagDen.Valid

		rec, err := dataToRecord(&d)
		if err != nil {
			return nil, fmt.Errorf("history %s: %w", d.HistoryID, err)
		}
		index[rec.ID] = len(records)
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate price history: %w", err)
	}
	if len(records) == 0 {
		return records, nil
	}

	if err := s.attachCompetitors(ctx, productID, records, index); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *SQLiteStore) attachCompetitors(ctx context.Context, productID string, records []domain.HistoryRecord, index map[string]int) error {
	cols := m_competitor_price.NewModel().ReadColumns()
	for i := range cols {
		cols[i] = "c." + cols[i]
	}
	q := fmt.Sprintf(`SELECT %s FROM %s c JOIN %s h ON h.%s = c.%s WHERE h.%s = @product ORDER BY c.%s, c.%s`,
		strings.Join(cols, ", "),
		m_competitor_price.TableName, m_price_history.TableName,
		m_price_history.HistoryID, m_competitor_price.HistoryID,
		m_price_history.ProductID,
		m_competitor_price.HistoryID, m_competitor_price.CompetitorNumber,
	)

	rows, err := s.db.QueryContext(ctx, q, sql.Named("product", productID))
	if err != nil {
		return fmt.Errorf("failed to query competitor prices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d m_competitor_price.Data
		if err := rows.Scan(&d.HistoryID, &d.CompetitorNumber, &d.PriceNumerator, &d.PriceDenominator,
			&d.Score, &d.FreightNumerator, &d.FreightDenominator); err != nil {
			return fmt.Errorf("failed to scan competitor price: %w", err)
		}
		quote, err := dataToQuote(&d)
		if err != nil {
			return fmt.Errorf("history %s: %w", d.HistoryID, err)
		}
		if i, ok := index[d.HistoryID]; ok {
			records[i].Competitors = append(records[i].Competitors, quote)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate competitor prices: %w", err)
	}
	return nil
}

const (
	sqliteUpsertProduct = `INSERT INTO products (product_id, category, name_length, description_length, photos_qty, weight_g, score, volume)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(product_id) DO UPDATE SET
	category = excluded.category,
	name_length = excluded.name_length,
	description_length = excluded.description_length,
	photos_qty = excluded.photos_qty,
	weight_g = excluded.weight_g,
	score = excluded.score,
	volume = excluded.volume,
	updated_at = CURRENT_TIMESTAMP`

	sqliteUpsertHistory = `INSERT OR REPLACE INTO price_history (history_id, product_id, year, month, quantity,
	unit_price_numerator, unit_price_denominator, total_price_numerator, total_price_denominator,
	freight_price_numerator, freight_price_denominator, customers, weekday, weekend, holiday,
	product_score, seasonality, lag_price_numerator, lag_price_denominator)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	sqliteDeleteCompetitors = `DELETE FROM competitor_prices WHERE history_id = ?`

	sqliteInsertCompetitor = `INSERT INTO competitor_prices (history_id, competitor_number, price_numerator, price_denominator,
	score, freight_numerator, freight_denominator)
VALUES (?, ?, ?, ?, ?, ?, ?)`
)

// WriteHistories stores each product in its own transaction.
func (s *SQLiteStore) WriteHistories(ctx context.Context, batch []contracts.ProductHistory) (int, error) {
	for i, ph := range batch {
		if err := s.writeOne(ctx, ph); err != nil {
			return i, fmt.Errorf("product %s: %w", ph.Product.ID, err)
		}
	}
	return len(batch), nil
}

func (s *SQLiteStore) writeOne(ctx context.Context, ph contracts.ProductHistory) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	p := productToData(ph.Product)
	if _, err = tx.ExecContext(ctx, sqliteUpsertProduct,
		p.ProductID, p.Category, p.NameLength, p.DescriptionLength, p.PhotosQty, p.WeightGrams, p.Score, p.Volume,
	); err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	for i := range ph.Records {
		rec := &ph.Records[i]
		d, err := recordToData(rec)
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, sqliteDeleteCompetitors, d.HistoryID); err != nil {
			return fmt.Errorf("failed to clear competitors of %s: %w", d.HistoryID, err)
		}
		if _, err = tx.ExecContext(ctx, sqliteUpsertHistory,
			d.HistoryID, d.ProductID, d.Year, d.Month, d.Quantity,
			d.UnitPriceNumerator, d.UnitPriceDenominator, d.TotalPriceNumerator, d.TotalPriceDenominator,
			d.FreightPriceNumerator, d.FreightPriceDenominator, d.Customers, d.Weekday, d.Weekend, d.Holiday,
			d.ProductScore, d.Seasonality, nullInt64(d.LagPriceNumerator.Int64, d.LagPriceNumerator.Valid),
			nullInt64(d.LagPriceDenominator.Int64, d.LagPriceDenominator.Valid),
		); err != nil {
			return fmt.Errorf("failed to write history %s: %w", d.HistoryID, err)
		}

		for j := range rec.Competitors {
			c, err := quoteToData(rec.ID, &rec.Competitors[j])
			if err != nil {
				return err
			}
			if _, err = tx.ExecContext(ctx, sqliteInsertCompetitor,
				c.HistoryID, c.CompetitorNumber, c.PriceNumerator, c.PriceDenominator, c.Score, c.FreightNumerator, c.FreightDenominator,
			); err != nil {
				return fmt.Errorf("failed to write competitor %d: %w", c.CompetitorNumber, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func nullInt64(v int64, valid bool) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: valid}
}

// GetProduct retrieves a product DTO by ID.
func (s *SQLiteStore) GetProduct(ctx context.Context, productID string) (*contracts.ProductDTO, error) {
	stmt := query.From(m_product.TableName).
		Select(productColumns()...).
		Where(query.Eq(m_product.ProductID, productID)).
		Build()

	d, err := scanProduct(s.db.QueryRowContext(ctx, stmt.SQL, query.NamedArgs(stmt)...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{ProductID: productID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	count := query.From(m_price_history.TableName).
		Where(query.Eq(m_price_history.ProductID, productID)).
		Count().
		Build()
	var records int64
	if err := s.db.QueryRowContext(ctx, count.SQL, query.NamedArgs(count)...).Scan(&records); err != nil {
		return nil, fmt.Errorf("failed to count history: %w", err)
	}

	return productDataToDTO(d, records), nil
}

// ListProducts retrieves a page of products ordered by id.
func (s *SQLiteStore) ListProducts(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	pageSize := filter.NormalizedPageSize()

	b := query.From(m_product.TableName).Select(productColumns()...)
	if filter.Category != "" {
		b = b.Where(query.Eq(m_product.Category, filter.Category))
	}
	if filter.PageToken != "" {
		b = b.Where(query.Gt(m_product.ProductID, filter.PageToken))
	}
	stmt := b.OrderBy(m_product.ProductID, query.Asc).Limit(int64(pageSize + 1)).Build()

	rows, err := s.db.QueryContext(ctx, stmt.SQL, query.NamedArgs(stmt)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]*contracts.ProductDTO, 0, pageSize)
	for rows.Next() {
		d, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, productDataToDTO(d, 0))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return pageOf(products, pageSize), nil
}

// ListCategories returns distinct categories in ascending order.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]string, error) {
	stmt := query.From(m_product.TableName).
		Select("DISTINCT " + m_product.Category).
		OrderBy(m_product.Category, query.Asc).
		Build()

	rows, err := s.db.QueryContext(ctx, stmt.SQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Summary aggregates product and history totals.
func (s *SQLiteStore) Summary(ctx context.Context) (*contracts.Summary, error) {
	summary := &contracts.Summary{}

	products := query.From(m_product.TableName).Count().Build()
	if err := s.db.QueryRowContext(ctx, products.SQL).Scan(&summary.TotalProducts); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	stmt := query.From(m_price_history.TableName).
		Select(
			"COUNT(*)",
			fmt.Sprintf("COALESCE(SUM(CAST(%s AS REAL) / %s), 0)", m_price_history.TotalPriceNumerator, m_price_history.TotalPriceDenominator),
			fmt.Sprintf("COALESCE(AVG(CAST(%s AS REAL) / %s), 0)", m_price_history.UnitPriceNumerator, m_price_history.UnitPriceDenominator),
		).
		Build()
	if err := s.db.QueryRowContext(ctx, stmt.SQL).Scan(&summary.TotalRecords, &summary.TotalRevenue, &summary.AveragePrice); err != nil {
		return nil, fmt.Errorf("failed to aggregate history: %w", err)
	}
	return summary, nil
}

// productColumns omits updated_at, which the DTO does not carry.
func productColumns() []string {
	return []string{
		m_product.ProductID,
		m_product.Category,
		m_product.NameLength,
		m_product.DescriptionLength,
		m_product.PhotosQty,
		m_product.WeightGrams,
		m_product.Score,
		m_product.Volume,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*m_product.Data, error) {
	var d m_product.Data
	if err := row.Scan(&d.ProductID, &d.Category, &d.NameLength, &d.DescriptionLength,
		&d.PhotosQty, &d.WeightGrams, &d.Score, &d.Volume); err != nil {
		return nil, err
	}
	return &d, nil
}
