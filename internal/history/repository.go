package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores daily bars in Postgres
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository 새 저장소 생성
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates market.daily_bars when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `CREATE SCHEMA IF NOT EXISTS market`); err != nil {
		return fmt.Errorf("ensure market schema: %w", err)
	}

	ddl := `
		CREATE TABLE IF NOT EXISTS market.daily_bars (
			symbol     TEXT        NOT NULL,
			trade_date DATE        NOT NULL,
			open       NUMERIC     NOT NULL,
			high       NUMERIC     NOT NULL,
			low        NUMERIC     NOT NULL,
			close      NUMERIC     NOT NULL,
			volume     BIGINT      NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (symbol, trade_date)
		)`

	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure daily_bars schema: %w", err)
	}
	return nil
}

// SaveBars upserts rows keyed by (symbol, trade_date)
func (r *Repository) SaveBars(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO market.daily_bars
			(symbol, trade_date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, trade_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume,
			updated_at = now()`

	for _, row := range rows {
		batch.Queue(query, row.Symbol, row.Date, row.Open, row.High, row.Low, row.Close, row.Volume)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range rows {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert daily bar: %w", err)
		}
	}

	return nil
}

// CountBars returns how many bars are stored for symbol
func (r *Repository) CountBars(ctx context.Context, symbol string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM market.daily_bars WHERE symbol = $1`, symbol,
	).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
