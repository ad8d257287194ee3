package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DBTX is the subset of a pgx pool the repositories use. *pgxpool.Pool and
// pgxmock pools both satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func NewPool(ctx context.Context, dsn string, maxConns int32, logger *zap.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		config.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("database connected", zap.String("host", config.ConnConfig.Host), zap.String("database", config.ConnConfig.Database))
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS product_shelf_life (
	unique_key        TEXT PRIMARY KEY,
	product_code      TEXT NOT NULL,
	lot_number        TEXT NOT NULL DEFAULT '',
	shelf_life_months INTEGER NOT NULL CHECK (shelf_life_months > 0),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS workbook_uploads (
	id            UUID PRIMARY KEY,
	object_name   TEXT NOT NULL UNIQUE,
	original_name TEXT NOT NULL,
	size          BIGINT NOT NULL,
	uploaded_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_workbook_uploads_uploaded_at ON workbook_uploads (uploaded_at DESC);
`

// EnsureSchema creates the tables the service needs when they are missing
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
