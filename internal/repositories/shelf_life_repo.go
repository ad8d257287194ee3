package repositories

import (
	"context"
	"errors"

	"stockview/internal/models"
	"stockview/pkg/database"

	"github.com/jackc/pgx/v5"
)

// ShelfLifeRepository stores per-product shelf-life overrides keyed by
// "<product code>_<lot number>"
type ShelfLifeRepository interface {
	Upsert(ctx context.Context, override *models.ShelfLifeOverride) error
	GetByKey(ctx context.Context, uniqueKey string) (*models.ShelfLifeOverride, error)
	GetAll(ctx context.Context) (map[string]int, error)
	Delete(ctx context.Context, uniqueKey string) error
}

type shelfLifeRepo struct {
	db database.DBTX
}

func NewShelfLifeRepo(db database.DBTX) ShelfLifeRepository {
	return &shelfLifeRepo{db: db}
}

func (r *shelfLifeRepo) Upsert(ctx context.Context, override *models.ShelfLifeOverride) error {
	query := `
		INSERT INTO product_shelf_life (unique_key, product_code, lot_number, shelf_life_months, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (unique_key) DO UPDATE
		SET shelf_life_months = EXCLUDED.shelf_life_months, updated_at = NOW()
		RETURNING updated_at
	`
	override.UniqueKey = models.ProductKey{ProductCode: override.ProductCode, LotNumber: override.LotNumber}.UniqueKey()
	return r.db.QueryRow(ctx, query, override.UniqueKey, override.ProductCode, override.LotNumber, override.ShelfLifeMonths).
		Scan(&override.UpdatedAt)
}

func (r *shelfLifeRepo) GetByKey(ctx context.Context, uniqueKey string) (*models.ShelfLifeOverride, error) {
	query := `
		SELECT unique_key, product_code, lot_number, shelf_life_months, updated_at
		FROM product_shelf_life
		WHERE unique_key = $1
	`
	o := &models.ShelfLifeOverride{}
	err := r.db.QueryRow(ctx, query, uniqueKey).Scan(&o.UniqueKey, &o.ProductCode, &o.LotNumber, &o.ShelfLifeMonths, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// GetAll returns every override as unique key -> months
func (r *shelfLifeRepo) GetAll(ctx context.Context) (map[string]int, error) {
	query := `SELECT unique_key, shelf_life_months FROM product_shelf_life`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := make(map[string]int)
	for rows.Next() {
		var key string
		var months int
		if err := rows.Scan(&key, &months); err != nil {
			return nil, err
		}
		overrides[key] = months
	}
	return overrides, rows.Err()
}

func (r *shelfLifeRepo) Delete(ctx context.Context, uniqueKey string) error {
	query := `DELETE FROM product_shelf_life WHERE unique_key = $1`
	_, err := r.db.Exec(ctx, query, uniqueKey)
	return err
}
