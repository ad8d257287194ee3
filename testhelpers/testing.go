package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"stockview/internal/models"
	"stockview/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL, creates the schema and empties
// every table. The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE product_shelf_life, workbook_uploads`); err != nil {
		pool.Close()
		t.Fatalf("Failed to truncate tables: %v", err)
	}

	db := &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
	t.Cleanup(func() { _ = db.Cleanup() })
	return db
}

// SeedShelfLife stores an override for code and lot
func SeedShelfLife(t *testing.T, db *TestDB, code, lot string, months int) string {
	t.Helper()

	key := models.ProductKey{ProductCode: code, LotNumber: lot}.UniqueKey()
	query := `
		INSERT INTO product_shelf_life (unique_key, product_code, lot_number, shelf_life_months)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := db.Pool.Exec(context.Background(), query, key, code, lot, months); err != nil {
		t.Fatalf("Failed to seed shelf life: %v", err)
	}
	return key
}

// SeedWorkbook records an upload at the given time
func SeedWorkbook(t *testing.T, db *TestDB, objectName string, at time.Time) *models.WorkbookUpload {
	t.Helper()

	upload := &models.WorkbookUpload{
		ID:           uuid.New(),
		ObjectName:   objectName,
		OriginalName: objectName,
		Size:         1024,
		UploadedAt:   at,
	}
	query := `
		INSERT INTO workbook_uploads (id, object_name, original_name, size, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := db.Pool.Exec(context.Background(), query,
		upload.ID, upload.ObjectName, upload.OriginalName, upload.Size, upload.UploadedAt)
	if err != nil {
		t.Fatalf("Failed to seed workbook: %v", err)
	}
	return upload
}
