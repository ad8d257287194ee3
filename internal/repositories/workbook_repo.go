package repositories

import (
	"context"
	"errors"

	"stockview/internal/models"
	"stockview/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WorkbookRepository records uploaded source workbooks
type WorkbookRepository interface {
	Create(ctx context.Context, upload *models.WorkbookUpload) error
	GetLatest(ctx context.Context) (*models.WorkbookUpload, error)
}

type workbookRepo struct {
	db database.DBTX
}

func NewWorkbookRepo(db database.DBTX) WorkbookRepository {
	return &workbookRepo{db: db}
}

func (r *workbookRepo) Create(ctx context.Context, upload *models.WorkbookUpload) error {
	query := `
		INSERT INTO workbook_uploads (id, object_name, original_name, size, uploaded_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING uploaded_at
	`
	if upload.ID == uuid.Nil {
		upload.ID = uuid.New()
	}
	return r.db.QueryRow(ctx, query, upload.ID, upload.ObjectName, upload.OriginalName, upload.Size).Scan(&upload.UploadedAt)
}

// GetLatest returns the most recent upload, or nil when there is none
func (r *workbookRepo) GetLatest(ctx context.Context) (*models.WorkbookUpload, error) {
	query := `
		SELECT id, object_name, original_name, size, uploaded_at
		FROM workbook_uploads
		ORDER BY uploaded_at DESC
		LIMIT 1
	`
	u := &models.WorkbookUpload{}
	err := r.db.QueryRow(ctx, query).Scan(&u.ID, &u.ObjectName, &u.OriginalName, &u.Size, &u.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}
