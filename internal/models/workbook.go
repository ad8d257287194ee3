package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkbookUpload records one uploaded source spreadsheet
type WorkbookUpload struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ObjectName   string    `json:"object_name" db:"object_name"`
	OriginalName string    `json:"original_name" db:"original_name"`
	Size         int64     `json:"size" db:"size"`
	UploadedAt   time.Time `json:"uploaded_at" db:"uploaded_at"`
}
