package viewer

import "stockview/internal/models"

// SheetRepository holds the last successfully loaded document. A failed load
// only raises the no-data flag; the previous document stays in memory so a
// retry has something to fall back on.
type SheetRepository struct {
	document *models.InventoryDocument
	noData   bool
}

func NewSheetRepository() *SheetRepository {
	return &SheetRepository{noData: true}
}

// Load replaces the stored document wholesale. A document without sheets is
// rejected with ErrEmptyDataset and leaves the stored one untouched.
func (r *SheetRepository) Load(doc *models.InventoryDocument) error {
	if doc == nil || len(doc.Sheets) == 0 {
		r.noData = true
		return ErrEmptyDataset
	}
	r.document = doc
	r.noData = false
	return nil
}

// MarkUnavailable records a failed load without discarding data
func (r *SheetRepository) MarkUnavailable() {
	r.noData = true
}

func (r *SheetRepository) NoData() bool {
	return r.noData
}

func (r *SheetRepository) Document() *models.InventoryDocument {
	return r.document
}

func (r *SheetRepository) Len() int {
	if r.document == nil {
		return 0
	}
	return len(r.document.Sheets)
}

// Sheet returns the sheet at index, or nil when out of range
func (r *SheetRepository) Sheet(index int) *models.Sheet {
	if index < 0 || index >= r.Len() {
		return nil
	}
	return &r.document.Sheets[index]
}

func (r *SheetRepository) Metadata() models.Metadata {
	if r.document == nil {
		return models.Metadata{}
	}
	return r.document.Metadata
}
