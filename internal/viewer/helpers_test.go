package viewer

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"stockview/internal/models"
)

// MockSource mocks the DocumentSource interface for testing
type MockSource struct {
	mock.Mock
}

func (m *MockSource) FetchDocument(ctx context.Context) (*models.InventoryDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryDocument), args.Error(1)
}

// MockIngester mocks the Ingester interface for testing
type MockIngester struct {
	mock.Mock
}

func (m *MockIngester) Ingest(ctx context.Context, filename string, r io.Reader) (*models.InventoryDocument, error) {
	args := m.Called(ctx, filename, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryDocument), args.Error(1)
}

// MockWriter mocks the ShelfLifeWriter interface for testing
type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) SaveShelfLife(ctx context.Context, req models.ShelfLifeRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// recordingRenderer keeps every snapshot and notice it was given
type recordingRenderer struct {
	mu        sync.Mutex
	snapshots []Snapshot
	notices   []Notice
}

func (r *recordingRenderer) Render(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
}

func (r *recordingRenderer) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingRenderer) last() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return Snapshot{}
	}
	return r.snapshots[len(r.snapshots)-1]
}

func (r *recordingRenderer) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Message)
	}
	return out
}

func product(pairs ...interface{}) *models.Product {
	p := models.NewProduct()
	for i := 0; i+1 < len(pairs); i += 2 {
		p.Set(pairs[i].(string), pairs[i+1])
	}
	return p
}

func sheet(name string, products ...*models.Product) models.Sheet {
	return models.Sheet{SheetName: name, Products: products, TotalProducts: len(products)}
}

func document(sheets ...models.Sheet) *models.InventoryDocument {
	total := 0
	for _, s := range sheets {
		total += s.TotalProducts
	}
	return &models.InventoryDocument{
		Metadata: models.Metadata{
			DateTonKho:    "22/12/2025",
			TotalSheets:   len(sheets),
			TotalProducts: total,
		},
		Sheets: sheets,
	}
}

// fujitsuDocument has an editable PIN FUJITSU sheet at index 1
func fujitsuDocument(months interface{}) *models.InventoryDocument {
	return document(
		sheet("BAKING SODA",
			product(models.ColumnProductCode, "BS01", models.ColumnRemainingPercent, 80.0)),
		sheet("PIN FUJITSU",
			product(
				models.ColumnProductCode, "CR2032",
				models.ColumnProductName, "Pin CR2032",
				models.ColumnLot, "2805",
				models.ColumnShelfLife, months,
				models.ColumnRemainingPercent, 45.0,
			),
			product(
				models.ColumnProductCode, "LR44",
				models.ColumnLot, "2712",
				models.ColumnShelfLife, 84.0,
			)),
	)
}
