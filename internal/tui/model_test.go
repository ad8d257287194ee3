package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"stockview/internal/models"
	"stockview/internal/viewer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubBackend struct {
	mu       sync.Mutex
	doc      *models.InventoryDocument
	fetchErr error
	saved    []models.ShelfLifeRequest
	ingested []string
}

func (s *stubBackend) FetchDocument(context.Context) (*models.InventoryDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc, s.fetchErr
}

func (s *stubBackend) Ingest(_ context.Context, filename string, r io.Reader) (*models.InventoryDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, _ := io.ReadAll(r)
	s.ingested = append(s.ingested, filename+":"+string(data))
	return s.doc, nil
}

func (s *stubBackend) SaveShelfLife(_ context.Context, req models.ShelfLifeRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, req)
	return nil
}

func product(pairs ...interface{}) *models.Product {
	p := models.NewProduct()
	for i := 0; i+1 < len(pairs); i += 2 {
		p.Set(pairs[i].(string), pairs[i+1])
	}
	return p
}

func testDocument() *models.InventoryDocument {
	soda := []*models.Product{
		product(models.ColumnProductCode, "BS01", models.ColumnProductName, "Baking soda 454g", models.ColumnRemainingPercent, 45.0),
		product(models.ColumnProductCode, "BS02", models.ColumnProductName, "Baking soda 1kg", models.ColumnRemainingPercent, 88.0),
	}
	pin := []*models.Product{
		product(models.ColumnProductCode, "CR2032", models.ColumnProductName, "Pin CR2032", models.ColumnLot, "2805",
			models.ColumnShelfLife, 84.0, models.ColumnRemainingPercent, 61.2),
	}
	return &models.InventoryDocument{
		Metadata: models.Metadata{DateTonKho: "22/12/2026", SourceFile: "22.12.xlsx", TotalSheets: 2, TotalProducts: 3},
		Sheets: []models.Sheet{
			{SheetName: "BAKING SODA", Products: soda, TotalProducts: 2},
			{SheetName: "PIN FUJITSU", Products: pin, TotalProducts: 1},
		},
	}
}

func newLoadedModel(t *testing.T, backend *stubBackend) Model {
	t.Helper()
	ctrl := viewer.NewController(backend, backend, backend, NewBridge(), models.DefaultPolicy(), zap.NewNop())
	m := New(context.Background(), ctrl, zap.NewNop())
	require.NotNil(t, m.Init())
	return exec(m, m.refreshCmd())
}

// exec runs cmd synchronously and feeds its message back into the model
func exec(m Model, cmd tea.Cmd) Model {
	if cmd == nil {
		return m
	}
	next, _ := m.Update(cmd())
	return next.(Model)
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestLoadShowsFirstSheet(t *testing.T) {
	m := newLoadedModel(t, &stubBackend{doc: testDocument()})

	require.NotNil(t, m.snap.Sheet)
	assert.Equal(t, "BAKING SODA", m.snap.Sheet.Name)

	view := m.View()
	assert.Contains(t, view, "22/12/2026")
	assert.Contains(t, view, "PIN FUJITSU")
	assert.Contains(t, view, "45.0%")
}

func TestLoadFailureShowsNoData(t *testing.T) {
	m := newLoadedModel(t, &stubBackend{fetchErr: errors.New("connection refused")})

	assert.Nil(t, m.snap.Sheet)
	assert.Contains(t, m.View(), viewer.NoticeLoadFailed)
}

func TestSheetNavigationWraps(t *testing.T) {
	m := newLoadedModel(t, &stubBackend{doc: testDocument()})

	m, _ = press(m, "tab")
	assert.Equal(t, "PIN FUJITSU", m.snap.Sheet.Name)

	m, _ = press(m, "tab")
	assert.Equal(t, "BAKING SODA", m.snap.Sheet.Name)

	m, _ = press(m, "shift+tab")
	assert.Equal(t, "PIN FUJITSU", m.snap.Sheet.Name)
}

func TestSearchFiltersWhileTyping(t *testing.T) {
	m := newLoadedModel(t, &stubBackend{doc: testDocument()})

	m, _ = press(m, "/", "1", "k", "g")
	assert.Equal(t, modeSearch, m.mode)
	assert.Equal(t, "1kg", m.snap.Sheet.SearchTerm)
	require.Len(t, m.snap.Sheet.Rows, 1)
	assert.Equal(t, "1 / 2", m.snap.Sheet.CountLabel)

	m, _ = press(m, "enter")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "1kg", m.snap.Sheet.SearchTerm)

	m, _ = press(m, "/", "z", "z")
	assert.Contains(t, m.View(), viewer.NoMatchLabel)

	m, _ = press(m, "esc")
	assert.Empty(t, m.snap.Sheet.SearchTerm)
	assert.Len(t, m.snap.Sheet.Rows, 2)
}

func TestColumnFilterCycles(t *testing.T) {
	m := newLoadedModel(t, &stubBackend{doc: testDocument()})
	require.Equal(t, viewer.AllColumns, m.snap.Sheet.ColumnFilter)

	m, _ = press(m, "c")
	assert.Equal(t, models.ColumnProductCode, m.snap.Sheet.ColumnFilter)

	m, _ = press(m, "c", "c", "c")
	assert.Equal(t, viewer.AllColumns, m.snap.Sheet.ColumnFilter)
}

func TestEditShelfLife(t *testing.T) {
	backend := &stubBackend{doc: testDocument()}
	m := newLoadedModel(t, backend)
	m, _ = press(m, "tab")

	m, _ = press(m, "e")
	require.Equal(t, modePicker, m.mode)
	assert.Equal(t, 84, m.picker.options[m.picker.cursor].Months)
	assert.Contains(t, m.View(), "Thời hạn sử dụng")

	m, cmd := press(m, "down", "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, modeBrowse, m.mode)

	m = exec(m, cmd)
	require.Len(t, backend.saved, 1)
	assert.Equal(t, models.ShelfLifeRequest{ProductCode: "CR2032", LotNumber: "2805", ShelfLifeMonths: 120}, backend.saved[0])
	assert.Equal(t, "PIN FUJITSU", m.snap.Sheet.Name)
}

func TestEditSameValueDoesNothing(t *testing.T) {
	m := newLoadedModel(t, &stubBackend{doc: testDocument()})
	m, _ = press(m, "tab", "e")

	m, cmd := press(m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, modeBrowse, m.mode)
}

func TestEditOnReadOnlySheet(t *testing.T) {
	m := newLoadedModel(t, &stubBackend{doc: testDocument()})

	m, _ = press(m, "e")
	assert.Equal(t, modeBrowse, m.mode)
	assert.NotEmpty(t, m.status)
}

func TestNoticeIsModal(t *testing.T) {
	m := newLoadedModel(t, &stubBackend{doc: testDocument()})

	next, _ := m.Update(noticeMsg{notice: viewer.Notice{Level: viewer.NoticeError, Message: viewer.NoticePersistFailed}})
	m = next.(Model)
	assert.Contains(t, m.View(), viewer.NoticePersistFailed)

	// the key only closes the notice
	m, _ = press(m, "tab")
	assert.Nil(t, m.notice)
	assert.Equal(t, "BAKING SODA", m.snap.Sheet.Name)
}

func TestStaleSnapshotIgnored(t *testing.T) {
	m := newLoadedModel(t, &stubBackend{doc: testDocument()})
	current := m.snap.Version

	next, _ := m.Update(snapshotMsg{snap: viewer.Snapshot{Version: current - 1, NoData: true}})
	m = next.(Model)
	assert.Equal(t, current, m.snap.Version)
	assert.NotNil(t, m.snap.Sheet)
}

func TestUpload(t *testing.T) {
	backend := &stubBackend{doc: testDocument()}
	m := newLoadedModel(t, backend)
	m.openFile = func(path string) (io.ReadCloser, error) {
		if strings.HasSuffix(path, "missing.xlsx") {
			return nil, errors.New("no such file")
		}
		return io.NopCloser(strings.NewReader("xlsx")), nil
	}

	m, _ = press(m, "u")
	require.Equal(t, modeUpload, m.mode)
	m, cmd := press(m, "/", "t", "m", "p", "/", "2", "2", ".", "1", "2", ".", "x", "l", "s", "x", "enter")
	require.NotNil(t, cmd)
	m = exec(m, cmd)
	assert.Equal(t, []string{"22.12.xlsx:xlsx"}, backend.ingested)
	assert.Nil(t, m.notice)

	m, _ = press(m, "u")
	m.upload.SetValue("/tmp/missing.xlsx")
	m, cmd = press(m, "enter")
	m = exec(m, cmd)
	require.NotNil(t, m.notice)
	assert.Equal(t, viewer.NoticeError, m.notice.Level)
	assert.Contains(t, m.notice.Message, "no such file")
}

func TestRefreshKeyReturnsToFirstSheet(t *testing.T) {
	m := newLoadedModel(t, &stubBackend{doc: testDocument()})
	m, _ = press(m, "tab", "/", "c", "r")
	require.Equal(t, "PIN FUJITSU", m.snap.Sheet.Name)
	m, _ = press(m, "enter")

	m, cmd := press(m, "r")
	require.NotNil(t, cmd)
	m = exec(m, cmd)

	assert.Equal(t, 0, m.snap.Sheet.Index)
	assert.Equal(t, "BAKING SODA", m.snap.Sheet.Name)
	assert.Empty(t, m.snap.Sheet.SearchTerm)
}

func TestCursorStaysInRange(t *testing.T) {
	m := newLoadedModel(t, &stubBackend{doc: testDocument()})

	m, _ = press(m, "down", "down", "down")
	assert.Equal(t, 1, m.cursor)
	m, _ = press(m, "up", "up")
	assert.Equal(t, 0, m.cursor)

	m, _ = press(m, "down", "tab")
	assert.Equal(t, 0, m.cursor)
}
