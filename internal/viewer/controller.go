package viewer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"stockview/internal/models"
)

// Notices shown to the user after an operation
const (
	NoticeIngestDone      = "✓ Xử lý thành công!"
	NoticeIngestReloading = "✓ Xử lý thành công! Đang tải dữ liệu..."
	NoticeIngestFailed    = "✗ Lỗi: "
	NoticePersistFailed   = "❌ Không thể lưu thời hạn. Vui lòng thử lại!"
	NoticeLoadFailed      = "Không có dữ liệu tồn kho"
)

// DocumentSource fetches the current inventory document
type DocumentSource interface {
	FetchDocument(ctx context.Context) (*models.InventoryDocument, error)
}

// Ingester submits a spreadsheet for processing. A nil document with a nil
// error means the backend accepted the file without returning data inline.
type Ingester interface {
	Ingest(ctx context.Context, filename string, r io.Reader) (*models.InventoryDocument, error)
}

// ShelfLifeWriter persists one shelf-life override
type ShelfLifeWriter interface {
	SaveShelfLife(ctx context.Context, req models.ShelfLifeRequest) error
}

// Renderer draws snapshots and shows notices. Both calls are made without
// the controller lock held.
type Renderer interface {
	Render(Snapshot)
	Notify(Notice)
}

type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

type Notice struct {
	Level   NoticeLevel
	Message string
}

// Controller owns the view state and orchestrates loads, ingestion and
// shelf-life edits. Every transition happens under mu and yields exactly one
// snapshot; network calls are made without the lock.
type Controller struct {
	source   DocumentSource
	ingester Ingester
	writer   ShelfLifeWriter
	renderer Renderer
	policy   *models.Policy
	logger   *zap.Logger

	mu        sync.Mutex
	repo      *SheetRepository
	state     ViewState
	editors   *editorSet
	loadError string
	version   uint64
}

func NewController(source DocumentSource, ingester Ingester, writer ShelfLifeWriter, renderer Renderer, policy *models.Policy, logger *zap.Logger) *Controller {
	if policy == nil {
		policy = models.DefaultPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		source:   source,
		ingester: ingester,
		writer:   writer,
		renderer: renderer,
		policy:   policy,
		logger:   logger,
		repo:     NewSheetRepository(),
		state:    newViewState(),
		editors:  newEditorSet(),
	}
}

// Refresh fetches the document and replaces the in-memory data with it.
// With preserveSheet the current sheet stays selected when it still exists.
func (c *Controller) Refresh(ctx context.Context, preserveSheet bool) error {
	c.mu.Lock()
	saved := c.state.CurrentSheetIndex
	c.mu.Unlock()

	doc, err := c.source.FetchDocument(ctx)
	if err != nil {
		err = wrapAs(ErrLoadFailed, err)
		c.logger.Warn("inventory load failed", zap.Error(err))
		c.failLoad(err)
		return err
	}

	index := 0
	if preserveSheet {
		index = saved
	}
	if err := c.apply(doc, index); err != nil {
		c.logger.Warn("inventory document rejected", zap.Error(err))
		return err
	}
	c.logger.Debug("inventory loaded",
		zap.Int("sheets", len(doc.Sheets)),
		zap.Int("sheet_index", c.State().CurrentSheetIndex))
	return nil
}

// Ingest uploads a spreadsheet. Inline data is shown straight away on the
// first sheet; otherwise the document is reloaded.
func (c *Controller) Ingest(ctx context.Context, filename string, r io.Reader) error {
	doc, err := c.ingester.Ingest(ctx, filename, r)
	if err != nil {
		err = wrapAs(ErrIngestionFailed, err)
		c.logger.Warn("ingestion failed", zap.String("filename", filename), zap.Error(err))
		c.notify(NoticeError, NoticeIngestFailed+userMessage(err))
		return err
	}

	if doc != nil {
		if err := c.apply(doc, 0); err != nil {
			c.notify(NoticeError, NoticeIngestFailed+userMessage(err))
			return fmt.Errorf("%w: %w", ErrIngestionFailed, err)
		}
		c.logger.Info("ingested file", zap.String("filename", filename), zap.Bool("inline", true))
		c.notify(NoticeInfo, NoticeIngestDone)
		return nil
	}

	c.logger.Info("ingested file", zap.String("filename", filename), zap.Bool("inline", false))
	c.notify(NoticeInfo, NoticeIngestReloading)
	return c.Refresh(ctx, false)
}

// SwitchTo selects a sheet, resetting search and column filter. Out of
// range indexes are ignored.
func (c *Controller) SwitchTo(index int) bool {
	c.mu.Lock()
	if c.repo.NoData() || index < 0 || index >= c.repo.Len() {
		c.mu.Unlock()
		return false
	}
	c.switchLocked(index)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.renderer.Render(snap)
	return true
}

// Search filters the current sheet by term within the selected column
func (c *Controller) Search(term string) {
	c.mu.Lock()
	if c.repo.NoData() {
		c.mu.Unlock()
		return
	}
	c.state.ApplySearch(term, c.state.ColumnFilter)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.renderer.Render(snap)
}

// SetColumnFilter restricts searching to column, or AllColumns
func (c *Controller) SetColumnFilter(column string) {
	c.mu.Lock()
	if c.repo.NoData() {
		c.mu.Unlock()
		return
	}
	c.state.ApplySearch(c.state.SearchTerm, column)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.renderer.Render(snap)
}

// EditShelfLife writes a new shelf life for the row at position row of the
// current sheet's full product list. Nothing is changed locally: a confirmed
// write triggers a reload that keeps the current sheet, a rejected one puts
// the control back to its stored value.
func (c *Controller) EditShelfLife(ctx context.Context, row, months int) error {
	c.mu.Lock()
	sheet := c.repo.Sheet(c.state.CurrentSheetIndex)
	if c.repo.NoData() || sheet == nil || !c.policy.IsEditable(sheet.SheetName, models.ColumnShelfLife) {
		c.mu.Unlock()
		return ErrNotEditable
	}
	if row < 0 || row >= len(c.state.Products) {
		c.mu.Unlock()
		return fmt.Errorf("%w: row %d", ErrNotEditable, row)
	}
	ed := c.editors.get(sheet.SheetName, row, c.state.Products[row], c.policy.Options)
	req, err := ed.Begin(months)
	if errors.Is(err, errUnchanged) {
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.editors.track(sheet.SheetName, ed)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.renderer.Render(snap)

	log := c.logger.With(
		zap.String("product_code", req.ProductCode),
		zap.String("lot_number", req.LotNumber),
		zap.Int("shelf_life_months", req.ShelfLifeMonths))

	if err := c.writer.SaveShelfLife(ctx, req); err != nil {
		err = wrapAs(ErrPersistFailed, err)
		log.Warn("shelf life save failed", zap.Error(err))

		c.mu.Lock()
		ed.Fail(err)
		c.mu.Unlock()
		c.notify(NoticeError, NoticePersistFailed)

		c.mu.Lock()
		ed.Acknowledge()
		snap = c.snapshotLocked()
		c.mu.Unlock()
		c.renderer.Render(snap)
		return err
	}
	log.Info("shelf life saved")

	c.mu.Lock()
	ed.Complete()
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.renderer.Render(snap)

	err = c.Refresh(ctx, true)

	c.mu.Lock()
	ed.Finish()
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.renderer.Render(snap)
	return err
}

// Snapshot returns the current view
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State returns a copy of the view state
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Policy returns the sheet policy the controller was built with
func (c *Controller) Policy() *models.Policy {
	return c.policy
}

func (c *Controller) apply(doc *models.InventoryDocument, index int) error {
	c.mu.Lock()
	if err := c.repo.Load(doc); err != nil {
		c.loadError = userMessage(err)
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.renderer.Render(snap)
		return err
	}
	if index < 0 || index >= c.repo.Len() {
		index = 0
	}
	c.loadError = ""
	c.editors.reset()
	c.switchLocked(index)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.renderer.Render(snap)
	return nil
}

func (c *Controller) failLoad(err error) {
	c.mu.Lock()
	c.repo.MarkUnavailable()
	c.loadError = userMessage(err)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.renderer.Render(snap)
}

func (c *Controller) switchLocked(index int) {
	if index != c.state.CurrentSheetIndex || c.state.Products == nil {
		c.editors.reset()
	}
	c.state.SwitchTo(c.repo.Document().Sheets, index)
}

func (c *Controller) snapshotLocked() Snapshot {
	c.version++
	snap := Snapshot{
		Version:   c.version,
		NoData:    c.repo.NoData(),
		LoadError: c.loadError,
	}
	if snap.NoData {
		snap.Metadata = buildMetadata(models.Metadata{})
		return snap
	}
	doc := c.repo.Document()
	snap.Metadata = buildMetadata(doc.Metadata)
	snap.Tabs = buildTabs(doc.Sheets, c.state.CurrentSheetIndex)
	snap.Sheet = buildSheetView(c.repo.Sheet(c.state.CurrentSheetIndex), c.state, c.policy, c.editors)
	return snap
}

func (c *Controller) notify(level NoticeLevel, msg string) {
	c.renderer.Notify(Notice{Level: level, Message: msg})
}
