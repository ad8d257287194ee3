package viewer

import (
	"errors"
	"fmt"

	"stockview/internal/models"
)

// EditState is the life-cycle position of one shelf-life control
type EditState int

const (
	EditIdle EditState = iota
	EditSubmitting
	EditReloading
	EditFailed
)

func (s EditState) String() string {
	switch s {
	case EditIdle:
		return "idle"
	case EditSubmitting:
		return "submitting"
	case EditReloading:
		return "reloading"
	case EditFailed:
		return "failed"
	default:
		return fmt.Sprintf("EditState(%d)", int(s))
	}
}

// PendingLabel replaces the chosen option's label while a save is in flight
const PendingLabel = "⏳ Đang lưu..."

var errUnchanged = errors.New("shelf life unchanged")

// ShelfLifeEditor is the in-place editor of one row's shelf-life cell.
//
// It never changes product data. A confirmed write is followed by a full
// reload, so the edited cell always shows what the backend derived from the
// write, including the recomputed remaining percentage.
type ShelfLifeEditor struct {
	row      int
	key      models.ProductKey
	options  []models.ShelfLifeOption
	current  int
	hasValue bool

	state   EditState
	pending int
	lastErr error
}

func newShelfLifeEditor(row int, product *models.Product, options []models.ShelfLifeOption) *ShelfLifeEditor {
	e := &ShelfLifeEditor{
		row:     row,
		key:     product.Key(),
		options: options,
	}
	if v, ok := product.Get(models.ColumnShelfLife); ok {
		e.current, e.hasValue = models.ParseMonths(v)
	}
	return e
}

func (e *ShelfLifeEditor) State() EditState { return e.state }

func (e *ShelfLifeEditor) Row() int { return e.row }

// Err is the error of the last failed submission, if any
func (e *ShelfLifeEditor) Err() error { return e.lastErr }

// Disabled reports whether the control currently refuses input
func (e *ShelfLifeEditor) Disabled() bool {
	return e.state == EditSubmitting || e.state == EditReloading
}

// Selected returns the value the control shows as chosen
func (e *ShelfLifeEditor) Selected() (int, bool) {
	if e.Disabled() {
		return e.pending, true
	}
	if !e.hasValue || !e.offers(e.current) {
		return 0, false
	}
	return e.current, true
}

func (e *ShelfLifeEditor) offers(months int) bool {
	for _, o := range e.options {
		if o.Months == months {
			return true
		}
	}
	return false
}

// Begin moves Idle to Submitting for a newly chosen value and returns the
// write to send. Choosing the stored value is a no-op.
func (e *ShelfLifeEditor) Begin(months int) (models.ShelfLifeRequest, error) {
	if e.Disabled() {
		return models.ShelfLifeRequest{}, ErrEditInProgress
	}
	if !e.offers(months) {
		return models.ShelfLifeRequest{}, fmt.Errorf("%w: %d", ErrInvalidShelfLife, months)
	}
	if e.hasValue && months == e.current {
		return models.ShelfLifeRequest{}, errUnchanged
	}
	e.state = EditSubmitting
	e.pending = months
	e.lastErr = nil
	return models.ShelfLifeRequest{
		ProductCode:     e.key.ProductCode,
		LotNumber:       e.key.LotNumber,
		ShelfLifeMonths: months,
	}, nil
}

// Complete records an accepted write: Submitting to Reloading
func (e *ShelfLifeEditor) Complete() {
	if e.state == EditSubmitting {
		e.state = EditReloading
	}
}

// Fail records a rejected write: Submitting to Failed. The selection falls
// back to the stored value.
func (e *ShelfLifeEditor) Fail(err error) {
	if e.state != EditSubmitting {
		return
	}
	e.state = EditFailed
	e.pending = 0
	e.lastErr = err
}

// Acknowledge returns a failed control to Idle once the error was shown
func (e *ShelfLifeEditor) Acknowledge() {
	if e.state == EditFailed {
		e.state = EditIdle
	}
}

// Finish ends the reload that followed a confirmed write
func (e *ShelfLifeEditor) Finish() {
	if e.state == EditReloading {
		e.state = EditIdle
		e.pending = 0
	}
}

// Options lists the control's choices as they should be displayed
func (e *ShelfLifeEditor) Options() []OptionView {
	selected, hasSelected := e.Selected()
	out := make([]OptionView, 0, len(e.options))
	for _, o := range e.options {
		view := OptionView{
			Months:   o.Months,
			Label:    o.Label,
			Selected: hasSelected && o.Months == selected,
		}
		if view.Selected && e.Disabled() {
			view.Label = PendingLabel
		}
		out = append(out, view)
	}
	return out
}

func (e *ShelfLifeEditor) view() *EditorView {
	return &EditorView{
		Options:  e.Options(),
		Disabled: e.Disabled(),
		State:    e.state,
	}
}

// rebind attaches the control to row of a freshly loaded sheet. The stored
// value is taken from the new product so a failed or finished save falls
// back to what the backend now reports.
func (e *ShelfLifeEditor) rebind(row int, product *models.Product) {
	e.row = row
	e.current, e.hasValue = 0, false
	if v, ok := product.Get(models.ColumnShelfLife); ok {
		e.current, e.hasValue = models.ParseMonths(v)
	}
}

type editorKey struct {
	sheet   string
	product models.ProductKey
}

// editorSet holds the shelf-life controls of the current sheet by row.
// Controls with a save in flight are also indexed by sheet and product key,
// so a reload or sheet switch re-attaches them instead of handing out a
// second live control for the same product.
type editorSet struct {
	rows     map[int]*ShelfLifeEditor
	inflight map[editorKey]*ShelfLifeEditor
}

func newEditorSet() *editorSet {
	return &editorSet{
		rows:     make(map[int]*ShelfLifeEditor),
		inflight: make(map[editorKey]*ShelfLifeEditor),
	}
}

// reset drops the row bindings after a load or sheet switch. In-flight
// controls survive until their save settles.
func (s *editorSet) reset() {
	s.rows = make(map[int]*ShelfLifeEditor)
	for k, ed := range s.inflight {
		if !ed.Disabled() {
			delete(s.inflight, k)
		}
	}
}

// get returns the control of row, creating it on first use
func (s *editorSet) get(sheet string, row int, product *models.Product, options []models.ShelfLifeOption) *ShelfLifeEditor {
	if ed, ok := s.rows[row]; ok {
		return ed
	}
	if ed, ok := s.inflight[editorKey{sheet: sheet, product: product.Key()}]; ok && ed.Disabled() && !s.bound(ed) {
		ed.rebind(row, product)
		s.rows[row] = ed
		return ed
	}
	ed := newShelfLifeEditor(row, product, options)
	s.rows[row] = ed
	return ed
}

// track records ed as having a save in flight on sheet
func (s *editorSet) track(sheet string, ed *ShelfLifeEditor) {
	s.inflight[editorKey{sheet: sheet, product: ed.key}] = ed
}

func (s *editorSet) bound(ed *ShelfLifeEditor) bool {
	for _, other := range s.rows {
		if other == ed {
			return true
		}
	}
	return false
}
