package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"stockview/internal/viewer"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Controller is the part of viewer.Controller the terminal UI drives
type Controller interface {
	Refresh(ctx context.Context, preserveSheet bool) error
	Ingest(ctx context.Context, filename string, r io.Reader) error
	SwitchTo(index int) bool
	Search(term string)
	SetColumnFilter(column string)
	EditShelfLife(ctx context.Context, row, months int) error
	Snapshot() viewer.Snapshot
}

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeUpload
	modePicker
)

// opDoneMsg reports the end of a network operation started as a tea.Cmd
type opDoneMsg struct {
	op  string
	err error
}

type picker struct {
	row     int
	options []viewer.OptionView
	cursor  int
}

// Model is the bubbletea model of the inventory viewer
type Model struct {
	ctrl   Controller
	ctx    context.Context
	logger *zap.Logger
	keys   keyMap
	help   help.Model
	styles styles

	snap   viewer.Snapshot
	mode   mode
	cursor int
	offset int
	picker picker
	notice *viewer.Notice
	status string
	busy   int

	search textinput.Model
	upload textinput.Model

	width  int
	height int

	openFile func(path string) (io.ReadCloser, error)
}

// New builds the model. The first load starts with Init.
func New(ctx context.Context, ctrl Controller, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	search := textinput.New()
	search.Placeholder = "Tìm theo mã, tên sản phẩm..."
	search.Prompt = "🔍 "
	search.CharLimit = 128

	upload := textinput.New()
	upload.Placeholder = "/đường/dẫn/tới/22.12.xlsx"
	upload.Prompt = "📂 "
	upload.CharLimit = 1024

	return Model{
		ctrl:     ctrl,
		ctx:      ctx,
		logger:   logger,
		keys:     defaultKeyMap(),
		help:     help.New(),
		styles:   defaultStyles(),
		snap:     viewer.Snapshot{NoData: true},
		search:   search,
		upload:   upload,
		width:    120,
		height:   30,
		openFile: func(path string) (io.ReadCloser, error) { return os.Open(path) },
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), textinput.Blink)
}

// refreshCmd reloads the document and selects the first sheet. Only the
// reload after a shelf-life save keeps the current sheet, and the controller
// does that itself.
func (m Model) refreshCmd() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: "refresh", err: ctrl.Refresh(ctx, false)}
	}
}

func (m Model) editCmd(row, months int) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: "edit", err: ctrl.EditShelfLife(ctx, row, months)}
	}
}

func (m Model) uploadCmd(path string) tea.Cmd {
	ctrl, ctx, open := m.ctrl, m.ctx, m.openFile
	return func() tea.Msg {
		f, err := open(path)
		if err != nil {
			return opDoneMsg{op: "open", err: err}
		}
		defer f.Close()
		return opDoneMsg{op: "upload", err: ctrl.Ingest(ctx, filepath.Base(path), f)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampCursor()
		return m, nil

	case snapshotMsg:
		m.applySnapshot(msg.snap)
		return m, nil

	case noticeMsg:
		n := msg.notice
		m.notice = &n
		return m, nil

	case opDoneMsg:
		if m.busy > 0 {
			m.busy--
		}
		m.finishOp(msg)
		m.applySnapshot(m.ctrl.Snapshot())
		return m, nil

	case tea.KeyMsg:
		if m.notice != nil {
			// any key closes the notice
			m.notice = nil
			return m, nil
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeUpload:
			return m.updateUpload(msg)
		case modePicker:
			return m.updatePicker(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

// applySnapshot keeps the newest snapshot; the bridge may deliver them out
// of order.
func (m *Model) applySnapshot(s viewer.Snapshot) {
	if s.Version < m.snap.Version {
		return
	}
	prevSheet := -1
	if m.snap.Sheet != nil {
		prevSheet = m.snap.Sheet.Index
	}
	m.snap = s
	if s.Sheet == nil || s.Sheet.Index != prevSheet {
		m.cursor, m.offset = 0, 0
	}
	m.clampCursor()
}

func (m *Model) finishOp(msg opDoneMsg) {
	if msg.err == nil {
		m.status = ""
		return
	}
	m.logger.Debug("operation failed", zap.String("op", msg.op), zap.Error(msg.err))
	switch {
	case msg.op == "open":
		// the file never reached the controller, nobody else reports it
		m.notice = &viewer.Notice{Level: viewer.NoticeError, Message: viewer.NoticeIngestFailed + msg.err.Error()}
	case errors.Is(msg.err, viewer.ErrEditInProgress):
		m.status = "Đang lưu, vui lòng chờ..."
	case errors.Is(msg.err, viewer.ErrNotEditable), errors.Is(msg.err, viewer.ErrInvalidShelfLife):
		m.status = msg.err.Error()
	default:
		m.status = ""
	}
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Refresh):
		m.busy++
		m.status = "Đang tải dữ liệu..."
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.Upload):
		m.mode = modeUpload
		m.upload.SetValue("")
		return m, m.upload.Focus()
	}

	sheet := m.snap.Sheet
	if sheet == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextSheet):
		m.switchSheet(1)
	case key.Matches(msg, m.keys.PrevSheet):
		m.switchSheet(-1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.tableHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.tableHeight())
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue(sheet.SearchTerm)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Column):
		m.cycleColumn()
	case key.Matches(msg, m.keys.Clear):
		if sheet.SearchTerm != "" {
			m.ctrl.Search("")
			m.applySnapshot(m.ctrl.Snapshot())
		}
	case key.Matches(msg, m.keys.Edit):
		m.openPicker()
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBrowse
		m.search.Blur()
		return m, nil
	case "esc":
		m.mode = modeBrowse
		m.search.Blur()
		m.search.SetValue("")
		m.ctrl.Search("")
		m.applySnapshot(m.ctrl.Snapshot())
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		// filter as the user types
		m.ctrl.Search(m.search.Value())
		m.applySnapshot(m.ctrl.Snapshot())
	}
	return m, cmd
}

func (m Model) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.upload.Blur()
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.upload.Value())
		m.mode = modeBrowse
		m.upload.Blur()
		if path == "" {
			return m, nil
		}
		m.busy++
		m.status = "Đang xử lý " + filepath.Base(path) + "..."
		return m, m.uploadCmd(path)
	}

	var cmd tea.Cmd
	m.upload, cmd = m.upload.Update(msg)
	return m, cmd
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc":
		m.mode = modeBrowse
	case key.Matches(msg, m.keys.Up):
		if m.picker.cursor > 0 {
			m.picker.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.picker.cursor < len(m.picker.options)-1 {
			m.picker.cursor++
		}
	case msg.String() == "enter":
		m.mode = modeBrowse
		opt := m.picker.options[m.picker.cursor]
		if opt.Selected {
			return m, nil
		}
		m.busy++
		return m, m.editCmd(m.picker.row, opt.Months)
	}
	return m, nil
}

func (m *Model) switchSheet(delta int) {
	n := len(m.snap.Tabs)
	if n == 0 || m.snap.Sheet == nil {
		return
	}
	next := (m.snap.Sheet.Index + delta + n) % n
	if m.ctrl.SwitchTo(next) {
		m.applySnapshot(m.ctrl.Snapshot())
	}
}

func (m *Model) cycleColumn() {
	sheet := m.snap.Sheet
	opts := sheet.ColumnOptions
	if len(opts) == 0 {
		return
	}
	next := 0
	for i, c := range opts {
		if c == sheet.ColumnFilter {
			next = (i + 1) % len(opts)
			break
		}
	}
	m.ctrl.SetColumnFilter(opts[next])
	m.applySnapshot(m.ctrl.Snapshot())
}

// openPicker shows the shelf-life options of the selected row, if the row
// has an editable cell that is not busy saving.
func (m *Model) openPicker() {
	row, ok := m.selectedRow()
	if !ok {
		return
	}
	for _, c := range row.Cells {
		if c.Editor == nil {
			continue
		}
		if c.Editor.Disabled {
			m.status = "Đang lưu, vui lòng chờ..."
			return
		}
		m.picker = picker{row: row.Index, options: c.Editor.Options}
		for i, o := range c.Editor.Options {
			if o.Selected {
				m.picker.cursor = i
			}
		}
		m.mode = modePicker
		return
	}
	m.status = "Sheet này không có cột chỉnh sửa được"
}

func (m Model) selectedRow() (viewer.Row, bool) {
	if m.snap.Sheet == nil || m.cursor < 0 || m.cursor >= len(m.snap.Sheet.Rows) {
		return viewer.Row{}, false
	}
	return m.snap.Sheet.Rows[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	rows := 0
	if m.snap.Sheet != nil {
		rows = len(m.snap.Sheet.Rows)
	}
	if m.cursor >= rows {
		m.cursor = rows - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	h := m.tableHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// tableHeight is the number of product rows that fit under the chrome
func (m Model) tableHeight() int {
	h := m.height - 12
	if h < 3 {
		return 3
	}
	return h
}
