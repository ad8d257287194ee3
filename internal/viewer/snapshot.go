package viewer

import (
	"strconv"

	"stockview/internal/models"
)

const (
	placeholder  = "--"
	NoMatchLabel = "⚠️ Không tìm thấy sản phẩm phù hợp"
)

// Snapshot is an immutable picture of everything a renderer draws. Version
// increases with every state transition so a renderer receiving snapshots
// out of order can keep the newest one.
type Snapshot struct {
	Version   uint64
	NoData    bool
	LoadError string
	Metadata  MetadataView
	Tabs      []Tab
	// Sheet is nil while no data is shown
	Sheet *SheetView
}

// MetadataView holds the metadata strings, placeholders already applied
type MetadataView struct {
	DateTonKho    string
	TotalProducts string
	TotalSheets   string
	LastUpdated   string
	SourceFile    string
}

type Tab struct {
	Name   string
	Active bool
}

type SheetView struct {
	Index         int
	Name          string
	TotalProducts int
	Columns       []string
	// ColumnOptions is the column filter choice list: AllColumns then Columns
	ColumnOptions []string
	SearchTerm    string
	ColumnFilter  string
	CountLabel    string
	Rows          []Row
	// EmptyMessage is set when a search left no rows
	EmptyMessage string
}

type Row struct {
	// Index is the row's position within the sheet's full product list
	Index int
	Cells []Cell
}

type Cell struct {
	Column string
	Text   string
	Tier   Tier
	Editor *EditorView
}

type EditorView struct {
	Options  []OptionView
	Disabled bool
	State    EditState
}

type OptionView struct {
	Months   int
	Label    string
	Selected bool
}

func buildMetadata(m models.Metadata) MetadataView {
	orText := func(s string) string {
		if s == "" {
			return placeholder
		}
		return s
	}
	return MetadataView{
		DateTonKho:    orText(m.DateTonKho),
		TotalProducts: strconv.Itoa(m.TotalProducts),
		TotalSheets:   strconv.Itoa(m.TotalSheets),
		LastUpdated:   orText(m.LastUpdated),
		SourceFile:    orText(m.SourceFile),
	}
}

func buildTabs(sheets []models.Sheet, active int) []Tab {
	tabs := make([]Tab, len(sheets))
	for i, s := range sheets {
		tabs[i] = Tab{Name: s.SheetName, Active: i == active}
	}
	return tabs
}

// buildSheetView renders the filtered rows of sheet. rowIndex maps a product
// pointer back to its position in the full list so editors stay keyed to the
// row rather than to its position in the filtered view.
func buildSheetView(sheet *models.Sheet, state ViewState, policy *models.Policy, editors *editorSet) *SheetView {
	columns := sheet.ColumnNames()
	view := &SheetView{
		Index:         state.CurrentSheetIndex,
		Name:          sheet.SheetName,
		TotalProducts: sheet.TotalProducts,
		Columns:       columns,
		ColumnOptions: append([]string{AllColumns}, columns...),
		SearchTerm:    state.SearchTerm,
		ColumnFilter:  state.ColumnFilter,
		CountLabel:    strconv.Itoa(sheet.TotalProducts),
	}
	if state.Searched {
		view.CountLabel = strconv.Itoa(len(state.Filtered)) + " / " + strconv.Itoa(sheet.TotalProducts)
	}

	rowIndex := make(map[*models.Product]int, len(state.Products))
	for i, p := range state.Products {
		rowIndex[p] = i
	}

	view.Rows = make([]Row, 0, len(state.Filtered))
	for _, p := range state.Filtered {
		idx := rowIndex[p]
		row := Row{Index: idx, Cells: make([]Cell, 0, len(columns))}
		for _, col := range columns {
			row.Cells = append(row.Cells, buildCell(sheet.SheetName, col, p, idx, policy, editors))
		}
		view.Rows = append(view.Rows, row)
	}
	if len(view.Rows) == 0 && state.Searched {
		view.EmptyMessage = NoMatchLabel
	}
	return view
}

func buildCell(sheetName, column string, p *models.Product, row int, policy *models.Policy, editors *editorSet) Cell {
	cell := Cell{Column: column}
	v, ok := p.Get(column)
	switch {
	case policy.IsEditable(sheetName, column):
		ed := editors.get(sheetName, row, p, policy.Options)
		cell.Editor = ed.view()
		cell.Text = models.FormatScalar(v)
	case !ok || v == nil:
		cell.Text = placeholder
	case column == models.ColumnRemainingPercent:
		cell.Text, cell.Tier = percentageCell(v)
	default:
		cell.Text = models.FormatScalar(v)
	}
	return cell
}
