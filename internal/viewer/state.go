package viewer

import (
	"fmt"

	"stockview/internal/models"
)

// AllColumns is the column filter value that searches every column
const AllColumns = "all"

// ViewState is the ephemeral selection, search and filter state of the
// viewer. Filtered is always derived from Products and never edited directly.
type ViewState struct {
	CurrentSheetIndex int
	SearchTerm        string
	ColumnFilter      string
	Products          []*models.Product
	Filtered          []*models.Product
	// Searched is set once a search or column change has been applied since
	// the last sheet switch; it switches the count display to "shown / total".
	Searched bool
}

func newViewState() ViewState {
	return ViewState{ColumnFilter: AllColumns}
}

// SwitchTo selects sheet index of sheets and resets search and filter.
// The index must be in range; anything else is a caller bug.
func (v *ViewState) SwitchTo(sheets []models.Sheet, index int) {
	if index < 0 || index >= len(sheets) {
		panic(fmt.Sprintf("viewer: sheet index %d out of range [0,%d)", index, len(sheets)))
	}
	v.CurrentSheetIndex = index
	v.Products = sheets[index].Products
	v.Filtered = v.Products
	v.SearchTerm = ""
	v.ColumnFilter = AllColumns
	v.Searched = false
}

// ApplySearch recomputes Filtered from the full product list of the current sheet
func (v *ViewState) ApplySearch(term, column string) {
	if column == "" {
		column = AllColumns
	}
	v.SearchTerm = term
	v.ColumnFilter = column
	v.Filtered = Filter(v.Products, term, column)
	v.Searched = true
}

// clone copies the slices so callers outside the lock cannot observe later swaps
func (v ViewState) clone() ViewState {
	out := v
	out.Products = append([]*models.Product(nil), v.Products...)
	out.Filtered = append([]*models.Product(nil), v.Filtered...)
	return out
}
