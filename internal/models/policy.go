package models

// ShelfLifeOption is one choice offered by the shelf-life editor
type ShelfLifeOption struct {
	Months int    `toml:"months" json:"months"`
	Label  string `toml:"label" json:"label"`
}

// SheetPolicy configures how one named sheet is enriched and edited.
// Name matching is exact and case-sensitive.
type SheetPolicy struct {
	Name string `toml:"name"`
	// ShelfLifeMonths applies to every product of the sheet. Zero means the
	// shelf life is chosen per product (see PerProduct).
	ShelfLifeMonths int `toml:"shelf_life_months"`
	// PerProduct sheets carry a shelf-life column looked up from stored
	// overrides, falling back to Policy.DefaultShelfLifeMonths.
	PerProduct      bool     `toml:"per_product"`
	EditableColumns []string `toml:"editable_columns"`
}

// Policy maps sheets to their editable columns and shelf-life options
type Policy struct {
	DefaultShelfLifeMonths int               `toml:"default_shelf_life_months"`
	Options                []ShelfLifeOption `toml:"shelf_life_option"`
	Sheets                 []SheetPolicy     `toml:"sheet"`
}

// Unlimited is the shelf-life value meaning "no expiry"
const Unlimited = 999

// DefaultPolicy is the built-in configuration: BAKING SODA and AZARINE have a
// fixed 36 month shelf life, PIN FUJITSU is chosen per product and editable.
func DefaultPolicy() *Policy {
	return &Policy{
		DefaultShelfLifeMonths: 36,
		Options: []ShelfLifeOption{
			{Months: 36, Label: "36 tháng (3 năm)"},
			{Months: 40, Label: "40 tháng"},
			{Months: 84, Label: "84 tháng (7 năm)"},
			{Months: 120, Label: "120 tháng (10 năm)"},
			{Months: Unlimited, Label: "Vô thời hạn"},
		},
		Sheets: []SheetPolicy{
			{Name: "BAKING SODA", ShelfLifeMonths: 36},
			{Name: "AZARINE", ShelfLifeMonths: 36},
			{Name: "PIN FUJITSU", PerProduct: true, EditableColumns: []string{ColumnShelfLife}},
		},
	}
}

// Sheet looks up the policy of a sheet by exact name
func (p *Policy) Sheet(name string) (*SheetPolicy, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.Sheets {
		if p.Sheets[i].Name == name {
			return &p.Sheets[i], true
		}
	}
	return nil, false
}

// IsEditable reports whether column of sheet is rendered as an editor
func (p *Policy) IsEditable(sheetName, column string) bool {
	sp, ok := p.Sheet(sheetName)
	if !ok {
		return false
	}
	for _, c := range sp.EditableColumns {
		if c == column {
			return true
		}
	}
	return false
}

// Option returns the configured option for months
func (p *Policy) Option(months int) (ShelfLifeOption, bool) {
	if p == nil {
		return ShelfLifeOption{}, false
	}
	for _, o := range p.Options {
		if o.Months == months {
			return o, true
		}
	}
	return ShelfLifeOption{}, false
}
