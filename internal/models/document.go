package models

// InventoryDocument is the normalized form of one converted workbook
type InventoryDocument struct {
	Metadata Metadata `json:"metadata"`
	Sheets   []Sheet  `json:"sheets"`
}

// Metadata describes where a document came from. Every field is optional.
type Metadata struct {
	DateTonKho    string `json:"date_ton_kho,omitempty"`
	SourceFile    string `json:"source_file,omitempty"`
	LastUpdated   string `json:"last_updated,omitempty"`
	TotalSheets   int    `json:"total_sheets,omitempty"`
	TotalProducts int    `json:"total_products,omitempty"`
}

// Sheet is one named tab of products. TotalProducts is what the source
// reports and is what gets displayed; it is not checked against Products.
type Sheet struct {
	SheetName     string     `json:"sheet_name"`
	Products      []*Product `json:"products"`
	TotalProducts int        `json:"total_products"`
	Columns       []string   `json:"columns,omitempty"`
}

// ColumnNames returns the column set of the sheet, taken from the first product
func (s *Sheet) ColumnNames() []string {
	if s == nil || len(s.Products) == 0 {
		return nil
	}
	return s.Products[0].Keys()
}

// TotalProductCount sums products over all sheets
func (d *InventoryDocument) TotalProductCount() int {
	total := 0
	for i := range d.Sheets {
		total += len(d.Sheets[i].Products)
	}
	return total
}
