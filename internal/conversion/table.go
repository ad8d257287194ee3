package conversion

import (
	"regexp"
	"strconv"
	"strings"

	"stockview/internal/models"
)

// table is a sheet's body after header detection: named columns over rows
// of cell values (nil, string or float64). Column names may repeat.
type table struct {
	headers []string
	rows    [][]interface{}
}

const placeholderPrefix = "Column_"

func placeholderName(i int) string {
	return placeholderPrefix + strconv.Itoa(i)
}

func isPlaceholder(name string) bool {
	return strings.HasPrefix(name, placeholderPrefix)
}

var thousands = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

// cellValue types a raw cell: blanks become nil, plain numbers float64.
// Digit strings with a leading zero stay text so lot and product codes keep
// their exact form.
func cellValue(raw string) interface{} {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	numeric := s
	if thousands.MatchString(s) {
		numeric = strings.ReplaceAll(s, ",", "")
	}
	f, err := strconv.ParseFloat(numeric, 64)
	if err != nil || strings.ContainsAny(numeric, "eEnNiI") {
		return s
	}
	unsigned := strings.TrimLeft(numeric, "+-")
	if len(unsigned) > 1 && unsigned[0] == '0' && unsigned[1] != '.' {
		return s
	}
	return f
}

// normalizeGrid types every cell and pads rows to a common width
func normalizeGrid(raw [][]string) [][]interface{} {
	width := 0
	for _, r := range raw {
		if len(r) > width {
			width = len(r)
		}
	}
	grid := make([][]interface{}, len(raw))
	for i, r := range raw {
		row := make([]interface{}, width)
		for j, v := range r {
			row[j] = cellValue(v)
		}
		grid[i] = row
	}
	return grid
}

func cellText(v interface{}) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(models.FormatScalar(v))
}

// findHeaderRow returns the first row that looks like a column header row,
// or 0 when none does.
func findHeaderRow(grid [][]interface{}) int {
	for i, row := range grid {
		parts := make([]string, 0, len(row))
		for _, v := range row {
			if v != nil {
				parts = append(parts, strings.ToLower(models.FormatScalar(v)))
			}
		}
		joined := strings.Join(parts, " ")
		switch {
		case strings.Contains(joined, "mã") && (strings.Contains(joined, "tên") || strings.Contains(joined, "sản phẩm")):
			return i
		case strings.Contains(joined, "item code") && strings.Contains(joined, "products"):
			return i
		case strings.Contains(joined, "no.") && strings.Contains(joined, "lot"):
			return i
		}
	}
	return 0
}

var detailHeaders = map[string]bool{"item code": true, "products": true, "cus code": true}

var quantityHeaders = map[string]bool{"q'ty/sl": true, "qty/sl": true}

// buildTable names the columns from the header row at start. When the row
// below carries the detailed header (Item Code, Products, ...) the two rows
// are merged: quantity columns take the name of the group above them.
func buildTable(grid [][]interface{}, start int) table {
	if start >= len(grid) {
		return table{}
	}
	first := grid[start]
	var second []interface{}
	if start+1 < len(grid) {
		second = grid[start+1]
	}

	twoRow := false
	for _, v := range second {
		if v != nil && detailHeaders[strings.ToLower(cellText(v))] {
			twoRow = true
			break
		}
	}

	if !twoRow {
		headers := make([]string, len(first))
		for i, v := range first {
			name := cellText(v)
			if name == "" || isPlaceholder(name) {
				name = placeholderName(i)
			}
			headers[i] = name
		}
		return table{headers: headers, rows: grid[start+1:]}
	}

	groups := make(map[int]string)
	current := ""
	for i, v := range first {
		if t := cellText(v); t != "" {
			current = t
		}
		if current != "" {
			groups[i] = current
		}
	}

	headers := make([]string, len(second))
	for i, v := range second {
		detail := cellText(v)
		group, hasGroup := groups[i]
		switch {
		case detail != "" && quantityHeaders[strings.ToLower(detail)] && hasGroup:
			headers[i] = group
		case detail != "":
			headers[i] = detail
		case i < len(first) && cellText(first[i]) != "":
			headers[i] = cellText(first[i])
		default:
			headers[i] = placeholderName(i)
		}
	}

	var rows [][]interface{}
	if start+2 < len(grid) {
		rows = grid[start+2:]
	}
	return table{headers: headers, rows: rows}
}

// column returns the values of column index i
func (t table) column(i int) []interface{} {
	out := make([]interface{}, len(t.rows))
	for r, row := range t.rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out
}

// samples returns up to n non-nil values of column i, in row order
func (t table) samples(i, n int) []interface{} {
	var out []interface{}
	for _, row := range t.rows {
		if len(out) == n {
			break
		}
		if i < len(row) && row[i] != nil {
			out = append(out, row[i])
		}
	}
	return out
}

func (t table) hasValues(i int) bool {
	for _, v := range t.column(i) {
		if v != nil {
			return true
		}
	}
	return false
}

// productColumn finds the column holding product names: by header first,
// then by content ("<digits>-<text>" values) among unnamed columns.
func (t table) productColumn() int {
	for i, h := range t.headers {
		l := strings.ToLower(h)
		if strings.Contains(l, "product") || strings.Contains(l, "tên") {
			return i
		}
	}
	for i, h := range t.headers {
		if !isPlaceholder(h) {
			continue
		}
		s := t.samples(i, 20)
		if len(s) < 5 {
			continue
		}
		hits := 0
		for _, v := range s {
			text := models.FormatScalar(v)
			if strings.TrimSpace(text) != "" && strings.Contains(text, "-") && startsWithDigit(text) {
				hits++
			}
		}
		if float64(hits) > float64(len(s))*0.5 {
			return i
		}
	}
	return -1
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// clean drops rows without a product (or entirely empty rows when no product
// column is known), then columns without any value.
func (t table) clean() table {
	product := t.productColumn()

	var rows [][]interface{}
	for _, row := range t.rows {
		if product >= 0 {
			if product < len(row) && cellText(row[product]) != "" {
				rows = append(rows, row)
			}
			continue
		}
		for _, v := range row {
			if v != nil {
				rows = append(rows, row)
				break
			}
		}
	}
	filtered := table{headers: t.headers, rows: rows}

	var keep []int
	for i := range filtered.headers {
		if filtered.hasValues(i) {
			keep = append(keep, i)
		}
	}
	out := table{headers: make([]string, len(keep)), rows: make([][]interface{}, len(rows))}
	for j, i := range keep {
		out.headers[j] = filtered.headers[i]
	}
	for r, row := range rows {
		nr := make([]interface{}, len(keep))
		for j, i := range keep {
			if i < len(row) {
				nr[j] = row[i]
			}
		}
		out.rows[r] = nr
	}
	return out
}

// nameUnlabeled gives unnamed columns a name from their content: short
// values with digits are lot numbers, short text values are units.
func (t table) nameUnlabeled() {
	for i, h := range t.headers {
		if !isPlaceholder(h) {
			continue
		}
		s := t.samples(i, 20)
		if len(s) == 0 {
			continue
		}
		lotLike, totalLen := 0, 0
		unitLike := true
		for _, v := range s {
			text := models.FormatScalar(v)
			n := len([]rune(text))
			totalLen += n
			if strings.TrimSpace(text) != "" && n <= 10 && strings.ContainsAny(text, "0123456789") {
				lotLike++
			}
			if strings.TrimSpace(text) != "" && startsWithDigit(text) {
				unitLike = false
			}
		}
		avg := float64(totalLen) / float64(len(s))
		switch {
		case float64(lotLike) > float64(len(s))*0.5 && avg < 15:
			t.headers[i] = models.ColumnLot
		case unitLike && avg < 10:
			t.headers[i] = models.ColumnUnit
		}
	}
}

// selection maps an output column name to a source column index
type selection struct {
	name   string
	source int
}

// selectColumns picks the code, name, lot, opening and closing stock columns.
// The code column prefers "Item Code" except on the COLEMAN sheet.
func (t table) selectColumns(sheetName string) []selection {
	find := func(match func(lower string) bool) int {
		for i, h := range t.headers {
			if match(strings.ToLower(h)) && t.hasValues(i) {
				return i
			}
		}
		return -1
	}

	code := -1
	if sheetName != "" && strings.ToUpper(sheetName) != "COLEMAN" {
		code = find(func(l string) bool {
			return l == "item code" || (strings.Contains(l, "item") && strings.Contains(l, "code"))
		})
	}
	if code < 0 {
		code = t.findCodeColumn()
	}

	name := -1
	for i, h := range t.headers {
		if i == code {
			continue
		}
		l := strings.ToLower(h)
		if strings.Contains(l, "tên") || strings.Contains(l, "product") {
			if t.hasValues(i) {
				name = i
				break
			}
			continue
		}
		if isPlaceholder(h) {
			s := t.samples(i, 10)
			if len(s) == 0 {
				continue
			}
			total := 0
			for _, v := range s {
				total += len([]rune(models.FormatScalar(v)))
			}
			if float64(total)/float64(len(s)) > 15 {
				name = i
				break
			}
		}
	}

	lot := find(func(l string) bool { return strings.Contains(l, "lot") || l == "lô" })
	opening := find(func(l string) bool {
		return strings.Contains(l, "tồn đầu") || strings.Contains(l, "đầu kỳ") || strings.Contains(l, "opening")
	})
	closing := find(func(l string) bool {
		for _, k := range []string{"closing stock", "tồn cuối", "cuối kỳ", "số lượng tồn", "closing"} {
			if strings.Contains(l, k) {
				return true
			}
		}
		return false
	})

	var out []selection
	if code >= 0 {
		h := t.headers[code]
		if h == "No." || h == "AD" || h == "Item Code" {
			h = models.ColumnProductCode
		}
		out = append(out, selection{name: h, source: code})
	}
	if name >= 0 {
		h := t.headers[name]
		if isPlaceholder(h) {
			h = models.ColumnProductName
		}
		out = append(out, selection{name: h, source: name})
	}
	for _, i := range []int{lot, opening, closing} {
		if i >= 0 {
			out = append(out, selection{name: t.headers[i], source: i})
		}
	}
	return out
}

func (t table) findCodeColumn() int {
	excluded := []string{"cus", "customer", "warehouse", "thông tin"}
	for i, h := range t.headers {
		l := strings.ToLower(h)
		named := strings.Contains(l, "mã") || strings.Contains(l, "item code") || l == "ad" || l == "no."
		if named {
			skip := false
			for _, x := range excluded {
				if strings.Contains(l, x) {
					skip = true
					break
				}
			}
			if !skip {
				if t.hasValues(i) {
					return i
				}
				continue
			}
		}
		if named || !isPlaceholder(h) {
			continue
		}
		s := t.samples(i, 10)
		if len(s) == 0 {
			continue
		}
		hits := 0
		for _, v := range s {
			text := models.FormatScalar(v)
			if strings.TrimSpace(text) != "" && startsWithDigit(text) {
				hits++
			}
		}
		if float64(hits) > float64(len(s))*0.3 {
			return i
		}
	}
	return -1
}

// importantColumns are the columns of which at least one must be set for a
// row to be kept
var importantColumns = []string{
	models.ColumnProductCode, models.ColumnProductName, "Tên", models.ColumnLot, "Số lượng tồn", "CLOSING STOCK/",
}

// products turns the selected columns into product rows. A lot column with a
// date-like lot number also yields the production date column.
func (t table) products(sel []selection) []*models.Product {
	var out []*models.Product
	for _, row := range t.rows {
		p := models.NewProduct()
		hasData := false
		for _, s := range sel {
			var v interface{}
			if s.source < len(row) {
				v = row[s.source]
			}
			if str, ok := v.(string); ok {
				if str = strings.TrimSpace(str); str == "" {
					v = nil
				} else {
					v = str
				}
			}
			p.Set(s.name, v)
			if v != nil {
				hasData = true
			}

			l := strings.ToLower(s.name)
			if (strings.Contains(l, "lot") || strings.Contains(l, "lô")) && truthy(v) {
				if date, ok := ExtractProductionDate(v); ok {
					if _, exists := p.Get(models.ColumnProductionDate); !exists {
						p.Set(models.ColumnProductionDate, date)
						hasData = true
					}
				}
			}
		}
		if !hasData {
			continue
		}
		for _, k := range importantColumns {
			if v, ok := p.Get(k); ok && v != nil {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case float64:
		return val != 0
	default:
		return true
	}
}

// process runs the whole cleanup of one sheet grid and returns its products
// and output column names.
func process(raw [][]string, sheetName string) ([]*models.Product, []string) {
	grid := normalizeGrid(raw)
	if len(grid) == 0 {
		return nil, nil
	}
	t := buildTable(grid, findHeaderRow(grid)).clean()
	t.nameUnlabeled()

	sel := t.selectColumns(sheetName)
	if len(sel) == 0 {
		for i, h := range t.headers {
			if t.hasValues(i) {
				sel = append(sel, selection{name: h, source: i})
			}
		}
	}

	columns := make([]string, len(sel))
	for i, s := range sel {
		columns[i] = s.name
	}
	return t.products(sel), columns
}
