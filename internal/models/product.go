package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Column names with behaviour attached to them. Matching is exact and case-sensitive.
const (
	ColumnProductCode      = "Mã"
	ColumnProductName      = "Tên sản phẩm"
	ColumnLot              = "LOT"
	ColumnUnit             = "ĐVT"
	ColumnShelfLife        = "Thời hạn (tháng)"
	ColumnRemainingPercent = "% Còn lại"
	ColumnExpiryDate       = "Ngày hết hạn"
	ColumnProductionDate   = "Ngày SX từ Lô"
)

// Product is one inventory row: an ordered mapping from column name to a
// scalar value (string, float64 or nil). Key order is the order the columns
// appeared in the source document.
type Product struct {
	keys   []string
	values map[string]interface{}
}

// NewProduct creates an empty product row
func NewProduct() *Product {
	return &Product{values: make(map[string]interface{})}
}

// Set stores a value, appending the key if it is new
func (p *Product) Set(key string, value interface{}) {
	if p.values == nil {
		p.values = make(map[string]interface{})
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key. A key that is present with a null
// value returns (nil, true).
func (p *Product) Get(key string) (interface{}, bool) {
	if p == nil || p.values == nil {
		return nil, false
	}
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the column names in source order
func (p *Product) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

func (p *Product) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Values returns the values in key order
func (p *Product) Values() []interface{} {
	if p == nil {
		return nil
	}
	out := make([]interface{}, 0, len(p.keys))
	for _, k := range p.keys {
		out = append(out, p.values[k])
	}
	return out
}

// Key returns the persistence identity of the product. A missing lot number
// is the empty string.
func (p *Product) Key() ProductKey {
	code, _ := p.Get(ColumnProductCode)
	lot, _ := p.Get(ColumnLot)
	return ProductKey{
		ProductCode: scalarString(code),
		LotNumber:   scalarString(lot),
	}
}

func (p Product) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Product) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("product must be a JSON object")
	}

	p.keys = nil
	p.values = make(map[string]interface{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected product key %v", tok)
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("column %q: %w", key, err)
		}
		p.Set(key, value)
	}
	_, err = dec.Token()
	return err
}

// ProductKey is the (product code, lot number) pair shelf-life overrides are stored under
type ProductKey struct {
	ProductCode string
	LotNumber   string
}

// UniqueKey is the storage form of the key: "<code>_<lot>"
func (k ProductKey) UniqueKey() string {
	return k.ProductCode + "_" + k.LotNumber
}

func scalarString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return FormatScalar(val)
	}
}
