package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductPreservesKeyOrder(t *testing.T) {
	raw := `{"Mã":"CR2032","Tên sản phẩm":"Pin","LOT":"2805","Thời hạn (tháng)":36,"% Còn lại":45.5,"Ghi chú":null}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, []string{"Mã", "Tên sản phẩm", "LOT", "Thời hạn (tháng)", "% Còn lại", "Ghi chú"}, p.Keys())

	v, ok := p.Get("Ghi chú")
	assert.True(t, ok)
	assert.Nil(t, v)
	_, ok = p.Get("missing")
	assert.False(t, ok)

	out, err := json.Marshal(&p)
	require.NoError(t, err)
	assert.Equal(t, raw, string(out))
}

func TestProductRejectsNonObject(t *testing.T) {
	var p Product
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &p))
}

func TestDocumentDecodesProductsInOrder(t *testing.T) {
	raw := `{"metadata":{"date_ton_kho":"22/12/2025","total_sheets":1},
	"sheets":[{"sheet_name":"PIN FUJITSU","total_products":1,"products":[{"b":1,"a":2}]}]}`

	var doc InventoryDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	require.Len(t, doc.Sheets, 1)
	assert.Equal(t, "22/12/2025", doc.Metadata.DateTonKho)
	assert.Equal(t, []string{"b", "a"}, doc.Sheets[0].ColumnNames())
	assert.Equal(t, 1, doc.TotalProductCount())
}

func TestProductKey(t *testing.T) {
	p := NewProduct()
	p.Set(ColumnProductCode, "CR2032")
	assert.Equal(t, "CR2032_", p.Key().UniqueKey())

	p.Set(ColumnLot, 2805.0)
	assert.Equal(t, ProductKey{ProductCode: "CR2032", LotNumber: "2805"}, p.Key())
	assert.Equal(t, "CR2032_2805", p.Key().UniqueKey())
}

func TestSetOverwritesWithoutReordering(t *testing.T) {
	p := NewProduct()
	p.Set("a", 1.0)
	p.Set("b", 2.0)
	p.Set("a", 3.0)
	assert.Equal(t, []string{"a", "b"}, p.Keys())
	assert.Equal(t, []interface{}{3.0, 2.0}, p.Values())
}

func TestFormatScalar(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{36.0, "36"},
		{45.5, "45.5"},
		{-0.25, "-0.25"},
		{1e21, "1e+21"},
		{true, "true"},
		{json.Number("12"), "12"},
		{math.Inf(1), "Infinity"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatScalar(tt.in), "value %#v", tt.in)
	}
}

func TestParseNumber(t *testing.T) {
	f, ok := ParseNumber("45.5%")
	assert.True(t, ok)
	assert.Equal(t, 45.5, f)

	_, ok = ParseNumber("abc")
	assert.False(t, ok)
	_, ok = ParseNumber(nil)
	assert.False(t, ok)

	m, ok := ParseMonths(84.0)
	assert.True(t, ok)
	assert.Equal(t, 84, m)
	_, ok = ParseMonths(36.5)
	assert.False(t, ok)
}

func TestPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.IsEditable("PIN FUJITSU", ColumnShelfLife))
	assert.False(t, p.IsEditable("pin fujitsu", ColumnShelfLife))
	assert.False(t, p.IsEditable("PIN FUJITSU", ColumnRemainingPercent))
	assert.False(t, p.IsEditable("AZARINE", ColumnShelfLife))

	sp, ok := p.Sheet("BAKING SODA")
	require.True(t, ok)
	assert.Equal(t, 36, sp.ShelfLifeMonths)

	opt, ok := p.Option(Unlimited)
	require.True(t, ok)
	assert.Equal(t, "Vô thời hạn", opt.Label)
	_, ok = p.Option(48)
	assert.False(t, ok)
}
