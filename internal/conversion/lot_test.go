package conversion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLotExpiry(t *testing.T) {
	tests := []struct {
		name string
		lot  interface{}
		want string
		ok   bool
	}{
		{"YYMM is last day of month", "2805", "31/05/2028", true},
		{"YYMM numeric", 2802.0, "29/02/2028", true},
		{"YYMM december", "2712", "31/12/2027", true},
		{"YYMM old century", "9906", "30/06/1999", true},
		{"YYMMDD", "LOT-240512", "12/05/2024", true},
		{"YYYYMMDD", "2026/01/15", "15/01/2026", true},
		{"impossible day", "20260231", "", false},
		{"bad month", "2813", "", false},
		{"unsupported length", "12345", "", false},
		{"no digits", "ABC", "", false},
		{"nil", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLotExpiry(tt.lot, time.UTC)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.Format(DateLayout))
			}
		})
	}
}

func TestRemainingPercentage(t *testing.T) {
	expiry := time.Date(2028, 5, 31, 0, 0, 0, 0, time.UTC)

	t.Run("expired clamps to zero", func(t *testing.T) {
		now := expiry.Add(72 * time.Hour)
		assert.Equal(t, 0.0, RemainingPercentage(expiry, 36, now))
	})

	t.Run("expires today", func(t *testing.T) {
		assert.Equal(t, 0.0, RemainingPercentage(expiry, 36, expiry.Add(-time.Hour)))
	})

	t.Run("half way", func(t *testing.T) {
		// 36 months is 1095 whole days
		now := expiry.AddDate(0, 0, -548)
		assert.Equal(t, 50.0, RemainingPercentage(expiry, 36, now))
	})

	t.Run("rounds to one decimal", func(t *testing.T) {
		now := expiry.AddDate(0, 0, -100)
		assert.Equal(t, 9.1, RemainingPercentage(expiry, 36, now))
	})
}

func TestShelfLifeStatus(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	pct, expiry, ok := ShelfLifeStatus("2805", 36, now)
	require.True(t, ok)
	assert.Equal(t, "31/05/2028", expiry)
	assert.Greater(t, pct, 0.0)

	_, _, ok = ShelfLifeStatus("2805", 0, now)
	assert.False(t, ok)
	_, _, ok = ShelfLifeStatus("n/a", 36, now)
	assert.False(t, ok)
}

func TestExtractProductionDate(t *testing.T) {
	got, ok := ExtractProductionDate("LOT240512")
	require.True(t, ok)
	assert.Equal(t, "12/05/2024", got)

	_, ok = ExtractProductionDate("2805")
	assert.False(t, ok)

	_, ok = ExtractProductionDate("241399")
	assert.False(t, ok)
}
