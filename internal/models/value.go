package models

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FormatScalar renders a cell value the way a browser stringifies it:
// integral numbers without a fractional part, booleans as true/false.
func FormatScalar(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return formatFloat(f)
		}
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads a numeric cell. Strings are parsed from their leading
// numeric prefix ("45.5%" reads as 45.5); anything unparseable reports false.
func ParseNumber(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, !math.IsNaN(val)
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		m := leadingFloat.FindString(strings.TrimSpace(val))
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ParseMonths reads a shelf-life cell as a whole number of months
func ParseMonths(v interface{}) (int, bool) {
	f, ok := ParseNumber(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
