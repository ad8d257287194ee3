package viewer

import (
	"github.com/shopspring/decimal"

	"stockview/internal/models"
)

// Tier is the severity marking of a remaining-percentage cell
type Tier string

const (
	TierNormal  Tier = ""
	TierExpired Tier = "expired"
	TierLow     Tier = "low"
	TierMedium  Tier = "medium"
)

// Classify maps a remaining percentage to its tier
func Classify(percentage float64) Tier {
	switch {
	case percentage <= 0:
		return TierExpired
	case percentage < 50:
		return TierLow
	case percentage < 70:
		return TierMedium
	default:
		return TierNormal
	}
}

// FormatPercentage renders a percentage with one decimal place and a %
// suffix. Rounding is half away from zero on the shortest decimal form of the
// value, so 1.45 shows as "1.5" even though its binary value sits just below.
func FormatPercentage(percentage float64) string {
	return decimal.NewFromFloat(percentage).StringFixed(1) + "%"
}

// percentageCell renders a remaining-percentage value. Values that do not
// read as a number are shown as they are, without a tier.
func percentageCell(v interface{}) (string, Tier) {
	pct, ok := models.ParseNumber(v)
	if !ok {
		return models.FormatScalar(v), TierNormal
	}
	return FormatPercentage(pct), Classify(pct)
}
