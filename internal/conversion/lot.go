package conversion

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stockview/internal/models"
)

const (
	// daysPerMonth converts a shelf life in months to days
	daysPerMonth = 30.44
	DateLayout   = "02/01/2006"
)

// ParseLotExpiry reads an expiry date from a lot number. Only the digits of
// the lot are considered:
//
//	YYYYMMDD  that exact day
//	YYMMDD    that exact day, years below 50 are 20xx
//	YYMM      the last day of that month
//
// Anything else, or an impossible date, reports false.
func ParseLotExpiry(lot interface{}, loc *time.Location) (time.Time, bool) {
	if lot == nil {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	digits := onlyDigits(models.FormatScalar(lot))

	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}
	pivot := func(yy int) int {
		if yy < 50 {
			return 2000 + yy
		}
		return 1900 + yy
	}

	switch len(digits) {
	case 8:
		return validDate(atoi(digits[0:4]), atoi(digits[4:6]), atoi(digits[6:8]), loc)
	case 6:
		return validDate(pivot(atoi(digits[0:2])), atoi(digits[2:4]), atoi(digits[4:6]), loc)
	case 4:
		year, month := pivot(atoi(digits[0:2])), atoi(digits[2:4])
		if month < 1 || month > 12 {
			return time.Time{}, false
		}
		// day 0 of the following month is the last day of this one
		return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, loc), true
	default:
		return time.Time{}, false
	}
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// RemainingPercentage is the share of the shelf life left at now, rounded
// to one decimal. The production date is taken as expiry minus the shelf
// life; an expired lot reports 0.
func RemainingPercentage(expiry time.Time, shelfLifeMonths int, now time.Time) float64 {
	totalDays := wholeDays(time.Duration(math.Round(float64(shelfLifeMonths) * daysPerMonth * float64(24*time.Hour))))
	daysRemaining := wholeDays(expiry.Sub(now))

	if daysRemaining <= 0 || totalDays <= 0 {
		return 0
	}
	pct := float64(daysRemaining) / float64(totalDays) * 100
	return decimal.NewFromFloat(pct).Round(1).InexactFloat64()
}

// wholeDays floors a duration to days, rounding negative values down
func wholeDays(d time.Duration) int {
	return int(math.Floor(float64(d) / float64(24*time.Hour)))
}

// ShelfLifeStatus computes the remaining percentage and formatted expiry
// date for a lot. ok is false when the lot carries no readable date or the
// shelf life is not set.
func ShelfLifeStatus(lot interface{}, shelfLifeMonths int, now time.Time) (pct float64, expiry string, ok bool) {
	if shelfLifeMonths == 0 {
		return 0, "", false
	}
	exp, ok := ParseLotExpiry(lot, now.Location())
	if !ok {
		return 0, "", false
	}
	return RemainingPercentage(exp, shelfLifeMonths, now), exp.Format(DateLayout), true
}

var (
	sixDigits   = regexp.MustCompile(`\d{6}`)
	eightDigits = regexp.MustCompile(`\d{8}`)
)

// ExtractProductionDate finds a date embedded in a lot number, e.g.
// "LOT240512" reads as 12/05/2024. Six-digit runs are tried before eight.
func ExtractProductionDate(lot interface{}) (string, bool) {
	if lot == nil {
		return "", false
	}
	s := strings.ToUpper(models.FormatScalar(lot))

	if m := sixDigits.FindString(s); m != "" {
		year, _ := strconv.Atoi("20" + m[0:2])
		month, _ := strconv.Atoi(m[2:4])
		day, _ := strconv.Atoi(m[4:6])
		if plausibleDate(month, day) {
			return formatDMY(day, month, year), true
		}
	}
	if m := eightDigits.FindString(s); m != "" {
		year, _ := strconv.Atoi(m[0:4])
		month, _ := strconv.Atoi(m[4:6])
		day, _ := strconv.Atoi(m[6:8])
		if plausibleDate(month, day) {
			return formatDMY(day, month, year), true
		}
	}
	return "", false
}

func plausibleDate(month, day int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func formatDMY(day, month, year int) string {
	return pad2(day) + "/" + pad2(month) + "/" + strconv.Itoa(year)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
