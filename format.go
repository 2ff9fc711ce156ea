package economy

import (
	"math"
	"strconv"

	"github.com/Rhymond/go-money"
)

// FormatAmount renders a balance as a currency string for user-facing
// messages, e.g. "$1,234.50" for 1234.5 in USD. Balances are plain
// float64 values, so the admin account's infinite balance and the NaN
// guard values need their own spellings.
func FormatAmount(amount float64, code string) string {
	if math.IsNaN(amount) {
		return "NaN"
	}
	if math.IsInf(amount, 1) {
		return "∞"
	}
	if math.IsInf(amount, -1) {
		return "-∞"
	}
	// to get a never nil currency we go through the Money constructor
	cur := *money.New(0, code).Currency()
	units := math.Round(amount * math.Pow10(cur.Fraction))
	if units > math.MaxInt64 || units < math.MinInt64 {
		// Out of formatter range, fall back to the raw float.
		return strconv.FormatFloat(amount, 'f', cur.Fraction, 64)
	}
	return cur.Formatter().Format(int64(units))
}
