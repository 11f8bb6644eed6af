package numeric

import (
	"time"

	"github.com/shopspring/decimal"
)

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Hours converts d to hours rounded to two decimals. The division runs on
// integer nanoseconds so 4h exactly yields 4.00, never 3.9999.
func Hours(d time.Duration) float64 {
	return decimal.NewFromInt(int64(d)).
		Div(decimal.NewFromInt(int64(time.Hour))).
		Round(2).
		InexactFloat64()
}

// Sum adds values without accumulating binary float error.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

// Div returns a/b rounded to places, or 0 when b is zero.
func Div(a, b float64, places int32) float64 {
	if b == 0 {
		return 0
	}
	return decimal.NewFromFloat(a).Div(decimal.NewFromFloat(b)).Round(places).InexactFloat64()
}
