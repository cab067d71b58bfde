package util

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// CumSum returns the running sum of xs prefixed with 0, so the result has
// len(xs)+1 entries and out[i] is the sum of xs[:i].
func CumSum(xs []float64) []float64 {
	out := make([]float64, len(xs)+1)
	for i, x := range xs {
		out[i+1] = out[i] + x
	}
	return out
}

// Fixed renders v with exactly places fractional digits, rounding the binary
// value of v the way %.Nf does: 2.675 is stored just below the tie and gives
// "2.67", exact ties go to the even digit.
func Fixed(v float64, places int32) string {
	return decimal.NewFromFloatWithExponent(v, -30).StringFixedBank(places)
}

// FmtFloat renders v in its shortest round-trippable form, for CSV cells.
func FmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
