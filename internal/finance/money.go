// Package finance holds the derived financial state of the workshop: cost
// rollups, customer aggregates, the cash ledger, pending projections and
// pricing. Every function is pure and works on value copies of the entity
// collections; nothing here performs I/O or mutates its inputs.
package finance

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// amount converts a stored float into a decimal. NaN and infinities, which
// can only come from malformed input, become zero so they never spread
// through a sum.
func amount(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// float converts a decimal result back to the stored representation,
// rounded to cents.
func float(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// percent returns part/whole*100 rounded to two places, or zero when whole
// is not positive.
func percent(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).Mul(hundred).Round(2).InexactFloat64()
}

// Sum adds stored amounts exactly and returns the total rounded to cents
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(amount(v))
	}
	return float(total)
}

// Month returns the YYYY-MM bucket key of an ISO date string
func Month(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}
