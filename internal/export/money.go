// Package export renders ledger and budget data into downloadable documents:
// an xlsx workbook for the accountant and a pdf quote for the customer.
package export

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Formatter renders stored amounts in a fixed currency
type Formatter struct {
	code     string
	fraction int32
}

// NewFormatter creates a formatter for an ISO 4217 code known to go-money
func NewFormatter(code string) Formatter {
	code = strings.ToUpper(code)
	cur := *money.New(0, code).Currency()
	return Formatter{code: code, fraction: int32(cur.Fraction)}
}

// Currency returns the ISO code the formatter renders
func (f Formatter) Currency() string {
	return f.code
}

// Amount formats v with the currency symbol and separators, e.g. R$1.234,56
func (f Formatter) Amount(v float64) string {
	minor := decimal.NewFromFloat(v).Shift(f.fraction).Round(0).IntPart()
	return money.New(minor, f.code).Display()
}
