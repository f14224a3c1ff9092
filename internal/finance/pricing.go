package finance

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoValidPrice is returned when the requested markup and tax consume the
// whole sale price, so no finite price satisfies the formula.
var ErrNoValidPrice = errors.New("no valid price: markup and tax reach 100% of the sale price")

// PriceQuote is the outcome of a pricing formula
type PriceQuote struct {
	Cost          float64 `json:"cost"`
	Price         float64 `json:"price"`
	TaxAmount     float64 `json:"taxAmount"`
	Profit        float64 `json:"profit"`
	MarginPercent float64 `json:"marginPercent"`
}

// SimulatePrice applies the margin-based formula:
//
//	price = cost / (1 - (markup+tax)/100)
//
// It returns ErrNoValidPrice when markup+tax is 100% or more.
func SimulatePrice(cost, markupPercent, taxPercent float64) (PriceQuote, error) {
	ratio := amount(markupPercent).Add(amount(taxPercent)).Div(hundred)
	if ratio.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return PriceQuote{}, ErrNoValidPrice
	}
	c := amount(cost)
	price := c.Div(decimal.NewFromInt(1).Sub(ratio))
	return quote(c, price, amount(taxPercent)), nil
}

// ComputeBudgetPrice applies the multiplier-based formula:
//
//	price = cost * multiplier / (1 - tax/100)
//
// It returns ErrNoValidPrice when tax is 100% or more.
func ComputeBudgetPrice(cost, multiplier, taxPercent float64) (PriceQuote, error) {
	tax := amount(taxPercent)
	if tax.GreaterThanOrEqual(hundred) {
		return PriceQuote{}, ErrNoValidPrice
	}
	c := amount(cost)
	price := c.Mul(amount(multiplier)).Div(decimal.NewFromInt(1).Sub(tax.Div(hundred)))
	return quote(c, price, tax), nil
}

// Evaluate derives tax, profit and margin for an already known price. Tax is
// charged on the sale price, not on the cost.
func Evaluate(cost, price, taxPercent float64) PriceQuote {
	return quote(amount(cost), amount(price), amount(taxPercent))
}

func quote(cost, price, taxPercent decimal.Decimal) PriceQuote {
	taxAmount := price.Mul(taxPercent).Div(hundred)
	profit := price.Sub(cost).Sub(taxAmount)
	return PriceQuote{
		Cost:          float(cost),
		Price:         float(price),
		TaxAmount:     float(taxAmount),
		Profit:        float(profit),
		MarginPercent: percent(profit, price),
	}
}
