package pos

import "github.com/shopspring/decimal"

// DefaultTaxRate is the flat consumption tax applied to every sale.
var DefaultTaxRate = decimal.RequireFromString("0.18")

// Totals is the priced view of a cart. Values carry full precision;
// rounding to 2 decimal places happens only at presentation time.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// ComputeTotals derives subtotal, tax and total from the cart. Pure
// function, safe to call on every render.
func ComputeTotals(cart *Cart, taxRate decimal.Decimal) Totals {
	subtotal := cart.Subtotal()
	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}
