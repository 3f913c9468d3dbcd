package pos

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotalsFlatTax(t *testing.T) {
	cart := NewCart()
	item := line("Paracetamol", "50")
	cart.AddOrIncrementBy(item, 2)

	totals := ComputeTotals(cart, DefaultTaxRate)

	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("100")))
	assert.True(t, totals.TaxAmount.Equal(decimal.RequireFromString("18")))
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("118")))
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := ComputeTotals(NewCart(), DefaultTaxRate)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestComputeTotalsKeepsPrecision(t *testing.T) {
	cart := NewCart()
	item := line("Syrup", "33.33")
	cart.AddOrIncrementBy(item, 3)

	totals := ComputeTotals(cart, DefaultTaxRate)

	// 99.99 * 0.18 = 17.9982, no intermediate rounding
	assert.True(t, totals.TaxAmount.Equal(decimal.RequireFromString("17.9982")))
	assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.TaxAmount)))
}
