package pos

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(name string, price string) LineItem {
	return LineItem{
		MedicineID:   uuid.New(),
		MedicineName: name,
		UnitPrice:    decimal.RequireFromString(price),
	}
}

func TestCartAddOrIncrement(t *testing.T) {
	cart := NewCart()
	item := line("Paracetamol 500mg", "12.50")

	cart.AddOrIncrement(item)
	cart.AddOrIncrement(item)

	assert.Equal(t, 1, cart.Len())
	got, ok := cart.Get(item.MedicineID)
	assert.True(t, ok)
	assert.Equal(t, 2, got.Quantity)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("25.00")))
}

func TestCartInsertionOrder(t *testing.T) {
	cart := NewCart()
	first := line("Amoxicillin", "80")
	second := line("Cetirizine", "15")
	third := line("Ibuprofen", "30")

	cart.AddOrIncrement(first)
	cart.AddOrIncrement(second)
	cart.AddOrIncrement(third)
	cart.AddOrIncrement(first)

	lines := cart.Lines()
	assert.Len(t, lines, 3)
	assert.Equal(t, "Amoxicillin", lines[0].MedicineName)
	assert.Equal(t, "Cetirizine", lines[1].MedicineName)
	assert.Equal(t, "Ibuprofen", lines[2].MedicineName)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartSetQuantity(t *testing.T) {
	cart := NewCart()
	item := line("Azithromycin", "45")
	cart.AddOrIncrement(item)

	cart.SetQuantity(item.MedicineID, 4)

	got, _ := cart.Get(item.MedicineID)
	assert.Equal(t, 4, got.Quantity)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("180")))
}

func TestCartSetQuantityZeroRemoves(t *testing.T) {
	cart := NewCart()
	item := line("Azithromycin", "45")
	cart.AddOrIncrement(item)

	cart.SetQuantity(item.MedicineID, 0)

	assert.True(t, cart.IsEmpty())
	_, ok := cart.Get(item.MedicineID)
	assert.False(t, ok)
}

func TestCartSetQuantityNegativeRemoves(t *testing.T) {
	cart := NewCart()
	item := line("Dolo 650", "28")
	cart.AddOrIncrement(item)

	cart.SetQuantity(item.MedicineID, -1)

	assert.True(t, cart.IsEmpty())
}

func TestCartMissingIDIsNoOp(t *testing.T) {
	cart := NewCart()
	item := line("Dolo 650", "28")
	cart.AddOrIncrement(item)

	cart.SetQuantity(uuid.New(), 5)
	cart.Remove(uuid.New())

	assert.Equal(t, 1, cart.Len())
}

func TestCartSubtotal(t *testing.T) {
	cart := NewCart()
	a := line("A", "12.35")
	b := line("B", "7.10")
	cart.AddOrIncrementBy(a, 3)
	cart.AddOrIncrementBy(b, 2)

	// 3*12.35 + 2*7.10 = 37.05 + 14.20 = 51.25
	assert.True(t, cart.Subtotal().Equal(decimal.RequireFromString("51.25")))

	cart.Remove(b.MedicineID)
	assert.True(t, cart.Subtotal().Equal(decimal.RequireFromString("37.05")))

	cart.Clear()
	assert.True(t, cart.Subtotal().Equal(decimal.Zero))
}
