package pos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one medicine entry in the cart. TotalAmount is kept equal to
// Quantity times UnitPrice by every cart operation.
type LineItem struct {
	MedicineID   uuid.UUID       `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	DosageForm   string          `json:"dosage_form"`
	Strength     string          `json:"strength"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// Cart owns the in-progress, unsubmitted line items for the current sale.
// Lines keep insertion order; medicine IDs are unique keys. The cart never
// holds a line with quantity at or below zero.
type Cart struct {
	lines map[uuid.UUID]*LineItem
	order []uuid.UUID
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{lines: make(map[uuid.UUID]*LineItem)}
}

func (c *Cart) recompute(line *LineItem) {
	line.TotalAmount = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// AddOrIncrement inserts the item with quantity 1, or bumps the existing
// line's quantity by 1 when the medicine is already in the cart. Stock
// limits are not the cart's concern.
func (c *Cart) AddOrIncrement(item LineItem) {
	c.AddOrIncrementBy(item, 1)
}

// AddOrIncrementBy is AddOrIncrement with a caller-supplied delta.
func (c *Cart) AddOrIncrementBy(item LineItem, delta int) {
	if delta <= 0 {
		return
	}
	if existing, ok := c.lines[item.MedicineID]; ok {
		existing.Quantity += delta
		c.recompute(existing)
		return
	}
	item.Quantity = delta
	c.recompute(&item)
	c.lines[item.MedicineID] = &item
	c.order = append(c.order, item.MedicineID)
}

// SetQuantity rewrites a line's quantity. A quantity at or below zero
// removes the line. Unknown medicine IDs are a no-op, the UI may race
// ahead of state.
func (c *Cart) SetQuantity(medicineID uuid.UUID, quantity int) {
	line, ok := c.lines[medicineID]
	if !ok {
		return
	}
	if quantity <= 0 {
		c.Remove(medicineID)
		return
	}
	line.Quantity = quantity
	c.recompute(line)
}

// Remove deletes a line; no-op if absent.
func (c *Cart) Remove(medicineID uuid.UUID) {
	if _, ok := c.lines[medicineID]; !ok {
		return
	}
	delete(c.lines, medicineID)
	for i, id := range c.order {
		if id == medicineID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = make(map[uuid.UUID]*LineItem)
	c.order = nil
}

// Lines returns the line items in insertion order. The returned slice holds
// copies, mutating it does not touch cart state.
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

// Get returns a copy of the line for the given medicine, if present.
func (c *Cart) Get(medicineID uuid.UUID) (LineItem, bool) {
	line, ok := c.lines[medicineID]
	if !ok {
		return LineItem{}, false
	}
	return *line, true
}

// Len returns the number of distinct lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Subtotal sums all line totals. Recomputed on every call, no caching.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range c.lines {
		sum = sum.Add(line.TotalAmount)
	}
	return sum
}
