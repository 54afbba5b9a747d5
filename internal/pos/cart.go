package pos

import (
	"github.com/shopspring/decimal"

	"cafepos/internal/models"
)

// CartLine is one pending selection. Quantity is always > 0 while the line
// is in a cart.
type CartLine struct {
	Product  models.Product
	Quantity int
	Notes    string
}

// Subtotal returns unit price × quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart accumulates selections before an order is committed. A cart belongs
// to one session and is not safe for concurrent use.
type Cart struct {
	lines map[string]*CartLine
	order []string
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{lines: make(map[string]*CartLine)}
}

// AddItem raises the quantity of product by delta, creating the line if
// needed. It returns false and changes nothing when delta is not positive,
// the product cannot be sold, or the new quantity would exceed stock.
func (c *Cart) AddItem(product models.Product, delta int) bool {
	if delta <= 0 || !product.IsAvailable || !product.IsActive {
		return false
	}
	current := 0
	if line, ok := c.lines[product.ID]; ok {
		current = line.Quantity
	}
	if current+delta > product.StockQuantity {
		return false
	}
	if line, ok := c.lines[product.ID]; ok {
		line.Quantity += delta
		line.Product = product
		return true
	}
	c.lines[product.ID] = &CartLine{Product: product, Quantity: delta}
	c.order = append(c.order, product.ID)
	return true
}

// AddProductToOrder lets the cart act as an OrderSink.
func (c *Cart) AddProductToOrder(product models.Product, quantity int, notes string) bool {
	if !c.AddItem(product, quantity) {
		return false
	}
	if notes != "" {
		c.lines[product.ID].Notes = notes
	}
	return true
}

// RemoveItem deletes the product's line whatever its quantity.
func (c *Cart) RemoveItem(productID string) {
	if _, ok := c.lines[productID]; !ok {
		return
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// SetQuantity replaces the product's quantity, clamped to stock. A quantity
// of zero or less removes the line. It returns false only when the product
// cannot be sold at all.
func (c *Cart) SetQuantity(product models.Product, qty int) bool {
	if qty <= 0 {
		c.RemoveItem(product.ID)
		return true
	}
	if !product.IsAvailable || !product.IsActive || product.StockQuantity <= 0 {
		return false
	}
	if qty > product.StockQuantity {
		qty = product.StockQuantity
	}
	if line, ok := c.lines[product.ID]; ok {
		line.Quantity = qty
		line.Product = product
		return true
	}
	c.lines[product.ID] = &CartLine{Product: product, Quantity: qty}
	c.order = append(c.order, product.ID)
	return true
}

// SetNotes replaces the preparation notes of an existing line.
func (c *Cart) SetNotes(productID, notes string) bool {
	line, ok := c.lines[productID]
	if !ok {
		return false
	}
	line.Notes = notes
	return true
}

// Quantity returns the quantity held for productID, zero if absent.
func (c *Cart) Quantity(productID string) int {
	if line, ok := c.lines[productID]; ok {
		return line.Quantity
	}
	return 0
}

// Total is Σ(unit price × quantity) over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Lines returns copies of the lines in the order they were first added.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

// Len returns the number of distinct products in the cart.
func (c *Cart) Len() int { return len(c.lines) }

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Clear drops every line.
func (c *Cart) Clear() {
	c.lines = make(map[string]*CartLine)
	c.order = nil
}
