// Package cart implements the transient checkout cart: product lines plus
// attached expense items, with running totals. A cart lives for a single
// checkout request and is never persisted; only the finalized sale is.
package cart

import (
	"salonpos/backend/internal/domain"
	"salonpos/backend/internal/xid"
)

type Cart struct {
	lines    []domain.CartLine
	expenses []domain.AttachedExpense
}

func New() *Cart {
	return &Cart{}
}

// AddLine adds one unit of the product. If a line for this product already
// exists its quantity is incremented instead; otherwise a new line is created
// with the product's selling price copied in as the unit price.
func (c *Cart) AddLine(p domain.Product) domain.CartLine {
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity++
			c.lines[i].TotalPrice = float64(c.lines[i].Quantity) * c.lines[i].UnitPrice
			return c.lines[i]
		}
	}

	line := domain.CartLine{
		ID:          xid.New("line"),
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    1,
		UnitPrice:   p.SellingPrice,
		TotalPrice:  p.SellingPrice,
	}
	c.lines = append(c.lines, line)
	return line
}

// SetQuantity sets a line's quantity and recomputes its total. A quantity of
// zero or less removes the line.
func (c *Cart) SetQuantity(lineID string, qty int) {
	if qty <= 0 {
		c.RemoveLine(lineID)
		return
	}
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines[i].Quantity = qty
			c.lines[i].TotalPrice = float64(qty) * c.lines[i].UnitPrice
			return
		}
	}
}

// SetUnitPrice overrides the copied price, supporting manual per-line
// discounting. No sign validation happens here; checkout rejects a negative
// final total.
func (c *Cart) SetUnitPrice(lineID string, price float64) {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines[i].UnitPrice = price
			c.lines[i].TotalPrice = float64(c.lines[i].Quantity) * price
			return
		}
	}
}

func (c *Cart) RemoveLine(lineID string) {
	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.ID != lineID {
			kept = append(kept, line)
		}
	}
	c.lines = kept
}

// AddExpense attaches a cost item with quantity 1 and the item's unit price
// copied at attach time.
func (c *Cart) AddExpense(item domain.ExpenseItem) domain.AttachedExpense {
	expense := domain.AttachedExpense{
		ID:            xid.New("exp"),
		ExpenseItemID: item.ID,
		Name:          item.Name,
		Quantity:      1,
		UnitPrice:     item.UnitPrice,
		TotalCost:     item.UnitPrice,
	}
	c.expenses = append(c.expenses, expense)
	return expense
}

func (c *Cart) SetExpenseQuantity(expenseID string, qty int) {
	if qty <= 0 {
		c.RemoveExpense(expenseID)
		return
	}
	for i := range c.expenses {
		if c.expenses[i].ID == expenseID {
			c.expenses[i].Quantity = qty
			c.expenses[i].TotalCost = float64(qty) * c.expenses[i].UnitPrice
			return
		}
	}
}

func (c *Cart) RemoveExpense(expenseID string) {
	kept := c.expenses[:0]
	for _, expense := range c.expenses {
		if expense.ID != expenseID {
			kept = append(kept, expense)
		}
	}
	c.expenses = kept
}

func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Expenses() []domain.AttachedExpense {
	out := make([]domain.AttachedExpense, len(c.expenses))
	copy(out, c.expenses)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Subtotal() float64 {
	total := 0.0
	for _, line := range c.lines {
		total += line.TotalPrice
	}
	return total
}

func (c *Cart) ExpenseTotal() float64 {
	total := 0.0
	for _, expense := range c.expenses {
		total += expense.TotalCost
	}
	return total
}

// FinalTotal applies a percentage discount to the subtotal. Attached expenses
// are internal costs and do not change what the customer pays.
func (c *Cart) FinalTotal(discountPercent float64) float64 {
	subtotal := c.Subtotal()
	return subtotal - subtotal*discountPercent/100
}

// DiscountAmount is the currency value of the percentage discount; this is
// what gets stored on the sale record.
func (c *Cart) DiscountAmount(discountPercent float64) float64 {
	return c.Subtotal() * discountPercent / 100
}

// ChangeDue may be negative; callers must block checkout when it is.
func ChangeDue(amountReceived, finalTotal float64) float64 {
	return amountReceived - finalTotal
}
