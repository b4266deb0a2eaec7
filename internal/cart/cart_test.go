package cart

import (
	"testing"

	"salonpos/backend/internal/domain"
)

func product(id string, price float64) domain.Product {
	return domain.Product{
		ID:           id,
		Name:         "Product " + id,
		SellingPrice: price,
		Status:       domain.ProductStatusActive,
	}
}

func TestAddLineMergesSameProduct(t *testing.T) {
	c := New()
	c.AddLine(product("p1", 25))
	line := c.AddLine(product("p1", 25))

	if got := len(c.Lines()); got != 1 {
		t.Fatalf("expected 1 line, got %d", got)
	}
	if line.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", line.Quantity)
	}
	if line.TotalPrice != 50 {
		t.Fatalf("expected total 50, got %v", line.TotalPrice)
	}
}

func TestSubtotalMatchesLineSums(t *testing.T) {
	c := New()
	a := c.AddLine(product("p1", 10))
	c.AddLine(product("p2", 7.5))
	b := c.AddLine(product("p3", 3))

	c.SetQuantity(a.ID, 4)
	c.SetQuantity(b.ID, 2)
	c.RemoveLine(c.Lines()[1].ID)

	want := 0.0
	for _, line := range c.Lines() {
		want += float64(line.Quantity) * line.UnitPrice
	}
	if got := c.Subtotal(); got != want {
		t.Fatalf("subtotal %v does not match line sum %v", got, want)
	}
}

func TestSetQuantityZeroEqualsRemove(t *testing.T) {
	left := New()
	right := New()
	l1 := left.AddLine(product("p1", 12))
	left.AddLine(product("p2", 8))
	r1 := right.AddLine(product("p1", 12))
	right.AddLine(product("p2", 8))

	left.SetQuantity(l1.ID, 0)
	right.RemoveLine(r1.ID)

	if len(left.Lines()) != len(right.Lines()) {
		t.Fatalf("line counts differ: %d vs %d", len(left.Lines()), len(right.Lines()))
	}
	if left.Subtotal() != right.Subtotal() {
		t.Fatalf("subtotals differ: %v vs %v", left.Subtotal(), right.Subtotal())
	}
}

func TestSetUnitPriceOverridesAndRecomputes(t *testing.T) {
	c := New()
	line := c.AddLine(product("p1", 30))
	c.SetQuantity(line.ID, 3)
	c.SetUnitPrice(line.ID, 20)

	if got := c.Subtotal(); got != 60 {
		t.Fatalf("expected subtotal 60 after override, got %v", got)
	}
}

func TestFinalTotalMonotonicInDiscount(t *testing.T) {
	c := New()
	line := c.AddLine(product("p1", 33))
	c.SetQuantity(line.ID, 3)

	if c.FinalTotal(0) != c.Subtotal() {
		t.Fatalf("zero discount must leave subtotal unchanged")
	}

	prev := c.FinalTotal(0)
	for pct := 5.0; pct <= 100; pct += 5 {
		cur := c.FinalTotal(pct)
		if cur > prev {
			t.Fatalf("final total increased from %v to %v at %v%%", prev, cur, pct)
		}
		prev = cur
	}
	if c.FinalTotal(100) != 0 {
		t.Fatalf("full discount should zero the total, got %v", c.FinalTotal(100))
	}
}

func TestChangeDueSign(t *testing.T) {
	if change := ChangeDue(40, 45); change >= 0 {
		t.Fatalf("expected negative change when received < total, got %v", change)
	}
	if change := ChangeDue(45, 45); change != 0 {
		t.Fatalf("expected zero change on exact payment, got %v", change)
	}
	if change := ChangeDue(50, 45); change != 5 {
		t.Fatalf("expected change 5, got %v", change)
	}
}

func TestExpenseOperationsMirrorCart(t *testing.T) {
	c := New()
	exp := c.AddExpense(domain.ExpenseItem{ID: "e1", Name: "Hair Color", UnitPrice: 5})
	c.SetExpenseQuantity(exp.ID, 3)

	if got := c.ExpenseTotal(); got != 15 {
		t.Fatalf("expected expense total 15, got %v", got)
	}

	c.SetExpenseQuantity(exp.ID, 0)
	if len(c.Expenses()) != 0 {
		t.Fatalf("expected expense removed at quantity 0")
	}
}

// Scenario from the checkout screen: one line qty=2 @ 25.00, one expense
// 1 @ 5.00, 10% discount, 50.00 received.
func TestCheckoutScenario(t *testing.T) {
	c := New()
	line := c.AddLine(product("p1", 25))
	c.SetQuantity(line.ID, 2)
	c.AddExpense(domain.ExpenseItem{ID: "e1", Name: "Supplies", UnitPrice: 5})

	if got := c.Subtotal(); got != 50 {
		t.Fatalf("subtotal: expected 50, got %v", got)
	}
	if got := c.DiscountAmount(10); got != 5 {
		t.Fatalf("discount: expected 5, got %v", got)
	}
	final := c.FinalTotal(10)
	if final != 45 {
		t.Fatalf("final total: expected 45, got %v", final)
	}
	if got := c.ExpenseTotal(); got != 5 {
		t.Fatalf("expense total: expected 5, got %v", got)
	}
	if got := ChangeDue(50, final); got != 5 {
		t.Fatalf("change: expected 5, got %v", got)
	}
}
