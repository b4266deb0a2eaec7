package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"salonpos/backend/internal/domain"
)

func TestPayoutStatusPersistsAcrossConnections(t *testing.T) {
	databaseURL := os.Getenv("SALONPOS_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set SALONPOS_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	staffID := fmt.Sprintf("staff-it-%d", stamp)
	saleID := fmt.Sprintf("sale-it-%d", stamp)
	payoutID := fmt.Sprintf("payout-it-%d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM commission_payouts WHERE id = $1`, payoutID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, saleID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, staffID)
	})

	now := time.Now().UTC()
	if _, err := s.CreateStaff(ctx, domain.Staff{
		ID:                   staffID,
		Name:                 "Integration Stylist",
		CommissionPercentage: 10,
		Status:               domain.StaffStatusActive,
		CreatedAt:            now,
	}); err != nil {
		t.Fatalf("create staff: %v", err)
	}

	if _, err := s.CreateSale(ctx, domain.Sale{
		ID:            saleID,
		ReceiptNumber: "RCP-" + saleID,
		Items: []domain.CartLine{
			{ID: "line-1", ProductID: "prod-it", ProductName: "Haircut", Quantity: 2, UnitPrice: 25, TotalPrice: 50},
		},
		TotalAmount:    50,
		AmountReceived: 50,
		PaymentMode:    domain.PaymentModeCash,
		StaffID:        staffID,
		Status:         domain.SaleStatusCompleted,
		CreatedAt:      now,
	}); err != nil {
		t.Fatalf("create sale: %v", err)
	}

	// The range filter must land in SQL and still include the boundary sale.
	from := now.Add(-time.Minute)
	to := now.Add(time.Minute)
	sales, err := s.ListSales(ctx, domain.SalesFilter{
		StaffID: staffID,
		Status:  domain.SaleStatusCompleted,
		From:    &from,
		To:      &to,
	})
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 1 || len(sales[0].Items) != 1 {
		t.Fatalf("expected 1 sale with items round-tripped, got %+v", sales)
	}

	if _, err := s.CreatePayout(ctx, domain.CommissionPayout{
		ID:               payoutID,
		StaffID:          staffID,
		PeriodStart:      now.AddDate(0, 0, -7),
		PeriodEnd:        now,
		TotalSales:       50,
		CommissionAmount: 5,
		Status:           domain.PayoutStatusPending,
		CreatedAt:        now,
	}); err != nil {
		t.Fatalf("create payout: %v", err)
	}

	updated, err := s.SetPayoutStatus(ctx, payoutID, domain.PayoutStatusPaid, time.Now().UTC())
	if err != nil {
		t.Fatalf("set payout status: %v", err)
	}
	if updated.Status != domain.PayoutStatusPaid {
		t.Fatalf("expected Paid, got %s", updated.Status)
	}
	if updated.CommissionAmount != 5 {
		t.Fatalf("status update must not alter amounts, got %v", updated.CommissionAmount)
	}
}
