package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"salonpos/backend/internal/domain"
)

func TestWriteSalesCSVQuotesEmbeddedCommas(t *testing.T) {
	createdAt := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	sales := []domain.Sale{
		{
			ReceiptNumber: "RCP-abc",
			StaffID:       "staff-amira",
			Items: []domain.CartLine{
				{ProductName: "Cut, Wash & Style", Quantity: 1},
				{ProductName: "Blowout", Quantity: 2},
			},
			TotalAmount:    85.5,
			Discount:       4.5,
			AmountReceived: 100,
			PaymentMode:    domain.PaymentModeCash,
			Status:         domain.SaleStatusCompleted,
			CreatedAt:      createdAt,
		},
	}

	var buf bytes.Buffer
	if err := WriteSalesCSV(&buf, sales); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}

	row := records[1]
	if row[0] != "RCP-abc" {
		t.Fatalf("receipt column wrong: %q", row[0])
	}
	if !strings.Contains(row[3], "Cut, Wash & Style x 1") {
		t.Fatalf("comma-bearing item name did not survive the round trip: %q", row[3])
	}
	if row[4] != "85.50" {
		t.Fatalf("expected amount 85.50, got %q", row[4])
	}
	if row[8] != domain.SaleStatusCompleted {
		t.Fatalf("status column wrong: %q", row[8])
	}
}

func TestWritePayoutsCSV(t *testing.T) {
	payouts := []domain.CommissionPayout{
		{
			ID:               "payout-1",
			StaffID:          "staff-amira",
			PeriodStart:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:        time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			TotalSales:       1500,
			CommissionAmount: 150,
			Status:           domain.PayoutStatusPending,
			Notes:            "March payout, pending review",
		},
	}

	var buf bytes.Buffer
	if err := WritePayoutsCSV(&buf, payouts); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}

	row := records[1]
	if row[2] != "2025-03-01" || row[3] != "2025-03-31" {
		t.Fatalf("period columns wrong: %q / %q", row[2], row[3])
	}
	if row[5] != "150.00" {
		t.Fatalf("commission column wrong: %q", row[5])
	}
	if row[7] != "March payout, pending review" {
		t.Fatalf("notes column wrong: %q", row[7])
	}
}
