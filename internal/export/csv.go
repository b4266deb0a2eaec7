// Package export renders sales and payout listings as RFC 4180 CSV for the
// dashboard's download buttons.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"salonpos/backend/internal/domain"
)

var salesHeader = []string{
	"receipt_number",
	"created_at",
	"staff_id",
	"items",
	"total_amount",
	"discount",
	"amount_received",
	"payment_mode",
	"status",
}

// WriteSalesCSV writes one row per sale. Cart lines are flattened into a
// single "name x qty; name x qty" column so the file stays one row per
// receipt.
func WriteSalesCSV(w io.Writer, sales []domain.Sale) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(salesHeader); err != nil {
		return err
	}

	for _, sale := range sales {
		if err := writer.Write([]string{
			sale.ReceiptNumber,
			sale.CreatedAt.UTC().Format(time.RFC3339),
			sale.StaffID,
			flattenItems(sale.Items),
			formatAmount(sale.TotalAmount),
			formatAmount(sale.Discount),
			formatAmount(sale.AmountReceived),
			sale.PaymentMode,
			sale.Status,
		}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

var payoutsHeader = []string{
	"payout_id",
	"staff_id",
	"period_start",
	"period_end",
	"total_sales",
	"commission_amount",
	"status",
	"notes",
}

func WritePayoutsCSV(w io.Writer, payouts []domain.CommissionPayout) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(payoutsHeader); err != nil {
		return err
	}

	for _, payout := range payouts {
		if err := writer.Write([]string{
			payout.ID,
			payout.StaffID,
			payout.PeriodStart.UTC().Format("2006-01-02"),
			payout.PeriodEnd.UTC().Format("2006-01-02"),
			formatAmount(payout.TotalSales),
			formatAmount(payout.CommissionAmount),
			payout.Status,
			payout.Notes,
		}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func flattenItems(items []domain.CartLine) string {
	parts := make([]string, 0, len(items))
	for _, line := range items {
		parts = append(parts, fmt.Sprintf("%s x %d", line.ProductName, line.Quantity))
	}
	return strings.Join(parts, "; ")
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
