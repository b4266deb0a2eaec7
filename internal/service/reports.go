package service

import (
	"context"
	"sort"
	"time"

	"salonpos/backend/internal/domain"
)

const topProductLimit = 5

// SalesReport aggregates the filtered sales into the dashboard's report
// view: totals, top products by revenue, per-staff totals with commission
// earned, and a daily series.
func (s *Service) SalesReport(ctx context.Context, filter domain.SalesFilter) (domain.SalesReport, error) {
	sales, err := s.repo.ListSales(ctx, filter)
	if err != nil {
		return domain.SalesReport{}, err
	}
	staff, err := s.repo.ListStaff(ctx)
	if err != nil {
		return domain.SalesReport{}, err
	}

	staffByID := make(map[string]domain.Staff, len(staff))
	for _, member := range staff {
		staffByID[member.ID] = member
	}

	report := domain.SalesReport{
		TopProducts:  []domain.TopProduct{},
		SalesByStaff: []domain.StaffSales{},
		DailySales:   []domain.DailySales{},
	}

	productTotals := make(map[string]*domain.TopProduct)
	staffTotals := make(map[string]*domain.StaffSales)
	dailyTotals := make(map[string]*domain.DailySales)

	for _, sale := range sales {
		report.TotalSales += sale.TotalAmount
		report.TotalTransactions++

		for _, line := range sale.Items {
			entry, ok := productTotals[line.ProductID]
			if !ok {
				entry = &domain.TopProduct{ProductID: line.ProductID, ProductName: line.ProductName}
				productTotals[line.ProductID] = entry
			}
			entry.QuantitySold += line.Quantity
			entry.TotalRevenue += line.TotalPrice
		}

		if sale.StaffID != "" {
			entry, ok := staffTotals[sale.StaffID]
			if !ok {
				entry = &domain.StaffSales{StaffID: sale.StaffID}
				if member, found := staffByID[sale.StaffID]; found {
					entry.StaffName = member.Name
				}
				staffTotals[sale.StaffID] = entry
			}
			entry.TotalSales += sale.TotalAmount
		}

		day := sale.CreatedAt.UTC().Format("2006-01-02")
		entry, ok := dailyTotals[day]
		if !ok {
			entry = &domain.DailySales{Date: day}
			dailyTotals[day] = entry
		}
		entry.Sales += sale.TotalAmount
		entry.Transactions++
	}

	if report.TotalTransactions > 0 {
		report.AverageTransaction = report.TotalSales / float64(report.TotalTransactions)
	}

	for _, entry := range productTotals {
		report.TopProducts = append(report.TopProducts, *entry)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		return report.TopProducts[i].TotalRevenue > report.TopProducts[j].TotalRevenue
	})
	if len(report.TopProducts) > topProductLimit {
		report.TopProducts = report.TopProducts[:topProductLimit]
	}

	for staffID, entry := range staffTotals {
		if member, found := staffByID[staffID]; found {
			entry.CommissionEarned = entry.TotalSales * member.CommissionPercentage / 100
		}
		report.SalesByStaff = append(report.SalesByStaff, *entry)
	}
	sort.Slice(report.SalesByStaff, func(i, j int) bool {
		return report.SalesByStaff[i].TotalSales > report.SalesByStaff[j].TotalSales
	})

	for _, entry := range dailyTotals {
		report.DailySales = append(report.DailySales, *entry)
	}
	sort.Slice(report.DailySales, func(i, j int) bool {
		return report.DailySales[i].Date < report.DailySales[j].Date
	})

	return report, nil
}

func (s *Service) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	sales, err := s.repo.ListSales(ctx, domain.SalesFilter{})
	if err != nil {
		return domain.DashboardStats{}, err
	}
	staff, err := s.repo.ListStaff(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	today := time.Now().UTC().Format("2006-01-02")
	stats := domain.DashboardStats{}
	for _, sale := range sales {
		stats.TotalRevenue += sale.TotalAmount
		stats.TotalTransactions++
		if sale.CreatedAt.UTC().Format("2006-01-02") == today {
			stats.TodayRevenue += sale.TotalAmount
			stats.TodayTransactions++
		}
	}
	if stats.TotalTransactions > 0 {
		stats.AverageTransaction = stats.TotalRevenue / float64(stats.TotalTransactions)
	}

	stats.TotalStaff = len(staff)
	for _, member := range staff {
		if member.Status == domain.StaffStatusActive {
			stats.ActiveStaff++
		}
	}

	return stats, nil
}
