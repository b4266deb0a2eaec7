package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"salonpos/backend/internal/cache"
	"salonpos/backend/internal/cart"
	"salonpos/backend/internal/domain"
	"salonpos/backend/internal/store"
)

// ErrForbidden marks role failures so the HTTP layer can map them to 403.
var ErrForbidden = errors.New("forbidden")

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo       store.Repository
	catalog    cache.CatalogCache
	catalogTTL time.Duration
}

func New(repo store.Repository, catalog cache.CatalogCache, catalogTTL time.Duration) *Service {
	if catalog == nil {
		catalog = cache.NoopCatalogCache{}
	}
	if catalogTTL <= 0 {
		catalogTTL = 60 * time.Second
	}

	return &Service{
		repo:       repo,
		catalog:    catalog,
		catalogTTL: catalogTTL,
	}
}

// requireManager passes for roles that may manage the catalog, staff roster
// and payouts. super_admin passes every gate.
func requireManager(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return fmt.Errorf("authentication required: %w", ErrForbidden)
	}
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleManager, domain.RoleSuperAdmin:
		return nil
	}
	return fmt.Errorf("admin or manager role required: %w", ErrForbidden)
}

func requireSuperAdmin(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleSuperAdmin {
		return fmt.Errorf("super_admin role required: %w", ErrForbidden)
	}
	return nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if cached, found, err := s.catalog.GetProducts(ctx); err == nil && found {
		return cached, nil
	} else if err != nil {
		log.Printf("[service] WARN: product cache read failed: %v", err)
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.SetProducts(ctx, products, s.catalogTTL); err != nil {
		log.Printf("[service] WARN: product cache write failed: %v", err)
	}
	return products, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	if err := requireManager(ctx); err != nil {
		return domain.Product{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Product{}, fmt.Errorf("product name required: %w", store.ErrInvalidInput)
	}
	if req.SellingPrice < 0 || req.CostPrice < 0 {
		return domain.Product{}, fmt.Errorf("prices must not be negative: %w", store.ErrInvalidInput)
	}
	status := req.Status
	if status == "" {
		status = domain.ProductStatusActive
	}
	if status != domain.ProductStatusActive && status != domain.ProductStatusInactive && status != domain.ProductStatusDiscontinued {
		return domain.Product{}, fmt.Errorf("unknown product status %q: %w", status, store.ErrInvalidInput)
	}

	created, err := s.repo.CreateProduct(ctx, domain.Product{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  strings.TrimSpace(req.Description),
		CategoryID:   req.CategoryID,
		SKU:          strings.TrimSpace(req.SKU),
		SellingPrice: req.SellingPrice,
		CostPrice:    req.CostPrice,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.invalidateProducts(ctx)
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	if err := requireManager(ctx); err != nil {
		return domain.Product{}, err
	}
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, fmt.Errorf("product id required: %w", store.ErrInvalidInput)
	}

	existing, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, fmt.Errorf("product name required: %w", store.ErrInvalidInput)
		}
		updated.Name = name
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}
	if req.CategoryID != nil {
		updated.CategoryID = *req.CategoryID
	}
	if req.SellingPrice != nil {
		if *req.SellingPrice < 0 {
			return domain.Product{}, fmt.Errorf("selling price must not be negative: %w", store.ErrInvalidInput)
		}
		updated.SellingPrice = *req.SellingPrice
	}
	if req.CostPrice != nil {
		if *req.CostPrice < 0 {
			return domain.Product{}, fmt.Errorf("cost price must not be negative: %w", store.ErrInvalidInput)
		}
		updated.CostPrice = *req.CostPrice
	}
	if req.Status != nil {
		status := *req.Status
		if status != domain.ProductStatusActive && status != domain.ProductStatusInactive && status != domain.ProductStatusDiscontinued {
			return domain.Product{}, fmt.Errorf("unknown product status %q: %w", status, store.ErrInvalidInput)
		}
		updated.Status = status
	}

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}

	s.invalidateProducts(ctx)
	return *saved, nil
}

func (s *Service) ListProductCategories(ctx context.Context) ([]domain.ProductCategory, error) {
	return s.repo.ListProductCategories(ctx)
}

func (s *Service) CreateProductCategory(ctx context.Context, req domain.CategoryCreateRequest) (domain.ProductCategory, error) {
	if err := requireManager(ctx); err != nil {
		return domain.ProductCategory{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ProductCategory{}, fmt.Errorf("category name required: %w", store.ErrInvalidInput)
	}

	created, err := s.repo.CreateProductCategory(ctx, domain.ProductCategory{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Status:      domain.CategoryStatusActive,
	})
	if err != nil {
		return domain.ProductCategory{}, err
	}
	return *created, nil
}

func (s *Service) ListExpenseItems(ctx context.Context) ([]domain.ExpenseItem, error) {
	return s.repo.ListExpenseItems(ctx)
}

func (s *Service) CreateExpenseItem(ctx context.Context, req domain.ExpenseItemCreateRequest) (domain.ExpenseItem, error) {
	if err := requireManager(ctx); err != nil {
		return domain.ExpenseItem{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ExpenseItem{}, fmt.Errorf("expense item name required: %w", store.ErrInvalidInput)
	}
	if req.UnitPrice < 0 {
		return domain.ExpenseItem{}, fmt.Errorf("unit price must not be negative: %w", store.ErrInvalidInput)
	}

	created, err := s.repo.CreateExpenseItem(ctx, domain.ExpenseItem{
		ID:          uuid.NewString(),
		Name:        name,
		CategoryID:  req.CategoryID,
		UnitPrice:   req.UnitPrice,
		Description: strings.TrimSpace(req.Description),
		Status:      domain.CategoryStatusActive,
	})
	if err != nil {
		return domain.ExpenseItem{}, err
	}
	return *created, nil
}

func (s *Service) ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	return s.repo.ListExpenseCategories(ctx)
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[0-9\-()\s]+$`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// validPhone accepts digits, separators and a leading plus, and requires at
// least ten digits overall.
func validPhone(phone string) bool {
	if !phonePattern.MatchString(phone) {
		return false
	}
	return len(digitPattern.FindAllString(phone, -1)) >= 10
}

func (s *Service) ListStaff(ctx context.Context) ([]domain.Staff, error) {
	if cached, found, err := s.catalog.GetStaff(ctx); err == nil && found {
		return cached, nil
	} else if err != nil {
		log.Printf("[service] WARN: staff cache read failed: %v", err)
	}

	staff, err := s.repo.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.SetStaff(ctx, staff, s.catalogTTL); err != nil {
		log.Printf("[service] WARN: staff cache write failed: %v", err)
	}
	return staff, nil
}

func (s *Service) GetStaff(ctx context.Context, id string) (domain.Staff, error) {
	staff, err := s.repo.GetStaffByID(ctx, id)
	if err != nil {
		return domain.Staff{}, err
	}
	return *staff, nil
}

func (s *Service) CreateStaff(ctx context.Context, req domain.StaffCreateRequest) (domain.Staff, error) {
	if err := requireManager(ctx); err != nil {
		return domain.Staff{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Staff{}, fmt.Errorf("staff name required: %w", store.ErrInvalidInput)
	}
	if req.CommissionPercentage < 0 || req.CommissionPercentage > 100 {
		return domain.Staff{}, fmt.Errorf("commission percentage must be between 0 and 100: %w", store.ErrInvalidInput)
	}
	if req.Email != "" && !validEmail(req.Email) {
		return domain.Staff{}, fmt.Errorf("malformed email: %w", store.ErrInvalidInput)
	}
	if req.Phone != "" && !validPhone(req.Phone) {
		return domain.Staff{}, fmt.Errorf("malformed phone number: %w", store.ErrInvalidInput)
	}
	status := req.Status
	if status == "" {
		status = domain.StaffStatusActive
	}
	if status != domain.StaffStatusActive && status != domain.StaffStatusInactive && status != domain.StaffStatusSuspended {
		return domain.Staff{}, fmt.Errorf("unknown staff status %q: %w", status, store.ErrInvalidInput)
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = "staff"
	}

	now := time.Now().UTC()
	created, err := s.repo.CreateStaff(ctx, domain.Staff{
		ID:                   uuid.NewString(),
		Name:                 req.Name,
		CommissionPercentage: req.CommissionPercentage,
		Phone:                strings.TrimSpace(req.Phone),
		Email:                strings.TrimSpace(req.Email),
		Role:                 role,
		HireDate:             now.Format("2006-01-02"),
		Status:               status,
		CreatedAt:            now,
	})
	if err != nil {
		return domain.Staff{}, err
	}

	s.invalidateStaff(ctx)
	return *created, nil
}

func (s *Service) UpdateStaff(ctx context.Context, id string, req domain.StaffUpdateRequest) (domain.Staff, error) {
	if err := requireManager(ctx); err != nil {
		return domain.Staff{}, err
	}
	if strings.TrimSpace(id) == "" {
		return domain.Staff{}, fmt.Errorf("staff id required: %w", store.ErrInvalidInput)
	}

	existing, err := s.repo.GetStaffByID(ctx, id)
	if err != nil {
		return domain.Staff{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Staff{}, fmt.Errorf("staff name required: %w", store.ErrInvalidInput)
		}
		updated.Name = name
	}
	if req.CommissionPercentage != nil {
		if *req.CommissionPercentage < 0 || *req.CommissionPercentage > 100 {
			return domain.Staff{}, fmt.Errorf("commission percentage must be between 0 and 100: %w", store.ErrInvalidInput)
		}
		updated.CommissionPercentage = *req.CommissionPercentage
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" && !validEmail(email) {
			return domain.Staff{}, fmt.Errorf("malformed email: %w", store.ErrInvalidInput)
		}
		updated.Email = email
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone != "" && !validPhone(phone) {
			return domain.Staff{}, fmt.Errorf("malformed phone number: %w", store.ErrInvalidInput)
		}
		updated.Phone = phone
	}
	if req.Status != nil {
		status := *req.Status
		if status != domain.StaffStatusActive && status != domain.StaffStatusInactive && status != domain.StaffStatusSuspended {
			return domain.Staff{}, fmt.Errorf("unknown staff status %q: %w", status, store.ErrInvalidInput)
		}
		updated.Status = status
	}

	saved, err := s.repo.UpdateStaff(ctx, updated)
	if err != nil {
		return domain.Staff{}, err
	}

	s.invalidateStaff(ctx)
	return *saved, nil
}

// Checkout rebuilds the submitted cart server-side, validates the payment and
// persists the finalized sale in a single store call. The transient cart is
// request-scoped, so its state is discarded by construction.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
	if len(req.Items) == 0 {
		return domain.CheckoutResponse{}, fmt.Errorf("cart is empty: %w", store.ErrInvalidInput)
	}
	if !domain.IsValidPaymentMode(req.PaymentMode) {
		return domain.CheckoutResponse{}, fmt.Errorf("unknown payment mode %q: %w", req.PaymentMode, store.ErrInvalidInput)
	}
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return domain.CheckoutResponse{}, fmt.Errorf("discount percent must be between 0 and 100: %w", store.ErrInvalidInput)
	}

	if req.StaffID != "" {
		staff, err := s.repo.GetStaffByID(ctx, req.StaffID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.CheckoutResponse{}, fmt.Errorf("staff member %s not found: %w", req.StaffID, store.ErrInvalidInput)
			}
			return domain.CheckoutResponse{}, err
		}
		if staff.Status != domain.StaffStatusActive {
			return domain.CheckoutResponse{}, fmt.Errorf("staff member %s is not active: %w", staff.Name, store.ErrInvalidInput)
		}
	}

	basket := cart.New()
	seenProducts := make(map[string]bool, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return domain.CheckoutResponse{}, fmt.Errorf("quantity must be at least 1: %w", store.ErrInvalidInput)
		}
		// One line per product: a second entry would overwrite the first
		// line's quantity and price override instead of adding to it.
		if seenProducts[item.ProductID] {
			return domain.CheckoutResponse{}, fmt.Errorf("duplicate product %s in cart: %w", item.ProductID, store.ErrInvalidInput)
		}
		seenProducts[item.ProductID] = true
		product, err := s.repo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.CheckoutResponse{}, fmt.Errorf("product %s not found: %w", item.ProductID, store.ErrInvalidInput)
			}
			return domain.CheckoutResponse{}, err
		}
		if product.Status != domain.ProductStatusActive {
			return domain.CheckoutResponse{}, fmt.Errorf("product %s is not active: %w", product.Name, store.ErrInvalidInput)
		}

		line := basket.AddLine(*product)
		basket.SetQuantity(line.ID, item.Quantity)
		if item.UnitPrice != nil {
			basket.SetUnitPrice(line.ID, *item.UnitPrice)
		}
	}

	seenExpenses := make(map[string]bool, len(req.Expenses))
	for _, exp := range req.Expenses {
		if exp.Quantity < 1 {
			return domain.CheckoutResponse{}, fmt.Errorf("expense quantity must be at least 1: %w", store.ErrInvalidInput)
		}
		if seenExpenses[exp.ExpenseItemID] {
			return domain.CheckoutResponse{}, fmt.Errorf("duplicate expense item %s in cart: %w", exp.ExpenseItemID, store.ErrInvalidInput)
		}
		seenExpenses[exp.ExpenseItemID] = true
		item, err := s.repo.GetExpenseItemByID(ctx, exp.ExpenseItemID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.CheckoutResponse{}, fmt.Errorf("expense item %s not found: %w", exp.ExpenseItemID, store.ErrInvalidInput)
			}
			return domain.CheckoutResponse{}, err
		}
		attached := basket.AddExpense(*item)
		basket.SetExpenseQuantity(attached.ID, exp.Quantity)
	}

	subtotal := basket.Subtotal()
	discountAmount := basket.DiscountAmount(req.DiscountPercent)
	finalTotal := basket.FinalTotal(req.DiscountPercent)
	if finalTotal < 0 {
		return domain.CheckoutResponse{}, fmt.Errorf("total must not be negative: %w", store.ErrInvalidInput)
	}
	change := cart.ChangeDue(req.AmountReceived, finalTotal)
	if change < 0 {
		return domain.CheckoutResponse{}, fmt.Errorf("insufficient payment: received %.2f of %.2f: %w", req.AmountReceived, finalTotal, store.ErrInvalidInput)
	}

	now := time.Now().UTC()
	receipt := "RCP-" + uuid.NewString()
	sale := domain.Sale{
		ID:             uuid.NewString(),
		ReceiptNumber:  receipt,
		Items:          basket.Lines(),
		TotalAmount:    finalTotal,
		Discount:       discountAmount,
		AmountReceived: req.AmountReceived,
		PaymentMode:    req.PaymentMode,
		CustomerInfo:   strings.TrimSpace(req.CustomerInfo),
		StaffID:        req.StaffID,
		Expenses:       basket.Expenses(),
		Status:         domain.SaleStatusCompleted,
		Notes:          strings.TrimSpace(req.Notes),
		CreatedAt:      now,
	}

	created, err := s.repo.CreateSale(ctx, sale)
	if err != nil {
		return domain.CheckoutResponse{}, err
	}

	return domain.CheckoutResponse{
		SaleID:         created.ID,
		ReceiptNumber:  created.ReceiptNumber,
		Subtotal:       subtotal,
		Discount:       discountAmount,
		TotalAmount:    created.TotalAmount,
		ExpenseTotal:   basket.ExpenseTotal(),
		AmountReceived: created.AmountReceived,
		ChangeDue:      change,
		PaymentMode:    created.PaymentMode,
		Status:         created.Status,
		CreatedAt:      created.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *Service) ListSales(ctx context.Context, filter domain.SalesFilter) ([]domain.Sale, error) {
	return s.repo.ListSales(ctx, filter)
}

func (s *Service) GetSale(ctx context.Context, id string) (domain.Sale, error) {
	sale, err := s.repo.GetSaleByID(ctx, id)
	if err != nil {
		return domain.Sale{}, err
	}
	return *sale, nil
}

// parsePeriod accepts a YYYY-MM-DD date or an RFC 3339 timestamp. A date-only
// end bound is extended to the end of that day so the range stays inclusive.
func parsePeriod(value string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		if endOfDay {
			return t.Add(24*time.Hour - time.Nanosecond), nil
		}
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: %w", value, store.ErrInvalidInput)
}

// CalculateCommission sums a staff member's completed sales inside the
// inclusive period and derives the payout amount from the staff commission
// percentage. Nothing is persisted.
func (s *Service) CalculateCommission(ctx context.Context, req domain.CommissionRequest) (domain.CommissionReport, error) {
	staff, err := s.repo.GetStaffByID(ctx, req.StaffID)
	if err != nil {
		return domain.CommissionReport{}, err
	}

	start, err := parsePeriod(req.PeriodStart, false)
	if err != nil {
		return domain.CommissionReport{}, err
	}
	end, err := parsePeriod(req.PeriodEnd, true)
	if err != nil {
		return domain.CommissionReport{}, err
	}
	if end.Before(start) {
		return domain.CommissionReport{}, fmt.Errorf("period end before period start: %w", store.ErrInvalidInput)
	}

	sales, err := s.repo.ListSales(ctx, domain.SalesFilter{
		StaffID: staff.ID,
		Status:  domain.SaleStatusCompleted,
		From:    &start,
		To:      &end,
	})
	if err != nil {
		return domain.CommissionReport{}, err
	}

	totalSales := 0.0
	for _, sale := range sales {
		totalSales += sale.TotalAmount
	}
	commissionAmount := totalSales * staff.CommissionPercentage / 100

	average := 0.0
	if len(sales) > 0 {
		average = totalSales / float64(len(sales))
	}

	return domain.CommissionReport{
		StaffID:              staff.ID,
		StaffName:            staff.Name,
		PeriodStart:          req.PeriodStart,
		PeriodEnd:            req.PeriodEnd,
		TotalSales:           totalSales,
		CommissionPercentage: staff.CommissionPercentage,
		CommissionAmount:     commissionAmount,
		TransactionCount:     len(sales),
		AverageSale:          average,
	}, nil
}

func (s *Service) CreatePayout(ctx context.Context, req domain.CommissionRequest) (domain.CommissionPayout, error) {
	if err := requireManager(ctx); err != nil {
		return domain.CommissionPayout{}, err
	}

	report, err := s.CalculateCommission(ctx, req)
	if err != nil {
		return domain.CommissionPayout{}, err
	}

	start, _ := parsePeriod(req.PeriodStart, false)
	end, _ := parsePeriod(req.PeriodEnd, true)

	created, err := s.repo.CreatePayout(ctx, domain.CommissionPayout{
		ID:               uuid.NewString(),
		StaffID:          report.StaffID,
		PeriodStart:      start,
		PeriodEnd:        end,
		TotalSales:       report.TotalSales,
		CommissionAmount: report.CommissionAmount,
		Status:           domain.PayoutStatusPending,
		Notes:            strings.TrimSpace(req.Notes),
		CreatedAt:        time.Now().UTC(),
	})
	if err != nil {
		return domain.CommissionPayout{}, err
	}
	return *created, nil
}

// UpdatePayoutStatus transitions a payout's status. The only legal edges are
// Pending->Paid and Pending->Cancelled; Paid and Cancelled are terminal.
// Amounts are never recomputed.
func (s *Service) UpdatePayoutStatus(ctx context.Context, payoutID string, status string) (domain.CommissionPayout, error) {
	if err := requireManager(ctx); err != nil {
		return domain.CommissionPayout{}, err
	}
	if !domain.IsValidPayoutStatus(status) {
		return domain.CommissionPayout{}, fmt.Errorf("unknown payout status %q: %w", status, store.ErrInvalidInput)
	}

	payout, err := s.repo.GetPayoutByID(ctx, payoutID)
	if err != nil {
		return domain.CommissionPayout{}, err
	}

	if payout.Status != domain.PayoutStatusPending || status == domain.PayoutStatusPending {
		return domain.CommissionPayout{}, fmt.Errorf("cannot transition payout from %s to %s: %w", payout.Status, status, store.ErrInvalidTransition)
	}

	updated, err := s.repo.SetPayoutStatus(ctx, payoutID, status, time.Now().UTC())
	if err != nil {
		return domain.CommissionPayout{}, err
	}
	return *updated, nil
}

func (s *Service) ListPayouts(ctx context.Context, filter domain.PayoutFilter) ([]domain.CommissionPayout, error) {
	return s.repo.ListPayouts(ctx, filter)
}

func (s *Service) ListBusinesses(ctx context.Context) ([]domain.Business, error) {
	if err := requireSuperAdmin(ctx); err != nil {
		return nil, err
	}
	return s.repo.ListBusinesses(ctx)
}

func (s *Service) CreateBusiness(ctx context.Context, req domain.BusinessCreateRequest) (domain.Business, error) {
	if err := requireSuperAdmin(ctx); err != nil {
		return domain.Business{}, err
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.OwnerName) == "" {
		return domain.Business{}, fmt.Errorf("business name and owner required: %w", store.ErrInvalidInput)
	}
	if req.Email != "" && !validEmail(req.Email) {
		return domain.Business{}, fmt.Errorf("malformed email: %w", store.ErrInvalidInput)
	}

	created, err := s.repo.CreateBusiness(ctx, domain.Business{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(req.Name),
		OwnerName:          strings.TrimSpace(req.OwnerName),
		Phone:              strings.TrimSpace(req.Phone),
		Email:              strings.TrimSpace(req.Email),
		Address:            strings.TrimSpace(req.Address),
		RegistrationNumber: strings.TrimSpace(req.RegistrationNumber),
		Status:             domain.StaffStatusActive,
		CreatedAt:          time.Now().UTC(),
	})
	if err != nil {
		return domain.Business{}, err
	}
	return *created, nil
}

func (s *Service) invalidateProducts(ctx context.Context) {
	if err := s.catalog.InvalidateProducts(ctx); err != nil {
		log.Printf("[service] WARN: product cache invalidation failed: %v", err)
	}
}

func (s *Service) invalidateStaff(ctx context.Context) {
	if err := s.catalog.InvalidateStaff(ctx); err != nil {
		log.Printf("[service] WARN: staff cache invalidation failed: %v", err)
	}
}
