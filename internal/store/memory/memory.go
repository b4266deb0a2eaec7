package memory

import (
	"context"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"salonpos/backend/internal/domain"
	"salonpos/backend/internal/store"
)

// Store is an in-memory Repository used by tests and dev mode. All maps are
// guarded by a single RWMutex; values are copied in and out so callers never
// share memory with the store.
type Store struct {
	mu                sync.RWMutex
	staffByID         map[string]domain.Staff
	productsByID      map[string]domain.Product
	productCategories map[string]domain.ProductCategory
	expenseItemsByID  map[string]domain.ExpenseItem
	expenseCategories map[string]domain.ExpenseCategory
	salesByID         map[string]domain.Sale
	payoutsByID       map[string]domain.CommissionPayout
	businessesByID    map[string]domain.Business
	usersByUsername   map[string]domain.UserAccount
}

func New() *Store {
	return &Store{
		staffByID:         make(map[string]domain.Staff),
		productsByID:      make(map[string]domain.Product),
		productCategories: make(map[string]domain.ProductCategory),
		expenseItemsByID:  make(map[string]domain.ExpenseItem),
		expenseCategories: make(map[string]domain.ExpenseCategory),
		salesByID:         make(map[string]domain.Sale),
		payoutsByID:       make(map[string]domain.CommissionPayout),
		businessesByID:    make(map[string]domain.Business),
		usersByUsername:   make(map[string]domain.UserAccount),
	}
}

// seedUsers builds the initial accounts for dev/demo mode. Credentials are
// read from SEED_ADMIN_PASSWORD and SEED_STAFF_PASSWORD; hardcoded dev
// defaults are used with a warning when unset.
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	staffPwd := envOr("SEED_STAFF_PASSWORD", "staff123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_STAFF_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_STAFF_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, domain.RoleAdmin},
		{"staff", staffPwd, domain.RoleStaff},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			ID:           uuid.NewString(),
			Username:     u.username,
			PasswordHash: string(hash),
			Role:         u.role,
			Active:       true,
			CreatedAt:    now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// NewSeeded returns a store pre-loaded with a small salon catalog, staff
// roster and dev users.
func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC()

	categories := []domain.ProductCategory{
		{ID: "cat-hair", Name: "Hair", Description: "Cuts, color and styling", Status: domain.CategoryStatusActive},
		{ID: "cat-nails", Name: "Nails", Description: "Manicure and pedicure", Status: domain.CategoryStatusActive},
		{ID: "cat-retail", Name: "Retail", Description: "Take-home products", Status: domain.CategoryStatusActive},
	}
	products := []domain.Product{
		{ID: "prod-haircut", Name: "Haircut", CategoryID: "cat-hair", SellingPrice: 25, CostPrice: 5, Status: domain.ProductStatusActive, CreatedAt: now},
		{ID: "prod-color", Name: "Full Color", CategoryID: "cat-hair", SellingPrice: 80, CostPrice: 22, Status: domain.ProductStatusActive, CreatedAt: now},
		{ID: "prod-blowout", Name: "Blowout", CategoryID: "cat-hair", SellingPrice: 35, CostPrice: 6, Status: domain.ProductStatusActive, CreatedAt: now},
		{ID: "prod-manicure", Name: "Manicure", CategoryID: "cat-nails", SellingPrice: 30, CostPrice: 8, Status: domain.ProductStatusActive, CreatedAt: now},
		{ID: "prod-pedicure", Name: "Pedicure", CategoryID: "cat-nails", SellingPrice: 40, CostPrice: 10, Status: domain.ProductStatusActive, CreatedAt: now},
		{ID: "prod-shampoo", Name: "Shampoo 250ml", CategoryID: "cat-retail", SellingPrice: 18, CostPrice: 9, Status: domain.ProductStatusActive, CreatedAt: now},
		{ID: "prod-perm", Name: "Perm", CategoryID: "cat-hair", SellingPrice: 95, CostPrice: 30, Status: domain.ProductStatusInactive, CreatedAt: now},
	}
	staff := []domain.Staff{
		{ID: "staff-amira", Name: "Amira Putri", CommissionPercentage: 10, Phone: "+62 812 5550 1001", Email: "amira@example.com", Role: "Stylist", Status: domain.StaffStatusActive, CreatedAt: now},
		{ID: "staff-bella", Name: "Bella Santoso", CommissionPercentage: 12.5, Phone: "+62 812 5550 1002", Email: "bella@example.com", Role: "Colorist", Status: domain.StaffStatusActive, CreatedAt: now},
		{ID: "staff-citra", Name: "Citra Dewi", CommissionPercentage: 8, Phone: "+62 812 5550 1003", Email: "citra@example.com", Role: "Nail Tech", Status: domain.StaffStatusInactive, CreatedAt: now},
	}
	expenseCategories := []domain.ExpenseCategory{
		{ID: "ecat-supplies", Name: "Supplies", Status: domain.CategoryStatusActive},
		{ID: "ecat-consumables", Name: "Consumables", Status: domain.CategoryStatusActive},
	}
	expenseItems := []domain.ExpenseItem{
		{ID: "exp-color-tube", Name: "Color Tube", CategoryID: "ecat-supplies", UnitPrice: 5, Status: domain.CategoryStatusActive},
		{ID: "exp-foil", Name: "Foil Pack", CategoryID: "ecat-supplies", UnitPrice: 2.5, Status: domain.CategoryStatusActive},
		{ID: "exp-polish", Name: "Nail Polish", CategoryID: "ecat-consumables", UnitPrice: 3, Status: domain.CategoryStatusActive},
	}

	for _, c := range categories {
		s.productCategories[c.ID] = c
	}
	for _, p := range products {
		s.productsByID[p.ID] = p
	}
	for _, st := range staff {
		s.staffByID[st.ID] = st
	}
	for _, c := range expenseCategories {
		s.expenseCategories[c.ID] = c
	}
	for _, e := range expenseItems {
		s.expenseItemsByID[e.ID] = e
	}
	s.usersByUsername = seedUsers()

	return s
}

func (s *Store) ListStaff(_ context.Context) ([]domain.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Staff, 0, len(s.staffByID))
	for _, st := range s.staffByID {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetStaffByID(_ context.Context, id string) (*domain.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.staffByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := st
	return &copied, nil
}

func (s *Store) CreateStaff(_ context.Context, staff domain.Staff) (*domain.Staff, error) {
	if staff.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.staffByID[staff.ID]; exists {
		return nil, store.ErrConflict
	}
	s.staffByID[staff.ID] = staff
	copied := staff
	return &copied, nil
}

func (s *Store) UpdateStaff(_ context.Context, staff domain.Staff) (*domain.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.staffByID[staff.ID]; !ok {
		return nil, store.ErrNotFound
	}
	s.staffByID[staff.ID] = staff
	copied := staff
	return &copied, nil
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.productsByID))
	for _, p := range s.productsByID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.productsByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if product.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.productsByID[product.ID]; exists {
		return nil, store.ErrConflict
	}
	s.productsByID[product.ID] = product
	copied := product
	return &copied, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.productsByID[product.ID]; !ok {
		return nil, store.ErrNotFound
	}
	s.productsByID[product.ID] = product
	copied := product
	return &copied, nil
}

func (s *Store) ListProductCategories(_ context.Context) ([]domain.ProductCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ProductCategory, 0, len(s.productCategories))
	for _, c := range s.productCategories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateProductCategory(_ context.Context, category domain.ProductCategory) (*domain.ProductCategory, error) {
	if category.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if category.Status == "" {
		category.Status = domain.CategoryStatusActive
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.productCategories[category.ID] = category
	copied := category
	return &copied, nil
}

func (s *Store) ListExpenseItems(_ context.Context) ([]domain.ExpenseItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ExpenseItem, 0, len(s.expenseItemsByID))
	for _, e := range s.expenseItemsByID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetExpenseItemByID(_ context.Context, id string) (*domain.ExpenseItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenseItemsByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := e
	return &copied, nil
}

func (s *Store) CreateExpenseItem(_ context.Context, item domain.ExpenseItem) (*domain.ExpenseItem, error) {
	if item.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = domain.CategoryStatusActive
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.expenseItemsByID[item.ID] = item
	copied := item
	return &copied, nil
}

func (s *Store) ListExpenseCategories(_ context.Context) ([]domain.ExpenseCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ExpenseCategory, 0, len(s.expenseCategories))
	for _, c := range s.expenseCategories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateSale(_ context.Context, sale domain.Sale) (*domain.Sale, error) {
	if len(sale.Items) == 0 || sale.ReceiptNumber == "" {
		return nil, store.ErrInvalidInput
	}
	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.salesByID[sale.ID]; exists {
		return nil, store.ErrConflict
	}
	s.salesByID[sale.ID] = cloneSale(sale)
	copied := cloneSale(sale)
	return &copied, nil
}

func (s *Store) GetSaleByID(_ context.Context, id string) (*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sale, ok := s.salesByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := cloneSale(sale)
	return &copied, nil
}

func (s *Store) ListSales(_ context.Context, filter domain.SalesFilter) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Sale, 0, len(s.salesByID))
	for _, sale := range s.salesByID {
		if filter.StaffID != "" && sale.StaffID != filter.StaffID {
			continue
		}
		if filter.Status != "" && sale.Status != filter.Status {
			continue
		}
		if filter.PaymentMode != "" && sale.PaymentMode != filter.PaymentMode {
			continue
		}
		if filter.From != nil && sale.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && sale.CreatedAt.After(*filter.To) {
			continue
		}
		out = append(out, cloneSale(sale))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CreatePayout(_ context.Context, payout domain.CommissionPayout) (*domain.CommissionPayout, error) {
	if payout.StaffID == "" {
		return nil, store.ErrInvalidInput
	}
	if payout.ID == "" {
		payout.ID = uuid.NewString()
	}
	if payout.Status == "" {
		payout.Status = domain.PayoutStatusPending
	}
	if payout.CreatedAt.IsZero() {
		payout.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.payoutsByID[payout.ID] = payout
	copied := payout
	return &copied, nil
}

func (s *Store) GetPayoutByID(_ context.Context, id string) (*domain.CommissionPayout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payout, ok := s.payoutsByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := payout
	return &copied, nil
}

func (s *Store) ListPayouts(_ context.Context, filter domain.PayoutFilter) ([]domain.CommissionPayout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CommissionPayout, 0, len(s.payoutsByID))
	for _, payout := range s.payoutsByID {
		if filter.StaffID != "" && payout.StaffID != filter.StaffID {
			continue
		}
		if filter.Status != "" && payout.Status != filter.Status {
			continue
		}
		out = append(out, payout)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) SetPayoutStatus(_ context.Context, id string, status string, _ time.Time) (*domain.CommissionPayout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payout, ok := s.payoutsByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	payout.Status = status
	s.payoutsByID[id] = payout
	copied := payout
	return &copied, nil
}

func (s *Store) ListBusinesses(_ context.Context) ([]domain.Business, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Business, 0, len(s.businessesByID))
	for _, b := range s.businessesByID {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateBusiness(_ context.Context, business domain.Business) (*domain.Business, error) {
	if business.Name == "" || business.OwnerName == "" {
		return nil, store.ErrInvalidInput
	}
	if business.ID == "" {
		business.ID = uuid.NewString()
	}
	if business.Status == "" {
		business.Status = domain.StaffStatusActive
	}
	if business.CreatedAt.IsZero() {
		business.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.businessesByID[business.ID] = business
	copied := business
	return &copied, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" {
		return store.ErrInvalidInput
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Username = username

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrConflict
	}
	s.usersByUsername[username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, u := range s.usersByUsername {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, passwordHash string) error {
	username = strings.ToLower(strings.TrimSpace(username))

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByUsername[username]
	if !ok {
		return store.ErrNotFound
	}
	user.PasswordHash = passwordHash
	s.usersByUsername[username] = user
	return nil
}

func cloneSale(sale domain.Sale) domain.Sale {
	copied := sale
	copied.Items = make([]domain.CartLine, len(sale.Items))
	copy(copied.Items, sale.Items)
	if sale.Expenses != nil {
		copied.Expenses = make([]domain.AttachedExpense, len(sale.Expenses))
		copy(copied.Expenses, sale.Expenses)
	}
	return copied
}
