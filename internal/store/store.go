package store

import (
	"context"
	"errors"
	"time"

	"salonpos/backend/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("conflict")
)

// Repository is the persistence boundary. Three implementations exist: an
// in-memory store for tests and dev mode, a postgres store, and a client for
// the upstream headless content store. Sale and CommissionPayout writes are
// single calls with no multi-collection transactions, so a failed write
// leaves no partial record.
type Repository interface {
	ListStaff(ctx context.Context) ([]domain.Staff, error)
	GetStaffByID(ctx context.Context, id string) (*domain.Staff, error)
	CreateStaff(ctx context.Context, staff domain.Staff) (*domain.Staff, error)
	UpdateStaff(ctx context.Context, staff domain.Staff) (*domain.Staff, error)

	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)

	ListProductCategories(ctx context.Context) ([]domain.ProductCategory, error)
	CreateProductCategory(ctx context.Context, category domain.ProductCategory) (*domain.ProductCategory, error)

	ListExpenseItems(ctx context.Context) ([]domain.ExpenseItem, error)
	GetExpenseItemByID(ctx context.Context, id string) (*domain.ExpenseItem, error)
	CreateExpenseItem(ctx context.Context, item domain.ExpenseItem) (*domain.ExpenseItem, error)

	ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error)

	CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error)
	GetSaleByID(ctx context.Context, id string) (*domain.Sale, error)
	// ListSales returns sales newest first. Implementations evaluate the
	// date range wherever their backend allows: postgres pushes it into the
	// query, the content store only supports equality filters so the range
	// is applied after the fetch.
	ListSales(ctx context.Context, filter domain.SalesFilter) ([]domain.Sale, error)

	CreatePayout(ctx context.Context, payout domain.CommissionPayout) (*domain.CommissionPayout, error)
	GetPayoutByID(ctx context.Context, id string) (*domain.CommissionPayout, error)
	ListPayouts(ctx context.Context, filter domain.PayoutFilter) ([]domain.CommissionPayout, error)
	// SetPayoutStatus writes the status field only; transition legality is
	// the service's concern.
	SetPayoutStatus(ctx context.Context, id string, status string, at time.Time) (*domain.CommissionPayout, error)

	ListBusinesses(ctx context.Context) ([]domain.Business, error)
	CreateBusiness(ctx context.Context, business domain.Business) (*domain.Business, error)

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, passwordHash string) error
}
