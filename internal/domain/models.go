package domain

import "time"

// Status values come from the upstream content store's select-dropdown fields
// and are stored verbatim, capitalized.
const (
	StaffStatusActive    = "Active"
	StaffStatusInactive  = "Inactive"
	StaffStatusSuspended = "Suspended"
)

const (
	ProductStatusActive       = "Active"
	ProductStatusInactive     = "Inactive"
	ProductStatusDiscontinued = "Discontinued"
)

const (
	CategoryStatusActive   = "Active"
	CategoryStatusInactive = "Inactive"
)

const (
	SaleStatusPending   = "Pending"
	SaleStatusCompleted = "Completed"
	SaleStatusCancelled = "Cancelled"
	SaleStatusRefunded  = "Refunded"
)

const (
	PaymentModeCash         = "Cash"
	PaymentModeCard         = "Card"
	PaymentModeDigital      = "Digital"
	PaymentModeBankTransfer = "Bank Transfer"
	PaymentModeCredit       = "Credit"
)

const (
	PayoutStatusPending   = "Pending"
	PayoutStatusPaid      = "Paid"
	PayoutStatusCancelled = "Cancelled"
)

const (
	RoleAdmin      = "admin"
	RoleStaff      = "staff"
	RoleManager    = "manager"
	RoleSuperAdmin = "super_admin"
)

func IsValidPaymentMode(mode string) bool {
	switch mode {
	case PaymentModeCash, PaymentModeCard, PaymentModeDigital, PaymentModeBankTransfer, PaymentModeCredit:
		return true
	}
	return false
}

func IsValidPayoutStatus(status string) bool {
	switch status {
	case PayoutStatusPending, PayoutStatusPaid, PayoutStatusCancelled:
		return true
	}
	return false
}

type Staff struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	CommissionPercentage float64   `json:"commission_percentage"`
	Phone                string    `json:"phone,omitempty"`
	Email                string    `json:"email,omitempty"`
	Role                 string    `json:"role,omitempty"`
	HireDate             string    `json:"hire_date,omitempty"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
}

type ProductCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	CategoryID   string    `json:"category_id,omitempty"`
	SKU          string    `json:"sku,omitempty"`
	SellingPrice float64   `json:"selling_price"`
	CostPrice    float64   `json:"cost_price"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type ExpenseCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}

type ExpenseItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	CategoryID  string  `json:"category_id,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status"`
}

// CartLine is one product's quantity/price entry within a cart. The unit
// price is copied from the product at add time and may be overridden per
// line; TotalPrice is recomputed on every quantity or price change.
type CartLine struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// AttachedExpense is a cost item consumed to deliver a sale (e.g. supplies
// used for a service). Its unit price is copied at attach time.
type AttachedExpense struct {
	ID            string  `json:"id"`
	ExpenseItemID string  `json:"expense_item_id"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	TotalCost     float64 `json:"total_cost"`
}

// Sale is immutable once created except for status transitions. Discount is
// stored as a currency amount, already applied into TotalAmount.
type Sale struct {
	ID             string            `json:"id"`
	ReceiptNumber  string            `json:"receipt_number"`
	Items          []CartLine        `json:"items"`
	TotalAmount    float64           `json:"total_amount"`
	Discount       float64           `json:"discount"`
	AmountReceived float64           `json:"amount_received"`
	PaymentMode    string            `json:"payment_mode"`
	CustomerInfo   string            `json:"customer_info,omitempty"`
	StaffID        string            `json:"staff_id,omitempty"`
	Expenses       []AttachedExpense `json:"expenses,omitempty"`
	Status         string            `json:"status"`
	Notes          string            `json:"notes,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// CommissionPayout records commission owed to a staff member for a date
// range. Amounts are fixed at creation; only the status may change, and only
// along Pending->Paid or Pending->Cancelled.
type CommissionPayout struct {
	ID               string    `json:"id"`
	StaffID          string    `json:"staff_id"`
	PeriodStart      time.Time `json:"period_start"`
	PeriodEnd        time.Time `json:"period_end"`
	TotalSales       float64   `json:"total_sales"`
	CommissionAmount float64   `json:"commission_amount"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type Business struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	OwnerName          string    `json:"owner_name"`
	Phone              string    `json:"phone,omitempty"`
	Email              string    `json:"email,omitempty"`
	Address            string    `json:"address,omitempty"`
	RegistrationNumber string    `json:"registration_number,omitempty"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	StaffID      string
	Active       bool
	CreatedAt    time.Time
}

type Actor struct {
	ID       string
	Username string
	Role     string
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type UserCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	StaffID  string `json:"staff_id,omitempty"`
}

type UserView struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	StaffID   string    `json:"staff_id,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type StaffCreateRequest struct {
	Name                 string  `json:"name"`
	CommissionPercentage float64 `json:"commission_percentage"`
	Phone                string  `json:"phone,omitempty"`
	Email                string  `json:"email,omitempty"`
	Role                 string  `json:"role,omitempty"`
	Status               string  `json:"status"`
}

type StaffUpdateRequest struct {
	Name                 *string  `json:"name,omitempty"`
	CommissionPercentage *float64 `json:"commission_percentage,omitempty"`
	Phone                *string  `json:"phone,omitempty"`
	Email                *string  `json:"email,omitempty"`
	Status               *string  `json:"status,omitempty"`
}

type ProductCreateRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	CategoryID   string  `json:"category_id,omitempty"`
	SKU          string  `json:"sku,omitempty"`
	SellingPrice float64 `json:"selling_price"`
	CostPrice    float64 `json:"cost_price"`
	Status       string  `json:"status"`
}

type ProductUpdateRequest struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	CategoryID   *string  `json:"category_id,omitempty"`
	SellingPrice *float64 `json:"selling_price,omitempty"`
	CostPrice    *float64 `json:"cost_price,omitempty"`
	Status       *string  `json:"status,omitempty"`
}

type CategoryCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ExpenseItemCreateRequest struct {
	Name        string  `json:"name"`
	CategoryID  string  `json:"category_id,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	Description string  `json:"description,omitempty"`
}

type BusinessCreateRequest struct {
	Name               string `json:"name"`
	OwnerName          string `json:"owner_name"`
	Phone              string `json:"phone,omitempty"`
	Email              string `json:"email,omitempty"`
	Address            string `json:"address,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
}

// CheckoutItem is one submitted cart line. UnitPrice, when set, overrides the
// product's selling price (manual per-line discounting).
type CheckoutItem struct {
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	UnitPrice *float64 `json:"unit_price,omitempty"`
}

type CheckoutExpense struct {
	ExpenseItemID string `json:"expense_item_id"`
	Quantity      int    `json:"quantity"`
}

type CheckoutRequest struct {
	Items           []CheckoutItem    `json:"items"`
	Expenses        []CheckoutExpense `json:"expenses,omitempty"`
	DiscountPercent float64           `json:"discount_percent"`
	AmountReceived  float64           `json:"amount_received"`
	PaymentMode     string            `json:"payment_mode"`
	StaffID         string            `json:"staff_id,omitempty"`
	CustomerInfo    string            `json:"customer_info,omitempty"`
	Notes           string            `json:"notes,omitempty"`
}

type CheckoutResponse struct {
	SaleID         string  `json:"sale_id"`
	ReceiptNumber  string  `json:"receipt_number"`
	Subtotal       float64 `json:"subtotal"`
	Discount       float64 `json:"discount"`
	TotalAmount    float64 `json:"total_amount"`
	ExpenseTotal   float64 `json:"expense_total"`
	AmountReceived float64 `json:"amount_received"`
	ChangeDue      float64 `json:"change_due"`
	PaymentMode    string  `json:"payment_mode"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
}

// SalesFilter narrows sale listings. Staff, status and payment mode are
// equality filters the content store can evaluate upstream; the date range is
// evaluated wherever the backing store supports it.
type SalesFilter struct {
	StaffID     string
	Status      string
	PaymentMode string
	From        *time.Time
	To          *time.Time
}

type PayoutFilter struct {
	StaffID string
	Status  string
}

type CommissionRequest struct {
	StaffID     string `json:"staff_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Notes       string `json:"notes,omitempty"`
}

type CommissionReport struct {
	StaffID              string  `json:"staff_id"`
	StaffName            string  `json:"staff_name"`
	PeriodStart          string  `json:"period_start"`
	PeriodEnd            string  `json:"period_end"`
	TotalSales           float64 `json:"total_sales"`
	CommissionPercentage float64 `json:"commission_percentage"`
	CommissionAmount     float64 `json:"commission_amount"`
	TransactionCount     int     `json:"transaction_count"`
	AverageSale          float64 `json:"average_sale"`
}

type TopProduct struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	QuantitySold int     `json:"quantity_sold"`
	TotalRevenue float64 `json:"total_revenue"`
}

type StaffSales struct {
	StaffID          string  `json:"staff_id"`
	StaffName        string  `json:"staff_name"`
	TotalSales       float64 `json:"total_sales"`
	CommissionEarned float64 `json:"commission_earned"`
}

type DailySales struct {
	Date         string  `json:"date"`
	Sales        float64 `json:"sales"`
	Transactions int     `json:"transactions"`
}

type SalesReport struct {
	TotalSales         float64      `json:"total_sales"`
	TotalTransactions  int          `json:"total_transactions"`
	AverageTransaction float64      `json:"average_transaction"`
	TopProducts        []TopProduct `json:"top_products"`
	SalesByStaff       []StaffSales `json:"sales_by_staff"`
	DailySales         []DailySales `json:"daily_sales"`
}

type DashboardStats struct {
	TodayRevenue       float64 `json:"today_revenue"`
	TodayTransactions  int     `json:"today_transactions"`
	TotalRevenue       float64 `json:"total_revenue"`
	TotalTransactions  int     `json:"total_transactions"`
	AverageTransaction float64 `json:"average_transaction"`
	ActiveStaff        int     `json:"active_staff"`
	TotalStaff         int     `json:"total_staff"`
}
