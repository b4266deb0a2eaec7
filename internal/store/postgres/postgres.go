package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"salonpos/backend/internal/domain"
	"salonpos/backend/internal/store"
)

// Store is the postgres Repository. Schema migrations are managed outside
// this process; the store assumes the tables exist.
type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListStaff(ctx context.Context) ([]domain.Staff, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, commission_percentage, phone, email, role, hire_date, status, created_at
		FROM staff
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staff := make([]domain.Staff, 0, 32)
	for rows.Next() {
		member, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		staff = append(staff, member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *Store) GetStaffByID(ctx context.Context, id string) (*domain.Staff, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, commission_percentage, phone, email, role, hire_date, status, created_at
		FROM staff
		WHERE id = $1
	`, id)

	member, err := scanStaff(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (s *Store) CreateStaff(ctx context.Context, staff domain.Staff) (*domain.Staff, error) {
	if staff.ID == "" || staff.Name == "" {
		return nil, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staff (id, name, commission_percentage, phone, email, role, hire_date, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, staff.ID, staff.Name, staff.CommissionPercentage, nullIfEmpty(staff.Phone), nullIfEmpty(staff.Email),
		nullIfEmpty(staff.Role), nullIfEmpty(staff.HireDate), staff.Status, staff.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := staff
	return &created, nil
}

func (s *Store) UpdateStaff(ctx context.Context, staff domain.Staff) (*domain.Staff, error) {
	if staff.ID == "" || staff.Name == "" {
		return nil, store.ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE staff
		SET name = $2, commission_percentage = $3, phone = $4, email = $5, role = $6, hire_date = $7, status = $8
		WHERE id = $1
	`, staff.ID, staff.Name, staff.CommissionPercentage, nullIfEmpty(staff.Phone), nullIfEmpty(staff.Email),
		nullIfEmpty(staff.Role), nullIfEmpty(staff.HireDate), staff.Status)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := staff
	return &updated, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, category_id, sku, selling_price, cost_price, status, created_at
		FROM products
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, category_id, sku, selling_price, cost_price, status, created_at
		FROM products
		WHERE id = $1
	`, id)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" {
		return nil, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, category_id, sku, selling_price, cost_price, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, product.ID, product.Name, nullIfEmpty(product.Description), nullIfEmpty(product.CategoryID),
		nullIfEmpty(product.SKU), product.SellingPrice, product.CostPrice, product.Status, product.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" {
		return nil, store.ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, category_id = $4, sku = $5, selling_price = $6, cost_price = $7, status = $8
		WHERE id = $1
	`, product.ID, product.Name, nullIfEmpty(product.Description), nullIfEmpty(product.CategoryID),
		nullIfEmpty(product.SKU), product.SellingPrice, product.CostPrice, product.Status)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := product
	return &updated, nil
}

func (s *Store) ListProductCategories(ctx context.Context) ([]domain.ProductCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, status
		FROM product_categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.ProductCategory, 0, 16)
	for rows.Next() {
		var c domain.ProductCategory
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &c.Status); err != nil {
			return nil, err
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) CreateProductCategory(ctx context.Context, category domain.ProductCategory) (*domain.ProductCategory, error) {
	if category.ID == "" || category.Name == "" {
		return nil, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO product_categories (id, name, description, status)
		VALUES ($1,$2,$3,$4)
	`, category.ID, category.Name, nullIfEmpty(category.Description), category.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := category
	return &created, nil
}

func (s *Store) ListExpenseItems(ctx context.Context) ([]domain.ExpenseItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category_id, unit_price, description, status
		FROM expense_items
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.ExpenseItem, 0, 32)
	for rows.Next() {
		item, err := scanExpenseItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetExpenseItemByID(ctx context.Context, id string) (*domain.ExpenseItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, category_id, unit_price, description, status
		FROM expense_items
		WHERE id = $1
	`, id)

	item, err := scanExpenseItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *Store) CreateExpenseItem(ctx context.Context, item domain.ExpenseItem) (*domain.ExpenseItem, error) {
	if item.ID == "" || item.Name == "" {
		return nil, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expense_items (id, name, category_id, unit_price, description, status)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, item.ID, item.Name, nullIfEmpty(item.CategoryID), item.UnitPrice, nullIfEmpty(item.Description), item.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := item
	return &created, nil
}

func (s *Store) ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, status
		FROM expense_categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.ExpenseCategory, 0, 16)
	for rows.Next() {
		var c domain.ExpenseCategory
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &c.Status); err != nil {
			return nil, err
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	if sale.ID == "" || sale.ReceiptNumber == "" || len(sale.Items) == 0 {
		return nil, store.ErrInvalidInput
	}

	itemsJSON, err := json.Marshal(sale.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal sale items: %w", err)
	}
	expensesJSON, err := json.Marshal(sale.Expenses)
	if err != nil {
		return nil, fmt.Errorf("marshal sale expenses: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sales (id, receipt_number, items, total_amount, discount, amount_received, payment_mode,
			customer_info, staff_id, expenses, status, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, sale.ID, sale.ReceiptNumber, itemsJSON, sale.TotalAmount, sale.Discount, sale.AmountReceived,
		sale.PaymentMode, nullIfEmpty(sale.CustomerInfo), nullIfEmpty(sale.StaffID), expensesJSON,
		sale.Status, nullIfEmpty(sale.Notes), sale.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := sale
	return &created, nil
}

func (s *Store) GetSaleByID(ctx context.Context, id string) (*domain.Sale, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, receipt_number, items, total_amount, discount, amount_received, payment_mode,
			customer_info, staff_id, expenses, status, notes, created_at
		FROM sales
		WHERE id = $1
	`, id)

	sale, err := scanSale(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// ListSales pushes every filter, including the date range, into the query.
func (s *Store) ListSales(ctx context.Context, filter domain.SalesFilter) ([]domain.Sale, error) {
	conditions := make([]string, 0, 5)
	args := make([]any, 0, 5)

	appendCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.StaffID != "" {
		appendCondition("staff_id = $%d", filter.StaffID)
	}
	if filter.Status != "" {
		appendCondition("status = $%d", filter.Status)
	}
	if filter.PaymentMode != "" {
		appendCondition("payment_mode = $%d", filter.PaymentMode)
	}
	if filter.From != nil {
		appendCondition("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		appendCondition("created_at <= $%d", *filter.To)
	}

	query := `
		SELECT id, receipt_number, items, total_amount, discount, amount_received, payment_mode,
			customer_info, staff_id, expenses, status, notes, created_at
		FROM sales`
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0, 64)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *Store) CreatePayout(ctx context.Context, payout domain.CommissionPayout) (*domain.CommissionPayout, error) {
	if payout.ID == "" || payout.StaffID == "" {
		return nil, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO commission_payouts (id, staff_id, period_start, period_end, total_sales, commission_amount, status, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, payout.ID, payout.StaffID, payout.PeriodStart, payout.PeriodEnd, payout.TotalSales,
		payout.CommissionAmount, payout.Status, nullIfEmpty(payout.Notes), payout.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := payout
	return &created, nil
}

func (s *Store) GetPayoutByID(ctx context.Context, id string) (*domain.CommissionPayout, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, staff_id, period_start, period_end, total_sales, commission_amount, status, notes, created_at
		FROM commission_payouts
		WHERE id = $1
	`, id)

	payout, err := scanPayout(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &payout, nil
}

func (s *Store) ListPayouts(ctx context.Context, filter domain.PayoutFilter) ([]domain.CommissionPayout, error) {
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 2)

	if filter.StaffID != "" {
		args = append(args, filter.StaffID)
		conditions = append(conditions, fmt.Sprintf("staff_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `
		SELECT id, staff_id, period_start, period_end, total_sales, commission_amount, status, notes, created_at
		FROM commission_payouts`
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payouts := make([]domain.CommissionPayout, 0, 32)
	for rows.Next() {
		payout, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, payout)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payouts, nil
}

func (s *Store) SetPayoutStatus(ctx context.Context, id string, status string, at time.Time) (*domain.CommissionPayout, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE commission_payouts
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, id, status, at)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	return s.GetPayoutByID(ctx, id)
}

func (s *Store) ListBusinesses(ctx context.Context) ([]domain.Business, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, owner_name, phone, email, address, registration_number, status, created_at
		FROM businesses
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	businesses := make([]domain.Business, 0, 8)
	for rows.Next() {
		var b domain.Business
		var phone, email, address, registration sql.NullString
		if err := rows.Scan(&b.ID, &b.Name, &b.OwnerName, &phone, &email, &address, &registration, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Phone = phone.String
		b.Email = email.String
		b.Address = address.String
		b.RegistrationNumber = registration.String
		b.CreatedAt = b.CreatedAt.UTC()
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return businesses, nil
}

func (s *Store) CreateBusiness(ctx context.Context, business domain.Business) (*domain.Business, error) {
	if business.ID == "" || business.Name == "" || business.OwnerName == "" {
		return nil, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO businesses (id, name, owner_name, phone, email, address, registration_number, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, business.ID, business.Name, business.OwnerName, nullIfEmpty(business.Phone), nullIfEmpty(business.Email),
		nullIfEmpty(business.Address), nullIfEmpty(business.RegistrationNumber), business.Status, business.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := business
	return &created, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	if user.Username == "" {
		return store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role, staff_id, active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, user.ID, user.Username, user.PasswordHash, user.Role, nullIfEmpty(user.StaffID), user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, password_hash, role, staff_id, active, created_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var u domain.UserAccount
		var staffID sql.NullString
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &staffID, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.StaffID = staffID.String
		u.CreatedAt = u.CreatedAt.UTC()
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $2
		WHERE username = $1
	`, username, passwordHash)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStaff(row rowScanner) (domain.Staff, error) {
	var member domain.Staff
	var phone, email, role, hireDate sql.NullString
	err := row.Scan(&member.ID, &member.Name, &member.CommissionPercentage, &phone, &email, &role, &hireDate, &member.Status, &member.CreatedAt)
	if err != nil {
		return domain.Staff{}, err
	}
	member.Phone = phone.String
	member.Email = email.String
	member.Role = role.String
	member.HireDate = hireDate.String
	member.CreatedAt = member.CreatedAt.UTC()
	return member, nil
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var product domain.Product
	var description, categoryID, sku sql.NullString
	err := row.Scan(&product.ID, &product.Name, &description, &categoryID, &sku,
		&product.SellingPrice, &product.CostPrice, &product.Status, &product.CreatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	product.Description = description.String
	product.CategoryID = categoryID.String
	product.SKU = sku.String
	product.CreatedAt = product.CreatedAt.UTC()
	return product, nil
}

func scanExpenseItem(row rowScanner) (domain.ExpenseItem, error) {
	var item domain.ExpenseItem
	var categoryID, description sql.NullString
	err := row.Scan(&item.ID, &item.Name, &categoryID, &item.UnitPrice, &description, &item.Status)
	if err != nil {
		return domain.ExpenseItem{}, err
	}
	item.CategoryID = categoryID.String
	item.Description = description.String
	return item, nil
}

func scanSale(row rowScanner) (domain.Sale, error) {
	var sale domain.Sale
	var itemsJSON, expensesJSON []byte
	var customerInfo, staffID, notes sql.NullString
	err := row.Scan(&sale.ID, &sale.ReceiptNumber, &itemsJSON, &sale.TotalAmount, &sale.Discount,
		&sale.AmountReceived, &sale.PaymentMode, &customerInfo, &staffID, &expensesJSON,
		&sale.Status, &notes, &sale.CreatedAt)
	if err != nil {
		return domain.Sale{}, err
	}
	if err := json.Unmarshal(itemsJSON, &sale.Items); err != nil {
		return domain.Sale{}, fmt.Errorf("unmarshal sale items: %w", err)
	}
	if len(expensesJSON) > 0 {
		if err := json.Unmarshal(expensesJSON, &sale.Expenses); err != nil {
			return domain.Sale{}, fmt.Errorf("unmarshal sale expenses: %w", err)
		}
	}
	sale.CustomerInfo = customerInfo.String
	sale.StaffID = staffID.String
	sale.Notes = notes.String
	sale.CreatedAt = sale.CreatedAt.UTC()
	return sale, nil
}

func scanPayout(row rowScanner) (domain.CommissionPayout, error) {
	var payout domain.CommissionPayout
	var notes sql.NullString
	err := row.Scan(&payout.ID, &payout.StaffID, &payout.PeriodStart, &payout.PeriodEnd,
		&payout.TotalSales, &payout.CommissionAmount, &payout.Status, &notes, &payout.CreatedAt)
	if err != nil {
		return domain.CommissionPayout{}, err
	}
	payout.Notes = notes.String
	payout.PeriodStart = payout.PeriodStart.UTC()
	payout.PeriodEnd = payout.PeriodEnd.UTC()
	payout.CreatedAt = payout.CreatedAt.UTC()
	return payout, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func nullIfEmpty(val string) any {
	if val == "" {
		return nil
	}
	return val
}
