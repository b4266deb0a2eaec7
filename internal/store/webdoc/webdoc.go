// Package webdoc implements the Repository against a hosted headless content
// store. Every record is an object of a fixed type with a typed metadata
// payload; the API supports equality filters only, so date ranges are applied
// after the fetch.
package webdoc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"salonpos/backend/internal/domain"
	"salonpos/backend/internal/store"
)

const defaultBaseURL = "https://api.cosmicjs.com/v3"

const (
	typeStaff             = "staff"
	typeProducts          = "products"
	typeProductCategories = "product-categories"
	typeExpenseItems      = "expense-items"
	typeExpenseCategories = "expense-categories"
	typeSales             = "sales"
	typePayouts           = "commission-payouts"
	typeBusinesses        = "businesses"
	typeUsers             = "users"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	bucket     string
	readKey    string
	writeKey   string
}

type Config struct {
	BaseURL  string
	Bucket   string
	ReadKey  string
	WriteKey string
}

func New(cfg Config) (*Client, error) {
	if cfg.Bucket == "" || cfg.ReadKey == "" {
		return nil, fmt.Errorf("content store bucket and read key required: %w", store.ErrInvalidInput)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		bucket:     cfg.Bucket,
		readKey:    cfg.ReadKey,
		writeKey:   cfg.WriteKey,
	}, nil
}

// object is the store's envelope. Domain IDs travel in the slug so records
// keep the IDs our service generates; the store's own id is only needed for
// patches.
type object struct {
	ID        string          `json:"id,omitempty"`
	Slug      string          `json:"slug"`
	Title     string          `json:"title"`
	Type      string          `json:"type"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
}

type objectsEnvelope struct {
	Objects []object `json:"objects"`
}

type objectEnvelope struct {
	Object object `json:"object"`
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("content store: status %d: %s", e.Status, e.Message)
}

// pageLimit is the store's maximum objects-per-request; listObjects pages
// through with skip offsets so large collections are never truncated.
const pageLimit = 1000

func (c *Client) listObjects(ctx context.Context, objectType string, extraQuery map[string]string) ([]object, error) {
	var all []object
	for skip := 0; ; skip += pageLimit {
		page, err := c.fetchPage(ctx, objectType, extraQuery, skip)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageLimit {
			return all, nil
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, objectType string, extraQuery map[string]string, skip int) ([]object, error) {
	query := map[string]string{"type": objectType}
	for k, v := range extraQuery {
		query[k] = v
	}
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("read_key", c.readKey)
	params.Set("query", string(queryJSON))
	params.Set("limit", strconv.Itoa(pageLimit))
	params.Set("skip", strconv.Itoa(skip))
	params.Set("props", "id,slug,title,type,metadata,created_at")

	endpoint := fmt.Sprintf("%s/buckets/%s/objects?%s", c.baseURL, c.bucket, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The store answers 404 for an empty result set.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var envelope objectsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode objects: %w", err)
	}
	return envelope.Objects, nil
}

func (c *Client) getObjectBySlug(ctx context.Context, objectType string, slug string) (*object, error) {
	objects, err := c.listObjects(ctx, objectType, map[string]string{"slug": slug})
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, store.ErrNotFound
	}
	found := objects[0]
	return &found, nil
}

func (c *Client) createObject(ctx context.Context, objectType string, slug string, title string, metadata any) error {
	if c.writeKey == "" {
		return fmt.Errorf("content store write key not configured: %w", store.ErrInvalidInput)
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(object{
		Slug:     slug,
		Title:    title,
		Type:     objectType,
		Metadata: metadataJSON,
	})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/buckets/%s/objects", c.baseURL, c.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.writeKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return store.ErrConflict
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return readAPIError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) patchObject(ctx context.Context, objectID string, metadata any) error {
	if c.writeKey == "" {
		return fmt.Errorf("content store write key not configured: %w", store.ErrInvalidInput)
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(map[string]json.RawMessage{"metadata": metadataJSON})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/buckets/%s/objects/%s", c.baseURL, c.bucket, objectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.writeKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return store.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var parsed struct {
		Message string `json:"message"`
	}
	message := string(body)
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		message = parsed.Message
	}
	return &apiError{Status: resp.StatusCode, Message: message}
}

// staffMetadata is the typed metadata payload for staff objects. The select
// dropdown values ("Active", "Inactive", "Suspended") are stored verbatim.
type staffMetadata struct {
	CommissionPercentage float64 `json:"commission_percentage"`
	Phone                string  `json:"phone,omitempty"`
	Email                string  `json:"email,omitempty"`
	Role                 string  `json:"role,omitempty"`
	HireDate             string  `json:"hire_date,omitempty"`
	Status               string  `json:"status"`
	CreatedAt            string  `json:"created_at"`
}

func staffFromObject(obj object) (domain.Staff, error) {
	var meta staffMetadata
	if err := json.Unmarshal(obj.Metadata, &meta); err != nil {
		return domain.Staff{}, fmt.Errorf("decode staff %s: %w", obj.Slug, err)
	}
	return domain.Staff{
		ID:                   obj.Slug,
		Name:                 obj.Title,
		CommissionPercentage: meta.CommissionPercentage,
		Phone:                meta.Phone,
		Email:                meta.Email,
		Role:                 meta.Role,
		HireDate:             meta.HireDate,
		Status:               meta.Status,
		CreatedAt:            parseStoredTime(meta.CreatedAt, obj.CreatedAt),
	}, nil
}

func staffToMetadata(staff domain.Staff) staffMetadata {
	return staffMetadata{
		CommissionPercentage: staff.CommissionPercentage,
		Phone:                staff.Phone,
		Email:                staff.Email,
		Role:                 staff.Role,
		HireDate:             staff.HireDate,
		Status:               staff.Status,
		CreatedAt:            staff.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (c *Client) ListStaff(ctx context.Context) ([]domain.Staff, error) {
	objects, err := c.listObjects(ctx, typeStaff, nil)
	if err != nil {
		return nil, err
	}

	staff := make([]domain.Staff, 0, len(objects))
	for _, obj := range objects {
		member, err := staffFromObject(obj)
		if err != nil {
			return nil, err
		}
		staff = append(staff, member)
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].Name < staff[j].Name })
	return staff, nil
}

func (c *Client) GetStaffByID(ctx context.Context, id string) (*domain.Staff, error) {
	obj, err := c.getObjectBySlug(ctx, typeStaff, id)
	if err != nil {
		return nil, err
	}
	member, err := staffFromObject(*obj)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (c *Client) CreateStaff(ctx context.Context, staff domain.Staff) (*domain.Staff, error) {
	if staff.ID == "" || staff.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if err := c.createObject(ctx, typeStaff, staff.ID, staff.Name, staffToMetadata(staff)); err != nil {
		return nil, err
	}
	created := staff
	return &created, nil
}

func (c *Client) UpdateStaff(ctx context.Context, staff domain.Staff) (*domain.Staff, error) {
	obj, err := c.getObjectBySlug(ctx, typeStaff, staff.ID)
	if err != nil {
		return nil, err
	}
	if err := c.patchObject(ctx, obj.ID, staffToMetadata(staff)); err != nil {
		return nil, err
	}
	updated := staff
	return &updated, nil
}

type productMetadata struct {
	Description  string  `json:"description,omitempty"`
	CategoryID   string  `json:"category_id,omitempty"`
	SKU          string  `json:"sku,omitempty"`
	SellingPrice float64 `json:"selling_price"`
	CostPrice    float64 `json:"cost_price"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
}

func productFromObject(obj object) (domain.Product, error) {
	var meta productMetadata
	if err := json.Unmarshal(obj.Metadata, &meta); err != nil {
		return domain.Product{}, fmt.Errorf("decode product %s: %w", obj.Slug, err)
	}
	return domain.Product{
		ID:           obj.Slug,
		Name:         obj.Title,
		Description:  meta.Description,
		CategoryID:   meta.CategoryID,
		SKU:          meta.SKU,
		SellingPrice: meta.SellingPrice,
		CostPrice:    meta.CostPrice,
		Status:       meta.Status,
		CreatedAt:    parseStoredTime(meta.CreatedAt, obj.CreatedAt),
	}, nil
}

func productToMetadata(product domain.Product) productMetadata {
	return productMetadata{
		Description:  product.Description,
		CategoryID:   product.CategoryID,
		SKU:          product.SKU,
		SellingPrice: product.SellingPrice,
		CostPrice:    product.CostPrice,
		Status:       product.Status,
		CreatedAt:    product.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	objects, err := c.listObjects(ctx, typeProducts, nil)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(objects))
	for _, obj := range objects {
		product, err := productFromObject(obj)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (c *Client) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	obj, err := c.getObjectBySlug(ctx, typeProducts, id)
	if err != nil {
		return nil, err
	}
	product, err := productFromObject(*obj)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if err := c.createObject(ctx, typeProducts, product.ID, product.Name, productToMetadata(product)); err != nil {
		return nil, err
	}
	created := product
	return &created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	obj, err := c.getObjectBySlug(ctx, typeProducts, product.ID)
	if err != nil {
		return nil, err
	}
	if err := c.patchObject(ctx, obj.ID, productToMetadata(product)); err != nil {
		return nil, err
	}
	updated := product
	return &updated, nil
}

type categoryMetadata struct {
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}

func (c *Client) ListProductCategories(ctx context.Context) ([]domain.ProductCategory, error) {
	objects, err := c.listObjects(ctx, typeProductCategories, nil)
	if err != nil {
		return nil, err
	}

	categories := make([]domain.ProductCategory, 0, len(objects))
	for _, obj := range objects {
		var meta categoryMetadata
		if err := json.Unmarshal(obj.Metadata, &meta); err != nil {
			return nil, fmt.Errorf("decode category %s: %w", obj.Slug, err)
		}
		categories = append(categories, domain.ProductCategory{
			ID:          obj.Slug,
			Name:        obj.Title,
			Description: meta.Description,
			Status:      meta.Status,
		})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (c *Client) CreateProductCategory(ctx context.Context, category domain.ProductCategory) (*domain.ProductCategory, error) {
	if category.ID == "" || category.Name == "" {
		return nil, store.ErrInvalidInput
	}
	meta := categoryMetadata{Description: category.Description, Status: category.Status}
	if err := c.createObject(ctx, typeProductCategories, category.ID, category.Name, meta); err != nil {
		return nil, err
	}
	created := category
	return &created, nil
}

type expenseItemMetadata struct {
	CategoryID  string  `json:"category_id,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status"`
}

func expenseItemFromObject(obj object) (domain.ExpenseItem, error) {
	var meta expenseItemMetadata
	if err := json.Unmarshal(obj.Metadata, &meta); err != nil {
		return domain.ExpenseItem{}, fmt.Errorf("decode expense item %s: %w", obj.Slug, err)
	}
	return domain.ExpenseItem{
		ID:          obj.Slug,
		Name:        obj.Title,
		CategoryID:  meta.CategoryID,
		UnitPrice:   meta.UnitPrice,
		Description: meta.Description,
		Status:      meta.Status,
	}, nil
}

func (c *Client) ListExpenseItems(ctx context.Context) ([]domain.ExpenseItem, error) {
	objects, err := c.listObjects(ctx, typeExpenseItems, nil)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ExpenseItem, 0, len(objects))
	for _, obj := range objects {
		item, err := expenseItemFromObject(obj)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (c *Client) GetExpenseItemByID(ctx context.Context, id string) (*domain.ExpenseItem, error) {
	obj, err := c.getObjectBySlug(ctx, typeExpenseItems, id)
	if err != nil {
		return nil, err
	}
	item, err := expenseItemFromObject(*obj)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) CreateExpenseItem(ctx context.Context, item domain.ExpenseItem) (*domain.ExpenseItem, error) {
	if item.ID == "" || item.Name == "" {
		return nil, store.ErrInvalidInput
	}
	meta := expenseItemMetadata{
		CategoryID:  item.CategoryID,
		UnitPrice:   item.UnitPrice,
		Description: item.Description,
		Status:      item.Status,
	}
	if err := c.createObject(ctx, typeExpenseItems, item.ID, item.Name, meta); err != nil {
		return nil, err
	}
	created := item
	return &created, nil
}

func (c *Client) ListExpenseCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	objects, err := c.listObjects(ctx, typeExpenseCategories, nil)
	if err != nil {
		return nil, err
	}

	categories := make([]domain.ExpenseCategory, 0, len(objects))
	for _, obj := range objects {
		var meta categoryMetadata
		if err := json.Unmarshal(obj.Metadata, &meta); err != nil {
			return nil, fmt.Errorf("decode expense category %s: %w", obj.Slug, err)
		}
		categories = append(categories, domain.ExpenseCategory{
			ID:          obj.Slug,
			Name:        obj.Title,
			Description: meta.Description,
			Status:      meta.Status,
		})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// saleMetadata keeps cart lines and expenses as typed arrays rather than an
// untyped blob, so a malformed record fails loudly at decode time.
type saleMetadata struct {
	ReceiptNumber  string                   `json:"receipt_number"`
	Items          []domain.CartLine        `json:"items"`
	TotalAmount    float64                  `json:"total_amount"`
	Discount       float64                  `json:"discount"`
	AmountReceived float64                  `json:"amount_received"`
	PaymentMode    string                   `json:"payment_mode"`
	CustomerInfo   string                   `json:"customer_info,omitempty"`
	StaffID        string                   `json:"staff_id,omitempty"`
	Expenses       []domain.AttachedExpense `json:"expenses,omitempty"`
	Status         string                   `json:"status"`
	Notes          string                   `json:"notes,omitempty"`
	CreatedAt      string                   `json:"created_at"`
}

func saleFromObject(obj object) (domain.Sale, error) {
	var meta saleMetadata
	if err := json.Unmarshal(obj.Metadata, &meta); err != nil {
		return domain.Sale{}, fmt.Errorf("decode sale %s: %w", obj.Slug, err)
	}
	return domain.Sale{
		ID:             obj.Slug,
		ReceiptNumber:  meta.ReceiptNumber,
		Items:          meta.Items,
		TotalAmount:    meta.TotalAmount,
		Discount:       meta.Discount,
		AmountReceived: meta.AmountReceived,
		PaymentMode:    meta.PaymentMode,
		CustomerInfo:   meta.CustomerInfo,
		StaffID:        meta.StaffID,
		Expenses:       meta.Expenses,
		Status:         meta.Status,
		Notes:          meta.Notes,
		CreatedAt:      parseStoredTime(meta.CreatedAt, obj.CreatedAt),
	}, nil
}

func saleToMetadata(sale domain.Sale) saleMetadata {
	return saleMetadata{
		ReceiptNumber:  sale.ReceiptNumber,
		Items:          sale.Items,
		TotalAmount:    sale.TotalAmount,
		Discount:       sale.Discount,
		AmountReceived: sale.AmountReceived,
		PaymentMode:    sale.PaymentMode,
		CustomerInfo:   sale.CustomerInfo,
		StaffID:        sale.StaffID,
		Expenses:       sale.Expenses,
		Status:         sale.Status,
		Notes:          sale.Notes,
		CreatedAt:      sale.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (c *Client) CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	if sale.ID == "" || sale.ReceiptNumber == "" || len(sale.Items) == 0 {
		return nil, store.ErrInvalidInput
	}
	if err := c.createObject(ctx, typeSales, sale.ID, sale.ReceiptNumber, saleToMetadata(sale)); err != nil {
		return nil, err
	}
	created := sale
	return &created, nil
}

func (c *Client) GetSaleByID(ctx context.Context, id string) (*domain.Sale, error) {
	obj, err := c.getObjectBySlug(ctx, typeSales, id)
	if err != nil {
		return nil, err
	}
	sale, err := saleFromObject(*obj)
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListSales sends the equality filters upstream and applies the date range
// locally; the store's query language has no range operators.
func (c *Client) ListSales(ctx context.Context, filter domain.SalesFilter) ([]domain.Sale, error) {
	query := map[string]string{}
	if filter.StaffID != "" {
		query["metadata.staff_id"] = filter.StaffID
	}
	if filter.Status != "" {
		query["metadata.status"] = filter.Status
	}
	if filter.PaymentMode != "" {
		query["metadata.payment_mode"] = filter.PaymentMode
	}

	objects, err := c.listObjects(ctx, typeSales, query)
	if err != nil {
		return nil, err
	}

	sales := make([]domain.Sale, 0, len(objects))
	for _, obj := range objects {
		sale, err := saleFromObject(obj)
		if err != nil {
			return nil, err
		}
		if filter.From != nil && sale.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && sale.CreatedAt.After(*filter.To) {
			continue
		}
		sales = append(sales, sale)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].CreatedAt.After(sales[j].CreatedAt) })
	return sales, nil
}

type payoutMetadata struct {
	StaffID          string  `json:"staff_id"`
	PeriodStart      string  `json:"period_start"`
	PeriodEnd        string  `json:"period_end"`
	TotalSales       float64 `json:"total_sales"`
	CommissionAmount float64 `json:"commission_amount"`
	Status           string  `json:"status"`
	Notes            string  `json:"notes,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

func payoutFromObject(obj object) (domain.CommissionPayout, error) {
	var meta payoutMetadata
	if err := json.Unmarshal(obj.Metadata, &meta); err != nil {
		return domain.CommissionPayout{}, fmt.Errorf("decode payout %s: %w", obj.Slug, err)
	}
	return domain.CommissionPayout{
		ID:               obj.Slug,
		StaffID:          meta.StaffID,
		PeriodStart:      parseStoredTime(meta.PeriodStart, time.Time{}),
		PeriodEnd:        parseStoredTime(meta.PeriodEnd, time.Time{}),
		TotalSales:       meta.TotalSales,
		CommissionAmount: meta.CommissionAmount,
		Status:           meta.Status,
		Notes:            meta.Notes,
		CreatedAt:        parseStoredTime(meta.CreatedAt, obj.CreatedAt),
	}, nil
}

func payoutToMetadata(payout domain.CommissionPayout) payoutMetadata {
	return payoutMetadata{
		StaffID:          payout.StaffID,
		PeriodStart:      payout.PeriodStart.UTC().Format(time.RFC3339),
		PeriodEnd:        payout.PeriodEnd.UTC().Format(time.RFC3339),
		TotalSales:       payout.TotalSales,
		CommissionAmount: payout.CommissionAmount,
		Status:           payout.Status,
		Notes:            payout.Notes,
		CreatedAt:        payout.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (c *Client) CreatePayout(ctx context.Context, payout domain.CommissionPayout) (*domain.CommissionPayout, error) {
	if payout.ID == "" || payout.StaffID == "" {
		return nil, store.ErrInvalidInput
	}
	title := fmt.Sprintf("Payout %s", payout.ID)
	if err := c.createObject(ctx, typePayouts, payout.ID, title, payoutToMetadata(payout)); err != nil {
		return nil, err
	}
	created := payout
	return &created, nil
}

func (c *Client) GetPayoutByID(ctx context.Context, id string) (*domain.CommissionPayout, error) {
	obj, err := c.getObjectBySlug(ctx, typePayouts, id)
	if err != nil {
		return nil, err
	}
	payout, err := payoutFromObject(*obj)
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

func (c *Client) ListPayouts(ctx context.Context, filter domain.PayoutFilter) ([]domain.CommissionPayout, error) {
	query := map[string]string{}
	if filter.StaffID != "" {
		query["metadata.staff_id"] = filter.StaffID
	}
	if filter.Status != "" {
		query["metadata.status"] = filter.Status
	}

	objects, err := c.listObjects(ctx, typePayouts, query)
	if err != nil {
		return nil, err
	}

	payouts := make([]domain.CommissionPayout, 0, len(objects))
	for _, obj := range objects {
		payout, err := payoutFromObject(obj)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, payout)
	}
	sort.Slice(payouts, func(i, j int) bool { return payouts[i].CreatedAt.After(payouts[j].CreatedAt) })
	return payouts, nil
}

func (c *Client) SetPayoutStatus(ctx context.Context, id string, status string, _ time.Time) (*domain.CommissionPayout, error) {
	obj, err := c.getObjectBySlug(ctx, typePayouts, id)
	if err != nil {
		return nil, err
	}
	payout, err := payoutFromObject(*obj)
	if err != nil {
		return nil, err
	}
	payout.Status = status
	if err := c.patchObject(ctx, obj.ID, payoutToMetadata(payout)); err != nil {
		return nil, err
	}
	return &payout, nil
}

type businessMetadata struct {
	OwnerName          string `json:"owner_name"`
	Phone              string `json:"phone,omitempty"`
	Email              string `json:"email,omitempty"`
	Address            string `json:"address,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	Status             string `json:"status"`
	CreatedAt          string `json:"created_at"`
}

func (c *Client) ListBusinesses(ctx context.Context) ([]domain.Business, error) {
	objects, err := c.listObjects(ctx, typeBusinesses, nil)
	if err != nil {
		return nil, err
	}

	businesses := make([]domain.Business, 0, len(objects))
	for _, obj := range objects {
		var meta businessMetadata
		if err := json.Unmarshal(obj.Metadata, &meta); err != nil {
			return nil, fmt.Errorf("decode business %s: %w", obj.Slug, err)
		}
		businesses = append(businesses, domain.Business{
			ID:                 obj.Slug,
			Name:               obj.Title,
			OwnerName:          meta.OwnerName,
			Phone:              meta.Phone,
			Email:              meta.Email,
			Address:            meta.Address,
			RegistrationNumber: meta.RegistrationNumber,
			Status:             meta.Status,
			CreatedAt:          parseStoredTime(meta.CreatedAt, obj.CreatedAt),
		})
	}
	sort.Slice(businesses, func(i, j int) bool { return businesses[i].Name < businesses[j].Name })
	return businesses, nil
}

func (c *Client) CreateBusiness(ctx context.Context, business domain.Business) (*domain.Business, error) {
	if business.ID == "" || business.Name == "" || business.OwnerName == "" {
		return nil, store.ErrInvalidInput
	}
	meta := businessMetadata{
		OwnerName:          business.OwnerName,
		Phone:              business.Phone,
		Email:              business.Email,
		Address:            business.Address,
		RegistrationNumber: business.RegistrationNumber,
		Status:             business.Status,
		CreatedAt:          business.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := c.createObject(ctx, typeBusinesses, business.ID, business.Name, meta); err != nil {
		return nil, err
	}
	created := business
	return &created, nil
}

type userMetadata struct {
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
	StaffID      string `json:"staff_id,omitempty"`
	Active       bool   `json:"active"`
	CreatedAt    string `json:"created_at"`
}

func (c *Client) CreateUser(ctx context.Context, user domain.UserAccount) error {
	if user.Username == "" {
		return store.ErrInvalidInput
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	meta := userMetadata{
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		StaffID:      user.StaffID,
		Active:       user.Active,
		CreatedAt:    user.CreatedAt.UTC().Format(time.RFC3339),
	}
	return c.createObject(ctx, typeUsers, user.Username, user.Username, meta)
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	objects, err := c.listObjects(ctx, typeUsers, nil)
	if err != nil {
		return nil, err
	}

	users := make([]domain.UserAccount, 0, len(objects))
	for _, obj := range objects {
		var meta userMetadata
		if err := json.Unmarshal(obj.Metadata, &meta); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", obj.Slug, err)
		}
		users = append(users, domain.UserAccount{
			ID:           obj.ID,
			Username:     obj.Slug,
			PasswordHash: meta.PasswordHash,
			Role:         meta.Role,
			StaffID:      meta.StaffID,
			Active:       meta.Active,
			CreatedAt:    parseStoredTime(meta.CreatedAt, obj.CreatedAt),
		})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (c *Client) UpdateUserPassword(ctx context.Context, username string, passwordHash string) error {
	obj, err := c.getObjectBySlug(ctx, typeUsers, username)
	if err != nil {
		return err
	}
	var meta userMetadata
	if err := json.Unmarshal(obj.Metadata, &meta); err != nil {
		return fmt.Errorf("decode user %s: %w", username, err)
	}
	meta.PasswordHash = passwordHash
	return c.patchObject(ctx, obj.ID, meta)
}

// parseStoredTime reads an RFC 3339 metadata timestamp, falling back to the
// object's own created_at when the field is missing or malformed.
func parseStoredTime(value string, fallback time.Time) time.Time {
	if value != "" {
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t.UTC()
		}
	}
	return fallback.UTC()
}
