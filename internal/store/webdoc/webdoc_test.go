package webdoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"salonpos/backend/internal/domain"
	"salonpos/backend/internal/store"
)

// fakeContentStore mimics the upstream objects API: equality-only queries,
// 404 on empty result sets, and PATCH by object id.
type fakeContentStore struct {
	mu      sync.Mutex
	objects []object
	queries []map[string]string
	patches map[string]json.RawMessage
}

func (f *fakeContentStore) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /buckets/test-bucket/objects", func(w http.ResponseWriter, r *http.Request) {
		var query map[string]string
		if raw := r.URL.Query().Get("query"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &query); err != nil {
				t.Errorf("bad query param: %v", err)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
		}
		f.mu.Lock()
		f.queries = append(f.queries, query)
		var matched []object
		for _, obj := range f.objects {
			if matchesQuery(obj, query) {
				matched = append(matched, obj)
			}
		}
		f.mu.Unlock()

		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if skip > len(matched) {
			skip = len(matched)
		}
		matched = matched[skip:]
		if limit > 0 && len(matched) > limit {
			matched = matched[:limit]
		}

		if len(matched) == 0 {
			http.Error(w, `{"message":"No objects found"}`, http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(objectsEnvelope{Objects: matched})
	})
	mux.HandleFunc("POST /buckets/test-bucket/objects", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer write-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var obj object
		if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		obj.ID = fmt.Sprintf("store-id-%d", len(f.objects)+1)
		obj.CreatedAt = time.Now().UTC()
		f.objects = append(f.objects, obj)
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(objectEnvelope{Object: obj})
	})
	mux.HandleFunc("PATCH /buckets/test-bucket/objects/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		var payload struct {
			Metadata json.RawMessage `json:"metadata"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.objects {
			if f.objects[i].ID == id {
				f.objects[i].Metadata = payload.Metadata
				if f.patches == nil {
					f.patches = make(map[string]json.RawMessage)
				}
				f.patches[id] = payload.Metadata
				json.NewEncoder(w).Encode(objectEnvelope{Object: f.objects[i]})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	return mux
}

func matchesQuery(obj object, query map[string]string) bool {
	var metadata map[string]any
	_ = json.Unmarshal(obj.Metadata, &metadata)
	for key, want := range query {
		switch {
		case key == "type":
			if obj.Type != want {
				return false
			}
		case key == "slug":
			if obj.Slug != want {
				return false
			}
		case strings.HasPrefix(key, "metadata."):
			field := strings.TrimPrefix(key, "metadata.")
			got, ok := metadata[field].(string)
			if !ok || got != want {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func newTestClient(t *testing.T, fake *fakeContentStore) *Client {
	t.Helper()
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	client, err := New(Config{
		BaseURL:  server.URL,
		Bucket:   "test-bucket",
		ReadKey:  "read-key",
		WriteKey: "write-key",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func saleObject(t *testing.T, id string, staffID string, createdAt time.Time) object {
	t.Helper()
	meta, err := json.Marshal(saleToMetadata(domain.Sale{
		ID:             id,
		ReceiptNumber:  "RCP-" + id,
		Items:          []domain.CartLine{{ID: "l1", ProductID: "prod-haircut", ProductName: "Haircut", Quantity: 1, UnitPrice: 25, TotalPrice: 25}},
		TotalAmount:    25,
		AmountReceived: 25,
		PaymentMode:    domain.PaymentModeCash,
		StaffID:        staffID,
		Status:         domain.SaleStatusCompleted,
		CreatedAt:      createdAt,
	}))
	if err != nil {
		t.Fatalf("marshal sale metadata: %v", err)
	}
	return object{ID: "cs-" + id, Slug: id, Title: "RCP-" + id, Type: typeSales, Metadata: meta, CreatedAt: createdAt}
}

func TestListSalesSendsEqualityFiltersAndAppliesRangeLocally(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	fake := &fakeContentStore{objects: []object{
		saleObject(t, "sale-1", "staff-amira", base.AddDate(0, 0, -3)),
		saleObject(t, "sale-2", "staff-amira", base.AddDate(0, 0, -1)),
		saleObject(t, "sale-3", "staff-amira", base),
	}}
	client := newTestClient(t, fake)

	from := base.AddDate(0, 0, -2)
	sales, err := client.ListSales(context.Background(), domain.SalesFilter{
		StaffID: "staff-amira",
		Status:  domain.SaleStatusCompleted,
		From:    &from,
		To:      &base,
	})
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("expected 2 sales inside range, got %d", len(sales))
	}
	// Newest first.
	if sales[0].ID != "sale-3" || sales[1].ID != "sale-2" {
		t.Fatalf("unexpected order: %s, %s", sales[0].ID, sales[1].ID)
	}
	if len(sales[0].Items) != 1 || sales[0].Items[0].ProductName != "Haircut" {
		t.Fatalf("cart lines did not round-trip: %+v", sales[0].Items)
	}

	fake.mu.Lock()
	lastQuery := fake.queries[len(fake.queries)-1]
	fake.mu.Unlock()
	if lastQuery["metadata.staff_id"] != "staff-amira" || lastQuery["metadata.status"] != domain.SaleStatusCompleted {
		t.Fatalf("expected equality filters in upstream query, got %v", lastQuery)
	}
	if _, ok := lastQuery["metadata.created_at"]; ok {
		t.Fatalf("date range must not be sent as an equality filter")
	}
}

func TestListPagesPastServerLimit(t *testing.T) {
	fake := &fakeContentStore{}
	for i := 0; i < pageLimit+5; i++ {
		meta, err := json.Marshal(productToMetadata(domain.Product{
			SellingPrice: 10,
			Status:       domain.ProductStatusActive,
			CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}))
		if err != nil {
			t.Fatalf("marshal product metadata: %v", err)
		}
		id := fmt.Sprintf("prod-%04d", i)
		fake.objects = append(fake.objects, object{
			ID: "cs-" + id, Slug: id, Title: "Product " + id, Type: typeProducts, Metadata: meta,
		})
	}
	client := newTestClient(t, fake)

	products, err := client.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != pageLimit+5 {
		t.Fatalf("expected %d products across pages, got %d", pageLimit+5, len(products))
	}
}

func TestEmptyResultSetIsNotAnError(t *testing.T) {
	client := newTestClient(t, &fakeContentStore{})

	sales, err := client.ListSales(context.Background(), domain.SalesFilter{})
	if err != nil {
		t.Fatalf("expected empty list, got error: %v", err)
	}
	if len(sales) != 0 {
		t.Fatalf("expected no sales, got %d", len(sales))
	}

	if _, err := client.GetStaffByID(context.Background(), "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing staff, got %v", err)
	}
}

func TestCreateAndFetchStaffRoundTrip(t *testing.T) {
	fake := &fakeContentStore{}
	client := newTestClient(t, fake)

	created, err := client.CreateStaff(context.Background(), domain.Staff{
		ID:                   "staff-amira",
		Name:                 "Amira",
		CommissionPercentage: 12.5,
		Email:                "amira@example.com",
		Status:               domain.StaffStatusActive,
		CreatedAt:            time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if created.ID != "staff-amira" {
		t.Fatalf("expected caller-assigned id to survive, got %s", created.ID)
	}

	fetched, err := client.GetStaffByID(context.Background(), "staff-amira")
	if err != nil {
		t.Fatalf("get staff: %v", err)
	}
	if fetched.Name != "Amira" || fetched.CommissionPercentage != 12.5 {
		t.Fatalf("unexpected staff after round trip: %+v", fetched)
	}
	if !fetched.CreatedAt.Equal(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("created_at did not survive metadata round trip: %v", fetched.CreatedAt)
	}
}

func TestSetPayoutStatusPatchesExistingObject(t *testing.T) {
	fake := &fakeContentStore{}
	client := newTestClient(t, fake)

	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	if _, err := client.CreatePayout(context.Background(), domain.CommissionPayout{
		ID:               "payout-1",
		StaffID:          "staff-amira",
		PeriodStart:      now.AddDate(0, 0, -7),
		PeriodEnd:        now,
		TotalSales:       150,
		CommissionAmount: 15,
		Status:           domain.PayoutStatusPending,
		CreatedAt:        now,
	}); err != nil {
		t.Fatalf("create payout: %v", err)
	}

	updated, err := client.SetPayoutStatus(context.Background(), "payout-1", domain.PayoutStatusPaid, time.Now().UTC())
	if err != nil {
		t.Fatalf("set payout status: %v", err)
	}
	if updated.Status != domain.PayoutStatusPaid {
		t.Fatalf("expected Paid, got %s", updated.Status)
	}
	if updated.CommissionAmount != 15 || updated.TotalSales != 150 {
		t.Fatalf("status change must not touch amounts: %+v", updated)
	}

	fetched, err := client.GetPayoutByID(context.Background(), "payout-1")
	if err != nil {
		t.Fatalf("get payout: %v", err)
	}
	if fetched.Status != domain.PayoutStatusPaid {
		t.Fatalf("patched status not visible on re-fetch, got %s", fetched.Status)
	}
}

func TestWritesRequireWriteKey(t *testing.T) {
	server := httptest.NewServer((&fakeContentStore{}).handler(t))
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL, Bucket: "test-bucket", ReadKey: "read-key"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.CreateProduct(context.Background(), domain.Product{
		ID:           "prod-1",
		Name:         "Haircut",
		SellingPrice: 25,
		Status:       domain.ProductStatusActive,
	})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without write key, got %v", err)
	}
}

func TestUpdateUserPasswordPatchesHashOnly(t *testing.T) {
	fake := &fakeContentStore{}
	client := newTestClient(t, fake)

	if err := client.CreateUser(context.Background(), domain.UserAccount{
		ID:           "user-1",
		Username:     "bella",
		PasswordHash: "plainpass",
		Role:         domain.RoleStaff,
		StaffID:      "staff-bella",
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := client.UpdateUserPassword(context.Background(), "bella", "$2a$10$newhash"); err != nil {
		t.Fatalf("update password: %v", err)
	}

	users, err := client.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].PasswordHash != "$2a$10$newhash" {
		t.Fatalf("expected patched hash, got %s", users[0].PasswordHash)
	}
	if users[0].Role != domain.RoleStaff || users[0].StaffID != "staff-bella" {
		t.Fatalf("patch must keep other fields, got %+v", users[0])
	}
}
