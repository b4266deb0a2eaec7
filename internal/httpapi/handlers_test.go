package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"salonpos/backend/internal/cache"
	"salonpos/backend/internal/domain"
	"salonpos/backend/internal/service"
	"salonpos/backend/internal/store/memory"
)

// newTestAPI builds a full API with an in-memory store, real AuthManager and
// real Service so handler tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	repo := memory.NewSeeded()
	svc := service.New(repo, cache.NoopCatalogCache{}, time.Minute)
	auth := NewAuthManager("test-secret-key", time.Hour, repo)

	return New(svc, auth, "*")
}

// mustHashPassword generates a bcrypt hash of the given password or fails the test.
func mustHashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

// loginAs logs in through the handler and returns the bearer token.
func loginAs(t *testing.T, handler http.Handler, username, password string) string {
	t.Helper()

	payload, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login as %s failed: %d %s", username, rec.Code, rec.Body.String())
	}

	var resp domain.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.AccessToken
}

// fetchCSRFToken returns a token accepted by the CSRF middleware.
func fetchCSRFToken(t *testing.T, handler http.Handler) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/csrf-token", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("csrf token fetch failed: %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode csrf body: %v", err)
	}
	return body["csrf_token"]
}

// postJSON issues an authenticated, CSRF-carrying POST and returns the recorder.
func postJSON(t *testing.T, handler http.Handler, path, token, csrf string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", csrf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestHandleLogin_Success(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	token := loginAs(t, handler, "admin", "admin123")
	if token == "" {
		t.Fatalf("expected access token")
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	payload, _ := json.Marshal(map[string]string{
		"username": "admin",
		"password": "wrongpassword",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleLogin_RateLimit(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	// The loginLimiter allows 5 attempts per minute.
	// Fire 6 requests from the same "IP" (httptest uses RemoteAddr "192.0.2.1:1234").
	payload, _ := json.Marshal(map[string]string{
		"username": "admin",
		"password": "badpass",
	})

	var lastCode int
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after 6 attempts, got %d", lastCode)
	}
}

func TestHandleProducts_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleProducts_WithValidToken(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	token := loginAs(t, handler, "admin", "admin123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["products"] == nil {
		t.Fatalf("expected products key in response, got %v", body)
	}
}

func TestHandleCheckout_FullFlow(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	token := loginAs(t, handler, "staff", "staff123")
	csrf := fetchCSRFToken(t, handler)

	rec := postJSON(t, handler, "/api/v1/checkout", token, csrf, domain.CheckoutRequest{
		Items:           []domain.CheckoutItem{{ProductID: "prod-haircut", Quantity: 2}},
		DiscountPercent: 10,
		AmountReceived:  50,
		PaymentMode:     domain.PaymentModeCash,
		StaffID:         "staff-amira",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var resp domain.CheckoutResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode checkout response: %v", err)
	}
	if resp.TotalAmount != 45 || resp.ChangeDue != 5 {
		t.Fatalf("checkout totals wrong: %+v", resp)
	}
	if !strings.HasPrefix(resp.ReceiptNumber, "RCP-") {
		t.Fatalf("expected RCP- receipt, got %s", resp.ReceiptNumber)
	}

	// The sale must be visible on the listing.
	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/sales", nil)
	listReq.Header.Set("Authorization", "Bearer "+token)
	listRec := httptest.NewRecorder()
	handler.ServeHTTP(listRec, listReq)

	if listRec.Code != http.StatusOK {
		t.Fatalf("list sales: %d (body: %s)", listRec.Code, listRec.Body.String())
	}
	var listBody struct {
		Sales []domain.Sale `json:"sales"`
	}
	if err := json.NewDecoder(listRec.Body).Decode(&listBody); err != nil {
		t.Fatalf("decode sales: %v", err)
	}
	if len(listBody.Sales) != 1 || listBody.Sales[0].ReceiptNumber != resp.ReceiptNumber {
		t.Fatalf("sale not listed: %+v", listBody.Sales)
	}
}

func TestHandleCheckout_BadRequest(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	token := loginAs(t, handler, "staff", "staff123")
	csrf := fetchCSRFToken(t, handler)

	rec := postJSON(t, handler, "/api/v1/checkout", token, csrf, domain.CheckoutRequest{
		PaymentMode:    domain.PaymentModeCash,
		AmountReceived: 10,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", rec.Code)
	}
}

func TestHandlePayouts_LifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	adminToken := loginAs(t, handler, "admin", "admin123")
	staffToken := loginAs(t, handler, "staff", "staff123")
	csrf := fetchCSRFToken(t, handler)

	// A completed sale so the payout is non-zero.
	sellRec := postJSON(t, handler, "/api/v1/checkout", staffToken, csrf, domain.CheckoutRequest{
		Items:          []domain.CheckoutItem{{ProductID: "prod-color", Quantity: 1}},
		AmountReceived: 80,
		PaymentMode:    domain.PaymentModeCard,
		StaffID:        "staff-amira",
	})
	if sellRec.Code != http.StatusCreated {
		t.Fatalf("checkout: %d (body: %s)", sellRec.Code, sellRec.Body.String())
	}

	today := time.Now().UTC().Format("2006-01-02")
	commission := domain.CommissionRequest{
		StaffID:     "staff-amira",
		PeriodStart: today,
		PeriodEnd:   today,
	}

	// staff role may not create payouts.
	rec := postJSON(t, handler, "/api/v1/payouts", staffToken, csrf, commission)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff payout create, got %d", rec.Code)
	}

	rec = postJSON(t, handler, "/api/v1/payouts", adminToken, csrf, commission)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var created struct {
		Payout domain.CommissionPayout `json:"payout"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode payout: %v", err)
	}
	if created.Payout.Status != domain.PayoutStatusPending {
		t.Fatalf("expected Pending, got %s", created.Payout.Status)
	}

	statusPath := "/api/v1/payouts/" + created.Payout.ID + "/status"
	rec = postJSON(t, handler, statusPath, adminToken, csrf, map[string]string{"status": domain.PayoutStatusPaid})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 marking paid, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	// Paid is terminal; a second transition is a conflict.
	rec = postJSON(t, handler, statusPath, adminToken, csrf, map[string]string{"status": domain.PayoutStatusCancelled})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for transition from Paid, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleSales_CSVExport(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	token := loginAs(t, handler, "staff", "staff123")
	csrf := fetchCSRFToken(t, handler)

	rec := postJSON(t, handler, "/api/v1/checkout", token, csrf, domain.CheckoutRequest{
		Items:          []domain.CheckoutItem{{ProductID: "prod-haircut", Quantity: 1}},
		AmountReceived: 25,
		PaymentMode:    domain.PaymentModeCash,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout: %d", rec.Code)
	}

	adminToken := loginAs(t, handler, "admin", "admin123")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales?format=csv", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	csvRec := httptest.NewRecorder()
	handler.ServeHTTP(csvRec, req)

	if csvRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", csvRec.Code)
	}
	if ct := csvRec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected text/csv content type, got %q", ct)
	}
	if !strings.HasPrefix(csvRec.Body.String(), "receipt_number,") {
		t.Fatalf("expected csv header row, got %q", csvRec.Body.String())
	}
}

func TestHandleSales_CSVExportRequiresManagerRole(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	staffToken := loginAs(t, handler, "staff", "staff123")

	// Staff may list sales as JSON but not pull the export.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff listing, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sales?format=csv", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff csv export, got %d", rec.Code)
	}
}

func TestHandleUsers_ErrorStatusMapping(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	adminToken := loginAs(t, handler, "admin", "admin123")
	csrf := fetchCSRFToken(t, handler)

	rec := postJSON(t, handler, "/api/v1/users", adminToken, csrf, domain.UserCreateRequest{
		Username: "frontdesk",
		Password: "pass1234",
		Role:     domain.RoleStaff,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, handler, "/api/v1/users", adminToken, csrf, domain.UserCreateRequest{
		Username: "frontdesk",
		Password: "pass1234",
		Role:     domain.RoleStaff,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate username, got %d", rec.Code)
	}

	rec = postJSON(t, handler, "/api/v1/users", adminToken, csrf, domain.UserCreateRequest{
		Username: "ab",
		Password: "pass1234",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short username, got %d", rec.Code)
	}
}

func TestHandleBusinesses_SuperAdminOnly(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	adminToken := loginAs(t, handler, "admin", "admin123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/businesses", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin on businesses, got %d", rec.Code)
	}
}

// TestMustHashPassword verifies that the test helper produces valid bcrypt hashes
// (used to confirm test infrastructure is sound).
func TestMustHashPassword(t *testing.T) {
	hash := mustHashPassword(t, "secret")
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")); err != nil {
		t.Fatalf("hash verification failed: %v", err)
	}
}
