package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/slicehaven/storefront-backend/api/middleware"
	cartsvc "github.com/slicehaven/storefront-backend/internal/cart"
	"github.com/slicehaven/storefront-backend/internal/catalog"
	"github.com/slicehaven/storefront-backend/internal/session"
	"github.com/slicehaven/storefront-backend/pkg/config"
	"github.com/slicehaven/storefront-backend/pkg/db/models"
	"github.com/slicehaven/storefront-backend/pkg/enums"
	pkgerrors "github.com/slicehaven/storefront-backend/pkg/errors"
	"github.com/slicehaven/storefront-backend/pkg/security"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func testIssuer(t *testing.T) *security.NonceIssuer {
	t.Helper()
	issuer, err := security.NewNonceIssuer(config.NonceConfig{
		Secret:     "test-secret",
		Issuer:     "slicehaven-storefront",
		TTLMinutes: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return issuer
}

func serve(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	middleware.SessionContext(nil)(handler).ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding response: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestSubmitCartMissingSession(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	handler := SubmitCart(svc, testIssuer(t), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/storefront/cart", strings.NewReader(`{}`))
	rec := serve(handler, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.reconcileCalls != 0 {
		t.Fatal("service must not be touched")
	}
}

func TestSubmitCartMalformedBody(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	handler := SubmitCart(svc, testIssuer(t), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/storefront/cart", strings.NewReader(`{not json`))
	req.Header.Set("X-Storefront-Session", "sess-1")
	rec := serve(handler, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected error envelope: %s", rec.Body.String())
	}
	if svc.reconcileCalls != 0 {
		t.Fatal("service must not be touched")
	}
}

func TestSubmitCartBadNonce(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	handler := SubmitCart(svc, testIssuer(t), nil, nil)

	body := `{"cart_data": "[]", "nonce": "forged"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/storefront/cart", strings.NewReader(body))
	req.Header.Set("X-Storefront-Session", "sess-1")
	rec := serve(handler, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != string(pkgerrors.CodeUnauthorized) {
		t.Fatalf("unexpected error envelope: %s", rec.Body.String())
	}
	if svc.reconcileCalls != 0 {
		t.Fatal("a rejected nonce must leave the cart untouched")
	}
}

func TestSubmitCartNonceForOtherSession(t *testing.T) {
	t.Parallel()

	issuer := testIssuer(t)
	svc := &stubCartService{}
	handler := SubmitCart(svc, issuer, nil, nil)

	nonce, err := issuer.Issue("other-session")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := `{"cart_data": "[]", "nonce": "` + nonce + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/storefront/cart", strings.NewReader(body))
	req.Header.Set("X-Storefront-Session", "sess-1")
	rec := serve(handler, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.reconcileCalls != 0 {
		t.Fatal("service must not be touched")
	}
}

func TestSubmitCartMalformedCartData(t *testing.T) {
	t.Parallel()

	issuer := testIssuer(t)
	svc := &stubCartService{}
	handler := SubmitCart(svc, issuer, nil, nil)

	nonce, err := issuer.Issue("sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := `{"cart_data": "{broken", "nonce": "` + nonce + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/storefront/cart", strings.NewReader(body))
	req.Header.Set("X-Storefront-Session", "sess-1")
	rec := serve(handler, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.reconcileCalls != 0 {
		t.Fatal("service must not be touched")
	}
}

func TestSubmitCartNullCartData(t *testing.T) {
	t.Parallel()

	issuer := testIssuer(t)
	svc := &stubCartService{}
	handler := SubmitCart(svc, issuer, nil, nil)

	nonce, err := issuer.Issue("sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "null" is valid JSON but not a sequence; it must never reach the
	// service and wipe the existing cart.
	body := `{"cart_data": "null", "nonce": "` + nonce + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/storefront/cart", strings.NewReader(body))
	req.Header.Set("X-Storefront-Session", "sess-1")
	rec := serve(handler, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.reconcileCalls != 0 {
		t.Fatal("service must not be touched")
	}
}

func TestSubmitCartHappyPath(t *testing.T) {
	t.Parallel()

	issuer := testIssuer(t)
	svc := &stubCartService{summary: &cartsvc.Summary{
		CartID:      uuid.New(),
		LineCount:   1,
		RedirectURL: "/checkout",
	}}
	handler := SubmitCart(svc, issuer, nil, nil)

	nonce, err := issuer.Issue("sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cartData := `[{"productId": 1, "quantity": 2, "finalPrice": 10.00, "customizations": {"size": {"name": "Large"}}, "clientOnlyField": true}]`
	payload := map[string]string{
		"cart_data":  cartData,
		"order_type": "pickup",
		"nonce":      nonce,
	}
	raw, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/storefront/cart", strings.NewReader(string(raw)))
	req.Header.Set("X-Storefront-Session", "sess-1")
	rec := serve(handler, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.reconcileCalls != 1 {
		t.Fatalf("expected 1 reconcile call, got %d", svc.reconcileCalls)
	}
	if svc.lastInput.Fulfillment != enums.FulfillmentPickup {
		t.Fatalf("unexpected fulfillment: %s", svc.lastInput.Fulfillment)
	}
	if len(svc.lastInput.Lines) != 1 {
		t.Fatalf("unexpected lines: %+v", svc.lastInput.Lines)
	}
	line := svc.lastInput.Lines[0]
	if line.ProductID != 1 || line.Quantity != 2 {
		t.Fatalf("unexpected line: %+v", line)
	}
	if !line.FinalPrice.Valid || !line.FinalPrice.Decimal.Equal(decimal.NewFromFloat(10.00)) {
		t.Fatalf("unexpected final price: %+v", line.FinalPrice)
	}
	if line.Customizations.Size == nil || line.Customizations.Size.Name != "Large" {
		t.Fatalf("unexpected customizations: %+v", line.Customizations)
	}

	env := decodeEnvelope(t, rec)
	var view SubmitCartResponse
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if view.RedirectURL != "/checkout" || view.LineCount != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestQuoteMissingSession(t *testing.T) {
	t.Parallel()

	handler := Quote(&stubCartService{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/quote", nil)
	rec := serve(handler, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestQuoteHappyPath(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{quote: &cartsvc.QuoteResult{
		CartID:      uuid.New(),
		Fulfillment: enums.FulfillmentDelivery,
		Subtotal:    decimal.NewFromFloat(20.00),
		Total:       decimal.NewFromFloat(21.99),
	}}
	handler := Quote(svc, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/quote?shipping_method=flat_rate:2", nil)
	req.Header.Set("X-Storefront-Session", "sess-1")
	rec := serve(handler, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastQuoteInput.ShippingMethod != "flat_rate:2" {
		t.Fatalf("query method not forwarded: %q", svc.lastQuoteInput.ShippingMethod)
	}
}

func TestCheckoutBadNonce(t *testing.T) {
	t.Parallel()

	finalized := false
	handler := Checkout(stubOrderService{fn: func() (*models.Order, error) {
		finalized = true
		return nil, nil
	}}, testIssuer(t), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/storefront/checkout", strings.NewReader(`{"nonce": "forged"}`))
	req.Header.Set("X-Storefront-Session", "sess-1")
	rec := serve(handler, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if finalized {
		t.Fatal("finalization must not run on a rejected nonce")
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	t.Parallel()

	issuer := testIssuer(t)
	order := &models.Order{
		ID:          uuid.New(),
		Status:      enums.OrderStatusPending,
		Fulfillment: enums.FulfillmentDelivery,
		Subtotal:    decimal.NewFromFloat(28.00),
		FeeTotal:    decimal.NewFromFloat(1.99),
		Total:       decimal.NewFromFloat(29.99),
	}
	handler := Checkout(stubOrderService{fn: func() (*models.Order, error) {
		return order, nil
	}}, issuer, nil, nil)

	nonce, err := issuer.Issue("sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/storefront/checkout", strings.NewReader(`{"nonce": "`+nonce+`"}`))
	req.Header.Set("X-Storefront-Session", "sess-1")
	rec := serve(handler, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var view CheckoutResponse
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if view.OrderID != order.ID || !view.Total.Equal(decimal.NewFromFloat(29.99)) {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestMenuMintsSession(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Checkout.CheckoutURL = "/checkout"
	cfg.Assets.AccountURL = "/my-account"

	handler := Menu(stubMenuCatalog{}, testIssuer(t), nil, cfg, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/menu", nil)
	rec := serve(handler, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Storefront-Session") == "" {
		t.Fatal("expected minted session header")
	}

	env := decodeEnvelope(t, rec)
	var view MenuResponse
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if view.SessionID == "" || view.Nonce == "" {
		t.Fatalf("mount payload incomplete: %+v", view)
	}
	if len(view.Products) != 1 || view.Products[0].Name != "Margherita" {
		t.Fatalf("unexpected products: %+v", view.Products)
	}
}

func TestMenuReusesSession(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	handler := Menu(stubMenuCatalog{}, testIssuer(t), nil, cfg, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/menu", nil)
	req.Header.Set("X-Storefront-Session", "sess-existing")
	rec := serve(handler, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	var view MenuResponse
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if view.SessionID != "sess-existing" {
		t.Fatalf("expected session reuse, got %q", view.SessionID)
	}
}

type stubCartService struct {
	summary        *cartsvc.Summary
	quote          *cartsvc.QuoteResult
	reconcileCalls int
	lastInput      cartsvc.ReconcileInput
	lastQuoteInput cartsvc.QuoteInput
}

func (s *stubCartService) Reconcile(ctx context.Context, sessionID string, input cartsvc.ReconcileInput) (*cartsvc.Summary, error) {
	s.reconcileCalls++
	s.lastInput = input
	if s.summary == nil {
		return &cartsvc.Summary{}, nil
	}
	return s.summary, nil
}

func (s *stubCartService) Quote(ctx context.Context, sessionID string, pass *session.CalcPass, input cartsvc.QuoteInput) (*cartsvc.QuoteResult, error) {
	s.lastQuoteInput = input
	if s.quote == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "active cart not found")
	}
	return s.quote, nil
}

type stubOrderService struct {
	fn func() (*models.Order, error)
}

func (s stubOrderService) Finalize(ctx context.Context, sessionID string, pass *session.CalcPass) (*models.Order, error) {
	return s.fn()
}

type stubMenuCatalog struct{}

func (stubMenuCatalog) WithTx(tx *gorm.DB) catalog.Repository { return stubMenuCatalog{} }

func (stubMenuCatalog) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	return nil, gorm.ErrRecordNotFound
}

func (stubMenuCatalog) ListActive(ctx context.Context) ([]models.Product, error) {
	return []models.Product{
		{ID: 1, Name: "Margherita", Category: "pizza", BasePrice: decimal.NewFromFloat(12.00), IsActive: true},
	}, nil
}
