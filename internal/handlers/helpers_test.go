package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"pilates-studio/internal/cache"
	"pilates-studio/internal/middleware"
	"pilates-studio/internal/models"
	"pilates-studio/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://studio.example.com"

// fakeCheckout stands in for the checkout service and provider redirect
type fakeCheckout struct {
	mu       sync.Mutex
	calls    int
	items    []models.CartItem
	origin   string
	session  *models.CheckoutSession
	err      error
	notReady bool

	started chan struct{}
	release chan struct{}
}

func newFakeCheckout() *fakeCheckout {
	return &fakeCheckout{
		session: &models.CheckoutSession{ID: "cs_test_a1b2c3d4", URL: "https://checkout.stripe.com/c/pay/cs_test_a1b2c3d4"},
	}
}

func (f *fakeCheckout) CreateSession(ctx context.Context, items []models.CartItem, origin string) (*models.CheckoutSession, error) {
	f.mu.Lock()
	f.calls++
	f.items = items
	f.origin = origin
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		close(started)
		<-release
	}

	if len(items) == 0 {
		return nil, models.ErrEmptyCart
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakeCheckout) Ready() bool {
	return !f.notReady
}

func (f *fakeCheckout) RedirectURL(session *models.CheckoutSession) (string, error) {
	if session.URL == "" {
		return "", errors.New("checkout session has no URL")
	}
	return session.URL, nil
}

func (f *fakeCheckout) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeProvider serves GetCheckoutSession for the success page
type fakeProvider struct {
	session *models.CheckoutSession
	err     error
}

func (p *fakeProvider) CreateCheckoutSession(ctx context.Context, req *models.CheckoutSessionRequest) (*models.CheckoutSession, error) {
	return nil, errors.New("not used")
}

func (p *fakeProvider) GetCheckoutSession(ctx context.Context, id string) (*models.CheckoutSession, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.session, nil
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls int
}

func (r *fakeRecorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *fakeRecorder) RecordPaidSession(ctx context.Context, session *models.CheckoutSession) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return models.NewOrderFromSession(session, time.Now()), nil
}

type testDeps struct {
	content  services.ContentServiceInterface
	checkout *fakeCheckout
	provider *fakeProvider
	recorder *fakeRecorder
	carts    cache.CartDocuments
}

func newTestDeps() *testDeps {
	return &testDeps{
		content:  services.NewMockContentService(),
		checkout: newFakeCheckout(),
		provider: &fakeProvider{},
		recorder: &fakeRecorder{},
		carts:    cache.NewMemoryCartDocuments(time.Hour),
	}
}

// unsavableCarts reads as empty and rejects every write
type unsavableCarts struct{}

func (unsavableCarts) Load(context.Context, string) (string, bool, error) { return "", false, nil }

func (unsavableCarts) Save(context.Context, string, string) error {
	return errors.New("cart store unavailable")
}

func newTestRouter(d *testDeps) http.Handler {
	store := middleware.NewCookieStore("test-secret-key", false)
	origins := services.OriginPolicy{BaseURL: testBaseURL}

	flow := services.NewCheckoutFlow(d.checkout, d.checkout)
	reconciler := services.NewOrderReconciler(d.provider, d.recorder)

	classes := NewClassesHandler(d.content)
	cart := NewCartHandler(d.content, flow, origins)
	checkout := NewCheckoutHandler(d.checkout, reconciler, origins)

	r := chi.NewRouter()
	r.Use(middleware.NewCartMiddleware(store, d.carts).LoadCart)
	r.Get("/healthz", Health)
	r.Get("/classes", classes.ListClasses)
	r.Get("/classes/{slug}", classes.ClassDetail)
	r.Get("/cart", cart.ViewCart)
	r.Get("/api/cart", cart.CartJSON)
	r.Post("/cart/add", cart.AddToCart)
	r.Post("/cart/remove", cart.RemoveFromCart)
	r.Post("/cart/clear", cart.ClearCart)
	r.Post("/checkout", cart.ProceedToCheckout)
	r.Post("/api/checkout", checkout.CreateSession)
	r.Get("/checkout/success", checkout.Success)
	return r
}

// browser is an HTTP client that keeps cookies and does not follow redirects
type browser struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &browser{
		t:      t,
		server: server,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	b.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (b *browser) get(path string) *http.Response {
	b.t.Helper()
	req, err := http.NewRequest("GET", b.server.URL+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) postForm(path string, form url.Values, headers ...string) *http.Response {
	b.t.Helper()
	req, err := http.NewRequest("POST", b.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return b.do(req)
}

func (b *browser) postJSON(path, body string) *http.Response {
	b.t.Helper()
	req, err := http.NewRequest("POST", b.server.URL+path, strings.NewReader(body))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/json")
	return b.do(req)
}

type cartResponse struct {
	Items []models.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
	Count int               `json:"count"`
}

func (b *browser) cart() cartResponse {
	b.t.Helper()
	resp := b.get("/api/cart")
	require.Equal(b.t, http.StatusOK, resp.StatusCode)

	var out cartResponse
	require.NoError(b.t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (b *browser) addClass(slug string) *http.Response {
	b.t.Helper()
	return b.postForm("/cart/add", url.Values{"slug": {slug}})
}
