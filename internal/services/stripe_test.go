package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pilates-studio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStripe(t *testing.T, handler http.HandlerFunc) *StripeService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewStripeService(StripeConfig{
		SecretKey:      "sk_test_123",
		PublishableKey: "pk_test_123",
		APIURL:         srv.URL,
	})
}

func TestStripeService_CreateCheckoutSession(t *testing.T) {
	var form map[string]string
	svc := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_1","payment_status":"unpaid","amount_total":3550,"currency":"usd"}`))
	})

	session, err := svc.CreateCheckoutSession(context.Background(), &models.CheckoutSessionRequest{
		Currency: "usd",
		LineItems: []models.CheckoutLineItem{{
			Name:        "Mat Basics",
			Description: "45 minute Pilates class",
			ImageURL:    "https://imgix.cosmicjs.com/mat.jpg?w=400",
			UnitAmount:  2000,
			Quantity:    1,
		}},
		SuccessURL: "https://studio.example/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "https://studio.example/cart",
		Metadata:   map[string]string{"items": `[{"id":"c1"}]`},
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", session.URL)
	assert.Equal(t, int64(3550), session.AmountTotal)
	assert.False(t, session.IsPaid())

	assert.Equal(t, "payment", form["mode"])
	assert.Equal(t, "card", form["payment_method_types[0]"])
	assert.Equal(t, "usd", form["line_items[0][price_data][currency]"])
	assert.Equal(t, "Mat Basics", form["line_items[0][price_data][product_data][name]"])
	assert.Equal(t, "45 minute Pilates class", form["line_items[0][price_data][product_data][description]"])
	assert.Equal(t, "https://imgix.cosmicjs.com/mat.jpg?w=400", form["line_items[0][price_data][product_data][images][0]"])
	assert.Equal(t, "2000", form["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, "1", form["line_items[0][quantity]"])
	assert.Equal(t, `[{"id":"c1"}]`, form["metadata[items]"])
	assert.Equal(t, "https://studio.example/cart", form["cancel_url"])
}

func TestStripeService_GetCheckoutSession(t *testing.T) {
	svc := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/checkout/sessions/cs_test_1", r.URL.Path)
		assert.Equal(t, "line_items", r.URL.Query().Get("expand[0]"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id":"cs_test_1",
			"object":"checkout.session",
			"payment_status":"paid",
			"amount_total":3550,
			"currency":"usd",
			"customer_details":{"email":"a@b.co"},
			"metadata":{"items":"[{\"id\":\"c1\"}]"},
			"line_items":{"object":"list","data":[{"id":"li_1","object":"item","description":"Mat Basics","quantity":1,"amount_total":2000}]}
		}`))
	})

	session, err := svc.GetCheckoutSession(context.Background(), "cs_test_1")
	require.NoError(t, err)

	assert.True(t, session.IsPaid())
	assert.Equal(t, "a@b.co", session.CustomerEmail)
	assert.Equal(t, int64(3550), session.AmountTotal)
	assert.Equal(t, `[{"id":"c1"}]`, session.Metadata["items"])
	require.Len(t, session.LineItems, 1)
	assert.Equal(t, "Mat Basics", session.LineItems[0].Description)
}

func TestStripeService_NotFound(t *testing.T) {
	svc := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such checkout.session: cs_missing"}}`))
	})

	_, err := svc.GetCheckoutSession(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestStripeService_Unconfigured(t *testing.T) {
	svc := NewStripeService(StripeConfig{})

	_, err := svc.CreateCheckoutSession(context.Background(), &models.CheckoutSessionRequest{})
	assert.ErrorIs(t, err, models.ErrProviderUnavailable)

	_, err = svc.GetCheckoutSession(context.Background(), "cs_1")
	assert.ErrorIs(t, err, models.ErrProviderUnavailable)

	assert.False(t, svc.Ready())
}

func TestStripeService_Ready(t *testing.T) {
	assert.False(t, NewStripeService(StripeConfig{SecretKey: "sk_test"}).Ready())
	assert.True(t, NewStripeService(StripeConfig{SecretKey: "sk_test", PublishableKey: "pk_test"}).Ready())
}

func TestStripeService_RedirectURL(t *testing.T) {
	svc := NewStripeService(StripeConfig{})

	url, err := svc.RedirectURL(&models.CheckoutSession{URL: "https://checkout.stripe.com/c/pay/cs_1"})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_1", url)

	_, err = svc.RedirectURL(&models.CheckoutSession{ID: "cs_1"})
	assert.Error(t, err)
}
