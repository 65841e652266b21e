package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"pilates-studio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutHandler_CreateSession(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(d *testDeps)
		wantStatus int
		wantBody   map[string]string
		wantCalls  int
	}{
		{
			name:       "creates session",
			body:       `{"items":[{"id":"c1","slug":"mat-foundations","title":"Mat Foundations","price":20,"image":"","duration":45,"quantity":1}]}`,
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"sessionId": "cs_test_a1b2c3d4"},
			wantCalls:  1,
		},
		{
			name:       "empty items",
			body:       `{"items":[]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]string{"error": "No items in cart"},
		},
		{
			name:       "missing items",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]string{"error": "No items in cart"},
		},
		{
			name:       "malformed body",
			body:       `{"items":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]string{"error": "Invalid request body"},
		},
		{
			name:       "provider failure",
			body:       `{"items":[{"id":"c1","title":"Mat Foundations","price":20,"duration":45,"quantity":1}]}`,
			setup:      func(d *testDeps) { d.checkout.err = assert.AnError },
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]string{"error": "Failed to create checkout session"},
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDeps()
			if tt.setup != nil {
				tt.setup(d)
			}
			b := newBrowser(t, newTestRouter(d))

			resp := b.postJSON("/api/checkout", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var got map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.wantBody, got)
			assert.Equal(t, tt.wantCalls, d.checkout.Calls())
		})
	}
}

func TestCheckoutHandler_Success(t *testing.T) {
	paid := &models.CheckoutSession{
		ID:            "cs_test_a1b2c3d4",
		PaymentStatus: models.PaymentStatusPaid,
		AmountTotal:   3550,
		Currency:      "usd",
		CustomerEmail: "jo@example.com",
	}

	t.Run("paid session records order and clears cart", func(t *testing.T) {
		d := newTestDeps()
		d.provider.session = paid
		b := newBrowser(t, newTestRouter(d))
		b.addClass("mat-foundations")

		resp := b.get("/checkout/success?session_id=" + paid.ID)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := readBody(t, resp)
		assert.Contains(t, body, "#A1B2C3D4")
		assert.Contains(t, body, "jo@example.com")
		assert.Contains(t, body, "$35.50")
		assert.Equal(t, 1, d.recorder.Calls())
		assert.Equal(t, 0, b.cart().Count)
	})

	t.Run("no session id still clears cart", func(t *testing.T) {
		d := newTestDeps()
		b := newBrowser(t, newTestRouter(d))
		b.addClass("mat-foundations")

		resp := b.get("/checkout/success")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotContains(t, readBody(t, resp), "order-reference")
		assert.Zero(t, d.recorder.Calls())
		assert.Equal(t, 0, b.cart().Count)
	})

	t.Run("retrieval failure shows notice and still clears cart", func(t *testing.T) {
		d := newTestDeps()
		d.provider.err = assert.AnError
		b := newBrowser(t, newTestRouter(d))
		b.addClass("mat-foundations")
		require.Equal(t, 1, b.cart().Count)

		resp := b.get("/checkout/success?session_id=cs_test_missing")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, "Unable to retrieve order details")
		assert.NotContains(t, body, "order-reference")
		assert.Zero(t, d.recorder.Calls())
		assert.Equal(t, 0, b.cart().Count)
	})

	t.Run("unpaid session is not recorded", func(t *testing.T) {
		d := newTestDeps()
		unpaid := *paid
		unpaid.PaymentStatus = "unpaid"
		d.provider.session = &unpaid
		b := newBrowser(t, newTestRouter(d))
		b.addClass("mat-foundations")

		resp := b.get("/checkout/success?session_id=" + paid.ID)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Zero(t, d.recorder.Calls())
		assert.Equal(t, 0, b.cart().Count)
	})
}
