package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})
}

func TestGenerateCSRFToken(t *testing.T) {
	token1 := GenerateCSRFToken()
	token2 := GenerateCSRFToken()

	assert.Len(t, token1, 64)
	assert.Len(t, token2, 64)
	assert.NotEqual(t, token1, token2)
}

func TestCSRFProtection_GET(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret-key"))
	handler := NewCSRFMiddleware(store).CSRFProtection(okHandler())

	req := httptest.NewRequest("GET", "/cart", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRFProtection_POST_NoToken(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret-key"))
	handler := NewCSRFMiddleware(store).CSRFProtection(okHandler())

	req := httptest.NewRequest("POST", "/cart/clear", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCSRFProtection_HTMX(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret-key"))
	handler := NewCSRFMiddleware(store).CSRFProtection(okHandler())

	req := httptest.NewRequest("POST", "/cart/clear", nil)
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Security token mismatch")
}

func TestCSRFProtection_ExemptPath(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret-key"))
	handler := NewCSRFMiddleware(store, "/api/checkout").CSRFProtection(okHandler())

	req := httptest.NewRequest("POST", "/api/checkout", strings.NewReader(`{"items":[]}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRF_RoundTrip(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret-key"))
	csrf := NewCSRFMiddleware(store)

	var token string
	issue := csrf.EnsureCSRFToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = CSRFTokenFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	issue.ServeHTTP(w, httptest.NewRequest("GET", "/cart", nil))
	require.Len(t, token, 64)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	protected := csrf.CSRFProtection(okHandler())

	t.Run("form token accepted", func(t *testing.T) {
		form := url.Values{"csrf_token": {token}}
		req := httptest.NewRequest("POST", "/cart/clear", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("header token accepted", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/cart/clear", nil)
		req.Header.Set("X-CSRF-Token", token)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/cart/clear", nil)
		req.Header.Set("X-CSRF-Token", "nope")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestCSRFTokenFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, CSRFTokenFromContext(req.Context()))
}
