package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

type csrfContextKey struct{}

// CSRFMiddleware provides CSRF protection functionality
type CSRFMiddleware struct {
	store  sessions.Store
	exempt map[string]bool
}

// NewCSRFMiddleware creates a new CSRF middleware. Requests to exempt paths
// are not checked.
func NewCSRFMiddleware(store sessions.Store, exemptPaths ...string) *CSRFMiddleware {
	exempt := make(map[string]bool, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = true
	}
	return &CSRFMiddleware{
		store:  store,
		exempt: exempt,
	}
}

// CSRFProtection middleware provides CSRF protection for state-changing requests
func (m *CSRFMiddleware) CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions || m.exempt[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		session, _ := m.store.Get(r, SessionName)
		var sessionToken string
		if session != nil {
			sessionToken, _ = session.Values["csrf_token"].(string)
		}

		requestToken := r.Header.Get("X-CSRF-Token")
		if requestToken == "" {
			requestToken = r.FormValue("csrf_token")
		}

		if sessionToken == "" || requestToken != sessionToken {
			if IsHTMXRequest(r) {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`<div class="alert alert-error"><p>Security token mismatch. Please refresh the page and try again.</p></div>`))
			} else {
				http.Error(w, "CSRF token mismatch", http.StatusForbidden)
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}

// EnsureCSRFToken middleware ensures a CSRF token is present in the session and context
func (m *CSRFMiddleware) EnsureCSRFToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, SessionName)
		if session == nil {
			log.Printf("Failed to get session for CSRF token: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		token, ok := session.Values["csrf_token"].(string)
		if !ok || token == "" {
			token = GenerateCSRFToken()
			session.Values["csrf_token"] = token
			if err := session.Save(r, w); err != nil {
				log.Printf("Failed to save CSRF token: %v", err)
			}
		}

		ctx := context.WithValue(r.Context(), csrfContextKey{}, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CSRFTokenFromContext returns the token added by EnsureCSRFToken
func CSRFTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey{}).(string)
	return token
}

// GenerateCSRFToken generates a secure random token
func GenerateCSRFToken() string {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		// Fallback to timestamp-based token if crypto/rand fails
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(tokenBytes)
}
