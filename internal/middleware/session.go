package middleware

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie session every browser gets
const SessionName = "session"

// NewCookieStore creates the signed cookie store sessions are kept in
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// SessionStorage exposes one request's cookie session as key/value storage
// for small values. Every Set writes the cookie immediately.
type SessionStorage struct {
	session *sessions.Session
	w       http.ResponseWriter
	r       *http.Request
}

// NewSessionStorage binds a session to the request it was loaded from
func NewSessionStorage(session *sessions.Session, w http.ResponseWriter, r *http.Request) *SessionStorage {
	return &SessionStorage{session: session, w: w, r: r}
}

func (s *SessionStorage) Get(key string) (string, bool) {
	value, ok := s.session.Values[key].(string)
	return value, ok
}

func (s *SessionStorage) Set(key, value string) error {
	s.session.Values[key] = value
	if err := s.session.Save(s.r, s.w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// IsHTMXRequest checks if the request is from HTMX
func IsHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// SecureHeaders adds security headers to responses
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline' https://unpkg.com https://js.stripe.com; "+
				"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; "+
				"font-src 'self' https://fonts.gstatic.com; "+
				"img-src 'self' data: https:; "+
				"frame-src https://js.stripe.com https://checkout.stripe.com; "+
				"connect-src 'self';")

		// Only set HSTS for HTTPS
		if r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
