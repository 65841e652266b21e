package middleware

import (
	"io"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/a-h/templ"
)

const (
	MsgNotFound         = "The page you're looking for doesn't exist."
	MsgMethodNotAllowed = "That action is not available on this page."
	MsgInternalError    = "Something went wrong. Please try again."
)

// ErrorPages renders the responses the router produces on its own. Page
// builds a full site page; Fragment builds the swap target for HTMX requests.
type ErrorPages struct {
	Page     func(status int, message string) templ.Component
	Fragment func(message string) templ.Component
}

func (p ErrorPages) render(w http.ResponseWriter, r *http.Request, status int, message string) {
	var component templ.Component
	switch {
	case IsHTMXRequest(r) && p.Fragment != nil:
		component = p.Fragment(message)
	case p.Page != nil:
		component = p.Page(status, message)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if component == nil {
		io.WriteString(w, templ.EscapeString(message))
		return
	}
	if err := component.Render(r.Context(), w); err != nil {
		log.Printf("Failed to render %d page for %s: %v", status, r.URL.Path, err)
	}
}

// ErrorHandlingMiddleware recovers panics and answers with the 500 page
func ErrorHandlingMiddleware(pages ErrorPages) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					log.Printf("PANIC: %v\n%s", err, debug.Stack())
					pages.render(w, r, http.StatusInternalServerError, MsgInternalError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// NotFoundHandler answers unknown routes with the 404 page
func NotFoundHandler(pages ErrorPages) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages.render(w, r, http.StatusNotFound, MsgNotFound)
	})
}

// MethodNotAllowedHandler answers known routes hit with the wrong method
func MethodNotAllowedHandler(pages ErrorPages) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		pages.render(w, r, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
	})
}
