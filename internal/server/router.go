package server

import (
	"net/http"

	"pilates-studio/internal/config"
	"pilates-studio/internal/handlers"
	"pilates-studio/internal/middleware"
	"pilates-studio/internal/services"
	"pilates-studio/web/templates/components"
	"pilates-studio/web/templates/pages"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
)

// csrfExemptPaths are JSON endpoints protected by CORS instead of form tokens
var csrfExemptPaths = []string{"/api/checkout"}

// errorPages renders router-level errors inside the site layout
var errorPages = middleware.ErrorPages{
	Page: pages.ErrorPage,
	Fragment: func(message string) templ.Component {
		return components.Alert(components.AlertError, message)
	},
}

// OriginPolicy builds the checkout origin policy from configuration
func OriginPolicy(cfg *config.Config) services.OriginPolicy {
	return services.OriginPolicy{
		BaseURL:        cfg.Server.BaseURL,
		PublicHost:     cfg.Server.PublicHost,
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
}

// NewRouter builds the site's HTTP handler
func NewRouter(cfg *config.Config, svcs *Services, store sessions.Store, limiter *middleware.CheckoutRateLimiter) http.Handler {
	origins := OriginPolicy(cfg)

	cartMiddleware := middleware.NewCartMiddleware(store, svcs.Carts)
	csrfMiddleware := middleware.NewCSRFMiddleware(store, csrfExemptPaths...)

	flow := services.NewCheckoutFlow(svcs.Sessions, svcs.Redirector).WithLogger(svcs.Logger)
	reconciler := services.NewOrderReconciler(svcs.Provider, svcs.Orders).WithLogger(svcs.Logger)

	classesHandler := handlers.NewClassesHandler(svcs.Content)
	cartHandler := handlers.NewCartHandler(svcs.Content, flow, origins)
	checkoutHandler := handlers.NewCheckoutHandler(svcs.Sessions, reconciler, origins)

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.ErrorHandlingMiddleware(errorPages))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig(&origins)))

	// Error pages show the header cart badge, so they load the cart too
	withCart := func(h http.Handler) http.Handler {
		return cartMiddleware.LoadCart(csrfMiddleware.EnsureCSRFToken(h))
	}
	r.NotFound(withCart(middleware.NotFoundHandler(errorPages)).ServeHTTP)
	r.MethodNotAllowed(withCart(middleware.MethodNotAllowedHandler(errorPages)).ServeHTTP)

	r.Get("/healthz", handlers.Health)

	// Static files
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static/"))))

	r.Group(func(r chi.Router) {
		r.Use(cartMiddleware.LoadCart)
		r.Use(csrfMiddleware.EnsureCSRFToken)
		r.Use(csrfMiddleware.CSRFProtection)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/classes", http.StatusFound)
		})
		r.Get("/classes", classesHandler.ListClasses)
		r.Get("/classes/{slug}", classesHandler.ClassDetail)

		r.Get("/cart", cartHandler.ViewCart)
		r.Get("/api/cart", cartHandler.CartJSON)
		r.Route("/cart", func(r chi.Router) {
			r.Post("/add", cartHandler.AddToCart)
			r.Post("/remove", cartHandler.RemoveFromCart)
			r.Post("/clear", cartHandler.ClearCart)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CheckoutRateLimit(limiter))
			r.Post("/checkout", cartHandler.ProceedToCheckout)
			r.Post("/api/checkout", checkoutHandler.CreateSession)
		})

		r.Get("/checkout/success", checkoutHandler.Success)
	})

	return r
}
