package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"pilates-studio/internal/config"
	"pilates-studio/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

// Server is the studio web server
type Server struct {
	cfg     *config.Config
	svcs    *Services
	limiter *middleware.CheckoutRateLimiter
	handler http.Handler
}

// New wires services from configuration and builds the router
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	svcs, err := BuildServices(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := middleware.NewCookieStore(cfg.Session.Secret, cfg.IsProduction())
	limiter := middleware.NewCheckoutRateLimiter(cfg.Server.CheckoutRateLimit, time.Minute)

	return &Server{
		cfg:     cfg,
		svcs:    svcs,
		limiter: limiter,
		handler: NewRouter(cfg, svcs, store, limiter),
	}, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.handler,
		// Checkout calls the payment provider inside the request
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (%s)", srv.Addr, s.cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Close stops background work and releases connections
func (s *Server) Close() {
	s.limiter.Stop()
	s.svcs.Close()
}
