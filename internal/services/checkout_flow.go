package services

import (
	"context"
	"errors"
	"sync"

	"pilates-studio/internal/models"

	"go.uber.org/zap"
)

// Messages shown on the cart page when a checkout attempt fails
const (
	MsgNoItemsInCart          = "No items in cart"
	MsgCheckoutFailed         = "Failed to create checkout session"
	MsgProviderNotLoaded      = "Stripe failed to load"
	MsgCheckoutInProgress     = "Checkout already in progress"
	MsgCheckoutRedirectFailed = "Unable to redirect to checkout"
)

// CheckoutResult is the outcome of a checkout attempt
type CheckoutResult struct {
	// RedirectURL is the hosted checkout page, empty when the attempt did not hand off
	RedirectURL string
	// ErrorMessage is shown to the customer when the attempt failed
	ErrorMessage string
	// Err is the underlying failure, if any
	Err error
}

// HandedOff reports whether the browser should be sent to the provider
func (r *CheckoutResult) HandedOff() bool {
	return r.RedirectURL != ""
}

// CheckoutFlow drives a single checkout attempt from the cart page. At most
// one attempt per browser cart is in flight at a time.
type CheckoutFlow struct {
	sessions   CheckoutSessionCreator
	redirector CheckoutRedirector
	logger     *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewCheckoutFlow creates a new checkout redirect flow
func NewCheckoutFlow(sessions CheckoutSessionCreator, redirector CheckoutRedirector) *CheckoutFlow {
	return &CheckoutFlow{
		sessions:   sessions,
		redirector: redirector,
		logger:     zap.NewNop(),
		inFlight:   make(map[string]struct{}),
	}
}

// WithLogger sets the logger failed hand-offs are reported to
func (f *CheckoutFlow) WithLogger(logger *zap.Logger) *CheckoutFlow {
	if logger != nil {
		f.logger = logger
	}
	return f
}

// Start runs one checkout attempt for a snapshot of the cart. An empty
// cart returns an empty result and does nothing. Failures are not retried.
func (f *CheckoutFlow) Start(ctx context.Context, cartID string, cart models.CartState, origin string) *CheckoutResult {
	if cart.IsEmpty() {
		return &CheckoutResult{}
	}

	if !f.acquire(cartID) {
		return &CheckoutResult{ErrorMessage: MsgCheckoutInProgress, Err: models.ErrCheckoutInProgress}
	}
	defer f.release(cartID)

	session, err := f.sessions.CreateSession(ctx, cart.Items, origin)
	if err != nil {
		msg := MsgCheckoutFailed
		if errors.Is(err, models.ErrEmptyCart) {
			msg = MsgNoItemsInCart
		}
		return &CheckoutResult{ErrorMessage: msg, Err: err}
	}

	if !f.redirector.Ready() {
		f.logger.Warn("Checkout session created but payment provider is not ready",
			zap.String("session_id", session.ID))
		return &CheckoutResult{ErrorMessage: MsgProviderNotLoaded, Err: models.ErrProviderUnavailable}
	}

	url, err := f.redirector.RedirectURL(session)
	if err != nil {
		f.logger.Error("Checkout redirect failed",
			zap.String("session_id", session.ID),
			zap.Error(err))
		return &CheckoutResult{ErrorMessage: MsgCheckoutRedirectFailed, Err: err}
	}

	return &CheckoutResult{RedirectURL: url}
}

func (f *CheckoutFlow) acquire(cartID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.inFlight[cartID]; busy {
		return false
	}
	f.inFlight[cartID] = struct{}{}
	return true
}

func (f *CheckoutFlow) release(cartID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.inFlight, cartID)
}
