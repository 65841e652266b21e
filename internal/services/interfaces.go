package services

import (
	"context"

	"pilates-studio/internal/models"
)

// PaymentProvider creates and retrieves hosted checkout sessions
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req *models.CheckoutSessionRequest) (*models.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*models.CheckoutSession, error)
}

// CheckoutRedirector hands the browser off to a hosted checkout session
type CheckoutRedirector interface {
	// Ready reports whether the provider's client side has been initialised
	Ready() bool
	RedirectURL(session *models.CheckoutSession) (string, error)
}

// CheckoutSessionCreator builds a checkout session from cart items
type CheckoutSessionCreator interface {
	CreateSession(ctx context.Context, items []models.CartItem, origin string) (*models.CheckoutSession, error)
}

// ContentServiceInterface defines the interface for class content lookups
type ContentServiceInterface interface {
	GetClasses(ctx context.Context) ([]*models.PilatesClass, error)
	GetClassBySlug(ctx context.Context, slug string) (*models.PilatesClass, error)
}

// CMSClient is the subset of the headless CMS API the site uses
type CMSClient interface {
	FindObjects(ctx context.Context, q ObjectQuery, out any) error
	FindOneObject(ctx context.Context, q ObjectQuery, out any) error
	CreateObject(ctx context.Context, obj *CMSObject) error
}

// OrderLedger tracks which checkout sessions already have an order so
// repeated visits to the confirmation page record each order once
type OrderLedger interface {
	// Claim reserves the session id, returning models.ErrDuplicateSession if
	// it is already claimed
	Claim(ctx context.Context, sessionID string) error
	// Complete marks the claimed session as recorded with the written order
	Complete(ctx context.Context, order *models.Order) error
	Release(ctx context.Context, sessionID string) error
}

// OrderRecorder records paid checkout sessions as orders
type OrderRecorder interface {
	RecordPaidSession(ctx context.Context, session *models.CheckoutSession) (*models.Order, error)
}
