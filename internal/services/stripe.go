package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pilates-studio/internal/models"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeConfig represents Stripe payment service configuration
type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	// APIURL overrides the Stripe API base URL, used in tests
	APIURL string
}

// StripeService handles hosted checkout sessions via the Stripe API
type StripeService struct {
	config StripeConfig
	api    *client.API
}

// NewStripeService creates a new Stripe payment service. Without a secret
// key the service is created but every API call fails with
// models.ErrProviderUnavailable.
func NewStripeService(config StripeConfig) *StripeService {
	s := &StripeService{config: config}
	if config.SecretKey == "" {
		log.Printf("Stripe secret key not configured, checkout is disabled")
		return s
	}

	var backends *stripe.Backends
	if config.APIURL != "" {
		backends = &stripe.Backends{
			API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
				URL:               stripe.String(config.APIURL),
				MaxNetworkRetries: stripe.Int64(0),
				LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
			}),
		}
	}

	s.api = client.New(config.SecretKey, backends)
	return s
}

// CreateCheckoutSession creates a one-shot card payment session
func (s *StripeService) CreateCheckoutSession(ctx context.Context, req *models.CheckoutSessionRequest) (*models.CheckoutSession, error) {
	if s.api == nil {
		return nil, models.ErrProviderUnavailable
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
	}
	params.Context = ctx

	for _, item := range req.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			product.Description = stripe.String(item.Description)
		}
		if item.ImageURL != "" {
			product.Images = stripe.StringSlice([]string{item.ImageURL})
		}

		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(req.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, s.handleAPIError(err)
	}

	return toCheckoutSession(session), nil
}

// GetCheckoutSession retrieves a session with its line items expanded
func (s *StripeService) GetCheckoutSession(ctx context.Context, id string) (*models.CheckoutSession, error) {
	if s.api == nil {
		return nil, models.ErrProviderUnavailable
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")

	session, err := s.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, s.handleAPIError(err)
	}

	return toCheckoutSession(session), nil
}

// Ready reports whether both keys needed for the hosted checkout hand-off are present
func (s *StripeService) Ready() bool {
	return s.api != nil && s.config.PublishableKey != ""
}

// RedirectURL returns the hosted checkout page for the session
func (s *StripeService) RedirectURL(session *models.CheckoutSession) (string, error) {
	if session == nil || session.URL == "" {
		return "", errors.New("checkout session has no redirect URL")
	}
	return session.URL, nil
}

// handleAPIError maps Stripe API errors onto application errors
func (s *StripeService) handleAPIError(err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return fmt.Errorf("stripe request failed: %w", err)
	}

	switch stripeErr.HTTPStatusCode {
	case 401:
		return fmt.Errorf("unauthorized: check API keys - %s: %w", stripeErr.Msg, err)
	case 404:
		return fmt.Errorf("%w: %s", models.ErrSessionNotFound, stripeErr.Msg)
	default:
		return fmt.Errorf("stripe error (status %d): %w", stripeErr.HTTPStatusCode, err)
	}
}

func toCheckoutSession(s *stripe.CheckoutSession) *models.CheckoutSession {
	session := &models.CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		Metadata:      s.Metadata,
	}

	if s.CustomerDetails != nil {
		session.CustomerEmail = s.CustomerDetails.Email
	}
	if session.CustomerEmail == "" {
		session.CustomerEmail = s.CustomerEmail
	}

	if s.LineItems != nil {
		for _, li := range s.LineItems.Data {
			session.LineItems = append(session.LineItems, models.CheckoutSessionLineItem{
				Description: li.Description,
				Quantity:    li.Quantity,
				AmountTotal: li.AmountTotal,
			})
		}
	}

	return session
}
