package services

import (
	"context"
	"fmt"
	"strings"

	"pilates-studio/internal/models"

	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// imageSizing is appended to class images shown on the hosted checkout page
const imageSizing = "?w=400&h=300&fit=crop&auto=format,compress"

// CheckoutService builds hosted checkout sessions from cart items
type CheckoutService struct {
	provider PaymentProvider
	currency currency.Unit
	logger   *zap.Logger
}

// NewCheckoutService creates a new checkout service charging in the given currency
func NewCheckoutService(provider PaymentProvider, cur currency.Unit) *CheckoutService {
	return &CheckoutService{provider: provider, currency: cur, logger: zap.NewNop()}
}

// WithLogger sets the logger provider failures are reported to
func (s *CheckoutService) WithLogger(logger *zap.Logger) *CheckoutService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// CreateSession creates a checkout session for the items. Redirect URLs
// are built from origin, which must already be resolved by the caller.
func (s *CheckoutService) CreateSession(ctx context.Context, items []models.CartItem, origin string) (*models.CheckoutSession, error) {
	if len(items) == 0 {
		return nil, models.ErrEmptyCart
	}

	req, err := s.BuildSessionRequest(items, origin)
	if err != nil {
		return nil, err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, req)
	if err != nil {
		s.logger.Error("Failed to create checkout session",
			zap.Int("items", len(items)),
			zap.String("currency", req.Currency),
			zap.String("success_url", req.SuccessURL),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return session, nil
}

// BuildSessionRequest maps cart items onto a provider session request. Items
// are normalized the same way the cart total is computed.
func (s *CheckoutService) BuildSessionRequest(items []models.CartItem, origin string) (*models.CheckoutSessionRequest, error) {
	items = models.NewCartState(items).Items
	metadata, err := models.EncodeOrderItems(models.OrderItemsFromCart(items))
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout metadata: %w", err)
	}

	lineItems := make([]models.CheckoutLineItem, 0, len(items))
	for _, item := range items {
		lineItem := models.CheckoutLineItem{
			Name:        item.Title,
			Description: fmt.Sprintf("%d minute Pilates class", item.Duration),
			UnitAmount:  models.NewMoney(item.Price, s.currency).MinorUnits(),
			Quantity:    int64(item.Quantity),
		}
		if item.Image != "" {
			lineItem.ImageURL = item.Image + imageSizing
		}
		lineItems = append(lineItems, lineItem)
	}

	origin = strings.TrimRight(origin, "/")
	return &models.CheckoutSessionRequest{
		Currency:   models.CurrencyCode(s.currency),
		LineItems:  lineItems,
		SuccessURL: origin + "/checkout/success?session_id=" + models.CheckoutSessionIDPlaceholder,
		CancelURL:  origin + "/cart",
		Metadata:   map[string]string{models.MetadataItemsKey: metadata},
	}, nil
}
