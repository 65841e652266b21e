package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"pilates-studio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/currency"
)

func cartItems(inputs ...models.CartItemInput) []models.CartItem {
	items := make([]models.CartItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, in.ToCartItem())
	}
	return items
}

func TestCheckoutService_CreateSession_EmptyCart(t *testing.T) {
	provider := new(MockPaymentProvider)
	svc := NewCheckoutService(provider, currency.USD)

	session, err := svc.CreateSession(context.Background(), nil, "https://studio.example")

	assert.ErrorIs(t, err, models.ErrEmptyCart)
	assert.Nil(t, session)
	provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCheckoutService_CreateSession(t *testing.T) {
	provider := new(MockPaymentProvider)
	svc := NewCheckoutService(provider, currency.USD)

	var captured *models.CheckoutSessionRequest
	provider.On("CreateCheckoutSession", mock.Anything, mock.AnythingOfType("*models.CheckoutSessionRequest")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*models.CheckoutSessionRequest)
		}).
		Return(&models.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil)

	a := item("A", "20")
	b := item("B", "15.50")
	b.Duration = 30

	session, err := svc.CreateSession(context.Background(), cartItems(a, b), "https://studio.example/")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	provider.AssertExpectations(t)

	require.NotNil(t, captured)
	assert.Equal(t, "usd", captured.Currency)
	assert.Equal(t, "https://studio.example/checkout/success?session_id={CHECKOUT_SESSION_ID}", captured.SuccessURL)
	assert.Equal(t, "https://studio.example/cart", captured.CancelURL)

	require.Len(t, captured.LineItems, 2)
	assert.Equal(t, models.CheckoutLineItem{
		Name:        "Class A",
		Description: "45 minute Pilates class",
		ImageURL:    "https://imgix.cosmicjs.com/A.jpg?w=400&h=300&fit=crop&auto=format,compress",
		UnitAmount:  2000,
		Quantity:    1,
	}, captured.LineItems[0])
	assert.Equal(t, int64(1550), captured.LineItems[1].UnitAmount)
	assert.Equal(t, "30 minute Pilates class", captured.LineItems[1].Description)

	var meta []map[string]any
	require.NoError(t, json.Unmarshal([]byte(captured.Metadata[models.MetadataItemsKey]), &meta))
	require.Len(t, meta, 2)
	assert.Equal(t, map[string]any{"id": "A", "title": "Class A", "price": float64(20)}, meta[0])
	assert.Equal(t, map[string]any{"id": "B", "title": "Class B", "price": 15.5}, meta[1])
}

func TestCheckoutService_UnitAmountRoundsHalfUp(t *testing.T) {
	svc := NewCheckoutService(new(MockPaymentProvider), currency.USD)

	req, err := svc.BuildSessionRequest(cartItems(item("A", "19.995"), item("B", "0.004")), "http://localhost:8080")
	require.NoError(t, err)

	assert.Equal(t, int64(2000), req.LineItems[0].UnitAmount)
	assert.Equal(t, int64(0), req.LineItems[1].UnitAmount)
}

func TestCheckoutService_QuantityCarriedThrough(t *testing.T) {
	svc := NewCheckoutService(new(MockPaymentProvider), currency.USD)

	items := cartItems(item("A", "20"))
	items[0].Quantity = 2
	missing := item("B", "10").ToCartItem()
	missing.Quantity = 0
	items = append(items, missing)

	req, err := svc.BuildSessionRequest(items, "http://localhost:8080")
	require.NoError(t, err)

	assert.Equal(t, int64(2), req.LineItems[0].Quantity)
	assert.Equal(t, int64(1), req.LineItems[1].Quantity)

	var charged int64
	for _, li := range req.LineItems {
		charged += li.UnitAmount * li.Quantity
	}
	total := models.NewMoney(models.NewCartState(items).Total, currency.USD).MinorUnits()
	assert.Equal(t, total, charged, "line items charge the cart total")
}

func TestCheckoutService_ProviderError(t *testing.T) {
	provider := new(MockPaymentProvider)
	provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, errors.New("card_declined"))
	core, logs := observer.New(zap.ErrorLevel)
	svc := NewCheckoutService(provider, currency.USD).WithLogger(zap.New(core))

	session, err := svc.CreateSession(context.Background(), cartItems(item("A", "20")), "http://localhost:8080")

	require.Error(t, err)
	assert.Nil(t, session)
	assert.Contains(t, err.Error(), "failed to create checkout session")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "card_declined", fields["error"])
	assert.Equal(t, int64(1), fields["items"])
	assert.Equal(t, "usd", fields["currency"])
}
