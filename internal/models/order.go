package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// UnknownCustomerEmail is recorded when the provider reports no customer email
const UnknownCustomerEmail = "unknown"

// OrderObjectType is the CMS object type orders are written to
const OrderObjectType = "orders"

// Order is the CMS record of a paid checkout session
type Order struct {
	StripeSessionID string          `json:"stripe_session_id"`
	CustomerEmail   string          `json:"customer_email"`
	TotalAmount     decimal.Decimal `json:"total_amount"` // major units
	Status          OrderStatus     `json:"status"`
	Items           string          `json:"items"` // JSON array of OrderItem
	CreatedDate     string          `json:"created_date"`
}

// OrderItem is one purchased class as stored in the order's items field
type OrderItem struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

// NewOrderFromSession builds the completed order for a paid checkout session
func NewOrderFromSession(session *CheckoutSession, now time.Time) *Order {
	email := strings.TrimSpace(session.CustomerEmail)
	if email == "" {
		email = UnknownCustomerEmail
	}

	items := session.Metadata[MetadataItemsKey]
	if items == "" {
		items = "[]"
	}

	return &Order{
		StripeSessionID: session.ID,
		CustomerEmail:   email,
		TotalAmount:     session.Total().Amount,
		Status:          OrderCompleted,
		Items:           items,
		CreatedDate:     now.UTC().Format("2006-01-02"),
	}
}

// OrderItemsFromCart returns the compact item list carried in checkout metadata
func OrderItemsFromCart(items []CartItem) []OrderItem {
	out := make([]OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, OrderItem{ID: item.ID, Title: item.Title, Price: item.Price})
	}
	return out
}

// EncodeOrderItems serializes order items for metadata and order storage
func EncodeOrderItems(items []OrderItem) (string, error) {
	if items == nil {
		items = []OrderItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Title returns the CMS object title for the order
func (o *Order) Title() string {
	return "Order " + o.StripeSessionID
}

// Validate checks what the order needs to be stored. Everything else is
// taken as reported by the payment provider, which has already charged the
// customer.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.StripeSessionID) == "" {
		return errors.New("stripe session id is required")
	}

	switch o.Status {
	case OrderPending, OrderCompleted, OrderCancelled:
	default:
		return errors.New("invalid order status")
	}

	if !json.Valid([]byte(o.Items)) {
		return errors.New("order items must be valid JSON")
	}

	return nil
}
