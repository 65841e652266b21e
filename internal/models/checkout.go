package models

import (
	"strings"
)

// PaymentStatusPaid is the provider payment status of a completed payment
const PaymentStatusPaid = "paid"

// CheckoutSessionIDPlaceholder is replaced by the provider with the real session id on redirect
const CheckoutSessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

// MetadataItemsKey carries the purchased items through the provider round trip
const MetadataItemsKey = "items"

// CheckoutLineItem is one priced line of a checkout session request
type CheckoutLineItem struct {
	Name        string
	Description string
	ImageURL    string
	UnitAmount  int64 // minor units
	Quantity    int64
}

// CheckoutSessionRequest describes a hosted checkout session to create
type CheckoutSessionRequest struct {
	Currency   string
	LineItems  []CheckoutLineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// CheckoutSessionLineItem is a line item as reported back by the provider
type CheckoutSessionLineItem struct {
	Description string
	Quantity    int64
	AmountTotal int64
}

// CheckoutSession is the provider-owned session; this system never mutates it
type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	AmountTotal   int64 // minor units
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
	LineItems     []CheckoutSessionLineItem
}

// IsPaid returns true if the provider reports the payment as completed
func (s *CheckoutSession) IsPaid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

// Reference returns the short order reference shown to customers
func (s *CheckoutSession) Reference() string {
	id := s.ID
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return strings.ToUpper(id)
}

// Total returns the amount paid in major units
func (s *CheckoutSession) Total() Money {
	cur := DefaultCurrency
	if s.Currency != "" {
		if parsed, err := ParseCurrency(s.Currency); err == nil {
			cur = parsed
		}
	}
	return MoneyFromMinorUnits(s.AmountTotal, cur)
}
