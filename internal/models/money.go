package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency is the currency every class is priced in unless configured otherwise
var DefaultCurrency = currency.USD

var half = decimal.New(5, -1)

// Money is an amount in major currency units together with its currency.
// Conversions to and from the payment provider's integer minor units go
// through MinorUnits and MoneyFromMinorUnits only.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// NewMoney creates a Money value in the given currency
func NewMoney(amount decimal.Decimal, cur currency.Unit) Money {
	return Money{Amount: amount, Currency: cur}
}

// MoneyFromMinorUnits converts an integer minor-unit amount (e.g. cents) to major units
func MoneyFromMinorUnits(minor int64, cur currency.Unit) Money {
	return Money{Amount: decimal.New(minor, -minorUnitScale(cur)), Currency: cur}
}

// MinorUnits returns the amount in minor units, rounded half-up to the nearest unit.
func (m Money) MinorUnits() int64 {
	return m.Amount.Shift(minorUnitScale(m.Currency)).Add(half).Floor().IntPart()
}

// String formats the amount with the currency's standard number of decimals
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Amount.StringFixed(minorUnitScale(m.Currency)))
}

// Display formats the amount for templates, e.g. "$35.50"
func (m Money) Display() string {
	amount := m.Amount.StringFixed(minorUnitScale(m.Currency))
	if m.Currency == currency.USD {
		return "$" + amount
	}
	return m.Currency.String() + " " + amount
}

// ProviderCode returns the lower-case ISO code used by the payment provider
func (m Money) ProviderCode() string {
	return CurrencyCode(m.Currency)
}

// CurrencyCode returns the lower-case ISO code of a currency
func CurrencyCode(cur currency.Unit) string {
	return strings.ToLower(cur.String())
}

// ParseCurrency parses an ISO 4217 code in any case
func ParseCurrency(code string) (currency.Unit, error) {
	cur, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	return cur, nil
}

func minorUnitScale(cur currency.Unit) int32 {
	scale, _ := currency.Standard.Rounding(cur)
	return int32(scale)
}
