package components

import (
	"context"

	"pilates-studio/internal/middleware"
	"pilates-studio/internal/models"

	"github.com/shopspring/decimal"
)

// AlertKind selects the alert colour scheme
type AlertKind string

const (
	AlertError   AlertKind = "error"
	AlertSuccess AlertKind = "success"
	AlertInfo    AlertKind = "info"
)

func alertClass(kind AlertKind) string {
	colours := "bg-blue-50 border-blue-200 text-blue-800"
	switch kind {
	case AlertError:
		colours = "bg-red-50 border-red-200 text-red-800"
	case AlertSuccess:
		colours = "bg-green-50 border-green-200 text-green-800"
	}
	return "alert alert-" + string(kind) + " border p-4 rounded-lg mb-4 " + colours
}

// getCSRFToken gets the CSRF token from the request context
func getCSRFToken(ctx context.Context) string {
	return middleware.CSRFTokenFromContext(ctx)
}

// FormatPrice formats a major-unit amount in the site currency
func FormatPrice(amount decimal.Decimal) string {
	return models.NewMoney(amount, models.DefaultCurrency).Display()
}
