package services

import (
	"context"
	"errors"

	"pilates-studio/internal/models"

	"go.uber.org/zap"
)

// MsgOrderRetrievalFailed is shown when the checkout session cannot be read back
const MsgOrderRetrievalFailed = "Unable to retrieve order details"

// ConfirmationView is what the checkout success page renders
type ConfirmationView struct {
	Session       *models.CheckoutSession
	Notice        string
	OrderRecorded bool
}

// HasDetails reports whether order details can be shown
func (v *ConfirmationView) HasDetails() bool {
	return v.Session != nil
}

// OrderReconciler turns a returning checkout session into an order
type OrderReconciler struct {
	provider PaymentProvider
	orders   OrderRecorder
	logger   *zap.Logger
}

// NewOrderReconciler creates a new order reconciler
func NewOrderReconciler(provider PaymentProvider, orders OrderRecorder) *OrderReconciler {
	return &OrderReconciler{provider: provider, orders: orders, logger: zap.NewNop()}
}

// WithLogger sets the logger reconciliation failures are reported to
func (r *OrderReconciler) WithLogger(logger *zap.Logger) *OrderReconciler {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Reconcile retrieves the session and, when it is paid, records the order.
// It never fails: problems are logged and reflected in the view.
func (r *OrderReconciler) Reconcile(ctx context.Context, sessionID string) *ConfirmationView {
	if sessionID == "" {
		return &ConfirmationView{}
	}

	session, err := r.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		r.logger.Error("Failed to retrieve checkout session",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return &ConfirmationView{Notice: MsgOrderRetrievalFailed}
	}

	view := &ConfirmationView{Session: session}
	if !session.IsPaid() {
		r.logger.Info("Checkout session not paid, no order recorded",
			zap.String("session_id", session.ID),
			zap.String("payment_status", session.PaymentStatus))
		return view
	}

	if _, err := r.orders.RecordPaidSession(ctx, session); err != nil {
		if errors.Is(err, models.ErrDuplicateSession) {
			view.OrderRecorded = true
			return view
		}
		r.logger.Error("Failed to record order for paid session",
			zap.String("session_id", session.ID),
			zap.String("payment_status", session.PaymentStatus),
			zap.Int64("amount_total", session.AmountTotal),
			zap.Error(err))
		return view
	}

	view.OrderRecorded = true
	return view
}
