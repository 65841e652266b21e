package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pilates-studio/internal/models"

	"go.uber.org/zap"
)

// OrderService handles order-related business logic
type OrderService struct {
	cms    CMSClient
	ledger OrderLedger
	logger *zap.Logger
	now    func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(cms CMSClient, ledger OrderLedger) *OrderService {
	return &OrderService{
		cms:    cms,
		ledger: ledger,
		logger: zap.NewNop(),
		now:    time.Now,
	}
}

// WithLogger sets the logger ledger and CMS outcomes are reported to
func (s *OrderService) WithLogger(logger *zap.Logger) *OrderService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// RecordPaidSession writes the order for a paid checkout session to the CMS.
// Each session is recorded at most once; a repeat call returns
// models.ErrDuplicateSession without writing. With no CMS configured the
// order is kept in the ledger only.
func (s *OrderService) RecordPaidSession(ctx context.Context, session *models.CheckoutSession) (*models.Order, error) {
	if session == nil || !session.IsPaid() {
		return nil, fmt.Errorf("%w: session is not paid", models.ErrInvalidInput)
	}

	order := models.NewOrderFromSession(session, s.now())
	if err := order.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.ledger.Claim(ctx, order.StripeSessionID); err != nil {
		if errors.Is(err, models.ErrDuplicateSession) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to claim checkout session: %w", err)
	}

	if s.cms != nil {
		obj := &CMSObject{
			Type:     models.OrderObjectType,
			Title:    order.Title(),
			Metadata: order,
		}
		if err := s.cms.CreateObject(ctx, obj); err != nil {
			if releaseErr := s.ledger.Release(context.WithoutCancel(ctx), order.StripeSessionID); releaseErr != nil {
				s.logger.Error("Failed to release order claim",
					zap.String("session_id", order.StripeSessionID),
					zap.Error(releaseErr))
			}
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
	}

	if err := s.ledger.Complete(ctx, order); err != nil {
		// The CMS write succeeded; the claim still blocks duplicates.
		s.logger.Error("Failed to mark order as recorded",
			zap.String("session_id", order.StripeSessionID),
			zap.Error(err))
	}

	s.logger.Info("Order recorded",
		zap.String("session_id", order.StripeSessionID),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
		zap.Bool("cms", s.cms != nil))
	return order, nil
}
