package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pilates-studio/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Ledger statuses
const (
	StatusClaimed  = "claimed"
	StatusRecorded = "recorded"
)

// OrderRecord is a ledger row for one checkout session
type OrderRecord struct {
	StripeSessionID string
	Status          string
	CustomerEmail   string
	TotalAmount     decimal.Decimal
	Items           string
}

// OrderRepository is the Postgres order ledger
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Claim inserts a claimed row for the session. The primary key rejects a
// second claim with models.ErrDuplicateSession.
func (r *OrderRepository) Claim(ctx context.Context, sessionID string) error {
	query := `INSERT INTO order_records (stripe_session_id, status, created_at, updated_at)
	          VALUES ($1, $2, NOW(), NOW())`

	if _, err := r.db.ExecContext(ctx, query, sessionID, StatusClaimed); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.ErrDuplicateSession
		}
		return fmt.Errorf("insert order record: %w", err)
	}
	return nil
}

// Complete stores the written order against its claimed session
func (r *OrderRepository) Complete(ctx context.Context, order *models.Order) error {
	query := `UPDATE order_records
	          SET status = $2, customer_email = $3, total_amount = $4, items = $5, updated_at = NOW()
	          WHERE stripe_session_id = $1`

	result, err := r.db.ExecContext(ctx, query,
		order.StripeSessionID,
		StatusRecorded,
		order.CustomerEmail,
		order.TotalAmount,
		order.Items)
	if err != nil {
		return fmt.Errorf("update order record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &models.ErrNotFound{Message: "order record not found"}
	}
	return nil
}

// Release removes a claim that never produced an order
func (r *OrderRepository) Release(ctx context.Context, sessionID string) error {
	query := `DELETE FROM order_records WHERE stripe_session_id = $1 AND status = $2`
	if _, err := r.db.ExecContext(ctx, query, sessionID, StatusClaimed); err != nil {
		return fmt.Errorf("delete order record: %w", err)
	}
	return nil
}

// Get returns the ledger row for a session
func (r *OrderRepository) Get(ctx context.Context, sessionID string) (*OrderRecord, error) {
	query := `SELECT stripe_session_id, status, COALESCE(customer_email, ''), COALESCE(total_amount, 0), COALESCE(items::text, '')
	          FROM order_records WHERE stripe_session_id = $1`

	var rec OrderRecord
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&rec.StripeSessionID,
		&rec.Status,
		&rec.CustomerEmail,
		&rec.TotalAmount,
		&rec.Items,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.ErrNotFound{Message: "order record not found"}
		}
		return nil, fmt.Errorf("select order record: %w", err)
	}
	return &rec, nil
}

// Recent lists the most recently recorded orders, newest first
func (r *OrderRepository) Recent(ctx context.Context, limit int) ([]*OrderRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT stripe_session_id, status, COALESCE(customer_email, ''), COALESCE(total_amount, 0), COALESCE(items::text, '')
	          FROM order_records WHERE status = $1
	          ORDER BY updated_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, StatusRecorded, limit)
	if err != nil {
		return nil, fmt.Errorf("select order records: %w", err)
	}
	defer rows.Close()

	var records []*OrderRecord
	for rows.Next() {
		var rec OrderRecord
		if err := rows.Scan(&rec.StripeSessionID, &rec.Status, &rec.CustomerEmail, &rec.TotalAmount, &rec.Items); err != nil {
			return nil, fmt.Errorf("scan order record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
