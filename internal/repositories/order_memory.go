package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"pilates-studio/internal/models"
)

// MemoryOrderRepository is an in-process order ledger used when no
// database is configured. Claims do not survive a restart.
type MemoryOrderRepository struct {
	mu      sync.Mutex
	records map[string]*memoryRecord
}

type memoryRecord struct {
	OrderRecord
	updatedAt time.Time
}

// NewMemoryOrderRepository creates an empty in-memory ledger
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{records: make(map[string]*memoryRecord)}
}

func (r *MemoryOrderRepository) Claim(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[sessionID]; exists {
		return models.ErrDuplicateSession
	}
	r.records[sessionID] = &memoryRecord{
		OrderRecord: OrderRecord{StripeSessionID: sessionID, Status: StatusClaimed},
		updatedAt:   time.Now(),
	}
	return nil
}

func (r *MemoryOrderRepository) Complete(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[order.StripeSessionID]
	if !exists {
		return &models.ErrNotFound{Message: "order record not found"}
	}
	rec.Status = StatusRecorded
	rec.CustomerEmail = order.CustomerEmail
	rec.TotalAmount = order.TotalAmount
	rec.Items = order.Items
	rec.updatedAt = time.Now()
	return nil
}

func (r *MemoryOrderRepository) Release(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, exists := r.records[sessionID]; exists && rec.Status == StatusClaimed {
		delete(r.records, sessionID)
	}
	return nil
}

func (r *MemoryOrderRepository) Get(_ context.Context, sessionID string) (*OrderRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[sessionID]
	if !exists {
		return nil, &models.ErrNotFound{Message: "order record not found"}
	}
	out := rec.OrderRecord
	return &out, nil
}

func (r *MemoryOrderRepository) Recent(_ context.Context, limit int) ([]*OrderRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}

	recorded := make([]*memoryRecord, 0, len(r.records))
	for _, rec := range r.records {
		if rec.Status == StatusRecorded {
			recorded = append(recorded, rec)
		}
	}
	sort.Slice(recorded, func(i, j int) bool {
		return recorded[i].updatedAt.After(recorded[j].updatedAt)
	})

	var out []*OrderRecord
	for i, rec := range recorded {
		if i == limit {
			break
		}
		copied := rec.OrderRecord
		out = append(out, &copied)
	}
	return out, nil
}
