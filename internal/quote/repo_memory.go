package quote

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory append-only quote store for tests.
type MemoryRepo struct {
	mu     sync.Mutex
	quotes []Quote
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Insert(ctx context.Context, q Quote) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes = append(r.quotes, q)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, companyID string, from, to time.Time, warehouseID string) ([]Quote, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Quote
	for _, q := range r.quotes {
		if q.CompanyID != companyID {
			continue
		}
		if q.CreatedAt.Before(from) || q.CreatedAt.After(to) {
			continue
		}
		if warehouseID != "" && q.WarehouseID != warehouseID {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}
