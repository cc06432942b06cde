package reporting

import (
	"context"
	"errors"
	"sync"
	"time"

	"tsmartwarehouse/internal/quote"
)

// MemoryRepo is a simple in-memory reporting repository for tests and early development.
// It enforces company isolation on reads.

type MemoryRepo struct {
	mu sync.Mutex

	Quotes []quote.Quote
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) ListQuotes(ctx context.Context, companyID string, from, to time.Time, warehouseID string) ([]quote.Quote, error) {
	if companyID == "" {
		return nil, errors.New("company_id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]quote.Quote, 0)
	for _, q := range r.Quotes {
		if q.CompanyID != companyID {
			continue
		}
		if !q.CreatedAt.IsZero() {
			if q.CreatedAt.Before(from) || !q.CreatedAt.Before(to) {
				continue
			}
		}
		if warehouseID != "" && q.WarehouseID != warehouseID {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}
