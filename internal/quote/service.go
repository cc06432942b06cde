package quote

import (
	"context"
	"errors"
	"time"

	"tsmartwarehouse/internal/pricing"

	"github.com/google/uuid"
)

// Repository is the persistence contract for quotes. Append-only plus
// time-ranged reads; no updates or deletes.
type Repository interface {
	Insert(ctx context.Context, q Quote) error
	List(ctx context.Context, companyID string, from, to time.Time, warehouseID string) ([]Quote, error)
}

// Service records and lists quotes.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidQuote = errors.New("quote: invalid quote")

// Record persists the breakdown computed for a request.
func (s *Service) Record(ctx context.Context, companyID, requestedBy string, req pricing.PriceCalculation, breakdown pricing.PriceBreakdown) (Quote, error) {
	if companyID == "" || req.WarehouseID == "" {
		return Quote{}, ErrInvalidQuote
	}

	q := Quote{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		WarehouseID: req.WarehouseID,
		BookingType: req.Type,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		RequestedBy: requestedBy,
		Breakdown:   breakdown,
		Total:       breakdown.Total,
		Currency:    breakdown.Currency,
		CreatedAt:   s.clock().UTC(),
	}
	if err := s.repo.Insert(ctx, q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

// List returns quotes for a company inside [from, to], optionally
// filtered by warehouse.
func (s *Service) List(ctx context.Context, companyID string, from, to time.Time, warehouseID string) ([]Quote, error) {
	if companyID == "" {
		return nil, ErrInvalidQuote
	}
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, ErrInvalidQuote
	}
	return s.repo.List(ctx, companyID, from, to, warehouseID)
}
