package reporting

import (
	"context"
	"errors"
	"sort"
	"time"

	"tsmartwarehouse/internal/pricing"
	"tsmartwarehouse/internal/quote"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Repository abstracts data access for reporting.
//
// IMPORTANT:
// - Methods must enforce company filtering.
// - Implementations should query immutable sources when possible (quote records, audit).

type Repository interface {
	ListQuotes(ctx context.Context, companyID string, from, to time.Time, warehouseID string) ([]quote.Quote, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) QuotesSummary(ctx context.Context, req QuotesSummaryRequest) (QuotesSummary, error) {
	if req.CompanyID == "" {
		return QuotesSummary{}, ErrInvalidRequest
	}
	if req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From) {
		return QuotesSummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return QuotesSummary{}, errors.New("reporting: repository not configured")
	}

	rows, err := s.repo.ListQuotes(ctx, req.CompanyID, req.Range.From, req.Range.To, req.WarehouseID)
	if err != nil {
		return QuotesSummary{}, err
	}

	out := QuotesSummary{CompanyID: req.CompanyID, WarehouseID: req.WarehouseID}
	for _, q := range rows {
		out.TotalQuotes++
		out.TotalAmount += q.Total
		out.TotalBilledDays += q.Breakdown.BillableDays
		if out.Currency == "" {
			out.Currency = q.Currency
		}
		if q.BookingType.IsArea() {
			out.AreaRentalQuotes++
		} else if q.BookingType == pricing.BookingTypePallet {
			out.PalletQuotes++
		}
	}
	if out.TotalQuotes > 0 {
		out.AverageAmount = out.TotalAmount / float64(out.TotalQuotes)
	}
	return out, nil
}

func (s *Service) WarehouseActivity(ctx context.Context, req WarehouseActivityRequest) (WarehouseActivityReport, error) {
	if req.CompanyID == "" {
		return WarehouseActivityReport{}, ErrInvalidRequest
	}
	if req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From) {
		return WarehouseActivityReport{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return WarehouseActivityReport{}, errors.New("reporting: repository not configured")
	}

	rows, err := s.repo.ListQuotes(ctx, req.CompanyID, req.Range.From, req.Range.To, "")
	if err != nil {
		return WarehouseActivityReport{}, err
	}

	byWarehouse := map[string]*WarehouseActivity{}
	for _, q := range rows {
		a := byWarehouse[q.WarehouseID]
		if a == nil {
			a = &WarehouseActivity{WarehouseID: q.WarehouseID}
			byWarehouse[q.WarehouseID] = a
		}
		a.Quotes++
		a.TotalAmount += q.Total
	}

	out := WarehouseActivityReport{CompanyID: req.CompanyID, Warehouses: make([]WarehouseActivity, 0, len(byWarehouse))}
	for _, a := range byWarehouse {
		if a.Quotes > 0 {
			a.AverageAmount = a.TotalAmount / float64(a.Quotes)
		}
		out.Warehouses = append(out.Warehouses, *a)
	}
	sort.Slice(out.Warehouses, func(i, j int) bool { return out.Warehouses[i].WarehouseID < out.Warehouses[j].WarehouseID })
	return out, nil
}
