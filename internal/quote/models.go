package quote

import (
	"time"

	"tsmartwarehouse/internal/pricing"
)

// Quote is an immutable record of a computed price breakdown.
// Rows are append-only: a re-quote creates a new row.
//
// Multi-tenant invariant: company_id required.
type Quote struct {
	ID        string `json:"id" db:"id"`
	CompanyID string `json:"company_id" db:"company_id"`

	WarehouseID string              `json:"warehouse_id" db:"warehouse_id"`
	BookingType pricing.BookingType `json:"booking_type" db:"booking_type"`

	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`

	// RequestedBy is the authenticated user who asked for the quote.
	RequestedBy string `json:"requested_by,omitempty" db:"requested_by"`

	// Breakdown is the full engine output, stored as JSONB.
	Breakdown pricing.PriceBreakdown `json:"breakdown" db:"breakdown"`

	Total    float64 `json:"total" db:"total"`
	Currency string  `json:"currency" db:"currency"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
