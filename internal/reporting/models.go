package reporting

import "time"

// Common filtering inputs.

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// QuotesSummaryRequest requests aggregated quote metrics.
// Company isolation: CompanyID is required.

type QuotesSummaryRequest struct {
	CompanyID   string    `json:"company_id"`
	Range       TimeRange `json:"range"`
	WarehouseID string    `json:"warehouse_id,omitempty"`
}

type QuotesSummary struct {
	CompanyID   string `json:"company_id"`
	WarehouseID string `json:"warehouse_id,omitempty"`

	TotalQuotes      int `json:"total_quotes"`
	PalletQuotes     int `json:"pallet_quotes"`
	AreaRentalQuotes int `json:"area_rental_quotes"`

	TotalAmount   float64 `json:"total_amount"`
	AverageAmount float64 `json:"average_amount"`
	Currency      string  `json:"currency"`

	TotalBilledDays int `json:"total_billed_days"`
}

// WarehouseActivityRequest asks for per-warehouse quote activity inside a
// company, useful for operators comparing sites.

type WarehouseActivityRequest struct {
	CompanyID string    `json:"company_id"`
	Range     TimeRange `json:"range"`
}

type WarehouseActivity struct {
	WarehouseID   string  `json:"warehouse_id"`
	Quotes        int     `json:"quotes"`
	TotalAmount   float64 `json:"total_amount"`
	AverageAmount float64 `json:"average_amount"`
}

type WarehouseActivityReport struct {
	CompanyID  string              `json:"company_id"`
	Warehouses []WarehouseActivity `json:"warehouses"`
}
