package pricing

import (
	"context"
	"time"
)

// ConfigRepository abstracts the rate-configuration store.
// Implementations can be Postgres, cached, or in-memory for tests.
//
// The engine only reads: it issues independent queries per calculation
// and never writes.
type ConfigRepository interface {
	// FindFlatPricing returns the active flat rate row for a warehouse
	// and booking type. area-rental and its legacy alias area match the
	// same rows.
	FindFlatPricing(ctx context.Context, warehouseID string, t BookingType) (WarehousePricing, bool, error)

	// ListPalletPricing returns all active pallet detail rows for a
	// warehouse, across goods types and periods.
	ListPalletPricing(ctx context.Context, warehouseID string) ([]PalletPricing, error)

	// ListDateOverrides returns override entries whose date falls inside
	// [from, to] for the given booking type. Entries with a nil price
	// exist but carry no override value for that type.
	ListDateOverrides(ctx context.Context, warehouseID string, from, to time.Time, t BookingType) ([]PriceOverride, error)

	// GetFreeStorageRules returns the warehouse's free-storage rules.
	// An empty slice means no days are exempt.
	GetFreeStorageRules(ctx context.Context, warehouseID string) (FreeStorageRules, error)
}
