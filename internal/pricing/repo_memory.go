package pricing

import (
	"context"
	"time"
)

// MemoryRepo is a simple in-memory configuration store useful for tests
// and early development.
//
// NOTE: This is not intended for production; replace with the Postgres
// implementation.
type MemoryRepo struct {
	Flat      []WarehousePricing
	Pallet    []PalletPricing
	Overrides map[string][]OverrideEntry // keyed by warehouse id
	Rules     map[string]FreeStorageRules
}

// OverrideEntry is a stored warehouse_availability row with optional
// per-type override prices.
type OverrideEntry struct {
	Date        time.Time
	PalletPrice *float64
	AreaPrice   *float64
}

func (r *MemoryRepo) FindFlatPricing(ctx context.Context, warehouseID string, t BookingType) (WarehousePricing, bool, error) {
	_ = ctx
	for _, row := range r.Flat {
		if row.WarehouseID != warehouseID {
			continue
		}
		if row.Status == RowStatusInactive {
			continue
		}
		if row.PricingType != t && !(row.PricingType.IsArea() && t.IsArea()) {
			continue
		}
		return row, true, nil
	}
	return WarehousePricing{}, false, nil
}

func (r *MemoryRepo) ListPalletPricing(ctx context.Context, warehouseID string) ([]PalletPricing, error) {
	_ = ctx
	var out []PalletPricing
	for _, row := range r.Pallet {
		if row.WarehouseID != warehouseID || row.Status == RowStatusInactive {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *MemoryRepo) ListDateOverrides(ctx context.Context, warehouseID string, from, to time.Time, t BookingType) ([]PriceOverride, error) {
	_ = ctx
	var out []PriceOverride
	for _, e := range r.Overrides[warehouseID] {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		price := e.PalletPrice
		if t.IsArea() {
			price = e.AreaPrice
		}
		out = append(out, PriceOverride{Date: e.Date, Price: price})
	}
	return out, nil
}

func (r *MemoryRepo) GetFreeStorageRules(ctx context.Context, warehouseID string) (FreeStorageRules, error) {
	_ = ctx
	return r.Rules[warehouseID], nil
}
