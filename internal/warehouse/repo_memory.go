package warehouse

import (
	"context"
	"sync"
	"time"

	"tsmartwarehouse/internal/pricing"
)

// MemoryRepo is an in-memory Repository for tests and early development.
// It also implements pricing.ConfigRepository so the engine can be tested
// against the same rows the admin surface writes.
type MemoryRepo struct {
	mu sync.Mutex

	warehouses map[string]Warehouse
	flat       map[string][]pricing.WarehousePricing // by warehouse id
	pallet     map[string][]pricing.PalletPricing
	overrides  map[string]map[string]DateOverride // warehouse id -> date key
	rules      map[string]pricing.FreeStorageRules
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		warehouses: make(map[string]Warehouse),
		flat:       make(map[string][]pricing.WarehousePricing),
		pallet:     make(map[string][]pricing.PalletPricing),
		overrides:  make(map[string]map[string]DateOverride),
		rules:      make(map[string]pricing.FreeStorageRules),
	}
}

const dateKeyLayout = "2006-01-02"

func (r *MemoryRepo) CreateWarehouse(ctx context.Context, w Warehouse) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warehouses[w.ID] = w
	return nil
}

func (r *MemoryRepo) GetWarehouse(ctx context.Context, companyID, id string) (Warehouse, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.warehouses[id]
	if !ok || w.CompanyID != companyID {
		return Warehouse{}, false, nil
	}
	return w, true, nil
}

func (r *MemoryRepo) ListWarehouses(ctx context.Context, companyID string) ([]Warehouse, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Warehouse
	for _, w := range r.warehouses {
		if w.CompanyID == companyID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *MemoryRepo) UpsertFlatPricing(ctx context.Context, row pricing.WarehousePricing) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.flat[row.WarehouseID]
	for i, existing := range rows {
		if existing.PricingType == row.PricingType {
			rows[i] = row
			return nil
		}
	}
	r.flat[row.WarehouseID] = append(rows, row)
	return nil
}

func (r *MemoryRepo) UpsertPalletPricing(ctx context.Context, row pricing.PalletPricing) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.pallet[row.WarehouseID]
	for i, existing := range rows {
		if existing.PalletType == row.PalletType &&
			existing.PricingPeriod == row.PricingPeriod &&
			existing.GoodsType == row.GoodsType {
			rows[i] = row
			return nil
		}
	}
	r.pallet[row.WarehouseID] = append(rows, row)
	return nil
}

func (r *MemoryRepo) SetDateOverride(ctx context.Context, warehouseID string, o DateOverride) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.overrides[warehouseID]
	if m == nil {
		m = make(map[string]DateOverride)
		r.overrides[warehouseID] = m
	}
	m[o.Date.Format(dateKeyLayout)] = o
	return nil
}

func (r *MemoryRepo) ReplaceFreeStorageRules(ctx context.Context, warehouseID string, rules pricing.FreeStorageRules) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[warehouseID] = rules
	return nil
}

/* pricing.ConfigRepository */

func (r *MemoryRepo) FindFlatPricing(ctx context.Context, warehouseID string, t pricing.BookingType) (pricing.WarehousePricing, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.flat[warehouseID] {
		if row.Status == pricing.RowStatusInactive {
			continue
		}
		if row.PricingType == t || (row.PricingType.IsArea() && t.IsArea()) {
			return row, true, nil
		}
	}
	return pricing.WarehousePricing{}, false, nil
}

func (r *MemoryRepo) ListPalletPricing(ctx context.Context, warehouseID string) ([]pricing.PalletPricing, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []pricing.PalletPricing
	for _, row := range r.pallet[warehouseID] {
		if row.Status != pricing.RowStatusInactive {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *MemoryRepo) ListDateOverrides(ctx context.Context, warehouseID string, from, to time.Time, t pricing.BookingType) ([]pricing.PriceOverride, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []pricing.PriceOverride
	for _, o := range r.overrides[warehouseID] {
		if o.Date.Before(from) || o.Date.After(to) {
			continue
		}
		price := o.PalletPrice
		if t.IsArea() {
			price = o.AreaPrice
		}
		out = append(out, pricing.PriceOverride{Date: o.Date, Price: price})
	}
	return out, nil
}

func (r *MemoryRepo) GetFreeStorageRules(ctx context.Context, warehouseID string) (pricing.FreeStorageRules, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rules[warehouseID], nil
}
