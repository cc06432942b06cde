package warehouse

import (
	"context"

	"tsmartwarehouse/internal/pricing"
)

// Repository persists warehouses and the rate configuration the pricing
// engine reads.
//
// Tenancy invariant: company_id is enforced on every warehouse read;
// rate rows are warehouse-scoped and reached through an owned warehouse.
type Repository interface {
	CreateWarehouse(ctx context.Context, w Warehouse) error
	GetWarehouse(ctx context.Context, companyID, id string) (Warehouse, bool, error)
	ListWarehouses(ctx context.Context, companyID string) ([]Warehouse, error)

	UpsertFlatPricing(ctx context.Context, row pricing.WarehousePricing) error
	UpsertPalletPricing(ctx context.Context, row pricing.PalletPricing) error

	// SetDateOverride upserts the warehouse_availability row for one date.
	SetDateOverride(ctx context.Context, warehouseID string, o DateOverride) error

	// ReplaceFreeStorageRules swaps the warehouse's rule set atomically.
	ReplaceFreeStorageRules(ctx context.Context, warehouseID string, rules pricing.FreeStorageRules) error
}
