package warehouse

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"tsmartwarehouse/internal/pricing"
	"tsmartwarehouse/pkg/utils"
)

// PostgresRepo persists warehouses and rate configuration.
//
// Expected tables:
// - warehouses
// - warehouse_pricing (UNIQUE (warehouse_id, pricing_type))
// - warehouse_pallet_pricing (UNIQUE (warehouse_id, pallet_type, pricing_period, goods_type))
// - warehouse_availability (UNIQUE (warehouse_id, date))
// - free_storage_rules
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) CreateWarehouse(ctx context.Context, w Warehouse) error {
	const q = `
INSERT INTO warehouses (id, company_id, name, address, pallet_capacity, area_sq_ft, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`
	_, err := r.db.ExecContext(ctx, q,
		w.ID, w.CompanyID, w.Name, w.Address, w.PalletCapacity, w.AreaSqFt, w.Status, w.CreatedAt, w.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) GetWarehouse(ctx context.Context, companyID, id string) (Warehouse, bool, error) {
	const q = `
SELECT id, company_id, name, address, pallet_capacity, area_sq_ft, status, created_at, updated_at
FROM warehouses
WHERE company_id = $1 AND id = $2
`
	var w Warehouse
	err := r.db.QueryRowContext(ctx, q, companyID, id).Scan(
		&w.ID, &w.CompanyID, &w.Name, &w.Address, &w.PalletCapacity, &w.AreaSqFt, &w.Status, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Warehouse{}, false, nil
		}
		return Warehouse{}, false, err
	}
	return w, true, nil
}

func (r *PostgresRepo) ListWarehouses(ctx context.Context, companyID string) ([]Warehouse, error) {
	const q = `
SELECT id, company_id, name, address, pallet_capacity, area_sq_ft, status, created_at, updated_at
FROM warehouses
WHERE company_id = $1
ORDER BY created_at
`
	rows, err := r.db.QueryContext(ctx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(
			&w.ID, &w.CompanyID, &w.Name, &w.Address, &w.PalletCapacity, &w.AreaSqFt, &w.Status, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) UpsertFlatPricing(ctx context.Context, row pricing.WarehousePricing) error {
	discounts, err := json.Marshal(row.VolumeDiscounts)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO warehouse_pricing (id, warehouse_id, pricing_type, base_price, unit, volume_discounts, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (warehouse_id, pricing_type)
DO UPDATE SET base_price = EXCLUDED.base_price,
              unit = EXCLUDED.unit,
              volume_discounts = EXCLUDED.volume_discounts,
              status = EXCLUDED.status,
              updated_at = EXCLUDED.updated_at
`
	_, err = r.db.ExecContext(ctx, q,
		row.ID, row.WarehouseID, row.PricingType, row.BasePrice, row.Unit, discounts, row.Status, row.CreatedAt, row.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) UpsertPalletPricing(ctx context.Context, row pricing.PalletPricing) error {
	height, err := json.Marshal(row.HeightBands)
	if err != nil {
		return err
	}
	weight, err := json.Marshal(row.WeightBands)
	if err != nil {
		return err
	}
	stackable, err := marshalAdjustment(row.StackableAdjustment)
	if err != nil {
		return err
	}
	unstackable, err := marshalAdjustment(row.UnstackableAdjustment)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO warehouse_pallet_pricing (
  id, warehouse_id, pallet_type, pricing_period, goods_type,
  height_bands, weight_bands, stackable_adjustment, unstackable_adjustment,
  status, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (warehouse_id, pallet_type, pricing_period, goods_type)
DO UPDATE SET height_bands = EXCLUDED.height_bands,
              weight_bands = EXCLUDED.weight_bands,
              stackable_adjustment = EXCLUDED.stackable_adjustment,
              unstackable_adjustment = EXCLUDED.unstackable_adjustment,
              status = EXCLUDED.status,
              updated_at = EXCLUDED.updated_at
`
	_, err = r.db.ExecContext(ctx, q,
		row.ID, row.WarehouseID, row.PalletType, row.PricingPeriod, row.GoodsType,
		height, weight, stackable, unstackable,
		row.Status, row.CreatedAt, row.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) SetDateOverride(ctx context.Context, warehouseID string, o DateOverride) error {
	const q = `
INSERT INTO warehouse_availability (warehouse_id, date, pallet_price, area_price)
VALUES ($1,$2,$3,$4)
ON CONFLICT (warehouse_id, date)
DO UPDATE SET pallet_price = EXCLUDED.pallet_price,
              area_price = EXCLUDED.area_price
`
	_, err := r.db.ExecContext(ctx, q, warehouseID, o.Date, o.PalletPrice, o.AreaPrice)
	return err
}

func (r *PostgresRepo) ReplaceFreeStorageRules(ctx context.Context, warehouseID string, rules pricing.FreeStorageRules) error {
	return utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM free_storage_rules WHERE warehouse_id = $1`, warehouseID); err != nil {
			return err
		}
		const q = `
INSERT INTO free_storage_rules (id, warehouse_id, min_days, free_days, status)
VALUES ($1,$2,$3,$4,$5)
`
		for _, rule := range rules {
			if _, err := tx.ExecContext(ctx, q, rule.ID, warehouseID, rule.MinDays, rule.FreeDays, rule.Status); err != nil {
				return err
			}
		}
		return nil
	})
}

func marshalAdjustment(a *pricing.Adjustment) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}
