package pricing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PostgresRepo reads rate configuration from Postgres.
//
// Expected tables:
// - warehouse_pricing (volume_discounts JSONB)
// - warehouse_pallet_pricing (height_bands, weight_bands,
//   stackable_adjustment, unstackable_adjustment JSONB)
// - warehouse_availability (one row per warehouse+date, nullable
//   pallet_price / area_price overrides)
// - free_storage_rules
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) FindFlatPricing(ctx context.Context, warehouseID string, t BookingType) (WarehousePricing, bool, error) {
	// area-rental and the legacy alias area address the same rows.
	primary, alias := string(t), string(t)
	if t.IsArea() {
		primary, alias = string(BookingTypeAreaRental), string(BookingTypeArea)
	}

	const q = `
SELECT id, warehouse_id, pricing_type, base_price, unit, volume_discounts, status, created_at, updated_at
FROM warehouse_pricing
WHERE warehouse_id = $1 AND pricing_type IN ($2, $3) AND status = 'active'
LIMIT 1
`
	var (
		row          WarehousePricing
		discountsRaw []byte
	)
	err := r.db.QueryRowContext(ctx, q, warehouseID, primary, alias).Scan(
		&row.ID,
		&row.WarehouseID,
		&row.PricingType,
		&row.BasePrice,
		&row.Unit,
		&discountsRaw,
		&row.Status,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return WarehousePricing{}, false, nil
		}
		return WarehousePricing{}, false, err
	}
	if len(discountsRaw) > 0 {
		if err := json.Unmarshal(discountsRaw, &row.VolumeDiscounts); err != nil {
			return WarehousePricing{}, false, fmt.Errorf("warehouse_pricing %s: volume_discounts: %w", row.ID, err)
		}
	}
	return row, true, nil
}

func (r *PostgresRepo) ListPalletPricing(ctx context.Context, warehouseID string) ([]PalletPricing, error) {
	const q = `
SELECT id, warehouse_id, pallet_type, pricing_period, goods_type,
       height_bands, weight_bands, stackable_adjustment, unstackable_adjustment,
       status, created_at, updated_at
FROM warehouse_pallet_pricing
WHERE warehouse_id = $1 AND status = 'active'
ORDER BY pallet_type, pricing_period
`
	rows, err := r.db.QueryContext(ctx, q, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PalletPricing
	for rows.Next() {
		var (
			p                              PalletPricing
			heightRaw, weightRaw           []byte
			stackableRaw, unstackableRaw   []byte
		)
		if err := rows.Scan(
			&p.ID,
			&p.WarehouseID,
			&p.PalletType,
			&p.PricingPeriod,
			&p.GoodsType,
			&heightRaw,
			&weightRaw,
			&stackableRaw,
			&unstackableRaw,
			&p.Status,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := unmarshalBands(heightRaw, &p.HeightBands); err != nil {
			return nil, fmt.Errorf("warehouse_pallet_pricing %s: height_bands: %w", p.ID, err)
		}
		if err := unmarshalBands(weightRaw, &p.WeightBands); err != nil {
			return nil, fmt.Errorf("warehouse_pallet_pricing %s: weight_bands: %w", p.ID, err)
		}
		if p.StackableAdjustment, err = unmarshalAdjustment(stackableRaw); err != nil {
			return nil, fmt.Errorf("warehouse_pallet_pricing %s: stackable_adjustment: %w", p.ID, err)
		}
		if p.UnstackableAdjustment, err = unmarshalAdjustment(unstackableRaw); err != nil {
			return nil, fmt.Errorf("warehouse_pallet_pricing %s: unstackable_adjustment: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ListDateOverrides(ctx context.Context, warehouseID string, from, to time.Time, t BookingType) ([]PriceOverride, error) {
	col := "pallet_price"
	if t.IsArea() {
		col = "area_price"
	}
	q := fmt.Sprintf(`
SELECT date, %s
FROM warehouse_availability
WHERE warehouse_id = $1 AND date >= $2 AND date <= $3
ORDER BY date
`, col)

	rows, err := r.db.QueryContext(ctx, q, warehouseID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PriceOverride
	for rows.Next() {
		var o PriceOverride
		if err := rows.Scan(&o.Date, &o.Price); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetFreeStorageRules(ctx context.Context, warehouseID string) (FreeStorageRules, error) {
	const q = `
SELECT id, warehouse_id, min_days, free_days, status
FROM free_storage_rules
WHERE warehouse_id = $1 AND status = 'active'
ORDER BY min_days
`
	rows, err := r.db.QueryContext(ctx, q, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out FreeStorageRules
	for rows.Next() {
		var fr FreeStorageRule
		if err := rows.Scan(&fr.ID, &fr.WarehouseID, &fr.MinDays, &fr.FreeDays, &fr.Status); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

func unmarshalBands(raw []byte, dst *[]RateBand) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func unmarshalAdjustment(raw []byte) (*Adjustment, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var a Adjustment
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, err
	}
	if a.Type == "" {
		return nil, nil
	}
	return &a, nil
}
