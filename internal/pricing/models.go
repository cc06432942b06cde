package pricing

import "time"

// Pricing configuration is warehouse-scoped. Rates are plain USD floats;
// rounding for display belongs to callers.

// BookingType selects which rate table applies to a booking.
type BookingType string

const (
	BookingTypePallet     BookingType = "pallet"
	BookingTypeAreaRental BookingType = "area-rental"

	// BookingTypeArea is a legacy alias for area-rental still present in
	// older warehouse_pricing rows.
	BookingTypeArea BookingType = "area"
)

// IsArea reports whether the type (or its legacy alias) is area rental.
func (t BookingType) IsArea() bool {
	return t == BookingTypeAreaRental || t == BookingTypeArea
}

// BillingUnit is the billing period of a rate row.
type BillingUnit string

const (
	UnitDay   BillingUnit = "day"
	UnitWeek  BillingUnit = "week"
	UnitMonth BillingUnit = "month"
)

// VolumeDiscount grants a percentage discount when the booked quantity
// reaches Min. The highest qualifying tier wins.
type VolumeDiscount struct {
	Min      float64 `json:"min"`
	Discount float64 `json:"discount"`
}

// WarehousePricing is a flat rate row: one per (warehouse, pricing_type).
type WarehousePricing struct {
	ID          string `json:"id" db:"id"`
	WarehouseID string `json:"warehouse_id" db:"warehouse_id"`

	PricingType BookingType `json:"pricing_type" db:"pricing_type"`

	// BasePrice is the rate per unit (pallet or sqft) per billing unit.
	BasePrice float64     `json:"base_price" db:"base_price"`
	Unit      BillingUnit `json:"unit" db:"unit"`

	VolumeDiscounts []VolumeDiscount `json:"volume_discounts,omitempty" db:"volume_discounts"`

	Status RowStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RateBand is an inclusive [Min, Max] range mapped to a price component.
// Bands within one row must not overlap.
type RateBand struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Price float64 `json:"price"`
}

// AdjustmentType describes how a stackability adjustment is applied.
type AdjustmentType string

const (
	// AdjustmentRate multiplies the unit price by (1 + value/100).
	AdjustmentRate AdjustmentType = "rate"
	// AdjustmentPlusPerUnit adds value to the unit price.
	AdjustmentPlusPerUnit AdjustmentType = "plus_per_unit"
)

// Adjustment modifies a base unit price depending on stackability.
// A nil adjustment (or empty type) leaves the price unchanged.
type Adjustment struct {
	Type  AdjustmentType `json:"adjustment_type"`
	Value float64        `json:"adjustment_value"`
}

// PalletPricing is a detail rate row: one per
// (warehouse, pallet_type, pricing_period, goods_type).
type PalletPricing struct {
	ID          string `json:"id" db:"id"`
	WarehouseID string `json:"warehouse_id" db:"warehouse_id"`

	PalletType    string      `json:"pallet_type" db:"pallet_type"`
	PricingPeriod BillingUnit `json:"pricing_period" db:"pricing_period"`
	GoodsType     string      `json:"goods_type" db:"goods_type"`

	// HeightBands and WeightBands are matched against the manifest line's
	// height_cm and weight_kg. Their prices are summed into the unit price.
	HeightBands []RateBand `json:"height_bands,omitempty" db:"height_bands"`
	WeightBands []RateBand `json:"weight_bands,omitempty" db:"weight_bands"`

	StackableAdjustment   *Adjustment `json:"stackable_adjustment,omitempty" db:"stackable_adjustment"`
	UnstackableAdjustment *Adjustment `json:"unstackable_adjustment,omitempty" db:"unstackable_adjustment"`

	Status RowStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type RowStatus string

const (
	RowStatusActive   RowStatus = "active"
	RowStatusInactive RowStatus = "inactive"
)

// PriceOverride is a per-calendar-date price override from
// warehouse_availability. Price is nil when the row exists but carries
// no override for the requested booking type; the engine substitutes
// the flat base price for such entries when averaging.
type PriceOverride struct {
	Date  time.Time `json:"date"`
	Price *float64  `json:"price,omitempty"`
}

// PalletLine is one manifest entry: a pallet type plus its physical
// attributes used for band lookup.
type PalletLine struct {
	PalletType string  `json:"pallet_type"`
	Quantity   int     `json:"quantity"`
	HeightCM   float64 `json:"height_cm"`
	WeightKG   float64 `json:"weight_kg"`
}

// PalletDetails is the optional per-pallet manifest of a booking request.
// When present, pricing is computed per line instead of from the flat rate.
type PalletDetails struct {
	Stackable bool         `json:"stackable"`
	GoodsType string       `json:"goods_type"`
	Lines     []PalletLine `json:"lines"`
}

// PriceCalculation is a pricing request. StartDate and EndDate form an
// inclusive calendar-date range.
type PriceCalculation struct {
	WarehouseID string      `json:"warehouse_id"`
	Type        BookingType `json:"type"`

	// Quantity is pallets or square feet. Ignored when PalletDetails
	// supplies a manifest.
	Quantity float64 `json:"quantity"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	PalletDetails *PalletDetails `json:"pallet_details,omitempty"`
}

// PriceBreakdown is the computed result. It is a transient value object;
// nothing in the engine persists across calls.
type PriceBreakdown struct {
	BasePrice float64 `json:"base_price"`
	Quantity  float64 `json:"quantity"`

	Days         int `json:"days"`
	BillableDays int `json:"billable_days"`
	FreeDays     int `json:"free_days"`

	Subtotal        float64 `json:"subtotal"`
	VolumeDiscount  float64 `json:"volume_discount"`
	DiscountPercent float64 `json:"discount_percent"`
	Total           float64 `json:"total"`

	Currency string `json:"currency"`
}
