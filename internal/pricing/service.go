package pricing

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Service computes booking price breakdowns from warehouse-scoped rate
// configuration.
//
// Contract:
// - Stateless: each call issues independent reads and keeps nothing.
// - Deterministic given identical inputs and identical rate data.
// - No retries; repository errors surface unchanged.
// - No writes.
type Service struct {
	repo  ConfigRepository
	clock func() time.Time
}

func NewService(repo ConfigRepository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var (
	ErrPricingNotFound   = errors.New("pricing not found")
	ErrInvalidPricingReq = errors.New("invalid pricing request")
)

const currencyUSD = "USD"

// CalculatePrice produces the price breakdown for a booking request.
//
// Two mutually exclusive paths: flat-rate when no pallet manifest is
// supplied, per-pallet otherwise. Both fail with ErrPricingNotFound when
// the warehouse has no matching rate configuration at all; individual
// unmatched manifest lines contribute zero instead of erroring.
func (s *Service) CalculatePrice(ctx context.Context, req PriceCalculation) (PriceBreakdown, error) {
	if req.WarehouseID == "" {
		return PriceBreakdown{}, ErrInvalidPricingReq
	}
	if req.EndDate.Before(req.StartDate) {
		return PriceBreakdown{}, ErrInvalidPricingReq
	}

	if req.PalletDetails != nil {
		return s.manifestPrice(ctx, req)
	}
	return s.flatPrice(ctx, req)
}

func (s *Service) flatPrice(ctx context.Context, req PriceCalculation) (PriceBreakdown, error) {
	row, ok, err := s.repo.FindFlatPricing(ctx, req.WarehouseID, req.Type)
	if err != nil {
		return PriceBreakdown{}, err
	}
	if !ok {
		return PriceBreakdown{}, ErrPricingNotFound
	}

	days := inclusiveDays(req.StartDate, req.EndDate)

	basePrice := row.BasePrice
	overrides, err := s.repo.ListDateOverrides(ctx, req.WarehouseID, req.StartDate, req.EndDate, req.Type)
	if err != nil {
		return PriceBreakdown{}, err
	}
	if len(overrides) > 0 {
		// One blended rate for the whole stay, not a per-day schedule.
		basePrice = averageOverridePrice(overrides, row.BasePrice)
	}

	rules, err := s.repo.GetFreeStorageRules(ctx, req.WarehouseID)
	if err != nil {
		return PriceBreakdown{}, err
	}
	freeDays := FreeStorageDays(rules, days)
	billableDays := days - freeDays
	if billableDays < 0 {
		billableDays = 0
	}

	// Area rental is always billed monthly regardless of the row's unit.
	var units int
	if req.Type.IsArea() {
		units = ceilDiv(billableDays, 30)
	} else {
		units = periodUnits(billableDays, row.Unit)
	}

	subtotal := basePrice * req.Quantity * float64(units)
	discountPercent := volumeDiscountPercent(row.VolumeDiscounts, req.Quantity)
	volumeDiscount := subtotal * discountPercent / 100

	return PriceBreakdown{
		BasePrice:       basePrice,
		Quantity:        req.Quantity,
		Days:            days,
		BillableDays:    billableDays,
		FreeDays:        freeDays,
		Subtotal:        subtotal,
		VolumeDiscount:  volumeDiscount,
		DiscountPercent: discountPercent,
		Total:           subtotal - volumeDiscount,
		Currency:        currencyUSD,
	}, nil
}

func (s *Service) manifestPrice(ctx context.Context, req PriceCalculation) (PriceBreakdown, error) {
	details := req.PalletDetails

	days := inclusiveDays(req.StartDate, req.EndDate)
	rules, err := s.repo.GetFreeStorageRules(ctx, req.WarehouseID)
	if err != nil {
		return PriceBreakdown{}, err
	}
	freeDays := FreeStorageDays(rules, days)
	billableDays := days - freeDays
	if billableDays < 0 {
		billableDays = 0
	}

	rows, err := s.repo.ListPalletPricing(ctx, req.WarehouseID)
	if err != nil {
		return PriceBreakdown{}, err
	}

	selected := rowsForGoodsType(rows, details.GoodsType)
	if len(selected) == 0 {
		return PriceBreakdown{}, ErrPricingNotFound
	}

	subtotal := 0.0
	totalQuantity := 0.0

	for _, line := range details.Lines {
		if line.Quantity <= 0 {
			continue
		}
		byPeriod := rowsForPalletType(selected, line.PalletType)
		if len(byPeriod) == 0 {
			// No rate row for this pallet type: the line is excluded from
			// the total rather than failing the whole calculation.
			continue
		}

		period := selectBillingPeriod(periodsOf(byPeriod), billableDays)
		row := byPeriod[period]

		unitPrice := lookupRangePrice(row.HeightBands, line.HeightCM).orZero() +
			lookupRangePrice(row.WeightBands, line.WeightKG).orZero()

		adj := row.UnstackableAdjustment
		if details.Stackable {
			adj = row.StackableAdjustment
		}
		unitPrice = applyAdjustment(unitPrice, adj)

		units := periodUnits(billableDays, period)
		subtotal += unitPrice * float64(line.Quantity) * float64(units)
		totalQuantity += float64(line.Quantity)
	}

	// Reported base price is the implied average unit price across all
	// priced lines, not a configured rate.
	basePrice := 0.0
	if totalQuantity > 0 {
		basePrice = subtotal / totalQuantity
	}

	return PriceBreakdown{
		BasePrice:       basePrice,
		Quantity:        totalQuantity,
		Days:            days,
		BillableDays:    billableDays,
		FreeDays:        freeDays,
		Subtotal:        subtotal,
		VolumeDiscount:  0,
		DiscountPercent: 0,
		Total:           subtotal,
		Currency:        currencyUSD,
	}, nil
}

// averageOverridePrice blends override values into a single rate: entries
// without a price for the booking type count at the base price instead of
// being skipped.
func averageOverridePrice(overrides []PriceOverride, basePrice float64) float64 {
	sum := 0.0
	for _, o := range overrides {
		if o.Price != nil {
			sum += *o.Price
		} else {
			sum += basePrice
		}
	}
	return sum / float64(len(overrides))
}

// normalizeGoodsType canonicalizes a manifest goods type for row matching.
func normalizeGoodsType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

const goodsTypeGeneral = "general"

// rowsForGoodsType selects the rows matching the manifest goods type,
// falling back to rows tagged general when none match.
func rowsForGoodsType(rows []PalletPricing, goodsType string) []PalletPricing {
	want := normalizeGoodsType(goodsType)

	var matched, general []PalletPricing
	for _, r := range rows {
		switch normalizeGoodsType(r.GoodsType) {
		case want:
			matched = append(matched, r)
		case goodsTypeGeneral:
			general = append(general, r)
		}
	}
	if len(matched) > 0 {
		return matched
	}
	return general
}

// rowsForPalletType indexes a goods-type row set by billing period for one
// pallet type. Later duplicates win; rows are expected unique per period.
func rowsForPalletType(rows []PalletPricing, palletType string) map[BillingUnit]PalletPricing {
	out := make(map[BillingUnit]PalletPricing)
	for _, r := range rows {
		if r.PalletType != palletType {
			continue
		}
		out[r.PricingPeriod] = r
	}
	return out
}

func periodsOf(byPeriod map[BillingUnit]PalletPricing) []BillingUnit {
	out := make([]BillingUnit, 0, len(byPeriod))
	for p := range byPeriod {
		out = append(out, p)
	}
	return out
}
