package pricing

import (
	"context"
	"testing"
)

func flatRepo(rows ...WarehousePricing) *MemoryRepo {
	return &MemoryRepo{Flat: rows}
}

func almostEqual(a, b float64) bool {
	const eps = 1e-9
	d := a - b
	return d < eps && d > -eps
}

func TestCalculatePrice_FlatEndToEnd(t *testing.T) {
	repo := flatRepo(WarehousePricing{
		ID:          "p1",
		WarehouseID: "wh-1",
		PricingType: BookingTypePallet,
		BasePrice:   10,
		Unit:        UnitDay,
		VolumeDiscounts: []VolumeDiscount{
			{Min: 20, Discount: 10},
		},
		Status: RowStatusActive,
	})
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		Quantity:    25,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-10"),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if out.Days != 10 || out.BillableDays != 10 || out.FreeDays != 0 {
		t.Fatalf("unexpected day counts: %+v", out)
	}
	if !almostEqual(out.Subtotal, 2500) {
		t.Fatalf("expected subtotal 2500, got %v", out.Subtotal)
	}
	if out.DiscountPercent != 10 || !almostEqual(out.VolumeDiscount, 250) {
		t.Fatalf("expected 10%% / 250 discount, got %v / %v", out.DiscountPercent, out.VolumeDiscount)
	}
	if !almostEqual(out.Total, 2250) {
		t.Fatalf("expected total 2250, got %v", out.Total)
	}
	if out.Currency != "USD" {
		t.Fatalf("expected USD, got %q", out.Currency)
	}
}

func TestCalculatePrice_SingleDayStay(t *testing.T) {
	repo := flatRepo(WarehousePricing{
		WarehouseID: "wh-1", PricingType: BookingTypePallet,
		BasePrice: 10, Unit: UnitDay, Status: RowStatusActive,
	})
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		Quantity:    1,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-01"),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Days != 1 {
		t.Fatalf("expected 1 day, got %d", out.Days)
	}
}

func TestCalculatePrice_BillableDaysNeverNegative(t *testing.T) {
	repo := flatRepo(WarehousePricing{
		WarehouseID: "wh-1", PricingType: BookingTypePallet,
		BasePrice: 10, Unit: UnitDay, Status: RowStatusActive,
	})
	repo.Rules = map[string]FreeStorageRules{
		"wh-1": {{MinDays: 1, FreeDays: 30, Status: RowStatusActive}},
	}
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		Quantity:    5,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-03"),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Days != 3 || out.FreeDays != 30 {
		t.Fatalf("unexpected day counts: %+v", out)
	}
	if out.BillableDays != 0 {
		t.Fatalf("expected billable floor at 0, got %d", out.BillableDays)
	}
	if out.Subtotal != 0 || out.Total != 0 {
		t.Fatalf("expected zero amounts, got %+v", out)
	}
}

func TestCalculatePrice_AreaRentalAlwaysBilledMonthly(t *testing.T) {
	// Row is configured per day, but area rental is billed monthly.
	repo := flatRepo(WarehousePricing{
		WarehouseID: "wh-1", PricingType: BookingTypeAreaRental,
		BasePrice: 100, Unit: UnitDay, Status: RowStatusActive,
	})
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypeAreaRental,
		Quantity:    1,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-31"), // 31 days -> 2 monthly units
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !almostEqual(out.Subtotal, 200) {
		t.Fatalf("expected subtotal 200 (2 monthly units), got %v", out.Subtotal)
	}
}

func TestCalculatePrice_LegacyAreaAliasMatches(t *testing.T) {
	repo := flatRepo(WarehousePricing{
		WarehouseID: "wh-1", PricingType: BookingTypeArea,
		BasePrice: 50, Unit: UnitMonth, Status: RowStatusActive,
	})
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypeAreaRental,
		Quantity:    10,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-10"),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !almostEqual(out.Subtotal, 500) {
		t.Fatalf("expected subtotal 500, got %v", out.Subtotal)
	}
}

func TestCalculatePrice_OverrideAveraging(t *testing.T) {
	p100, p120 := 100.0, 120.0
	repo := flatRepo(WarehousePricing{
		WarehouseID: "wh-1", PricingType: BookingTypePallet,
		BasePrice: 10, Unit: UnitDay, Status: RowStatusActive,
	})
	repo.Overrides = map[string][]OverrideEntry{
		"wh-1": {
			{Date: date("2025-05-02"), PalletPrice: &p100},
			{Date: date("2025-05-03"), PalletPrice: &p120},
		},
	}
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		Quantity:    1,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-04"),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// Mean of the overrides replaces the base rate for the whole stay.
	if !almostEqual(out.BasePrice, 110) {
		t.Fatalf("expected blended base 110, got %v", out.BasePrice)
	}
	if !almostEqual(out.Subtotal, 110*4) {
		t.Fatalf("expected subtotal 440, got %v", out.Subtotal)
	}
}

func TestCalculatePrice_OverrideMissingValueCountsAtBase(t *testing.T) {
	p120 := 120.0
	repo := flatRepo(WarehousePricing{
		WarehouseID: "wh-1", PricingType: BookingTypePallet,
		BasePrice: 100, Unit: UnitDay, Status: RowStatusActive,
	})
	repo.Overrides = map[string][]OverrideEntry{
		"wh-1": {
			{Date: date("2025-05-01")}, // row exists, no pallet override
			{Date: date("2025-05-02"), PalletPrice: &p120},
		},
	}
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		Quantity:    1,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-02"),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !almostEqual(out.BasePrice, 110) {
		t.Fatalf("expected base (100+120)/2 = 110, got %v", out.BasePrice)
	}
}

func TestCalculatePrice_NoFlatRow(t *testing.T) {
	svc := NewService(&MemoryRepo{})
	_, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-unknown",
		Type:        BookingTypePallet,
		Quantity:    1,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-02"),
	})
	if err != ErrPricingNotFound {
		t.Fatalf("expected ErrPricingNotFound, got %v", err)
	}
}

func TestCalculatePrice_RejectsInvertedRange(t *testing.T) {
	svc := NewService(&MemoryRepo{})
	_, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		Quantity:    1,
		StartDate:   date("2025-05-10"),
		EndDate:     date("2025-05-01"),
	})
	if err != ErrInvalidPricingReq {
		t.Fatalf("expected ErrInvalidPricingReq, got %v", err)
	}
}

func manifestRow(palletType string, period BillingUnit, goodsType string) PalletPricing {
	return PalletPricing{
		WarehouseID:   "wh-1",
		PalletType:    palletType,
		PricingPeriod: period,
		GoodsType:     goodsType,
		HeightBands:   []RateBand{{Min: 0, Max: 200, Price: 2}},
		WeightBands:   []RateBand{{Min: 0, Max: 1000, Price: 3}},
		Status:        RowStatusActive,
	}
}

func TestCalculatePrice_ManifestEndToEnd(t *testing.T) {
	row := manifestRow("euro", UnitDay, "general")
	row.StackableAdjustment = &Adjustment{Type: AdjustmentRate, Value: 0}
	repo := &MemoryRepo{Pallet: []PalletPricing{row}}
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-04"), // 4 billable days
		PalletDetails: &PalletDetails{
			Stackable: true,
			GoodsType: "general",
			Lines: []PalletLine{
				{PalletType: "euro", Quantity: 5, HeightCM: 120, WeightKG: 500},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// (2 height + 3 weight) * 5 pallets * 4 day-units
	if !almostEqual(out.Subtotal, 100) {
		t.Fatalf("expected subtotal 100, got %v", out.Subtotal)
	}
	if !almostEqual(out.BasePrice, 20) {
		t.Fatalf("expected implied base 100/5 = 20, got %v", out.BasePrice)
	}
	if !almostEqual(out.Total, 100) {
		t.Fatalf("expected total 100, got %v", out.Total)
	}
	if out.DiscountPercent != 0 || out.VolumeDiscount != 0 {
		t.Fatalf("manifest path must not apply volume discounts: %+v", out)
	}
	if out.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %v", out.Quantity)
	}
}

func TestCalculatePrice_ManifestSilentlySkipsUnknownPalletType(t *testing.T) {
	repo := &MemoryRepo{Pallet: []PalletPricing{manifestRow("euro", UnitDay, "general")}}
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-02"),
		PalletDetails: &PalletDetails{
			GoodsType: "general",
			Lines: []PalletLine{
				{PalletType: "euro", Quantity: 2, HeightCM: 100, WeightKG: 100},
				{PalletType: "industrial", Quantity: 3, HeightCM: 100, WeightKG: 100},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// Unmapped line contributes nothing, to subtotal or quantity.
	if out.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %v", out.Quantity)
	}
	if !almostEqual(out.Subtotal, (2+3)*2*2) {
		t.Fatalf("expected subtotal 20, got %v", out.Subtotal)
	}
}

func TestCalculatePrice_ManifestSkipsNonPositiveQuantity(t *testing.T) {
	repo := &MemoryRepo{Pallet: []PalletPricing{manifestRow("euro", UnitDay, "general")}}
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-01"),
		PalletDetails: &PalletDetails{
			GoodsType: "general",
			Lines:     []PalletLine{{PalletType: "euro", Quantity: 0, HeightCM: 100, WeightKG: 100}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Quantity != 0 || out.Subtotal != 0 || out.BasePrice != 0 {
		t.Fatalf("expected empty breakdown, got %+v", out)
	}
}

func TestCalculatePrice_ManifestGoodsTypeFallbackToGeneral(t *testing.T) {
	general := manifestRow("euro", UnitDay, "general")
	repo := &MemoryRepo{Pallet: []PalletPricing{general}}
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-01"),
		PalletDetails: &PalletDetails{
			GoodsType: "  Electronics ", // normalized, then falls back to general
			Lines:     []PalletLine{{PalletType: "euro", Quantity: 1, HeightCM: 100, WeightKG: 100}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !almostEqual(out.Subtotal, 5) {
		t.Fatalf("expected subtotal 5, got %v", out.Subtotal)
	}
}

func TestCalculatePrice_ManifestPrefersExactGoodsType(t *testing.T) {
	general := manifestRow("euro", UnitDay, "general")
	cold := manifestRow("euro", UnitDay, "refrigerated")
	cold.HeightBands = []RateBand{{Min: 0, Max: 200, Price: 10}}
	cold.WeightBands = []RateBand{{Min: 0, Max: 1000, Price: 10}}
	repo := &MemoryRepo{Pallet: []PalletPricing{general, cold}}
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-01"),
		PalletDetails: &PalletDetails{
			GoodsType: "Refrigerated",
			Lines:     []PalletLine{{PalletType: "euro", Quantity: 1, HeightCM: 100, WeightKG: 100}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !almostEqual(out.Subtotal, 20) {
		t.Fatalf("expected refrigerated rates (20), got %v", out.Subtotal)
	}
}

func TestCalculatePrice_ManifestMonthlyPeriodSelection(t *testing.T) {
	day := manifestRow("euro", UnitDay, "general")
	month := manifestRow("euro", UnitMonth, "general")
	month.HeightBands = []RateBand{{Min: 0, Max: 200, Price: 40}}
	month.WeightBands = []RateBand{{Min: 0, Max: 1000, Price: 20}}
	repo := &MemoryRepo{Pallet: []PalletPricing{day, month}}
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-06-14"), // 45 days -> 2 monthly units
		PalletDetails: &PalletDetails{
			GoodsType: "general",
			Lines:     []PalletLine{{PalletType: "euro", Quantity: 1, HeightCM: 100, WeightKG: 100}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !almostEqual(out.Subtotal, 60*2) {
		t.Fatalf("expected monthly rate 60 * 2 units, got %v", out.Subtotal)
	}
}

func TestCalculatePrice_ManifestUnstackableAdjustment(t *testing.T) {
	row := manifestRow("euro", UnitDay, "general")
	row.UnstackableAdjustment = &Adjustment{Type: AdjustmentRate, Value: 20}
	repo := &MemoryRepo{Pallet: []PalletPricing{row}}
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-01"),
		PalletDetails: &PalletDetails{
			Stackable: false,
			GoodsType: "general",
			Lines:     []PalletLine{{PalletType: "euro", Quantity: 1, HeightCM: 100, WeightKG: 100}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// (2+3) * 1.2 = 6
	if !almostEqual(out.Subtotal, 6) {
		t.Fatalf("expected subtotal 6, got %v", out.Subtotal)
	}
}

func TestCalculatePrice_ManifestUnmatchedBandsContributeZero(t *testing.T) {
	row := manifestRow("euro", UnitDay, "general")
	row.HeightBands = []RateBand{{Min: 0, Max: 50, Price: 2}} // line height falls outside
	repo := &MemoryRepo{Pallet: []PalletPricing{row}}
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-01"),
		PalletDetails: &PalletDetails{
			GoodsType: "general",
			Lines:     []PalletLine{{PalletType: "euro", Quantity: 1, HeightCM: 180, WeightKG: 100}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// Only the weight component prices.
	if !almostEqual(out.Subtotal, 3) {
		t.Fatalf("expected subtotal 3, got %v", out.Subtotal)
	}
}

func TestCalculatePrice_ManifestNoRowsAtAll(t *testing.T) {
	svc := NewService(&MemoryRepo{})
	_, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-01"),
		PalletDetails: &PalletDetails{
			GoodsType: "general",
			Lines:     []PalletLine{{PalletType: "euro", Quantity: 1}},
		},
	})
	if err != ErrPricingNotFound {
		t.Fatalf("expected ErrPricingNotFound, got %v", err)
	}
}

func TestCalculatePrice_ManifestFreeDaysApply(t *testing.T) {
	repo := &MemoryRepo{
		Pallet: []PalletPricing{manifestRow("euro", UnitDay, "general")},
		Rules: map[string]FreeStorageRules{
			"wh-1": {{MinDays: 5, FreeDays: 2, Status: RowStatusActive}},
		},
	}
	svc := NewService(repo)

	out, err := svc.CalculatePrice(context.Background(), PriceCalculation{
		WarehouseID: "wh-1",
		Type:        BookingTypePallet,
		StartDate:   date("2025-05-01"),
		EndDate:     date("2025-05-10"),
		PalletDetails: &PalletDetails{
			GoodsType: "general",
			Lines:     []PalletLine{{PalletType: "euro", Quantity: 1, HeightCM: 100, WeightKG: 100}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Days != 10 || out.FreeDays != 2 || out.BillableDays != 8 {
		t.Fatalf("unexpected day counts: %+v", out)
	}
	// Billable 8 days with a week row absent: day units.
	if !almostEqual(out.Subtotal, 5*8) {
		t.Fatalf("expected subtotal 40, got %v", out.Subtotal)
	}
}
