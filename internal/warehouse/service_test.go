package warehouse

import (
	"context"
	"testing"
	"time"

	"tsmartwarehouse/internal/audit"
	"tsmartwarehouse/internal/pricing"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func newTestService(t *testing.T) (*Service, *MemoryRepo, *audit.MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	auditRepo := audit.NewMemoryRepo()
	return NewService(repo, audit.NewService(auditRepo)), repo, auditRepo
}

func createTestWarehouse(t *testing.T, svc *Service) Warehouse {
	t.Helper()
	w, err := svc.Create(context.Background(), "co-1", Warehouse{Name: "North Dock", PalletCapacity: 500, AreaSqFt: 12000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return w
}

func TestCreateAndGet(t *testing.T) {
	svc, _, _ := newTestService(t)
	w := createTestWarehouse(t, svc)

	if w.ID == "" || w.Status != StatusActive {
		t.Fatalf("unexpected warehouse: %+v", w)
	}

	got, err := svc.Get(context.Background(), "co-1", w.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "North Dock" {
		t.Fatalf("unexpected name %q", got.Name)
	}

	// Another company cannot see it.
	if _, err := svc.Get(context.Background(), "co-2", w.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetFlatPricing_WritesRowTheEngineReads(t *testing.T) {
	svc, repo, auditRepo := newTestService(t)
	w := createTestWarehouse(t, svc)

	_, err := svc.SetFlatPricing(context.Background(), "co-1", Actor{UserID: "u", Role: "operator"}, pricing.WarehousePricing{
		WarehouseID: w.ID,
		PricingType: pricing.BookingTypePallet,
		BasePrice:   10,
		Unit:        pricing.UnitDay,
	})
	if err != nil {
		t.Fatalf("set flat pricing: %v", err)
	}

	engine := pricing.NewService(repo)
	out, err := engine.CalculatePrice(context.Background(), pricing.PriceCalculation{
		WarehouseID: w.ID,
		Type:        pricing.BookingTypePallet,
		Quantity:    2,
		StartDate:   mustDate(t, "2025-05-01"),
		EndDate:     mustDate(t, "2025-05-05"),
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if out.Subtotal != 100 {
		t.Fatalf("expected subtotal 100, got %v", out.Subtotal)
	}

	evs := auditRepo.Events()
	if len(evs) != 1 || evs[0].Type != audit.EventTypeRateChange {
		t.Fatalf("expected one rate_change audit event, got %+v", evs)
	}
}

func TestSetFlatPricing_RejectsBadInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	w := createTestWarehouse(t, svc)

	cases := []pricing.WarehousePricing{
		{WarehouseID: w.ID, PricingType: "crate", BasePrice: 10, Unit: pricing.UnitDay},
		{WarehouseID: w.ID, PricingType: pricing.BookingTypePallet, BasePrice: -1, Unit: pricing.UnitDay},
		{WarehouseID: w.ID, PricingType: pricing.BookingTypePallet, BasePrice: 10, Unit: "year"},
		{WarehouseID: w.ID, PricingType: pricing.BookingTypePallet, BasePrice: 10, Unit: pricing.UnitDay,
			VolumeDiscounts: []pricing.VolumeDiscount{{Min: 10, Discount: 150}}},
	}
	for i, row := range cases {
		if _, err := svc.SetFlatPricing(context.Background(), "co-1", Actor{}, row); err != ErrInvalidArgument {
			t.Fatalf("case %d: expected ErrInvalidArgument, got %v", i, err)
		}
	}

	// Unknown warehouse.
	if _, err := svc.SetFlatPricing(context.Background(), "co-1", Actor{}, pricing.WarehousePricing{
		WarehouseID: "nope", PricingType: pricing.BookingTypePallet, BasePrice: 10, Unit: pricing.UnitDay,
	}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetPalletPricing_RejectsOverlappingBands(t *testing.T) {
	svc, _, _ := newTestService(t)
	w := createTestWarehouse(t, svc)

	_, err := svc.SetPalletPricing(context.Background(), "co-1", Actor{}, pricing.PalletPricing{
		WarehouseID:   w.ID,
		PalletType:    "euro",
		PricingPeriod: pricing.UnitDay,
		GoodsType:     "general",
		HeightBands: []pricing.RateBand{
			{Min: 0, Max: 100, Price: 2},
			{Min: 100, Max: 200, Price: 4}, // overlaps at 100
		},
	})
	if err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSetDateOverrideAndRules_FeedTheEngine(t *testing.T) {
	svc, repo, _ := newTestService(t)
	w := createTestWarehouse(t, svc)

	if _, err := svc.SetFlatPricing(context.Background(), "co-1", Actor{}, pricing.WarehousePricing{
		WarehouseID: w.ID, PricingType: pricing.BookingTypePallet, BasePrice: 100, Unit: pricing.UnitDay,
	}); err != nil {
		t.Fatalf("flat pricing: %v", err)
	}

	p120 := 120.0
	if err := svc.SetDateOverride(context.Background(), "co-1", Actor{}, w.ID, DateOverride{
		Date: mustDate(t, "2025-05-02"), PalletPrice: &p120,
	}); err != nil {
		t.Fatalf("override: %v", err)
	}
	if _, err := svc.SetFreeStorageRules(context.Background(), "co-1", Actor{}, w.ID, pricing.FreeStorageRules{
		{MinDays: 2, FreeDays: 1},
	}); err != nil {
		t.Fatalf("rules: %v", err)
	}

	engine := pricing.NewService(repo)
	out, err := engine.CalculatePrice(context.Background(), pricing.PriceCalculation{
		WarehouseID: w.ID,
		Type:        pricing.BookingTypePallet,
		Quantity:    1,
		StartDate:   mustDate(t, "2025-05-01"),
		EndDate:     mustDate(t, "2025-05-02"),
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	// Single override of 120 replaces the base; 2 days minus 1 free.
	if out.BasePrice != 120 || out.FreeDays != 1 || out.BillableDays != 1 {
		t.Fatalf("unexpected breakdown: %+v", out)
	}
	if out.Total != 120 {
		t.Fatalf("expected total 120, got %v", out.Total)
	}
}
