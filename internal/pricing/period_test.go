package pricing

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestInclusiveDays(t *testing.T) {
	// Same start and end date counts as one day.
	if got := inclusiveDays(date("2025-03-01"), date("2025-03-01")); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := inclusiveDays(date("2025-03-01"), date("2025-03-10")); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	// Partial days round up before the inclusive +1.
	start := date("2025-03-01")
	end := date("2025-03-02").Add(6 * time.Hour)
	if got := inclusiveDays(start, end); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestPeriodUnits(t *testing.T) {
	if got := periodUnits(10, UnitDay); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := periodUnits(8, UnitWeek); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := periodUnits(7, UnitWeek); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := periodUnits(31, UnitMonth); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := periodUnits(0, UnitMonth); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestSelectBillingPeriod(t *testing.T) {
	all := []BillingUnit{UnitDay, UnitWeek, UnitMonth}

	if got := selectBillingPeriod(all, 30); got != UnitMonth {
		t.Fatalf("expected month, got %s", got)
	}
	if got := selectBillingPeriod(all, 29); got != UnitWeek {
		t.Fatalf("expected week, got %s", got)
	}
	if got := selectBillingPeriod(all, 6); got != UnitDay {
		t.Fatalf("expected day, got %s", got)
	}
	// 30+ days but no month row available: fall through to week.
	if got := selectBillingPeriod([]BillingUnit{UnitDay, UnitWeek}, 45); got != UnitWeek {
		t.Fatalf("expected week, got %s", got)
	}
	// Short stay with only a month row: use what exists.
	if got := selectBillingPeriod([]BillingUnit{UnitMonth}, 3); got != UnitMonth {
		t.Fatalf("expected month, got %s", got)
	}
	if got := selectBillingPeriod(nil, 3); got != UnitDay {
		t.Fatalf("expected day default, got %s", got)
	}
}

func TestVolumeDiscountPercent_TierSelection(t *testing.T) {
	tiers := []VolumeDiscount{
		{Min: 10, Discount: 5},
		{Min: 50, Discount: 10},
	}

	if got := volumeDiscountPercent(tiers, 49); got != 5 {
		t.Fatalf("quantity 49: expected 5, got %v", got)
	}
	if got := volumeDiscountPercent(tiers, 50); got != 10 {
		t.Fatalf("quantity 50: expected 10, got %v", got)
	}
	if got := volumeDiscountPercent(tiers, 9); got != 0 {
		t.Fatalf("quantity 9: expected 0, got %v", got)
	}
	if got := volumeDiscountPercent(nil, 100); got != 0 {
		t.Fatalf("no tiers: expected 0, got %v", got)
	}
}
