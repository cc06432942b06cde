package pricing

import "testing"

func TestFreeStorageDays(t *testing.T) {
	rules := FreeStorageRules{
		{MinDays: 7, FreeDays: 1, Status: RowStatusActive},
		{MinDays: 30, FreeDays: 5, Status: RowStatusActive},
	}

	if got := FreeStorageDays(rules, 5); got != 0 {
		t.Fatalf("5 days: expected 0, got %d", got)
	}
	if got := FreeStorageDays(rules, 10); got != 1 {
		t.Fatalf("10 days: expected 1, got %d", got)
	}
	if got := FreeStorageDays(rules, 31); got != 5 {
		t.Fatalf("31 days: expected 5, got %d", got)
	}
	if got := FreeStorageDays(nil, 100); got != 0 {
		t.Fatalf("no rules: expected 0, got %d", got)
	}
}

func TestFreeStorageDays_IgnoresInactiveRules(t *testing.T) {
	rules := FreeStorageRules{
		{MinDays: 1, FreeDays: 100, Status: RowStatusInactive},
		{MinDays: 7, FreeDays: 2, Status: RowStatusActive},
	}
	if got := FreeStorageDays(rules, 10); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}
