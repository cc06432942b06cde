package pricing

// FreeStorageRule exempts FreeDays from billing once a booking reaches
// MinDays total days.
type FreeStorageRule struct {
	ID          string `json:"id" db:"id"`
	WarehouseID string `json:"warehouse_id" db:"warehouse_id"`

	MinDays  int `json:"min_days" db:"min_days"`
	FreeDays int `json:"free_days" db:"free_days"`

	Status RowStatus `json:"status" db:"status"`
}

// FreeStorageRules is the warehouse-scoped free-storage configuration.
type FreeStorageRules []FreeStorageRule

// FreeStorageDays evaluates the rules for a stay of totalDays and returns
// how many days are exempt from billing. The rule with the largest
// qualifying MinDays applies; inactive rules are ignored.
func FreeStorageDays(rules FreeStorageRules, totalDays int) int {
	free := 0
	bestMin := -1
	for _, r := range rules {
		if r.Status == RowStatusInactive {
			continue
		}
		if totalDays < r.MinDays {
			continue
		}
		if r.MinDays > bestMin {
			bestMin = r.MinDays
			free = r.FreeDays
		}
	}
	if free < 0 {
		return 0
	}
	return free
}
