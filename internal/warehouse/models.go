package warehouse

import "time"

// Warehouse is a company-scoped storage facility.
// Capacity fields are operational metadata; they do not participate in
// pricing, which reads its own rate tables.
type Warehouse struct {
	ID        string `json:"id" db:"id"`
	CompanyID string `json:"company_id" db:"company_id"`

	Name    string `json:"name" db:"name"`
	Address string `json:"address,omitempty" db:"address"`

	// PalletCapacity is the number of pallet slots; AreaSqFt is rentable
	// floor area in square feet.
	PalletCapacity int     `json:"pallet_capacity" db:"pallet_capacity"`
	AreaSqFt       float64 `json:"area_sq_ft" db:"area_sq_ft"`

	Status Status `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Status string

const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusMaintenance Status = "maintenance"
)

// DateOverride is one warehouse_availability row: optional per-type price
// overrides for a single calendar date. A nil price clears the override
// for that type.
type DateOverride struct {
	Date        time.Time `json:"date"`
	PalletPrice *float64  `json:"pallet_price,omitempty"`
	AreaPrice   *float64  `json:"area_price,omitempty"`
}
