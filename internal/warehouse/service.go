package warehouse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tsmartwarehouse/internal/audit"
	"tsmartwarehouse/internal/pricing"

	"github.com/google/uuid"
)

// Service manages warehouses and their rate configuration.
//
// Rate-table writes are audit-logged best-effort: an audit failure never
// rolls back the change.
type Service struct {
	repo  Repository
	audit *audit.Service
	clock func() time.Time
}

func NewService(repo Repository, auditSvc *audit.Service) *Service {
	return &Service{repo: repo, audit: auditSvc, clock: time.Now}
}

var (
	ErrNotFound        = errors.New("warehouse not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Actor identifies who performs an administrative change, for auditing.
type Actor struct {
	UserID string
	Role   string
	IP     string
}

func (s *Service) Create(ctx context.Context, companyID string, w Warehouse) (Warehouse, error) {
	if companyID == "" || w.Name == "" {
		return Warehouse{}, ErrInvalidArgument
	}
	if w.PalletCapacity < 0 || w.AreaSqFt < 0 {
		return Warehouse{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	w.ID = uuid.NewString()
	w.CompanyID = companyID
	if w.Status == "" {
		w.Status = StatusActive
	}
	w.CreatedAt = now
	w.UpdatedAt = now

	if err := s.repo.CreateWarehouse(ctx, w); err != nil {
		return Warehouse{}, err
	}
	return w, nil
}

func (s *Service) Get(ctx context.Context, companyID, id string) (Warehouse, error) {
	if companyID == "" || id == "" {
		return Warehouse{}, ErrInvalidArgument
	}
	w, ok, err := s.repo.GetWarehouse(ctx, companyID, id)
	if err != nil {
		return Warehouse{}, err
	}
	if !ok {
		return Warehouse{}, ErrNotFound
	}
	return w, nil
}

func (s *Service) List(ctx context.Context, companyID string) ([]Warehouse, error) {
	if companyID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.ListWarehouses(ctx, companyID)
}

// SetFlatPricing upserts the flat rate row for a warehouse and pricing type.
func (s *Service) SetFlatPricing(ctx context.Context, companyID string, actor Actor, row pricing.WarehousePricing) (pricing.WarehousePricing, error) {
	if err := s.ownWarehouse(ctx, companyID, row.WarehouseID); err != nil {
		return pricing.WarehousePricing{}, err
	}
	if row.BasePrice < 0 {
		return pricing.WarehousePricing{}, ErrInvalidArgument
	}
	switch row.PricingType {
	case pricing.BookingTypePallet, pricing.BookingTypeAreaRental, pricing.BookingTypeArea:
	default:
		return pricing.WarehousePricing{}, ErrInvalidArgument
	}
	if !validUnit(row.Unit) {
		return pricing.WarehousePricing{}, ErrInvalidArgument
	}
	for _, d := range row.VolumeDiscounts {
		if d.Min < 0 || d.Discount < 0 || d.Discount > 100 {
			return pricing.WarehousePricing{}, ErrInvalidArgument
		}
	}

	now := s.clock().UTC()
	if row.ID == "" {
		row.ID = uuid.NewString()
		row.CreatedAt = now
	}
	if row.Status == "" {
		row.Status = pricing.RowStatusActive
	}
	row.UpdatedAt = now

	if err := s.repo.UpsertFlatPricing(ctx, row); err != nil {
		return pricing.WarehousePricing{}, err
	}
	s.logRateChange(ctx, companyID, actor, row.WarehouseID,
		fmt.Sprintf("flat pricing %s set", row.PricingType), row)
	return row, nil
}

// SetPalletPricing upserts one pallet detail rate row.
func (s *Service) SetPalletPricing(ctx context.Context, companyID string, actor Actor, row pricing.PalletPricing) (pricing.PalletPricing, error) {
	if err := s.ownWarehouse(ctx, companyID, row.WarehouseID); err != nil {
		return pricing.PalletPricing{}, err
	}
	if row.PalletType == "" || row.GoodsType == "" {
		return pricing.PalletPricing{}, ErrInvalidArgument
	}
	if !validUnit(row.PricingPeriod) {
		return pricing.PalletPricing{}, ErrInvalidArgument
	}
	if err := validateBands(row.HeightBands); err != nil {
		return pricing.PalletPricing{}, err
	}
	if err := validateBands(row.WeightBands); err != nil {
		return pricing.PalletPricing{}, err
	}
	if err := validateAdjustment(row.StackableAdjustment); err != nil {
		return pricing.PalletPricing{}, err
	}
	if err := validateAdjustment(row.UnstackableAdjustment); err != nil {
		return pricing.PalletPricing{}, err
	}

	now := s.clock().UTC()
	if row.ID == "" {
		row.ID = uuid.NewString()
		row.CreatedAt = now
	}
	if row.Status == "" {
		row.Status = pricing.RowStatusActive
	}
	row.UpdatedAt = now

	if err := s.repo.UpsertPalletPricing(ctx, row); err != nil {
		return pricing.PalletPricing{}, err
	}
	s.logRateChange(ctx, companyID, actor, row.WarehouseID,
		fmt.Sprintf("pallet pricing %s/%s/%s set", row.PalletType, row.PricingPeriod, row.GoodsType), row)
	return row, nil
}

// SetDateOverride upserts a per-date price override.
func (s *Service) SetDateOverride(ctx context.Context, companyID string, actor Actor, warehouseID string, o DateOverride) error {
	if err := s.ownWarehouse(ctx, companyID, warehouseID); err != nil {
		return err
	}
	if o.Date.IsZero() {
		return ErrInvalidArgument
	}
	if (o.PalletPrice != nil && *o.PalletPrice < 0) || (o.AreaPrice != nil && *o.AreaPrice < 0) {
		return ErrInvalidArgument
	}
	if err := s.repo.SetDateOverride(ctx, warehouseID, o); err != nil {
		return err
	}
	if s.audit != nil {
		meta, _ := json.Marshal(o)
		_ = s.audit.LogOverrideChange(ctx, companyID, actor.UserID, actor.Role, warehouseID,
			"date override set", string(meta))
	}
	return nil
}

// SetFreeStorageRules replaces the warehouse's free-storage rule set.
func (s *Service) SetFreeStorageRules(ctx context.Context, companyID string, actor Actor, warehouseID string, rules pricing.FreeStorageRules) (pricing.FreeStorageRules, error) {
	if err := s.ownWarehouse(ctx, companyID, warehouseID); err != nil {
		return nil, err
	}

	for i := range rules {
		if rules[i].MinDays < 0 || rules[i].FreeDays < 0 {
			return nil, ErrInvalidArgument
		}
		if rules[i].ID == "" {
			rules[i].ID = uuid.NewString()
		}
		rules[i].WarehouseID = warehouseID
		if rules[i].Status == "" {
			rules[i].Status = pricing.RowStatusActive
		}
	}

	if err := s.repo.ReplaceFreeStorageRules(ctx, warehouseID, rules); err != nil {
		return nil, err
	}
	s.logRateChange(ctx, companyID, actor, warehouseID, "free storage rules replaced", rules)
	return rules, nil
}

func (s *Service) ownWarehouse(ctx context.Context, companyID, warehouseID string) error {
	if companyID == "" || warehouseID == "" {
		return ErrInvalidArgument
	}
	_, ok, err := s.repo.GetWarehouse(ctx, companyID, warehouseID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) logRateChange(ctx context.Context, companyID string, actor Actor, warehouseID, message string, payload any) {
	if s.audit == nil {
		return
	}
	meta, _ := json.Marshal(payload)
	_ = s.audit.LogRateChange(ctx, companyID, actor.UserID, actor.Role, warehouseID, message, string(meta))
}

func validUnit(u pricing.BillingUnit) bool {
	switch u {
	case pricing.UnitDay, pricing.UnitWeek, pricing.UnitMonth:
		return true
	default:
		return false
	}
}

func validateBands(bands []pricing.RateBand) error {
	for _, b := range bands {
		if b.Min > b.Max || b.Price < 0 {
			return ErrInvalidArgument
		}
	}
	// Overlap check: bands are inclusive on both ends.
	for i := range bands {
		for j := i + 1; j < len(bands); j++ {
			if bands[i].Min <= bands[j].Max && bands[j].Min <= bands[i].Max {
				return ErrInvalidArgument
			}
		}
	}
	return nil
}

func validateAdjustment(a *pricing.Adjustment) error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case pricing.AdjustmentRate, pricing.AdjustmentPlusPerUnit:
		return nil
	default:
		return ErrInvalidArgument
	}
}
