package main

import (
	"context"
	"fmt"

	"tsmartwarehouse/internal/pricing"
	"tsmartwarehouse/internal/warehouse"

	"github.com/spf13/cobra"
)

var (
	seedCompanyID string
	seedName      string
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a demo warehouse with a full set of rate tables",
	Long: `Creates a warehouse for the given company and configures flat pallet
and area-rental pricing, pallet detail bands, free storage rules, and a
volume discount ladder. Intended for local development and demos.`,
	Example: `  warehousectl seed --company co-demo --name "Dock A"`,
	RunE:    runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedCompanyID, "company", "", "Company ID (required)")
	seedCmd.Flags().StringVar(&seedName, "name", "Demo Warehouse", "Warehouse name")
	seedCmd.MarkFlagRequired("company")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svc := warehouse.NewService(warehouse.NewPostgresRepo(db), nil)
	actor := warehouse.Actor{UserID: "warehousectl", Role: "operator"}

	w, err := svc.Create(ctx, seedCompanyID, warehouse.Warehouse{
		Name:           seedName,
		Address:        "1 Demo Street",
		PalletCapacity: 2000,
		AreaSqFt:       50000,
	})
	if err != nil {
		return fmt.Errorf("create warehouse: %w", err)
	}
	log.Info("warehouse created", "warehouse_id", w.ID)

	if _, err := svc.SetFlatPricing(ctx, seedCompanyID, actor, pricing.WarehousePricing{
		WarehouseID: w.ID,
		PricingType: pricing.BookingTypePallet,
		BasePrice:   10,
		Unit:        pricing.UnitDay,
		VolumeDiscounts: []pricing.VolumeDiscount{
			{Min: 50, Discount: 5},
			{Min: 100, Discount: 10},
		},
	}); err != nil {
		return fmt.Errorf("flat pallet pricing: %w", err)
	}

	if _, err := svc.SetFlatPricing(ctx, seedCompanyID, actor, pricing.WarehousePricing{
		WarehouseID: w.ID,
		PricingType: pricing.BookingTypeAreaRental,
		BasePrice:   2.5,
		Unit:        pricing.UnitMonth,
	}); err != nil {
		return fmt.Errorf("flat area pricing: %w", err)
	}

	ratePlus := pricing.Adjustment{Type: pricing.AdjustmentRate, Value: 20}
	if _, err := svc.SetPalletPricing(ctx, seedCompanyID, actor, pricing.PalletPricing{
		WarehouseID: w.ID,
		PalletType:    "euro",
		GoodsType:     "general",
		PricingPeriod: pricing.UnitDay,
		HeightBands: []pricing.RateBand{
			{Min: 0, Max: 150, Price: 8},
			{Min: 151, Max: 250, Price: 12},
		},
		WeightBands: []pricing.RateBand{
			{Min: 0, Max: 500, Price: 2},
			{Min: 501, Max: 1000, Price: 4},
		},
		UnstackableAdjustment: &ratePlus,
	}); err != nil {
		return fmt.Errorf("pallet pricing: %w", err)
	}

	if _, err := svc.SetFreeStorageRules(ctx, seedCompanyID, actor, w.ID, pricing.FreeStorageRules{
		{MinDays: 30, FreeDays: 2, Status: pricing.RowStatusActive},
		{MinDays: 90, FreeDays: 7, Status: pricing.RowStatusActive},
	}); err != nil {
		return fmt.Errorf("free storage rules: %w", err)
	}

	log.Info("seed complete", "company_id", seedCompanyID, "warehouse_id", w.ID)
	fmt.Println(w.ID)
	return nil
}
