package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"tsmartwarehouse/internal/pricing"

	"github.com/spf13/cobra"
)

var (
	quoteWarehouseID string
	quoteType        string
	quoteQuantity    float64
	quoteStart       string
	quoteEnd         string
	quoteManifest    string
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute a price quote against the live rate tables",
	Long: `Computes a price breakdown for a booking using the warehouse's
configured rate tables. With --manifest, pricing is computed per pallet
line from the manifest file instead of the flat rate.`,
	Example: `  warehousectl quote --warehouse wh-1 --type pallet --quantity 25 --start 2026-03-01 --end 2026-03-10
  warehousectl quote --warehouse wh-1 --type pallet --start 2026-03-01 --end 2026-03-10 --manifest ./manifest.json`,
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&quoteWarehouseID, "warehouse", "", "Warehouse ID (required)")
	quoteCmd.Flags().StringVar(&quoteType, "type", "pallet", "Booking type: pallet or area-rental")
	quoteCmd.Flags().Float64Var(&quoteQuantity, "quantity", 0, "Pallet count or square feet")
	quoteCmd.Flags().StringVar(&quoteStart, "start", "", "Start date YYYY-MM-DD (required)")
	quoteCmd.Flags().StringVar(&quoteEnd, "end", "", "End date YYYY-MM-DD (required)")
	quoteCmd.Flags().StringVar(&quoteManifest, "manifest", "", "Path to a pallet manifest JSON file")
	quoteCmd.MarkFlagRequired("warehouse")
	quoteCmd.MarkFlagRequired("start")
	quoteCmd.MarkFlagRequired("end")
}

func runQuote(cmd *cobra.Command, args []string) error {
	start, err := time.Parse("2006-01-02", quoteStart)
	if err != nil {
		return fmt.Errorf("--start must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", quoteEnd)
	if err != nil {
		return fmt.Errorf("--end must be YYYY-MM-DD")
	}

	req := pricing.PriceCalculation{
		WarehouseID: quoteWarehouseID,
		Type:        pricing.BookingType(quoteType),
		Quantity:    quoteQuantity,
		StartDate:   start,
		EndDate:     end,
	}

	if quoteManifest != "" {
		raw, err := os.ReadFile(quoteManifest)
		if err != nil {
			return fmt.Errorf("read manifest: %w", err)
		}
		var details pricing.PalletDetails
		if err := json.Unmarshal(raw, &details); err != nil {
			return fmt.Errorf("parse manifest: %w", err)
		}
		req.PalletDetails = &details
	}

	svc := pricing.NewService(pricing.NewPostgresRepo(db))
	breakdown, err := svc.CalculatePrice(context.Background(), req)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(breakdown, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
