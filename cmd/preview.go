package cmd

import (
	"fmt"
	"math/rand/v2"

	"billgen/internal/billing"
	"billgen/internal/logger"
	"billgen/internal/render"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the first bill of the batch as text",
	Long: `Render the first bill of the profile's batch as plain text, using the same
layout as the generated documents, and show how many bills a full run would
produce.`,
	Example: `  billgen preview
  billgen preview -p annai.yaml --seed 7`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().Uint64("seed", 0, "Seed for the sample time and table number (default: random)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("preview")
	out := cmd.OutOrStdout()

	cfg, _, err := loadProfile(cmd, log)
	if err != nil {
		return err
	}
	if err := billing.Validate(cfg); err != nil {
		return fmt.Errorf("invalid bill profile: %w", err)
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	receipt := billing.NewReceipt(cfg, billing.FirstSlot(cfg), rng)
	data, err := render.NewTextRenderer(render.DefaultLayout()).Render(receipt)
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}

	days := billing.DayCount(cfg.StartDate, cfg.EndDate)
	fmt.Fprintf(out, "%d bills x %d days = %d total bills\n\n", cfg.BillsPerDay, days, billing.TotalBills(cfg))
	_, err = out.Write(data)
	return err
}
