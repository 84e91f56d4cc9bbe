package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"billgen/internal/billing"
	"billgen/internal/logger"
	"billgen/internal/output"
	"billgen/internal/render"
	"billgen/internal/sheets"
	"billgen/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// genericFailureNotice is the only failure message shown for a broken batch.
const genericFailureNotice = "Error generating bills. Please try again."

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one bill document per day and bill in the profile's date range",
	Long: `Generate bills for every day between the profile's start and end date.

For each day, bills_per_day documents are written to the output directory as
Bill_<DD-MM-YYYY>_<bill no>.<ext>. Bill numbers are
1000 + day*10 + bill, counting both day and bill from 1.
Each bill gets a random time inside the profile's hour window and a random
table number between 1 and 100.

If a bill fails to render or write, generation stops. Bills already written
are kept.

Optional environment variables:
  OUTPUT_DIR             - Output directory (default: bills)
  BILL_FORMAT            - pdf or txt (default: pdf)
  BILL_DELAY_MS          - Pause between bills in milliseconds (default: 0)
  GOOGLE_SHEET_URL       - Also append every bill to this Google Sheet
  GOOGLE_SHEET_WORKSHEET - Worksheet name for the ledger (default: Bills)`,
	Example: `  # Generate PDFs for the default profile (bill.yaml)
  billgen generate

  # Use another profile and output folder
  billgen generate -p annai.yaml -o ./june

  # Reproducible times and tables, plus an Excel manifest
  billgen generate --seed 42 --manifest bills.xlsx

  # Count and preview the batch without writing files
  billgen generate --dry-run`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("output", "o", "", "Output directory (default: $OUTPUT_DIR or bills)")
	generateCmd.Flags().StringP("format", "f", "", "Document format: pdf or txt (default: $BILL_FORMAT or pdf)")
	generateCmd.Flags().Uint64("seed", 0, "Seed for times and table numbers (default: random)")
	generateCmd.Flags().Duration("delay", 0, "Pause between bills, e.g. 100ms (default: $BILL_DELAY_MS or none)")
	generateCmd.Flags().String("manifest", "", "Write an .xlsx manifest of all generated bills to this path")
	generateCmd.Flags().String("sheet-url", "", "Append generated bills to this Google Sheet (default: $GOOGLE_SHEET_URL)")
	generateCmd.Flags().String("worksheet", "", "Worksheet for the Google Sheet ledger (default: $GOOGLE_SHEET_WORKSHEET or Bills)")
	generateCmd.Flags().Bool("dry-run", false, "Render every bill but do not write any files")
}

type generateOptions struct {
	outputDir    string
	format       string
	seed         uint64
	seeded       bool
	delay        time.Duration
	manifestPath string
	sheetURL     string
	worksheet    string
	dryRun       bool
}

func generateFlags(cmd *cobra.Command) generateOptions {
	opts := generateOptions{
		outputDir: appConfig.OutputDir,
		format:    appConfig.Format,
		delay:     appConfig.Delay,
		sheetURL:  appConfig.GoogleSheetURL,
		worksheet: appConfig.GoogleSheetWorksheet,
	}

	if v, _ := cmd.Flags().GetString("output"); v != "" {
		opts.outputDir = v
	}
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		opts.format = strings.ToLower(v)
	}
	if cmd.Flags().Changed("delay") {
		opts.delay, _ = cmd.Flags().GetDuration("delay")
	}
	if v, _ := cmd.Flags().GetString("sheet-url"); v != "" {
		opts.sheetURL = v
	}
	if v, _ := cmd.Flags().GetString("worksheet"); v != "" {
		opts.worksheet = v
	}
	opts.seeded = cmd.Flags().Changed("seed")
	opts.seed, _ = cmd.Flags().GetUint64("seed")
	opts.manifestPath, _ = cmd.Flags().GetString("manifest")
	opts.dryRun, _ = cmd.Flags().GetBool("dry-run")
	return opts
}

func runGenerate(cmd *cobra.Command, args []string) error {
	batchID := uuid.NewString()
	log := logger.WithBatchID("generate", batchID)
	out := cmd.OutOrStdout()

	opts := generateFlags(cmd)

	cfg, profileFile, err := loadProfile(cmd, log)
	if err != nil {
		return err
	}

	renderer, err := render.New(opts.format, render.DefaultLayout())
	if err != nil {
		return err
	}

	log.Info().
		Str("profile", profileFile).
		Str("output", opts.outputDir).
		Str("format", renderer.Extension()).
		Bool("dry_run", opts.dryRun).
		Msg("Starting bill generation")

	ctx, cancel := createGenerateContext(log)
	defer cancel()

	var emitter billing.Emitter = output.DiscardEmitter{}
	if !opts.dryRun {
		dirEmitter, err := output.NewDirEmitter(opts.outputDir)
		if err != nil {
			return err
		}
		emitter = dirEmitter
	}

	genOpts := []billing.Option{
		billing.WithLogger(log),
		billing.WithDelay(opts.delay),
		billing.WithObserver(progressPrinter(out, opts.dryRun)),
	}
	if opts.seeded {
		genOpts = append(genOpts, billing.WithSeed(opts.seed))
	}

	var manifest *output.Manifest
	if opts.manifestPath != "" {
		manifest, err = output.NewManifest()
		if err != nil {
			return err
		}
		genOpts = append(genOpts, billing.WithObserver(manifest))
	}

	var ledger *sheets.Ledger
	if opts.sheetURL != "" && !opts.dryRun {
		sheetsService, err := sheets.NewSheetsService(ctx, opts.sheetURL)
		if err != nil {
			return fmt.Errorf("failed to create Google Sheets service: %w", err)
		}
		ledger = sheets.NewLedger(sheetsService, opts.worksheet, batchID)
		genOpts = append(genOpts, billing.WithObserver(ledger))
	}

	printGenerateHeader(out, cfg, opts, renderer.Extension())

	start := time.Now()
	count, genErr := billing.NewGenerator(renderer, emitter, genOpts...).Generate(ctx, cfg)
	elapsed := time.Since(start)

	// Partial batches still get their manifest and ledger rows.
	if manifest != nil {
		if err := manifest.Save(opts.manifestPath); err != nil {
			log.Error().Err(err).Str("manifest", opts.manifestPath).Msg("Failed to save manifest")
			if genErr == nil {
				return err
			}
		} else {
			fmt.Fprintf(out, "Manifest: %s (%d rows)\n", opts.manifestPath, count)
		}
	}
	if ledger != nil && ledger.Pending() > 0 {
		if err := ledger.Flush(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to write Google Sheet ledger")
			if genErr == nil {
				return fmt.Errorf("failed to write to Google Sheet: %w", err)
			}
		} else {
			fmt.Fprintf(out, "Sheet: %s\n", opts.worksheet)
		}
	}

	if genErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), genericFailureNotice)
		return handleGenerateError(genErr, count, log)
	}

	fmt.Fprintln(out, strings.Repeat("=", 60))
	if opts.dryRun {
		fmt.Fprintf(out, "Dry run: %d bills rendered, nothing written\n", count)
	} else {
		fmt.Fprintf(out, "Generated %d bills in %s\n", count, outputLocation(opts.outputDir))
	}

	log.Info().
		Int("generated", count).
		Dur("duration", elapsed).
		Msg("Bill generation completed")

	return nil
}

// progressPrinter prints one "[n/total] file" line per emitted bill.
func progressPrinter(w io.Writer, dryRun bool) billing.Observer {
	return billing.ObserverFunc(func(ctx context.Context, e billing.Emitted) error {
		suffix := ""
		if dryRun {
			suffix = " (dry run)"
		}
		_, err := fmt.Fprintf(w, "[%d/%d] %s - Rs.%s%s\n",
			e.Count, e.Total, e.FileName, e.Receipt.GrossAmount.Fixed(), suffix)
		return err
	})
}

func printGenerateHeader(w io.Writer, cfg models.BillConfiguration, opts generateOptions, ext string) {
	days := billing.DayCount(cfg.StartDate, cfg.EndDate)

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Restaurant: %s\n", cfg.RestaurantName)
	fmt.Fprintf(w, "Date Range: %s to %s\n", cfg.StartDate.Format("2006-01-02"), cfg.EndDate.Format("2006-01-02"))
	fmt.Fprintf(w, "Total Bills: %d bills x %d days = %d total bills\n", cfg.BillsPerDay, days, cfg.BillsPerDay*days)
	fmt.Fprintf(w, "Format: %s\n", ext)
	if !opts.dryRun {
		fmt.Fprintf(w, "Output: %s\n", outputLocation(opts.outputDir))
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

func outputLocation(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// createGenerateContext returns a context canceled on SIGINT/SIGTERM.
func createGenerateContext(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, stopping after the current bill")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// handleGenerateError turns a batch failure into a short user-facing error.
func handleGenerateError(err error, count int, log zerolog.Logger) error {
	log.Error().Err(err).Int("generated", count).Msg("Bill generation failed")

	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("generation canceled after %d bills", count)
	case errors.Is(err, billing.ErrInvalidConfiguration):
		var vErr *billing.ValidationError
		if errors.As(err, &vErr) {
			return fmt.Errorf("invalid bill profile: %s %s", vErr.Field, vErr.Message)
		}
		return fmt.Errorf("invalid bill profile: %w", err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("permission denied writing bills (%d written before the failure)", count)
	default:
		return fmt.Errorf("bill generation failed after %d bills: %w", count, err)
	}
}
