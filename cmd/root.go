package cmd

import (
	"fmt"
	"os"

	"billgen/internal/config"
	"billgen/internal/logger"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

// appConfig holds the environment configuration resolved in main.
var appConfig = config.Default()

var rootCmd = &cobra.Command{
	Use:   "billgen",
	Short: "billgen - batch restaurant bill generator",
	Long: `billgen generates printable restaurant bills in bulk.

A bill profile describes the restaurant (name, address, phone), the menu
items printed on every bill, a date range and how many bills to produce per
day. The generate command writes one document per bill, with a random time
inside the configured hours and a random table number.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree with the environment configuration.
func Execute(cfg *config.Config) {
	log := logger.WithComponent("cmd")

	if cfg != nil {
		appConfig = cfg
	}

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("profile", "p", "", "Bill profile file (default: $BILL_PROFILE or bill.yaml)")
}

// profilePath returns the --profile flag or the configured default, and whether
// the user chose it explicitly.
func profilePath(cmd *cobra.Command) (string, bool) {
	path, _ := cmd.Flags().GetString("profile")
	if path != "" {
		return path, true
	}
	return appConfig.ProfilePath, false
}
