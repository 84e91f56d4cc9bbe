package cmd

import (
	"fmt"

	"billgen/internal/logger"
	"billgen/internal/profile"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [profile-file]",
	Short: "Write a bill profile with default values",
	Long: `Write a bill profile with the default restaurant, menu and date range.
The format follows the file extension: .yaml, .yml, .json or .toml.`,
	Example: `  billgen init
  billgen init annai.json --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "Overwrite an existing profile")
}

func runInit(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("init")

	path, _ := profilePath(cmd)
	if len(args) == 1 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")

	write := profile.Create
	if force {
		write = profile.Save
	}
	if err := write(path, profile.Default()); err != nil {
		log.Error().Err(err).Str("profile", path).Msg("Failed to write bill profile")
		return fmt.Errorf("failed to write bill profile (use --force to overwrite): %w", err)
	}

	log.Info().Str("profile", path).Msg("Bill profile written")
	fmt.Fprintf(cmd.OutOrStdout(), "Bill profile written to %s\n", path)
	return nil
}
