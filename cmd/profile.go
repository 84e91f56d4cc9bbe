package cmd

import (
	"errors"
	"fmt"

	"billgen/internal/profile"
	"billgen/pkg/models"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// loadProfile reads the bill profile. A missing default profile falls back to
// the built-in defaults; a missing explicit one is an error.
func loadProfile(cmd *cobra.Command, log zerolog.Logger) (models.BillConfiguration, string, error) {
	path, explicit := profilePath(cmd)

	cfg, err := profile.Load(path)
	if err == nil {
		log.Debug().Str("profile", path).Msg("Bill profile loaded")
		return cfg, path, nil
	}

	if errors.Is(err, profile.ErrNotFound) && !explicit {
		log.Warn().
			Str("profile", path).
			Msg("Bill profile not found, using built-in defaults (run 'billgen init' to create one)")
		cfg, err = profile.Load("")
		if err != nil {
			return models.BillConfiguration{}, path, fmt.Errorf("failed to load default profile: %w", err)
		}
		return cfg, path, nil
	}

	log.Error().Err(err).Str("profile", path).Msg("Failed to load bill profile")
	return models.BillConfiguration{}, path, fmt.Errorf("failed to load bill profile: %w", err)
}
