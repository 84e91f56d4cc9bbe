package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"billgen/internal/logger"
)

type Config struct {
	// Bill profile and output
	ProfilePath string
	OutputDir   string
	Format      string
	Delay       time.Duration

	// Google Sheets ledger (optional)
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := Default()
	config.ProfilePath = getEnv("BILL_PROFILE", config.ProfilePath)
	config.OutputDir = getEnv("OUTPUT_DIR", config.OutputDir)
	config.Format = strings.ToLower(getEnv("BILL_FORMAT", config.Format))
	config.GoogleSheetURL = getEnv("GOOGLE_SHEET_URL", "")
	config.GoogleSheetWorksheet = getEnv("GOOGLE_SHEET_WORKSHEET", config.GoogleSheetWorksheet)
	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)
	config.LogFormat = getEnv("LOG_FORMAT", config.LogFormat)
	config.LogTimeFormat = getEnv("LOG_TIME_FORMAT", config.LogTimeFormat)
	config.LogOutput = getEnv("LOG_OUTPUT", config.LogOutput)

	if raw := getEnv("BILL_DELAY_MS", ""); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("config validation failed: BILL_DELAY_MS must be an integer: %w", err)
		}
		config.Delay = time.Duration(ms) * time.Millisecond
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		ProfilePath:          "bill.yaml",
		OutputDir:            "bills",
		Format:               "pdf",
		GoogleSheetWorksheet: "Bills",
		LogLevel:             "info",
		LogFormat:            "console",
		LogTimeFormat:        "2006-01-02T15:04:05Z07:00",
		LogOutput:            "stderr",
	}
}

func (c *Config) validate() error {
	if c.Format != "pdf" && c.Format != "txt" {
		return fmt.Errorf("BILL_FORMAT must be pdf or txt, got %q", c.Format)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}
	if c.Delay < 0 {
		return fmt.Errorf("BILL_DELAY_MS must not be negative")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
