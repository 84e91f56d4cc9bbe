// Package profile loads and saves bill profiles: the restaurant, menu and batch
// settings a generation run works from.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"billgen/internal/billing"
	"billgen/pkg/models"
	"github.com/spf13/viper"
)

// DateLayout is the on-disk date format.
const DateLayout = "2006-01-02"

// EnvPrefix prefixes environment overrides, e.g. BILLGEN_BILLS_PER_DAY=3.
const EnvPrefix = "BILLGEN"

// ErrNotFound is returned when the profile file does not exist.
var ErrNotFound = errors.New("bill profile not found")

type itemRecord struct {
	Name     string  `mapstructure:"name"`
	Quantity int     `mapstructure:"quantity"`
	Rate     float64 `mapstructure:"rate"`
}

// Default is the profile used when none is written yet.
func Default() models.BillConfiguration {
	return models.BillConfiguration{
		RestaurantName:  "ANNAI MESS",
		Address:         "Iyyapanthangal, Chennai - 600056",
		Phone:           "9875921232",
		StartDate:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		BillsPerDay:     1,
		TimeWindowStart: 6,
		TimeWindowEnd:   10,
		Items:           []models.LineItem{billing.NewLineItem("VEG MEALS", 1, 16000)},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setValues(v, Default(), v.SetDefault)
	return v
}

func setValues(v *viper.Viper, cfg models.BillConfiguration, set func(string, interface{})) {
	items := make([]map[string]interface{}, 0, len(cfg.Items))
	for _, item := range cfg.Items {
		items = append(items, map[string]interface{}{
			"name":     item.Name,
			"quantity": item.Quantity,
			"rate":     item.UnitRate.Float(),
		})
	}

	set("restaurant_name", cfg.RestaurantName)
	set("address", cfg.Address)
	set("phone", cfg.Phone)
	set("start_date", cfg.StartDate.Format(DateLayout))
	set("end_date", cfg.EndDate.Format(DateLayout))
	set("bills_per_day", cfg.BillsPerDay)
	set("time_start", cfg.TimeWindowStart)
	set("time_end", cfg.TimeWindowEnd)
	set("items", items)
}

// Load reads the profile at path over the defaults. An empty path yields the
// defaults plus any BILLGEN_ environment overrides.
func Load(path string) (models.BillConfiguration, error) {
	const op = "Load"

	v := newViper()
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return models.BillConfiguration{}, fmt.Errorf("%s: %w: %s", op, ErrNotFound, path)
			}
			return models.BillConfiguration{}, fmt.Errorf("%s: %w", op, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return models.BillConfiguration{}, fmt.Errorf("%s: failed to read %s: %w", op, path, err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (models.BillConfiguration, error) {
	const op = "decode"

	start, err := dateValue(v, "start_date")
	if err != nil {
		return models.BillConfiguration{}, fmt.Errorf("%s: %w", op, err)
	}
	end, err := dateValue(v, "end_date")
	if err != nil {
		return models.BillConfiguration{}, fmt.Errorf("%s: %w", op, err)
	}

	var records []itemRecord
	if err := v.UnmarshalKey("items", &records); err != nil {
		return models.BillConfiguration{}, fmt.Errorf("%s: invalid items: %w", op, err)
	}

	cfg := models.BillConfiguration{
		RestaurantName:  v.GetString("restaurant_name"),
		Address:         v.GetString("address"),
		Phone:           v.GetString("phone"),
		StartDate:       start,
		EndDate:         end,
		BillsPerDay:     v.GetInt("bills_per_day"),
		TimeWindowStart: v.GetInt("time_start"),
		TimeWindowEnd:   v.GetInt("time_end"),
	}
	for _, r := range records {
		cfg.Items = append(cfg.Items, billing.NewLineItem(r.Name, r.Quantity, models.MoneyFromFloat(r.Rate)))
	}
	return cfg, nil
}

// dateValue accepts both quoted strings and YAML/TOML native dates.
func dateValue(v *viper.Viper, key string) (time.Time, error) {
	switch raw := v.Get(key).(type) {
	case time.Time:
		y, m, d := raw.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	case string:
		t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
		if err != nil {
			return time.Time{}, billing.NewValidationError(key, raw, "must be a date in YYYY-MM-DD format")
		}
		return t, nil
	default:
		return time.Time{}, billing.NewValidationError(key, raw, "must be a date in YYYY-MM-DD format")
	}
}

// Save writes cfg to path, replacing any existing file. The format follows the
// file extension (.yaml, .yml, .json, .toml).
func Save(path string, cfg models.BillConfiguration) error {
	return write(path, cfg, false)
}

// Create writes cfg to path and fails if the file already exists.
func Create(path string, cfg models.BillConfiguration) error {
	return write(path, cfg, true)
}

func write(path string, cfg models.BillConfiguration, safe bool) error {
	const op = "Save"

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json", ".toml":
	default:
		return fmt.Errorf("%s: unsupported profile extension %q (use .yaml, .json or .toml)", op, filepath.Ext(path))
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%s: failed to create %s: %w", op, dir, err)
		}
	}

	v := viper.New()
	setValues(v, cfg, v.Set)

	var err error
	if safe {
		err = v.SafeWriteConfigAs(path)
	} else {
		err = v.WriteConfigAs(path)
	}
	if err != nil {
		return fmt.Errorf("%s: failed to write %s: %w", op, path, err)
	}
	return nil
}
