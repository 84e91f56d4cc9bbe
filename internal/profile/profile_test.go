package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"billgen/internal/billing"
	"billgen/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `restaurant_name: SARAVANA BHAVAN
address: T. Nagar, Chennai
phone: "04424345678"
start_date: "2025-07-01"
end_date: "2025-07-03"
bills_per_day: 2
time_start: 12
time_end: 14
items:
  - name: MINI MEALS
    quantity: 2
    rate: 90.5
  - name: FILTER COFFEE
    quantity: 1
    rate: 30
`

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, billing.Validate(cfg))
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bill.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "SARAVANA BHAVAN", cfg.RestaurantName)
	assert.Equal(t, "04424345678", cfg.Phone)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), cfg.StartDate)
	assert.Equal(t, time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC), cfg.EndDate)
	assert.Equal(t, 2, cfg.BillsPerDay)
	assert.Equal(t, 12, cfg.TimeWindowStart)
	assert.Equal(t, 14, cfg.TimeWindowEnd)
	require.Len(t, cfg.Items, 2)
	assert.Equal(t, models.LineItem{Name: "MINI MEALS", Quantity: 2, UnitRate: 9050, Amount: 18100}, cfg.Items[0])
	assert.Equal(t, models.Money(3000), cfg.Items[1].Amount)
}

func TestLoadUnquotedDates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bill.yaml")
	require.NoError(t, os.WriteFile(path, []byte("start_date: 2025-08-01\nend_date: 2025-08-02\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), cfg.StartDate)
	assert.Equal(t, 2, billing.DayCount(cfg.StartDate, cfg.EndDate))
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BILLGEN_BILLS_PER_DAY", "5")
	t.Setenv("BILLGEN_RESTAURANT_NAME", "NIGHT MESS")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.BillsPerDay)
	assert.Equal(t, "NIGHT MESS", cfg.RestaurantName)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadBadDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bill.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"start_date": "01/06/2025"}`), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, billing.ErrInvalidConfiguration)
}

func TestSaveRoundTrip(t *testing.T) {
	for _, ext := range []string{"yaml", "json", "toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bill."+ext)

			cfg := Default()
			cfg = billing.AddItem(cfg, billing.NewLineItem("TEA", 2, 1250))
			require.NoError(t, Save(path, cfg))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestCreateRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bill.yaml")
	require.NoError(t, Create(path, Default()))
	assert.Error(t, Create(path, Default()))
	assert.NoError(t, Save(path, Default()))
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	assert.Error(t, Save(filepath.Join(t.TempDir(), "bill.ini"), Default()))
}
