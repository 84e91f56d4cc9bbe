package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"billgen/internal/billing"
	"billgen/internal/config"
	"billgen/internal/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTwoDayProfile(t *testing.T) string {
	t.Helper()

	cfg := profile.Default()
	cfg.StartDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	cfg.EndDate = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	path := filepath.Join(t.TempDir(), "bill.yaml")
	require.NoError(t, profile.Save(path, cfg))
	return path
}

func TestGenerateWritesBillsAndManifest(t *testing.T) {
	appConfig = config.Default()
	profilePath := writeTwoDayProfile(t)
	outDir := filepath.Join(t.TempDir(), "bills")
	manifestPath := filepath.Join(t.TempDir(), "bills.xlsx")

	stdout, _, err := run(t, "generate", "-p", profilePath, "-o", outDir, "--seed", "42", "--manifest", manifestPath)
	require.NoError(t, err)

	for _, name := range []string{"Bill_01-06-2025_1011.pdf", "Bill_02-06-2025_1021.pdf"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), name)
	}

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.Contains(t, stdout, "1 bills x 2 days = 2 total bills")
	assert.Contains(t, stdout, "[1/2] Bill_01-06-2025_1011.pdf - Rs.160.00")
	assert.Contains(t, stdout, "[2/2] Bill_02-06-2025_1021.pdf - Rs.160.00")
	assert.FileExists(t, manifestPath)
}

func TestGenerateTextFormat(t *testing.T) {
	appConfig = config.Default()
	outDir := t.TempDir()

	_, _, err := run(t, "generate", "-p", writeTwoDayProfile(t), "-o", outDir, "--format", "txt")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "Bill_02-06-2025_1021.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Bill : 1021")
	assert.Contains(t, string(data), "Gross Amount")
}

func TestGenerateDryRunWritesNothing(t *testing.T) {
	appConfig = config.Default()
	outDir := filepath.Join(t.TempDir(), "never")

	stdout, _, err := run(t, "generate", "-p", writeTwoDayProfile(t), "-o", outDir, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dry run: 2 bills rendered")
	assert.NoDirExists(t, outDir)
}

func TestGenerateInvalidProfileShowsGenericNotice(t *testing.T) {
	appConfig = config.Default()

	cfg := profile.Default()
	cfg.TimeWindowStart, cfg.TimeWindowEnd = 11, 9
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, profile.Save(path, cfg))

	_, stderr, err := run(t, "generate", "-p", path, "-o", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, stderr, genericFailureNotice)
	assert.Contains(t, err.Error(), "time_start")
}

func TestGenerateMissingExplicitProfile(t *testing.T) {
	appConfig = config.Default()

	_, _, err := run(t, "generate", "-p", filepath.Join(t.TempDir(), "missing.yaml"), "--dry-run")
	assert.ErrorIs(t, err, profile.ErrNotFound)
}

func TestPreview(t *testing.T) {
	appConfig = config.Default()

	stdout, _, err := run(t, "preview", "-p", writeTwoDayProfile(t), "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 bills x 2 days = 2 total bills")
	assert.Contains(t, stdout, "Bill : 1011")
	assert.Contains(t, stdout, "THANKS FOR YOUR KIND VISIT")
}

func TestInitAndItemCommands(t *testing.T) {
	appConfig = config.Default()
	path := filepath.Join(t.TempDir(), "bill.json")

	_, _, err := run(t, "init", path)
	require.NoError(t, err)

	_, _, err = run(t, "init", path)
	assert.Error(t, err, "init must not overwrite without --force")

	_, _, err = run(t, "item", "add", "FILTER COFFEE", "2", "30", "-p", path)
	require.NoError(t, err)

	_, _, err = run(t, "item", "set", "1", "qty", "3", "-p", path)
	require.NoError(t, err)

	cfg, err := profile.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Items, 2)
	assert.Equal(t, 3, cfg.Items[0].Quantity)
	assert.Equal(t, "480.00", cfg.Items[0].Amount.Fixed())
	assert.Equal(t, "FILTER COFFEE", cfg.Items[1].Name)
	assert.Equal(t, "60.00", cfg.Items[1].Amount.Fixed())

	stdout, _, err := run(t, "item", "list", "-p", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Rs.540.00")

	_, _, err = run(t, "item", "set", "1", "rate", "abc", "-p", path)
	assert.ErrorIs(t, err, billing.ErrInvalidConfiguration)

	_, _, err = run(t, "item", "remove", "2", "-p", path)
	require.NoError(t, err)

	_, _, err = run(t, "item", "remove", "1", "-p", path)
	assert.ErrorIs(t, err, billing.ErrLastItem)

	cfg, err = profile.Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Items, 1)
}

func TestGenerateHelpMatchesBillNumbers(t *testing.T) {
	assert.Contains(t, generateCmd.Long, "1000 + day*10 + bill, counting both day and bill from 1")
	assert.Equal(t, 1011, billing.SequenceNumber(0, 1))
}

func TestPreviewAcceptsBlankHeader(t *testing.T) {
	appConfig = config.Default()

	cfg := profile.Default()
	cfg.RestaurantName = ""
	path := filepath.Join(t.TempDir(), "blank.yaml")
	require.NoError(t, profile.Save(path, cfg))

	stdout, _, err := run(t, "preview", "-p", path, "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Bill : 1011")
}
