package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passivepilot/leadgen-cli/internal/config"
)

func TestValidateConfig_Defaults(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultConfig()))
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.ScoringConfig)
		wantMsg string
	}{
		{"bad weight sum", func(c *config.ScoringConfig) { c.SpreadWeight = 0.9 }, "sum to 1.0"},
		{"negative weight", func(c *config.ScoringConfig) { c.EquityWeight = -0.2; c.SpreadWeight = 0.9 }, "must be >= 0"},
		{"mao multiplier too high", func(c *config.ScoringConfig) { c.MAOMultiplier = 1.5 }, "mao_multiplier"},
		{"zero years since sale", func(c *config.ScoringConfig) { c.YearsSinceSale = 0 }, "years_since_sale"},
		{"zero reference year", func(c *config.ScoringConfig) { c.ReferenceYear = 0 }, "reference_year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadTunables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tunables.yaml")
	doc := `
scoring:
  mao_multiplier: 0.65
  repair_floor: 8000
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadTunables(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.65, cfg.MAOMultiplier, 0.001)
	assert.InDelta(t, 8000, cfg.RepairFloor, 0.001)
	// Unset keys keep defaults.
	assert.InDelta(t, 0.5, cfg.SpreadWeight, 0.001)
}

func TestLoadTunables_MissingFile(t *testing.T) {
	_, err := LoadTunables(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadTunables_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tunables.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scoring:\n  mao_multiplier: 2.0\n"), 0o644))

	_, err := LoadTunables(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mao_multiplier")
}
