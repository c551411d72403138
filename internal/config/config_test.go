package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "golden_rule", cfg.Game.Regime)
	assert.Equal(t, 2600.0, cfg.Scenario.GDP)
	assert.Equal(t, 36.5, cfg.Scenario.LockedTaxBase)
	assert.Equal(t, 8080, cfg.API.Port)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chancellor.yaml")
	doc := `game:
  seed: 42
  regime: debt_anchor
scenario:
  gdp: 3000
  debt_ratio: 110
api:
  port: 9090
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, "debt_anchor", cfg.Game.Regime)
	assert.Equal(t, 3000.0, cfg.Scenario.GDP)
	assert.Equal(t, 110.0, cfg.Scenario.DebtRatio)
	assert.Equal(t, 9090, cfg.API.Port)
	// Fields the file omits keep their defaults.
	assert.Equal(t, 980.0, cfg.Scenario.CurrentSpending)
	assert.Equal(t, "data/chancellor.db", cfg.Database.SQLitePath)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chancellor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  regime: no_rule\n"), 0o644))

	t.Setenv("CHANCELLOR_SEED", "777")
	t.Setenv("CHANCELLOR_REGIME", "falling_debt")
	t.Setenv("CHANCELLOR_DB_PATH", "/tmp/override.db")
	t.Setenv("CHANCELLOR_PORT", "3000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(777), cfg.Game.Seed)
	assert.Equal(t, "falling_debt", cfg.Game.Regime)
	assert.Equal(t, "/tmp/override.db", cfg.Database.SQLitePath)
	assert.Equal(t, 3000, cfg.API.Port)
}

func TestLoad_BadEnvValuesIgnored(t *testing.T) {
	t.Setenv("CHANCELLOR_SEED", "not-a-number")
	t.Setenv("CHANCELLOR_PORT", "also-not")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), cfg.Game.Seed)
	assert.Equal(t, 8080, cfg.API.Port)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
