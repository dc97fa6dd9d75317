package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2000, c.YearCutoff)
	assert.Equal(t, "parquet", c.OutputFormat)
	assert.Equal(t, "year", c.TimeColumn)
	assert.Equal(t, "weight", c.WeightColumn)
	assert.Equal(t, 100, c.MaxIterations)
	assert.InDelta(t, 1e-8, c.Tolerance, 1e-20)
}

func TestSaveThenLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	require.NoError(t, err)
	c.YearCutoff = 1992
	c.OutputFormat = "csv"
	require.NoError(t, Save(c, ""))

	_, err = os.Stat(filepath.Join(home, ".surveyloom", "config.yaml"))
	require.NoError(t, err)

	back, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1992, back.YearCutoff)
	assert.Equal(t, "csv", back.OutputFormat)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "surveyloom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("year_cutoff: 1980\nlog_level: debug\n"), 0o644))
	t.Setenv("SURVEYLOOM_YEAR_CUTOFF", "2012")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2012, c.YearCutoff)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := &Global{MaxIterations: 0, Tolerance: 1e-8, TimeColumn: "year"}
	assert.Error(t, c.Validate())
	c.MaxIterations = 10
	c.Tolerance = 0
	assert.Error(t, c.Validate())
	c.Tolerance = 1e-6
	assert.NoError(t, c.Validate())
}
