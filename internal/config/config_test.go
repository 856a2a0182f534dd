package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "spotlight-firms-data.csv", cfg.Input.Path)
	assert.Equal(t, "data.json", cfg.Output.Path)
	assert.Equal(t, "en", cfg.Sort.Locale)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
input:
  path: exports/firms.csv
log:
  level: debug
  format: console
sort:
  locale: sv
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "exports/firms.csv", cfg.Input.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "sv", cfg.Sort.Locale)
	// Defaults still apply for unset values
	assert.Equal(t, "data.json", cfg.Output.Path)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
output:
  path: from-file.json
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("FIRMDIR_OUTPUT_PATH", "from-env.json")
	t.Setenv("FIRMDIR_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "from-env.json", cfg.Output.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("FIRMDIR_INPUT_PATH", "other.csv")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "other.csv", cfg.Input.Path)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("input: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

func validDefaults() *Config {
	cfg := &Config{}
	cfg.Input.Path = "spotlight-firms-data.csv"
	cfg.Output.Path = "data.json"
	cfg.Sort.Locale = "en"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate())
}

func TestValidate_EmptyLocaleAllowed(t *testing.T) {
	cfg := validDefaults()
	cfg.Sort.Locale = ""
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MissingPaths(t *testing.T) {
	cfg := validDefaults()
	cfg.Input.Path = " "
	cfg.Output.Path = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input.path is required")
	assert.Contains(t, err.Error(), "output.path is required")
}

func TestValidate_BadLocale(t *testing.T) {
	cfg := validDefaults()
	cfg.Sort.Locale = "not a locale!"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sort.locale")
}
