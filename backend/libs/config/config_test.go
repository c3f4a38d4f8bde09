package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string        `yaml:"name" env:"SAMPLE_NAME"`
	Port    string        `yaml:"port" env:"SAMPLE_PORT,PORT"`
	Retries int           `yaml:"retries"`
	Timeout time.Duration `yaml:"timeout" env:"SAMPLE_TIMEOUT"`
	Nested  struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"nested" env:"SAMPLE_NESTED"`
	Skipped string `env:"-"`
}

func TestLoadConfigFileYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: from-file\nretries: 2\nnested:\n  enabled: false\n"), 0o600))

	t.Setenv("SAMPLE_NAME", "from-env")
	t.Setenv("SAMPLE_NESTED_ENABLED", "true")
	t.Setenv("SAMPLE_TIMEOUT", "1500ms")

	var cfg sample
	require.NoError(t, LoadConfigFile(path, &cfg))

	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 2, cfg.Retries)
	assert.True(t, cfg.Nested.Enabled)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
}

func TestLoadConfigFileFallbackKey(t *testing.T) {
	t.Setenv("PORT", "4000")

	var cfg sample
	require.NoError(t, LoadConfigFile("", &cfg))
	assert.Equal(t, "4000", cfg.Port)

	t.Setenv("SAMPLE_PORT", "5000")
	cfg = sample{}
	require.NoError(t, LoadConfigFile("", &cfg))
	assert.Equal(t, "5000", cfg.Port)
}

func TestLoadConfigFileErrors(t *testing.T) {
	assert.Error(t, LoadConfigFile("", nil))

	var notStruct int
	assert.Error(t, LoadConfigFile("", &notStruct))

	assert.Error(t, LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"), &sample{}))

	t.Setenv("SAMPLE_TIMEOUT", "soon")
	err := LoadConfigFile("", &sample{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAMPLE_TIMEOUT")
}
