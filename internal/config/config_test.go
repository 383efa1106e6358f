package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 8, cfg.SummaryThreshold)
	require.True(t, cfg.LustResetOnSwitch)
	require.Empty(t, cfg.APIKey)
	require.Empty(t, cfg.Model)
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	dir := t.TempDir()
	data := []byte("api_key: file-key\nmodel: gemini-2.5-pro\nsummary_threshold: 12\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "file-key", cfg.APIKey)
	require.Equal(t, "gemini-2.5-pro", cfg.Model)
	require.Equal(t, 12, cfg.SummaryThreshold)
}

func TestEnvOverridesFileKey(t *testing.T) {
	dir := t.TempDir()
	data := []byte("api_key: file-key\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644))
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.APIKey)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestInvalidThresholdFallsBack(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("summary_threshold: -3\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.SummaryThreshold)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	dir := t.TempDir()
	in := &Config{APIKey: "k", Model: "m", SummaryThreshold: 10, LustResetOnSwitch: true}
	require.NoError(t, Save(dir, in))

	out, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, in, out)
}
