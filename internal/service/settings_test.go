package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-downloader/api/pkg/config"
)

func TestSettingsWatcherCurrent(t *testing.T) {
	cfg := &config.Config{}
	cfg.Downloads.ExactMatch = true
	cfg.Downloads.ExcludedSearchText = "internal"

	w := NewSettingsWatcher("config.yaml", cfg)
	s := w.Current()

	assert.True(t, s.Downloads.ExactMatch)
	assert.True(t, s.Exclusions.Excluded("internal"))
}

func TestSettingsWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("downloads:\n  exact_match: false\n"), 0o644))

	cfg := &config.Config{}
	cfg.Downloads.ExactMatch = true
	w := NewSettingsWatcher(path, cfg)

	require.NoError(t, os.WriteFile(path, []byte("downloads:\n  exact_match: false\n  excluded_search_text: draft\n"), 0o644))
	require.NoError(t, w.Reload())

	s := w.Current()
	assert.False(t, s.Downloads.ExactMatch)
	assert.True(t, s.Exclusions.Excluded("draft"))
}

func TestSettingsWatcherReloadMissingFile(t *testing.T) {
	w := NewSettingsWatcher(filepath.Join(t.TempDir(), "missing.yaml"), &config.Config{})

	assert.Error(t, w.Reload())
}
