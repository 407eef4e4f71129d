package core

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"document-downloader/api/pkg/config"
)

// Settings is an immutable snapshot of the runtime-tunable configuration.
// Handlers read a snapshot once per request so a reload mid-request cannot
// produce a mixed view.
type Settings struct {
	Downloads     config.DownloadsConfig
	Notifications config.NotificationsConfig
	Exclusions    *ExclusionList
}

// SettingsWatcher serves settings snapshots and hot-reloads them when the
// configuration file changes
type SettingsWatcher struct {
	configPath string
	current    *Settings
	mu         sync.RWMutex

	watcher       *fsnotify.Watcher
	onChange      func(*Settings)
	stopChan      chan struct{}
	debounceTimer *time.Timer
	debounceMu    sync.Mutex
}

// NewSettingsWatcher seeds the watcher with the already-loaded configuration
func NewSettingsWatcher(configPath string, cfg *config.Config) *SettingsWatcher {
	return &SettingsWatcher{
		configPath: configPath,
		current:    buildSettings(cfg),
		stopChan:   make(chan struct{}),
	}
}

func buildSettings(cfg *config.Config) *Settings {
	return &Settings{
		Downloads:     cfg.Downloads,
		Notifications: cfg.Notifications,
		Exclusions:    ParseExclusions(cfg.Downloads.ExcludedSearchText),
	}
}

// Current returns the current settings snapshot (thread-safe)
func (w *SettingsWatcher) Current() *Settings {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange sets a callback invoked after every successful reload
func (w *SettingsWatcher) OnChange(callback func(*Settings)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = callback
}

// Reload re-reads the configuration file and swaps in a fresh snapshot
func (w *SettingsWatcher) Reload() error {
	data, err := os.ReadFile(w.configPath)
	if err != nil {
		return err
	}

	cfg := &config.Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}

	settings := buildSettings(cfg)

	w.mu.Lock()
	w.current = settings
	w.mu.Unlock()

	log.Info().
		Str("path", w.configPath).
		Bool("exact_match", settings.Downloads.ExactMatch).
		Int("rate_limit", settings.Downloads.RateLimit).
		Msg("Download settings reloaded")
	return nil
}

// WatchChanges starts watching the configuration file for changes
func (w *SettingsWatcher) WatchChanges() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	w.watcher = watcher

	go w.watchLoop()

	if err := watcher.Add(w.configPath); err != nil {
		watcher.Close()
		return err
	}

	log.Info().Str("path", w.configPath).Msg("Started watching configuration file")
	return nil
}

func (w *SettingsWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.debounceReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("File watcher error")

		case <-w.stopChan:
			return
		}
	}
}

// debounceReload coalesces editor write bursts into a single reload (100ms)
func (w *SettingsWatcher) debounceReload() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
		if err := w.Reload(); err != nil {
			log.Error().Err(err).Msg("Failed to reload download settings")
			return
		}

		w.mu.RLock()
		callback := w.onChange
		settings := w.current
		w.mu.RUnlock()

		if callback != nil {
			callback(settings)
		}
	})
}

// Stop stops watching for configuration changes
func (w *SettingsWatcher) Stop() {
	close(w.stopChan)

	w.debounceMu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceMu.Unlock()

	if w.watcher != nil {
		w.watcher.Close()
	}
}
