package tasks

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher monitors the local site configuration file and triggers a
// regeneration when it changes, so a config edit takes effect without
// waiting for the next refresh tick.
type ConfigWatcher struct {
	configPath   string
	scheduler    TaskSchedulerInterface
	watcher      *fsnotify.Watcher
	stopChan     chan struct{}
	debounceTime time.Duration
}

func NewConfigWatcher(configPath string, scheduler TaskSchedulerInterface) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	return &ConfigWatcher{
		configPath:   absPath,
		scheduler:    scheduler,
		watcher:      watcher,
		stopChan:     make(chan struct{}),
		debounceTime: 2 * time.Second, // Debounce rapid file changes
	}, nil
}

func (cw *ConfigWatcher) Start() error {
	// Watch the directory containing the config file; watching the file
	// directly breaks on editors that replace it via rename.
	configDir := filepath.Dir(cw.configPath)
	if err := cw.watcher.Add(configDir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", configDir, err)
	}

	slog.Info("Watching local config for changes", "config_path", cw.configPath)

	go cw.watchLoop()

	return nil
}

func (cw *ConfigWatcher) Stop() {
	close(cw.stopChan)
	if err := cw.watcher.Close(); err != nil {
		slog.Error("Error closing file watcher", "error", err)
	}
}

func (cw *ConfigWatcher) watchLoop() {
	configFile := filepath.Base(cw.configPath)

	var debounce *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-cw.stopChan:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFile {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			slog.Debug("Config file change detected", "file", event.Name, "op", event.Op.String())
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(cw.debounceTime, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			slog.Info("Config file changed, scheduling regeneration", "file", cw.configPath)
			if err := cw.scheduler.TriggerRegenerate(); err != nil {
				slog.Warn("Failed to schedule regeneration after config change", "error", err)
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("File watcher error", "error", err)
		}
	}
}
