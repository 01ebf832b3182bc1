package tasks

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

type fakeScheduler struct {
	triggers atomic.Int32
}

func (f *fakeScheduler) Start() {}
func (f *fakeScheduler) Stop()  {}

func (f *fakeScheduler) TriggerRegenerate() error {
	f.triggers.Add(1)
	return nil
}

func TestConfigWatcherTriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(configPath, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	scheduler := &fakeScheduler{}
	watcher, err := NewConfigWatcher(configPath, scheduler)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	watcher.debounceTime = 50 * time.Millisecond
	if err := watcher.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	if err := os.WriteFile(configPath, []byte(`{"basic": {}}`), 0o644); err != nil {
		t.Fatalf("Failed to rewrite config: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for scheduler.triggers.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("Expected a regeneration trigger after the config write")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestConfigWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(configPath, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	scheduler := &fakeScheduler{}
	watcher, err := NewConfigWatcher(configPath, scheduler)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	watcher.debounceTime = 50 * time.Millisecond
	if err := watcher.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write unrelated file: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	if scheduler.triggers.Load() != 0 {
		t.Error("Unrelated file writes must not trigger regeneration")
	}
}
