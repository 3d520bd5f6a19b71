package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func resetGlobal() {
	current.Store(nil)
	initOnce = sync.Once{}
}

func TestInitialize(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	path := writeConfig(t, "validation:\n  locator: structural\n")
	if err := Initialize(path); err != nil {
		t.Fatalf("failed to initialize config: %v", err)
	}

	cfg := GetConfig()
	if cfg == nil {
		t.Fatal("expected non-nil config after initialization")
	}
	if cfg.Validation.Locator != "structural" {
		t.Errorf("expected locator %q, got %q", "structural", cfg.Validation.Locator)
	}

	// Second call is ignored.
	other := writeConfig(t, "validation:\n  locator: text\n")
	if err := Initialize(other); err != nil {
		t.Fatal(err)
	}
	if GetConfig().Validation.Locator != "structural" {
		t.Error("second Initialize should be ignored")
	}
}

func TestInitialize_MissingFileUsesDefaults(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	if err := Initialize(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetConfig() == nil {
		t.Fatal("expected defaults to be installed")
	}
}

func TestReloadConfig(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	path := writeConfig(t, "cache:\n  size: 10\n")
	if err := Initialize(path); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("cache:\n  size: 20\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ReloadConfig(path); err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if GetConfig().Cache.Size != 20 {
		t.Errorf("expected reloaded size 20, got %d", GetConfig().Cache.Size)
	}

	// A broken file leaves the running configuration in place.
	if err := os.WriteFile(path, []byte("cache:\n  size: -5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ReloadConfig(path); err == nil {
		t.Error("expected reload error")
	}
	if GetConfig().Cache.Size != 20 {
		t.Error("failed reload replaced the configuration")
	}
}

func TestMustGetConfig_Panics(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustGetConfig()
}

func TestGetConfig_Concurrent(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)
	SetConfig(Default())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if GetConfig() == nil {
				t.Error("GetConfig() returned nil")
			}
		}()
	}
	wg.Wait()
}
