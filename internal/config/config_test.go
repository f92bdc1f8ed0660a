package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Errorf("expected zero config (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usersync", "config.json")

	want := &Config{
		Endpoint:    "https://sync.example.com",
		UserID:      "alice",
		Persistence: "off",
		CacheTTL:    "24h0m0s",
	}
	if err := want.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deep")
	path := filepath.Join(dir, "config.json")

	cfg := &Config{Endpoint: "https://sync.example.com"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSetPath_UsedByLoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	SetPath(path)
	t.Cleanup(ResetPath)

	if err := (&Config{UserID: "bob"}).Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UserID != "bob" {
		t.Errorf("UserID = %q, want bob", cfg.UserID)
	}
}

func TestPersistenceEnabled(t *testing.T) {
	if !(&Config{}).PersistenceEnabled() {
		t.Error("persistence should default to on")
	}
	if (&Config{Persistence: "off"}).PersistenceEnabled() {
		t.Error("persistence off should disable storage")
	}
}

func TestCacheMaxAge(t *testing.T) {
	tests := []struct {
		ttl  string
		want time.Duration
	}{
		{"", DefaultCacheTTL},
		{"90m", 90 * time.Minute},
		{"garbage", DefaultCacheTTL},
		{"0s", 0},
	}
	for _, tt := range tests {
		if got := (&Config{CacheTTL: tt.ttl}).CacheMaxAge(); got != tt.want {
			t.Errorf("CacheMaxAge(%q) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}
