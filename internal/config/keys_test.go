package config

import (
	"errors"
	"strings"
	"testing"
)

func TestLookup_Exists(t *testing.T) {
	spec := Lookup("endpoint")
	if spec == nil {
		t.Fatal("expected to find key 'endpoint', got nil")
	}
	if spec.Name != "endpoint" {
		t.Errorf("expected Name %q, got %q", "endpoint", spec.Name)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	spec := Lookup("  USER-ID ")
	if spec == nil {
		t.Fatal("expected case-insensitive lookup to succeed")
	}
	if spec.Name != "user-id" {
		t.Errorf("expected Name %q, got %q", "user-id", spec.Name)
	}
}

func TestLookup_NotFound(t *testing.T) {
	if spec := Lookup("nonexistent-key"); spec != nil {
		t.Errorf("expected nil for unknown key, got %+v", spec)
	}
}

func TestKeys_AllHaveGetAndSet(t *testing.T) {
	for _, k := range Keys {
		if k.Get == nil {
			t.Errorf("key %q has nil Get function", k.Name)
		}
		if k.Set == nil {
			t.Errorf("key %q has nil Set function", k.Name)
		}
		if k.Description == "" {
			t.Errorf("key %q has empty Description", k.Name)
		}
	}
}

func TestKeys_SetThenGet(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"endpoint", "https://sync.example.com/", "https://sync.example.com"},
		{"persistence", "off", "off"},
		{"persistence", "ON", "on"},
		{"cache-ttl", "90m", "1h30m0s"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &Config{}
			spec := Lookup(tt.key)
			if err := spec.Set(cfg, tt.value); err != nil {
				t.Fatalf("Set(%q) failed: %v", tt.value, err)
			}
			if got := spec.Get(cfg); got != tt.want {
				t.Errorf("Get = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeys_SetRejectsInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"endpoint", "ftp://sync.example.com"},
		{"endpoint", "https://"},
		{"endpoint", "::not a url"},
		{"persistence", "maybe"},
		{"cache-ttl", "soon"},
		{"cache-ttl", "-1h"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &Config{}
			if err := Lookup(tt.key).Set(cfg, tt.value); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestKeys_UserIDIsReadOnly(t *testing.T) {
	for _, v := range []string{"bob", ""} {
		cfg := &Config{UserID: "alice"}
		if err := Lookup("user-id").Set(cfg, v); !errors.Is(err, ErrReadOnly) {
			t.Errorf("Set(%q) err = %v, want ErrReadOnly", v, err)
		}
		if cfg.UserID != "alice" {
			t.Errorf("Set(%q) changed UserID to %q", v, cfg.UserID)
		}
	}
}

func TestKeyNames(t *testing.T) {
	names := KeyNames()
	if len(names) != len(Keys) {
		t.Fatalf("expected %d names, got %d", len(Keys), len(names))
	}
	for i, name := range names {
		if name != Keys[i].Name {
			t.Errorf("index %d: expected %q, got %q", i, Keys[i].Name, name)
		}
	}
}

func TestKeysHelp_ContainsAllKeys(t *testing.T) {
	help := KeysHelp()
	if !strings.Contains(help, "Available keys:") {
		t.Error("expected 'Available keys:' header in help output")
	}
	for _, k := range Keys {
		if !strings.Contains(help, k.Name) {
			t.Errorf("expected key %q in help output", k.Name)
		}
		if !strings.Contains(help, k.Description) {
			t.Errorf("expected description %q in help output", k.Description)
		}
	}
}
