package config

import (
	"strings"
	"testing"

	"nathanbeddoewebdev/usersync/internal/config"
)

func TestGet_Endpoint_NotSet(t *testing.T) {
	setupTestConfig(t)

	stdout, stderr := execConfig(t, "get", "endpoint")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "not set") {
		t.Errorf("expected 'not set', got: %s", stdout)
	}
}

func TestGet_Endpoint_Set(t *testing.T) {
	path := setupTestConfig(t)

	// Write a config value directly.
	cfg := &config.Config{Endpoint: "https://api.example.com"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, stderr := execConfig(t, "get", "endpoint")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "https://api.example.com") {
		t.Errorf("expected endpoint, got: %s", stdout)
	}
}

func TestGet_AllKeys(t *testing.T) {
	setupTestConfig(t)

	stdout, _ := execConfig(t, "get")

	for _, want := range []string{"endpoint: (not set)", "persistence: on", "cache-ttl: 168h0m0s"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in listing, got:\n%s", want, stdout)
		}
	}
}

func TestGet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "get", "bogus-key")

	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %s", stderr)
	}
}
