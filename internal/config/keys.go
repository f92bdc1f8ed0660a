package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrReadOnly is returned when setting a key that only other commands may
// change. The signed-in user changes through auth login, logout and
// anonymous so queued actions are discarded along with the old identity.
var ErrReadOnly = errors.New("key is read-only; use 'usersync auth login', 'auth logout' or 'auth anonymous'")

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "endpoint").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set validates and applies a value for this key to the given Config
	// (in memory only; the caller is responsible for calling Save).
	Set func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "endpoint",
		Description: "Base URL of the user service",
		Get:         func(cfg *Config) string { return cfg.Endpoint },
		Set: func(cfg *Config, v string) error {
			if err := validateEndpoint(v); err != nil {
				return err
			}
			cfg.Endpoint = strings.TrimRight(v, "/")
			return nil
		},
	},
	{
		Name:        "user-id",
		Description: "Signed-in user (read-only, managed by 'usersync auth')",
		Get:         func(cfg *Config) string { return cfg.UserID },
		Set:         func(*Config, string) error { return ErrReadOnly },
	},
	{
		Name:        "persistence",
		Description: "Store queued actions on disk: on or off",
		Get: func(cfg *Config) string {
			if cfg.PersistenceEnabled() {
				return "on"
			}
			return "off"
		},
		Set: func(cfg *Config, v string) error {
			switch strings.ToLower(v) {
			case "on", "true", "yes":
				cfg.Persistence = ""
			case "off", "false", "no":
				cfg.Persistence = "off"
			default:
				return fmt.Errorf("persistence must be on or off, got %q", v)
			}
			return nil
		},
	},
	{
		Name:        "cache-ttl",
		Description: "How long a cached user may stand in for a failed fetch (e.g. 24h)",
		Get:         func(cfg *Config) string { return cfg.CacheMaxAge().String() },
		Set: func(cfg *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("cache-ttl must be a duration such as 24h: %w", err)
			}
			if d < 0 {
				return fmt.Errorf("cache-ttl must not be negative")
			}
			cfg.CacheTTL = d.String()
			return nil
		},
	},
}

func validateEndpoint(v string) error {
	u, err := url.Parse(v)
	if err != nil {
		return fmt.Errorf("endpoint %q is not a valid URL: %w", v, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint %q must use http or https", v)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint %q has no host", v)
	}
	return nil
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
