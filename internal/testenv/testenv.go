// Package testenv isolates command tests from the real config, database,
// cache and keychain of the machine running them.
package testenv

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"nathanbeddoewebdev/usersync/internal/config"
	"nathanbeddoewebdev/usersync/internal/database"
	"nathanbeddoewebdev/usersync/internal/domain"
	"nathanbeddoewebdev/usersync/internal/services/auth"
)

// Env describes the temp locations a test runs against.
type Env struct {
	Dir    string
	DBPath string
	Tokens *auth.MockStore
}

// Setup points every persistent location at t.TempDir and, when cfg is
// non-nil, saves it as the current config.
func Setup(t *testing.T, cfg *config.Config) *Env {
	t.Helper()
	dir := t.TempDir()
	env := &Env{
		Dir:    dir,
		DBPath: filepath.Join(dir, "usersync.db"),
		Tokens: auth.NewMockStore(),
	}

	config.SetPath(filepath.Join(dir, "config.json"))
	t.Cleanup(config.ResetPath)
	database.SetPath(env.DBPath)
	t.Cleanup(database.ResetPath)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("HOME", dir)

	auth.SetDefaultStore(env.Tokens)
	t.Cleanup(auth.ResetDefaultStore)

	if cfg != nil {
		if err := cfg.Save(); err != nil {
			t.Fatalf("save config: %v", err)
		}
	}
	return env
}

// Server is a minimal user service accepting a single bearer token.
type Server struct {
	*httptest.Server

	Posts   atomic.Int32
	Fetches atomic.Int32
	Posted  atomic.Int32 // actions received across all posts

	// Fail makes every request answer 503.
	Fail atomic.Bool
}

// NewServer starts a user service that answers for any user ID as long as
// the request carries token.
func NewServer(t *testing.T, token string) *Server {
	t.Helper()
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		userID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/user/"), "/actions")
		switch r.Method {
		case http.MethodPost:
			var body struct {
				Actions []domain.Action `json:"actions"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			s.Posts.Add(1)
			s.Posted.Add(int32(len(body.Actions)))
		case http.MethodGet:
			s.Fetches.Add(1)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"user": domain.User{ID: userID}})
	}))
	t.Cleanup(s.Close)
	return s
}
