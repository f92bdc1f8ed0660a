// Package app assembles the collaborators a usersync command needs: the
// session restored from config and keychain, the action log, the remote
// client, the coordinator and the history recorder.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"nathanbeddoewebdev/usersync/internal/actionstore"
	"nathanbeddoewebdev/usersync/internal/config"
	"nathanbeddoewebdev/usersync/internal/coordinator"
	"nathanbeddoewebdev/usersync/internal/domain"
	"nathanbeddoewebdev/usersync/internal/fetchcache"
	"nathanbeddoewebdev/usersync/internal/history"
	"nathanbeddoewebdev/usersync/internal/remote"
	"nathanbeddoewebdev/usersync/internal/services/action"
	"nathanbeddoewebdev/usersync/internal/services/auth"
	"nathanbeddoewebdev/usersync/internal/session"
)

// DefaultTimeout bounds a command's run when it sets no timeout of its own.
const DefaultTimeout = 30 * time.Second

// Options tune how a Runtime is assembled.
type Options struct {
	// Command tags history entries, e.g. "sync".
	Command string

	Logger     *slog.Logger
	HTTPClient *http.Client
}

// Runtime is one command's view of the synchronized session.
type Runtime struct {
	Config      *config.Config
	Session     *session.Store
	Coordinator *coordinator.Coordinator
	Remote      *remote.Client

	actions *action.Service
	history *history.SQLiteRepository
	logger  *slog.Logger
}

// Open loads configuration and credentials and wires a coordinator around
// them. Storage problems degrade to in-memory operation rather than
// failing the command.
func Open(opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	initial := domain.Session{UserID: cfg.UserID}
	if cfg.UserID != "" {
		token, err := auth.DefaultStore().GetToken(cfg.UserID)
		switch {
		case err == nil:
			initial.Token = token
		case errors.Is(err, auth.ErrTokenNotFound):
			logger.Debug("no stored token", "user_id", cfg.UserID)
		default:
			return nil, fmt.Errorf("failed to read token for %s: %w", cfg.UserID, err)
		}
	}

	r := &Runtime{Config: cfg, logger: logger}

	var repo actionstore.Repository
	if cfg.PersistenceEnabled() {
		sqlRepo, err := actionstore.Open()
		if err != nil {
			logger.Warn("action log unavailable, queueing in memory", "error", err)
		} else {
			repo = sqlRepo
		}
	}
	r.actions = action.NewService(repo, logger)

	r.Session = session.NewStore(initial)
	if hist, err := history.Open(); err != nil {
		logger.Warn("sync history unavailable", "error", err)
	} else {
		r.history = hist
		r.Session.Observe(history.NewRecorder(hist, opts.Command, logger).Observe)
	}

	remoteOpts := []remote.Option{
		remote.WithCache(fetchcache.WithMaxAge(fetchcache.DefaultDir(), cfg.CacheMaxAge())),
		remote.WithLogger(logger),
	}
	if opts.HTTPClient != nil {
		remoteOpts = append(remoteOpts, remote.WithHTTPClient(opts.HTTPClient))
	}
	r.Remote = remote.New(cfg.Endpoint, remoteOpts...)

	r.Coordinator = coordinator.New(r.Session, r.Remote,
		coordinator.WithActionLog(r.actions),
		coordinator.WithLogger(logger),
	)
	return r, nil
}

// Run starts the coordinator, calls drive once the queue is hydrated, and
// returns after the coordinator settled.
func (r *Runtime) Run(ctx context.Context, drive func(ctx context.Context, c *coordinator.Coordinator) error) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.Coordinator.Run(gctx)
	})
	g.Go(func() error {
		defer r.Coordinator.Stop()

		select {
		case <-r.Coordinator.Ready():
		case <-gctx.Done():
			return gctx.Err()
		}
		if err := drive(gctx, r.Coordinator); err != nil {
			return err
		}
		return r.Coordinator.Settle(gctx)
	})

	return g.Wait()
}

// Close releases storage handles.
func (r *Runtime) Close() error {
	var errs []error
	if err := r.actions.Close(); err != nil {
		errs = append(errs, err)
	}
	if r.history != nil {
		if err := r.history.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
