package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"nathanbeddoewebdev/usersync/internal/domain"
	"nathanbeddoewebdev/usersync/internal/session"
)

var (
	// ErrStopped is returned by calls that need a running coordinator after
	// Run has returned.
	ErrStopped = errors.New("coordinator: stopped")

	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("coordinator: already running")
)

// StateContainer holds the session the coordinator reads from and reports
// outcomes to.
type StateContainer interface {
	State() domain.Session
	Dispatch(session.Event)
}

// RemoteClient talks to the user service. Neither method reports errors;
// a nil User in the result means the call failed.
type RemoteClient interface {
	PostBatch(ctx context.Context, actions []domain.Action, userID, token string) domain.PostResult
	FetchUser(ctx context.Context, userID, token string) domain.FetchResult
}

// ActionLog is the best-effort durable copy of the pending queue.
type ActionLog interface {
	Supported() bool
	Put(domain.Action) bool
	ListAll() []domain.Action
	DeleteMany(ids []string) bool
	ClearAll() bool
}

// forgetter is implemented by remote clients that keep a local copy of
// fetched user data.
type forgetter interface {
	ForgetUser() error
}

// Snapshot is a point-in-time view of coordinator state.
type Snapshot struct {
	Pending  []domain.Action
	InFlight []string
	Epoch    uint64
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithActionLog persists the pending queue through log. Without it,
// persistence is unsupported and the queue lives in memory only.
func WithActionLog(log ActionLog) Option {
	return func(c *Coordinator) {
		c.log = log
	}
}

// WithLogger sets the logger for the coordinator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// Coordinator synchronizes one session's actions with the remote service.
type Coordinator struct {
	state  StateContainer
	remote RemoteClient
	log    ActionLog
	logger *slog.Logger

	inbox   *mailbox[any]
	storage *mailbox[func()]
	ready   chan struct{}
	done    chan struct{}
	running atomic.Bool
	workers sync.WaitGroup

	// Owned by the Run goroutine.
	ctx         context.Context
	pending     *pendingSet
	inFlight    map[string]struct{}
	epoch       uint64
	postGen     uint64
	outstanding int
	settlers    []chan struct{}
}

// New creates a Coordinator. Call Run to start processing.
func New(state StateContainer, remote RemoteClient, opts ...Option) *Coordinator {
	c := &Coordinator{
		state:    state,
		remote:   remote,
		logger:   slog.Default(),
		inbox:    newMailbox[any](),
		storage:  newMailbox[func()](),
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
		pending:  newPendingSet(),
		inFlight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "coordinator")
	return c
}

// --- Messages ---

type (
	enqueueMsg      struct{ action domain.Action }
	fetchMsg        struct{}
	batchPostedMsg  struct{}
	logoutMsg       struct{}
	anonymousMsg    struct{}
	authenticateMsg struct{ userID, token string }
	settleMsg       struct{ reply chan struct{} }
	snapshotMsg     struct{ reply chan Snapshot }

	persistedMsg struct {
		epoch uint64
	}
	postDoneMsg struct {
		epoch  uint64
		batch  []domain.Action
		result domain.PostResult
	}
	depersistedMsg struct {
		epoch uint64
		batch []domain.Action
		user  *domain.User
	}
	fetchDoneMsg struct {
		epoch   uint64
		postGen uint64
		result  domain.FetchResult
	}
	storageDoneMsg struct{}
)

// --- Public triggers ---

// Enqueue submits an action. Actions marked ShouldSynchronize are queued
// until the server confirms them; others are only forwarded to the state
// container.
func (c *Coordinator) Enqueue(a domain.Action) {
	c.send(enqueueMsg{action: a})
}

// RequestFetch asks for the remote user. While actions are pending the
// request turns into a post instead.
func (c *Coordinator) RequestFetch() {
	c.send(fetchMsg{})
}

// NotifyActionsPosted reports that a batch completed elsewhere, which
// triggers a post of whatever is still pending.
func (c *Coordinator) NotifyActionsPosted() {
	c.send(batchPostedMsg{})
}

// Logout discards all pending work and the session identity.
func (c *Coordinator) Logout() {
	c.send(logoutMsg{})
}

// StartAnonymousSession switches to an anonymous session, discarding
// pending work if a user was signed in.
func (c *Coordinator) StartAnonymousSession() {
	c.send(anonymousMsg{})
}

// Authenticate switches the session to userID. Pending work is discarded
// when the user changes. A fetch (or a post, if work is pending) follows.
func (c *Coordinator) Authenticate(userID, token string) {
	c.send(authenticateMsg{userID: userID, token: token})
}

// Ready is closed once the pending queue was hydrated from the action log.
func (c *Coordinator) Ready() <-chan struct{} {
	return c.ready
}

// Settle blocks until every message sent before it was handled and no
// remote or storage call is outstanding.
func (c *Coordinator) Settle(ctx context.Context) error {
	reply := make(chan struct{}, 1)
	if !c.inbox.Enqueue(settleMsg{reply: reply}) {
		return ErrStopped
	}
	select {
	case <-reply:
		return nil
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the coordinator's pending and in-flight actions.
func (c *Coordinator) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if !c.inbox.Enqueue(snapshotMsg{reply: reply}) {
		return Snapshot{}, ErrStopped
	}
	select {
	case s := <-reply:
		return s, nil
	case <-c.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Stop makes Run return once the messages already queued are handled.
func (c *Coordinator) Stop() {
	c.inbox.Close()
}

func (c *Coordinator) send(m any) {
	if !c.inbox.Enqueue(m) {
		c.logger.Debug("message dropped: coordinator stopped", "message", messageName(m))
	}
}

// --- Loop ---

// Run hydrates the pending queue and processes messages until ctx is
// cancelled or Stop is called. It waits for outstanding remote and storage
// calls before returning.
func (c *Coordinator) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.ctx = runCtx
	c.workers.Add(1)
	go c.runStorage()

	defer func() {
		cancel()
		c.inbox.Close()
		c.storage.Close()
		c.workers.Wait()
		close(c.done)
		c.logger.Debug("coordinator stopped")
	}()

	c.hydrate()
	close(c.ready)

	for {
		if m, ok := c.inbox.TryDequeue(); ok {
			c.handle(m)
			c.releaseSettlers()
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, open := <-c.inbox.Wait():
			if !open && c.inbox.Len() == 0 {
				return nil
			}
		}
	}
}

func (c *Coordinator) hydrate() {
	if !c.persistent() {
		return
	}
	restored := 0
	for _, a := range c.log.ListAll() {
		if c.pending.add(a) {
			restored++
		}
	}
	if restored > 0 {
		c.logger.Info("restored queued actions", "count", restored)
	}
}

func (c *Coordinator) handle(m any) {
	switch m := m.(type) {
	case enqueueMsg:
		c.handleEnqueue(m.action)
	case fetchMsg:
		c.handleFetchRequest()
	case batchPostedMsg:
		c.batchCompleted()
	case logoutMsg:
		c.handleLogout()
	case anonymousMsg:
		c.handleAnonymous()
	case authenticateMsg:
		c.handleAuthenticate(m.userID, m.token)
	case settleMsg:
		c.settlers = append(c.settlers, m.reply)
	case snapshotMsg:
		m.reply <- c.snapshot()

	case persistedMsg:
		c.outstanding--
		c.handlePersisted(m)
	case postDoneMsg:
		c.outstanding--
		c.handlePostDone(m)
	case depersistedMsg:
		c.outstanding--
		c.handleDepersisted(m)
	case fetchDoneMsg:
		c.outstanding--
		c.handleFetchDone(m)
	case storageDoneMsg:
		c.outstanding--

	default:
		c.logger.Error("unknown message", "message", messageName(m))
	}
}

func (c *Coordinator) releaseSettlers() {
	if c.outstanding > 0 || len(c.settlers) == 0 {
		return
	}
	for _, reply := range c.settlers {
		reply <- struct{}{}
	}
	c.settlers = nil
}

func (c *Coordinator) snapshot() Snapshot {
	s := Snapshot{
		Pending: c.pending.list(nil),
		Epoch:   c.epoch,
	}
	for _, a := range s.Pending {
		if _, ok := c.inFlight[a.ID]; ok {
			s.InFlight = append(s.InFlight, a.ID)
		}
	}
	return s
}

// --- Workers ---

// goRemote runs fn on its own goroutine; fn reports back with its result
// message.
func (c *Coordinator) goRemote(fn func(ctx context.Context) any) {
	c.outstanding++
	ctx := c.ctx
	c.workers.Add(1)
	go func() {
		defer c.workers.Done()
		c.inbox.Enqueue(fn(ctx))
	}()
}

// goStorage queues fn on the serial storage worker.
func (c *Coordinator) goStorage(fn func() any) {
	c.outstanding++
	c.storage.Enqueue(func() {
		c.inbox.Enqueue(fn())
	})
}

func (c *Coordinator) runStorage() {
	defer c.workers.Done()
	for {
		if job, ok := c.storage.TryDequeue(); ok {
			job()
			continue
		}
		if _, open := <-c.storage.Wait(); !open {
			for {
				job, ok := c.storage.TryDequeue()
				if !ok {
					return
				}
				job()
			}
		}
	}
}

func (c *Coordinator) persistent() bool {
	return c.log != nil && c.log.Supported()
}

// identity is the pair of credentials a remote call is issued with.
type identity struct {
	userID string
	token  string
}

func (id identity) canSync() bool {
	return id.token != ""
}

func (c *Coordinator) currentIdentity() identity {
	s := c.state.State()
	return identity{userID: s.UserID, token: s.Token}
}

func messageName(m any) string {
	switch m.(type) {
	case enqueueMsg:
		return "enqueue"
	case fetchMsg:
		return "fetch"
	case batchPostedMsg:
		return "batch_posted"
	case logoutMsg:
		return "logout"
	case anonymousMsg:
		return "anonymous"
	case authenticateMsg:
		return "authenticate"
	case settleMsg:
		return "settle"
	case snapshotMsg:
		return "snapshot"
	default:
		return "completion"
	}
}
