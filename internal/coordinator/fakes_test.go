package coordinator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"nathanbeddoewebdev/usersync/internal/domain"
	"nathanbeddoewebdev/usersync/internal/session"
)

const waitTimeout = 2 * time.Second

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func act(id string) domain.Action {
	return domain.Action{ID: id, Type: "todo.add", ShouldSynchronize: true, CreatedAt: baseTime}
}

func signedIn(userID string) domain.Session {
	return domain.Session{UserID: userID, Token: "tok-" + userID}
}

// --- Remote ---

type postCall struct {
	actions []domain.Action
	userID  string
	token   string
	reply   chan domain.PostResult
}

type fetchCall struct {
	userID string
	token  string
	reply  chan domain.FetchResult
}

// fakeRemote hands every call to the test through a channel and blocks
// until the test replies, unless postFn/fetchFn answer directly.
type fakeRemote struct {
	posts   chan postCall
	fetches chan fetchCall
	postFn  func([]domain.Action) domain.PostResult
	fetchFn func() domain.FetchResult
	forgets atomic.Int32
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		posts:   make(chan postCall),
		fetches: make(chan fetchCall),
	}
}

func (f *fakeRemote) PostBatch(ctx context.Context, actions []domain.Action, userID, token string) domain.PostResult {
	if f.postFn != nil {
		return f.postFn(actions)
	}
	call := postCall{actions: actions, userID: userID, token: token, reply: make(chan domain.PostResult, 1)}
	select {
	case f.posts <- call:
	case <-ctx.Done():
		return domain.PostResult{}
	}
	select {
	case res := <-call.reply:
		return res
	case <-ctx.Done():
		return domain.PostResult{}
	}
}

func (f *fakeRemote) FetchUser(ctx context.Context, userID, token string) domain.FetchResult {
	if f.fetchFn != nil {
		return f.fetchFn()
	}
	call := fetchCall{userID: userID, token: token, reply: make(chan domain.FetchResult, 1)}
	select {
	case f.fetches <- call:
	case <-ctx.Done():
		return domain.FetchResult{}
	}
	select {
	case res := <-call.reply:
		return res
	case <-ctx.Done():
		return domain.FetchResult{}
	}
}

func (f *fakeRemote) ForgetUser() error {
	f.forgets.Add(1)
	return nil
}

// --- Action log ---

type fakeLog struct {
	mu          sync.Mutex
	unsupported bool
	failWrites  bool
	putGate     chan struct{}
	stored      []domain.Action
	ops         []string
}

func (l *fakeLog) Supported() bool { return !l.unsupported }

func (l *fakeLog) Put(a domain.Action) bool {
	if l.putGate != nil {
		<-l.putGate
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, "put "+a.ID)
	if l.failWrites {
		return false
	}
	for i, s := range l.stored {
		if s.ID == a.ID {
			l.stored[i] = a
			return true
		}
	}
	l.stored = append(l.stored, a)
	return true
}

func (l *fakeLog) ListAll() []domain.Action {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.stored)
}

func (l *fakeLog) DeleteMany(ids []string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, fmt.Sprintf("delete %v", ids))
	if l.failWrites {
		return false
	}
	l.stored = slices.DeleteFunc(l.stored, func(a domain.Action) bool {
		return slices.Contains(ids, a.ID)
	})
	return true
}

func (l *fakeLog) ClearAll() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, "clear")
	if l.failWrites {
		return false
	}
	l.stored = nil
	return true
}

func (l *fakeLog) opsSnapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.ops)
}

func (l *fakeLog) storedIDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.ActionIDs(l.stored)
}

// --- Harness ---

type harness struct {
	t      *testing.T
	c      *Coordinator
	store  *session.Store
	remote *fakeRemote

	mu     sync.Mutex
	events []session.Event
}

// newHarness starts a coordinator over a real session store. log may be
// nil for a coordinator without persistence.
func newHarness(t *testing.T, initial domain.Session, log ActionLog) *harness {
	t.Helper()
	return newHarnessWithRemote(t, initial, log, newFakeRemote())
}

func newHarnessWithRemote(t *testing.T, initial domain.Session, log ActionLog, remote *fakeRemote) *harness {
	t.Helper()
	h := &harness{t: t, store: session.NewStore(initial), remote: remote}
	h.store.Observe(func(e session.Event, _ domain.Session) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.events = append(h.events, e)
	})

	opts := []Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}
	if log != nil {
		opts = append(opts, WithActionLog(log))
	}
	h.c = New(h.store, remote, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- h.c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-errCh:
		case <-time.After(waitTimeout):
			t.Error("Run did not return after cancel")
		}
	})

	select {
	case <-h.c.Ready():
	case <-time.After(waitTimeout):
		t.Fatal("coordinator never became ready")
	}
	return h
}

func (h *harness) settle() {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	if err := h.c.Settle(ctx); err != nil {
		h.t.Fatalf("Settle: %v", err)
	}
}

func (h *harness) snapshot() Snapshot {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	s, err := h.c.Snapshot(ctx)
	if err != nil {
		h.t.Fatalf("Snapshot: %v", err)
	}
	assertInFlightSubset(h.t, s)
	return s
}

func (h *harness) kinds() []session.EventKind {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]session.EventKind, len(h.events))
	for i, e := range h.events {
		out[i] = e.Kind
	}
	return out
}

func (h *harness) wantKinds(want ...session.EventKind) {
	h.t.Helper()
	if diff := cmp.Diff(want, h.kinds()); diff != "" {
		h.t.Errorf("event kinds mismatch (-want +got):\n%s", diff)
	}
}

// waitFor blocks until an event of kind was dispatched.
func (h *harness) waitFor(kind session.EventKind) {
	h.t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		if slices.Contains(h.kinds(), kind) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	h.t.Fatalf("timed out waiting for %s; got %v", kind, h.kinds())
}

func (h *harness) nextPost() postCall {
	h.t.Helper()
	select {
	case call := <-h.remote.posts:
		return call
	case <-time.After(waitTimeout):
		h.t.Fatal("timed out waiting for a post")
	}
	return postCall{}
}

func (h *harness) nextFetch() fetchCall {
	h.t.Helper()
	select {
	case call := <-h.remote.fetches:
		return call
	case <-time.After(waitTimeout):
		h.t.Fatal("timed out waiting for a fetch")
	}
	return fetchCall{}
}

func (h *harness) expectNoPost() {
	h.t.Helper()
	select {
	case call := <-h.remote.posts:
		h.t.Fatalf("unexpected post of %v", domain.ActionIDs(call.actions))
	case <-time.After(50 * time.Millisecond):
	}
}

func (h *harness) expectNoFetch() {
	h.t.Helper()
	select {
	case <-h.remote.fetches:
		h.t.Fatal("unexpected fetch")
	case <-time.After(50 * time.Millisecond):
	}
}

func pendingIDs(s Snapshot) []string {
	return domain.ActionIDs(s.Pending)
}

func assertInFlightSubset(t *testing.T, s Snapshot) {
	t.Helper()
	pending := pendingIDs(s)
	for _, id := range s.InFlight {
		if !slices.Contains(pending, id) {
			t.Fatalf("in-flight action %s is not pending (pending %v)", id, pending)
		}
	}
}

func wantIDs(t *testing.T, want []string, actions []domain.Action) {
	t.Helper()
	if diff := cmp.Diff(want, domain.ActionIDs(actions), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("action IDs mismatch (-want +got):\n%s", diff)
	}
}
