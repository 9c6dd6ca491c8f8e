package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/pvisualizer/internal/client/api"
	"github.com/dmitrijs2005/pvisualizer/internal/client/credentials"
	"github.com/dmitrijs2005/pvisualizer/internal/logging"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"
)

const DefaultLoginRoute = "/login"

var (
	// ErrNoCredential is returned by Token when nothing is stored.
	ErrNoCredential = errors.New("no credential")
	// ErrNotAuthenticated is returned by Token when the stored credential
	// has not been verified.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Verifier checks a bearer token with the remote API. A nil error means
// the endpoint answered 2xx with a truthy payload.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

type Options struct {
	// LoginRoute is carried by Redirect decisions.
	LoginRoute string
	// Retries bounds the extra attempts made when the API is unreachable.
	Retries int
	// RetryBase is the first backoff delay; it doubles on every attempt.
	RetryBase time.Duration
	// KeepOnUnreachable keeps the credential when every attempt failed
	// without an HTTP response. The state still becomes UNAUTHENTICATED.
	KeepOnUnreachable bool
}

func (o Options) withDefaults() Options {
	if o.LoginRoute == "" {
		o.LoginRoute = DefaultLoginRoute
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.RetryBase <= 0 {
		o.RetryBase = 200 * time.Millisecond
	}
	return o
}

// Guard is safe for concurrent use.
type Guard struct {
	store    credentials.Store
	verifier Verifier
	opts     Options
	logger   logging.Logger

	flight singleflight.Group

	mu    sync.Mutex
	state State
	// gen changes on every Acquire and Release. A verification started
	// under an older generation must not touch state or storage.
	gen    uint64
	subs   map[int]chan Snapshot
	nextID int
}

func New(store credentials.Store, verifier Verifier, opts Options, logger logging.Logger) *Guard {
	return &Guard{
		store:    store,
		verifier: verifier,
		opts:     opts.withDefaults(),
		logger:   logger.With("component", "session"),
		state:    Unknown,
		subs:     make(map[int]chan Snapshot),
	}
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Guard) Snapshot() Snapshot {
	return snapshotOf(g.State())
}

// Acquire stores token, replacing any previous credential. It does not
// validate it: the guard goes back to UNKNOWN until the next Verify.
func (g *Guard) Acquire(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("empty credential")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.store.Save(ctx, token); err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	g.gen++
	g.setLocked(Unknown)
	g.logger.Debug(ctx, "credential acquired")
	return nil
}

// Release drops the credential and forces UNAUTHENTICATED without a network
// call. The state changes even when the store fails to delete.
func (g *Guard) Release(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.gen++
	err := g.store.Delete(ctx)
	g.setLocked(Unauthenticated)
	if err != nil {
		g.logger.Warn(ctx, "release: delete credential", "error", err)
		return fmt.Errorf("release: %w", err)
	}
	g.logger.Debug(ctx, "credential released")
	return nil
}

// Verify resolves the session to AUTHENTICATED or UNAUTHENTICATED.
// Overlapping calls share one verification. A verification overtaken by
// Acquire is restarted for the new credential. If ctx ends first Verify
// returns ctx.Err(); the shared verification still completes.
func (g *Guard) Verify(ctx context.Context) (State, error) {
	detached := context.WithoutCancel(ctx)
	for {
		g.mu.Lock()
		gen := g.gen
		g.mu.Unlock()

		ch := g.flight.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
			return g.verify(detached, gen), nil
		})

		select {
		case res := <-ch:
			if st := res.Val.(State); st.resolved() {
				return st, nil
			}
			g.logger.Debug(ctx, "verify overtaken by acquire, restarting")
		case <-ctx.Done():
			return g.State(), ctx.Err()
		}
	}
}

func (g *Guard) verify(ctx context.Context, gen uint64) State {
	token, err := g.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, credentials.ErrNoCredential) {
			g.logger.Warn(ctx, "load credential", "error", err)
		}
		return g.finish(ctx, gen, Unauthenticated, false)
	}

	g.mu.Lock()
	if g.gen != gen {
		s := g.state
		g.mu.Unlock()
		return s
	}
	g.setLocked(Verifying)
	g.mu.Unlock()

	err = g.check(ctx, token)
	switch {
	case err == nil:
		return g.finish(ctx, gen, Authenticated, false)
	case errors.Is(err, api.ErrUnavailable) && g.opts.KeepOnUnreachable:
		g.logger.Warn(ctx, "verify: api unreachable, keeping credential", "error", err)
		return g.finish(ctx, gen, Unauthenticated, false)
	default:
		g.logger.Info(ctx, "verify failed, evicting credential", "error", err)
		return g.finish(ctx, gen, Unauthenticated, true)
	}
}

// check calls the verifier, retrying while the API cannot be reached.
func (g *Guard) check(ctx context.Context, token string) error {
	b := retry.WithMaxRetries(uint64(g.opts.Retries), retry.NewExponential(g.opts.RetryBase))
	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := g.verifier.Verify(ctx, token)
		if errors.Is(err, api.ErrUnavailable) {
			g.logger.Debug(ctx, "verify attempt failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (g *Guard) finish(ctx context.Context, gen uint64, s State, evict bool) State {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.gen != gen {
		return g.state
	}
	if evict {
		if err := g.store.Delete(ctx); err != nil {
			g.logger.Warn(ctx, "evict credential", "error", err)
		}
	}
	g.setLocked(s)
	return s
}

// Gate maps the current state to what a protected view should do. It has
// no side effects.
func (g *Guard) Gate(view View) Decision {
	switch g.State() {
	case Authenticated:
		return Decision{Action: Render, View: view}
	case Unauthenticated:
		return Decision{Action: Redirect, RedirectTo: g.opts.LoginRoute}
	default:
		return Decision{Action: Loading}
	}
}

// Token returns the stored credential once it has been verified.
func (g *Guard) Token(ctx context.Context) (string, error) {
	if g.State() != Authenticated {
		return "", ErrNotAuthenticated
	}
	token, err := g.store.Load(ctx)
	if errors.Is(err, credentials.ErrNoCredential) {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// Subscribe delivers the current snapshot and then every change until
// ctx is done or the returned cancel func is called, after which the
// channel is closed. A slow consumer only sees the latest snapshot.
// Callers must eventually call cancel; it is safe to call more than once.
func (g *Guard) Subscribe(ctx context.Context) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.subs[id] = ch
	ch <- snapshotOf(g.state)
	g.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		<-ctx.Done()
		g.mu.Lock()
		delete(g.subs, id)
		close(ch)
		g.mu.Unlock()
	}()
	return ch, cancel
}

func (g *Guard) setLocked(s State) {
	if g.state == s {
		return
	}
	g.state = s
	snap := snapshotOf(s)
	for _, ch := range g.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
