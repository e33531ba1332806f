// Package shutdown implements the Shutdown Controller (spec §4.F): it
// turns process signals into a cooperative stop, waits (bounded) for
// worker drain, tears down the listener and the plugin registry, and
// flips a closed flag exactly once. The shutdown pipe from the source
// becomes a context.Context here — cancelling it is the Go analogue of
// writing the single 'q' byte (spec §3's ShutdownToken), and
// context.Context is already the idiomatic way to fan a single cancellation
// out to every goroutine that needs to observe it.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/friendup/friendcore/internal/flog"
	"github.com/friendup/friendcore/internal/wpool"
	"github.com/friendup/friendcore/plugin"
)

// DrainTimeout bounds the wait for outstanding Workers to finish, per
// spec §4.F.1's "≈15 s" figure.
const DrainTimeout = 15 * time.Second

// Controller owns the shutdown context and coordinates the teardown
// sequence described in spec §4.F.
type Controller struct {
	ctx    context.Context
	cancel context.CancelFunc

	pool     *wpool.Pool
	registry *plugin.Registry
	closers  []func() error

	once   sync.Once
	closed bool
	mu     sync.Mutex
}

// New builds a Controller bound to pool (for drain-wait) and registry (for
// close-all). AddCloser registers additional teardown steps (e.g. the
// Listener) to run during Shutdown, in registration order.
func New(pool *wpool.Pool, registry *plugin.Registry) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{ctx: ctx, cancel: cancel, pool: pool, registry: registry}
}

// Context is the shutdown signal every long-running goroutine (Reactor,
// Acceptor handshake loop) selects on.
func (c *Controller) Context() context.Context {
	return c.ctx
}

// AddCloser registers a teardown step to run during Shutdown, after the
// worker drain wait and before the plugin registry is closed — this is
// where the Listener's Close belongs.
func (c *Controller) AddCloser(fn func() error) {
	c.mu.Lock()
	c.closers = append(c.closers, fn)
	c.mu.Unlock()
}

// WaitNotify blocks until SIGINT, SIGTERM or SIGQUIT arrives, then runs
// Shutdown — the Go analogue of spec §4.F's async-signal-safe write of a
// single 'q' byte: signal.Notify delivers on a channel from a safe internal
// dispatcher instead of running arbitrary code in signal context, and the
// actual teardown work happens on this goroutine, not in a handler.
func (c *Controller) WaitNotify() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-quit:
		flog.InfoLevel.Logf("received signal %s, shutting down", sig)
	case <-c.ctx.Done():
	}

	c.Shutdown()
}

// Shutdown runs the teardown sequence exactly once; a second call observes
// the same terminal state and performs no further work, satisfying spec
// §8.6's idempotent-shutdown property.
func (c *Controller) Shutdown() {
	c.once.Do(func() {
		c.cancel()

		drainCtx, drainCancel := context.WithTimeout(context.Background(), DrainTimeout)
		if err := c.pool.WaitIdle(drainCtx); err != nil {
			flog.WarnLevel.Logf("worker drain timed out after %s, proceeding with shutdown", DrainTimeout)
		}
		drainCancel()

		c.mu.Lock()
		closers := append([]func() error(nil), c.closers...)
		c.mu.Unlock()

		for _, fn := range closers {
			if err := fn(); err != nil {
				flog.WarnLevel.LogErrorCtxf(flog.NilLevel, "shutdown closer failed", err)
			}
		}

		if c.registry != nil {
			for _, err := range c.registry.CloseAll() {
				flog.WarnLevel.LogErrorCtxf(flog.NilLevel, "plugin close failed", err)
			}
		}

		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
	})
}

// Closed reports whether Shutdown has completed — the composition root's
// top-level destructor blocks on this (spec §4.H).
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
