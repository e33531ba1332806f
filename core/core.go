// Package core implements the FriendCore Instance (spec §4.H): the
// composition root holding the configuration, components A-G, and the
// lifecycle flags describing whether construction succeeded and whether
// shutdown has completed.
package core

import (
	"fmt"
	"sync/atomic"

	"github.com/friendup/friendcore/config"
	"github.com/friendup/friendcore/connection"
	"github.com/friendup/friendcore/httpproto"
	"github.com/friendup/friendcore/internal/ferr"
	"github.com/friendup/friendcore/internal/flog"
	"github.com/friendup/friendcore/internal/tlsctx"
	"github.com/friendup/friendcore/internal/wpool"
	"github.com/friendup/friendcore/listener"
	"github.com/friendup/friendcore/plugin"
	"github.com/friendup/friendcore/reactor"
	"github.com/friendup/friendcore/shutdown"
	"github.com/friendup/friendcore/worker"
)

func init() {
	ferr.RegisterMessage(ferr.MinPkgCore, getMessage)
}

const (
	ErrorListen ferr.CodeError = ferr.MinPkgCore + iota
	ErrorTLSContext
)

func getMessage(code ferr.CodeError) string {
	switch code {
	case ErrorListen:
		return "failed to start listener"
	case ErrorTLSContext:
		return "failed to build TLS context"
	}
	return ""
}

// Instance is the composition root described in spec §4.H. Its id is the
// 32-byte zero-padded identifier SPEC_FULL.md §5 carries over from
// original_source/core/core/friend_core.c.
type Instance struct {
	id  string
	cfg config.Config

	l       *listener.Listener
	reg     *plugin.Registry
	pool    *wpool.Pool
	shut    *shutdown.Controller
	reactor *reactor.Reactor
	worker  *worker.Worker

	bytesRead    atomic.Int64
	bytesWritten atomic.Int64
}

// New constructs an Instance bound to cfg and handler, but does not start
// accepting connections yet — call Run for that. Bind/listen failures are
// fatal, per spec §4.A, and are returned here rather than deferred to Run.
func New(cfg config.Config, handler httpproto.Handler) (*Instance, ferr.Error) {
	if verr := cfg.Validate(); verr != nil {
		return nil, verr
	}

	var tlsCtx *tlsctx.Context
	if cfg.TLSEnabled {
		b := tlsctx.NewBuilder().SetSessionCacheDisabled(true)
		if err := b.AddCertificatePairFile(cfg.TLSCertFile, cfg.TLSKeyFile); err != nil {
			return nil, ErrorTLSContext.ErrorParent(err)
		}

		built, err := b.Build()
		if err != nil {
			return nil, ErrorTLSContext.ErrorParent(err)
		}
		tlsCtx = built
	}

	l, err := listener.New(cfg.Addr(), tlsCtx)
	if err != nil {
		return nil, ErrorListen.ErrorParent(err)
	}

	reg := plugin.New()
	pool := wpool.New(cfg.MaxWorkers)
	shut := shutdown.New(pool, reg)
	w := worker.New(cfg.BufferSize, handler)

	inst := &Instance{
		id:     formatID(cfg.Port),
		cfg:    cfg,
		l:      l,
		reg:    reg,
		pool:   pool,
		shut:   shut,
		worker: w,
	}

	inst.reactor = reactor.New(l, pool, inst.dispatch)
	shut.AddCloser(l.Close)

	return inst, nil
}

// formatID builds the 32-byte zero-padded identifier from the numeric
// port, matching friend_core.c's fixed-width core id (SPEC_FULL.md §5).
func formatID(port int) string {
	return fmt.Sprintf("%032d", port)
}

func (i *Instance) ID() string { return i.id }

// Registry exposes the Plugin Registry (§4.G) so callers can register
// plugin handles before Run starts accepting traffic.
func (i *Instance) Registry() *plugin.Registry { return i.reg }

func (i *Instance) dispatch(conn *connection.Connection) {
	read, written := i.worker.Run(conn)
	i.addBytesRead(read)
	i.addBytesWritten(written)
}

// Run starts the Reactor loop and blocks until shutdown completes — the
// top-level `run` operation named in spec §4.A's error-handling note.
func (i *Instance) Run() {
	flog.InfoLevel.Logf("FriendCore instance %s listening (tls=%v)", i.id, i.cfg.TLSEnabled)

	go i.reactor.Run(i.shut.Context())

	i.shut.WaitNotify()
}

// Shutdown requests a clean stop without waiting for a signal — used by
// callers embedding an Instance in a larger process.
func (i *Instance) Shutdown() {
	i.shut.Shutdown()
}

// Closed reports whether shutdown has fully completed (spec §3's
// closed-confirmation flag; the top-level destructor blocks on this).
func (i *Instance) Closed() bool {
	return i.shut.Closed()
}

// Stats returns the cumulative bytes read/written by this instance's
// Workers — SPEC_FULL.md §5's atomic per-instance counters, replacing the
// source's global mutable statistics.
func (i *Instance) Stats() (read, written int64) {
	return i.bytesRead.Load(), i.bytesWritten.Load()
}

func (i *Instance) addBytesRead(n int64)    { i.bytesRead.Add(n) }
func (i *Instance) addBytesWritten(n int64) { i.bytesWritten.Add(n) }
