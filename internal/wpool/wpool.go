// Package wpool bounds the number of concurrently running connection
// Workers (spec §4.E) the way httpserver/pool.go bounds concurrent
// per-server commands with a libsem.Sem — except the real semaphore
// implementation backing libsem was not present in the retrieval pack, so
// this is built directly on golang.org/x/sync/semaphore, the library
// nabbar-golib's own semaphore package wraps (see DESIGN.md).
package wpool

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// DefaultCeiling is the 256-connection concurrent-worker ceiling from
// SPEC_FULL.md §2/§5, replacing the source's per-thread 8 MiB stack
// reservation with a simple admission bound.
const DefaultCeiling = 256

// Pool admits up to a fixed number of concurrent Workers, blocking new
// Spawn calls once the ceiling is reached until a running worker exits.
type Pool struct {
	sem     *semaphore.Weighted
	ceiling int64
}

func New(ceiling int) *Pool {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &Pool{
		sem:     semaphore.NewWeighted(int64(ceiling)),
		ceiling: int64(ceiling),
	}
}

func (p *Pool) Ceiling() int {
	return int(p.ceiling)
}

// Spawn blocks until a worker slot is free or ctx is done, then runs fn in
// its own goroutine and releases the slot when fn returns. It returns false
// (without running fn) if ctx was cancelled before a slot became
// available — the caller's equivalent of "worker spawn failed".
func (p *Pool) Spawn(ctx context.Context, fn func()) bool {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return false
	}

	go func() {
		defer p.sem.Release(1)
		fn()
	}()

	return true
}

// TryAcquire takes a slot if one is immediately available, without
// blocking, and reports whether it did; a slot taken this way must be given
// back with Release. Acceptor can use this to reject new connections outright
// instead of queuing them once the pool is saturated.
func (p *Pool) TryAcquire() bool {
	return p.sem.TryAcquire(1)
}

func (p *Pool) Release() {
	p.sem.Release(1)
}

// WaitIdle blocks until every outstanding worker has released its slot,
// i.e. the pool is back to its full ceiling — used by the Shutdown
// Controller's bounded worker-drain wait (spec §4.F).
func (p *Pool) WaitIdle(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, p.ceiling); err != nil {
		return err
	}
	p.sem.Release(p.ceiling)
	return nil
}
