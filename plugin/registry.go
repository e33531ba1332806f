// Package plugin implements the Plugin Registry (spec §4.G): a name-keyed
// table of loaded handles with a minimum-version lookup and a single
// close-all-on-shutdown operation. The map itself is adapted from
// atomic.mt[K, V]'s generic sync.Map wrapper (atomic/synmap.go), collapsed
// to the one key/value shape the registry actually needs instead of the
// teacher's fully generic Cast[V]-based version.
package plugin

import (
	"sort"
	"sync"

	"github.com/friendup/friendcore/internal/ferr"
)

func init() {
	ferr.RegisterMessage(ferr.MinPkgPlugin, getMessage)
}

const (
	ErrorNotFound ferr.CodeError = ferr.MinPkgPlugin + iota
	ErrorVersionTooOld
	ErrorAlreadyRegistered
)

func getMessage(code ferr.CodeError) string {
	switch code {
	case ErrorNotFound:
		return "plugin not found"
	case ErrorVersionTooOld:
		return "plugin version older than requested minimum"
	case ErrorAlreadyRegistered:
		return "plugin name already registered"
	}
	return ""
}

// Handle is whatever a loaded plugin hands back to the registry; Close is
// called once, in registration order reversed, during close-all.
type Handle interface {
	Name() string
	Version() int
	Close() error
}

type entry struct {
	handle Handle
	seq    int
}

// Registry is the name -> handle map. It holds each handle until
// Unregister or CloseAll, with no reference counting — a sync.Map plus a monotonic sequence number per entry so CloseAll can
// tear handles down in reverse-registration order, mirroring the teacher's
// LIFO shutdown ordering for pooled resources.
type Registry struct {
	m   sync.Map // string -> *entry
	mu  sync.Mutex
	seq int
}

func New() *Registry {
	return &Registry{}
}

func (r *Registry) Register(h Handle) ferr.Error {
	if h == nil || h.Name() == "" {
		return ErrorNotFound.Error(nil)
	}

	r.mu.Lock()
	r.seq++
	e := &entry{handle: h, seq: r.seq}
	r.mu.Unlock()

	if _, loaded := r.m.LoadOrStore(h.Name(), e); loaded {
		return ErrorAlreadyRegistered.Error(nil)
	}

	return nil
}

// Get returns the handle registered under name, failing if it is missing or
// older than minVersion — the "get(name, min_version) -> handle|null"
// operation from the component table.
func (r *Registry) Get(name string, minVersion int) (Handle, ferr.Error) {
	v, ok := r.m.Load(name)
	if !ok {
		return nil, ErrorNotFound.Error(nil)
	}

	e := v.(*entry)
	if e.handle.Version() < minVersion {
		return nil, ErrorVersionTooOld.Error(nil)
	}

	return e.handle, nil
}

func (r *Registry) Unregister(name string) {
	r.m.Delete(name)
}

// CloseAll tears down every registered handle in reverse-registration
// order and clears the registry. Errors from individual Close calls are
// collected, not short-circuited, so one bad plugin cannot leak the rest.
func (r *Registry) CloseAll() []error {
	var entries []*entry

	r.m.Range(func(_, v any) bool {
		entries = append(entries, v.(*entry))
		return true
	})

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })

	var errs []error
	for _, e := range entries {
		if err := e.handle.Close(); err != nil {
			errs = append(errs, err)
		}
		r.m.Delete(e.handle.Name())
	}

	return errs
}

func (r *Registry) Len() int {
	n := 0
	r.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
