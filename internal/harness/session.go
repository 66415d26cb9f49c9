package harness

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// Registry hands out monotonically increasing run ids and remembers the
// newest invocation per scope key. A new run supersedes any in-flight run
// with the same key; completions tagged with a stale id are discarded.
type Registry struct {
	next   atomic.Uint64
	latest *xsync.MapOf[string, uint64]
}

func NewRegistry() *Registry {
	return &Registry{latest: xsync.NewMapOf[string, uint64]()}
}

// Begin registers a new invocation under the key and returns its run id.
func (r *Registry) Begin(key string) uint64 {
	id := r.next.Add(1)
	r.latest.Store(key, id)
	return id
}

// Current reports whether the given run id is still the newest invocation
// under the key.
func (r *Registry) Current(key string, runId uint64) bool {
	latest, ok := r.latest.Load(key)
	return ok && latest == runId
}
