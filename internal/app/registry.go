package app

import (
	"context"
	"sort"
	"sync"

	"github.com/zulandar/launchpad/internal/store"
)

// Registry keeps one loaded App per user.
type Registry struct {
	mu    sync.Mutex
	store *store.Store
	opts  Options
	apps  map[string]*App
}

// NewRegistry returns an empty Registry whose Apps share s and opts.
func NewRegistry(s *store.Store, opts Options) *Registry {
	return &Registry{store: s, opts: opts, apps: make(map[string]*App)}
}

// Get returns the App for userID, creating and loading it on first use.
// A load that left any collection unfetched is retried on the next call.
// Loading outlives ctx so a cancelled request cannot leave a half-loaded
// session behind.
func (r *Registry) Get(ctx context.Context, userID string) *App {
	r.mu.Lock()
	a, ok := r.apps[userID]
	if !ok {
		a = New(r.store, userID, r.opts)
		r.apps[userID] = a
	}
	r.mu.Unlock()

	a.ensureLoaded(context.WithoutCancel(ctx))
	return a
}

// Apps returns every loaded App ordered by user id.
func (r *Registry) Apps() []*App {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*App, 0, len(r.apps))
	for _, a := range r.apps {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].userID < out[j].userID })
	return out
}

// SyncAll flushes pending writes for every loaded App, retries loads
// that failed, and returns the number of writes still pending.
func (r *Registry) SyncAll(ctx context.Context) int {
	remaining := 0
	for _, a := range r.Apps() {
		a.ensureLoaded(ctx)
		remaining += a.Sync(ctx)
	}
	return remaining
}
