// Package app is the per-user application façade. It owns the loaded
// collections and applies every mutation fail-soft: validate, apply
// locally, then write through to the store. A failed write is logged and
// the entity is marked pending until Sync succeeds.
package app

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/zulandar/launchpad/internal/ident"
	"github.com/zulandar/launchpad/internal/loader"
	"github.com/zulandar/launchpad/internal/models"
	"github.com/zulandar/launchpad/internal/notify"
	"github.com/zulandar/launchpad/internal/store"
)

// Op is a pending remote write.
type Op string

// Pending operations.
const (
	OpUpsert Op = "upsert"
	OpDelete Op = "delete"
)

// Key identifies one entity.
type Key struct {
	Kind models.Kind `json:"kind"`
	ID   string      `json:"id"`
}

// PendingItem is an entity whose last write has not reached the store.
type PendingItem struct {
	Key
	Op Op `json:"op"`
}

// Options configures an App.
type Options struct {
	Loader   loader.Options
	Notifier notify.Notifier
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// App holds one user's data.
type App struct {
	mu      sync.Mutex
	userID  string
	store   *store.Store
	data    *loader.AppData
	pending map[Key]Op
	// after holds writes that must wait until another key is no longer
	// pending.
	after map[Key]Key

	loadMu    sync.Mutex
	loadTried bool
	loaded    bool

	loaderOpts loader.Options
	notifier   notify.Notifier
	now        func() time.Time
}

// New returns an App for userID with empty collections. Call Load to
// fetch stored data.
func New(s *store.Store, userID string, opts Options) *App {
	a := &App{
		userID:     userID,
		store:      s,
		data:       loader.Empty(userID),
		pending:    make(map[Key]Op),
		after:      make(map[Key]Key),
		loaderOpts: opts.Loader,
		notifier:   opts.Notifier,
		now:        opts.Now,
	}
	if a.notifier == nil {
		a.notifier = notify.Nop{}
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// UserID returns the owner of this App.
func (a *App) UserID() string { return a.userID }

// Load replaces local state with the reconciled store contents and
// persists any rows the loader rewrote. Unsynced local writes survive the
// reload. It returns the loader report.
func (a *App) Load(ctx context.Context) loader.Report {
	data := loader.Load(ctx, a.store, a.userID, a.loaderOpts)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.overlayPending(data)
	a.data = data
	for _, m := range data.Migrations {
		a.migrate(ctx, m)
	}
	return data.Report
}

// ensureLoaded loads the App unless a previous load fetched every
// collection. A retry waits until pending writes have been flushed.
func (a *App) ensureLoaded(ctx context.Context) {
	a.loadMu.Lock()
	defer a.loadMu.Unlock()
	if a.loaded {
		return
	}
	if a.loadTried && a.Sync(ctx) > 0 {
		return
	}
	a.loadTried = true
	report := a.Load(ctx)
	a.loaded = len(report.Failed) == 0
}

// migrate writes back one rewritten row. The legacy row came from the
// store, so it is deleted whatever its id looks like. Caller holds a.mu.
func (a *App) migrate(ctx context.Context, m loader.Migration) {
	newKey := Key{m.Kind, m.NewID}
	if m.OldID == m.NewID {
		a.write(ctx, newKey, OpUpsert)
		return
	}
	oldKey := Key{m.Kind, m.OldID}
	if m.Kind == models.KindPipeline {
		// The legacy row holds the unique idea reference until it is gone.
		a.write(ctx, oldKey, OpDelete)
		a.after[newKey] = oldKey
		a.write(ctx, newKey, OpUpsert)
		return
	}
	a.write(ctx, newKey, OpUpsert)
	a.after[oldKey] = newKey
	a.write(ctx, oldKey, OpDelete)
}

// overlayPending carries rows with unsynced writes from the current state
// into freshly loaded data. Caller holds a.mu.
func (a *App) overlayPending(data *loader.AppData) {
	for k, op := range a.pending {
		switch k.Kind {
		case models.KindIdea:
			data.Ideas = overlay(data.Ideas, a.data.Ideas, k.ID, op)
		case models.KindPipeline:
			data.Pipelines = overlay(data.Pipelines, a.data.Pipelines, k.ID, op)
		case models.KindRepeated:
			data.Repeated = overlay(data.Repeated, a.data.Repeated, k.ID, op)
		case models.KindOffice:
			data.Office = overlay(data.Office, a.data.Office, k.ID, op)
		case models.KindRegular:
			data.Regular = overlay(data.Regular, a.data.Regular, k.ID, op)
		}
	}
}

// Migrations returns the legacy ids rewritten by the last Load.
func (a *App) Migrations() []loader.Migration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]loader.Migration(nil), a.data.Migrations...)
}

// IsPending reports whether the entity has an unsynced write.
func (a *App) IsPending(kind models.Kind, id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.pending[Key{kind, id}]
	return ok
}

// Pending lists unsynced writes ordered by kind then id.
func (a *App) Pending() []PendingItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pendingLocked()
}

func (a *App) pendingLocked() []PendingItem {
	out := make([]PendingItem, 0, len(a.pending))
	for k, op := range a.pending {
		out = append(out, PendingItem{Key: k, Op: op})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Sync retries every pending write once and returns how many remain.
// A write that waits on another runs after it in the same pass.
func (a *App) Sync(ctx context.Context) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	tried := make(map[Key]bool)
	for progressed := true; progressed && ctx.Err() == nil; {
		progressed = false
		for _, item := range a.pendingLocked() {
			if tried[item.Key] || a.blocked(item.Key) {
				continue
			}
			if ctx.Err() != nil {
				break
			}
			tried[item.Key] = true
			a.write(ctx, item.Key, item.Op)
			progressed = true
		}
	}
	return len(a.pending)
}

// blocked reports whether k must wait for another pending write. Caller
// holds a.mu.
func (a *App) blocked(k Key) bool {
	dep, ok := a.after[k]
	if !ok {
		return false
	}
	if _, waiting := a.pending[dep]; waiting {
		return true
	}
	delete(a.after, k)
	return false
}

// write pushes one entity to the store. On failure, or while the write
// waits on another, the entity is marked pending; on success any pending
// mark is cleared. Caller holds a.mu.
func (a *App) write(ctx context.Context, k Key, op Op) {
	if a.blocked(k) {
		a.pending[k] = op
		return
	}
	var err error
	switch op {
	case OpUpsert:
		var found bool
		found, err = a.upsertRemote(ctx, k)
		if !found {
			// Removed locally since; a pending delete, if any, wins.
			if a.pending[k] == OpUpsert {
				delete(a.pending, k)
			}
			return
		}
	case OpDelete:
		err = a.deleteRemote(ctx, k)
		if errors.Is(err, models.ErrNotFound) {
			err = nil
		}
	}
	if err != nil {
		log.Printf("app: %s %s %s: %v", op, k.Kind, k.ID, err)
		a.pending[k] = op
		return
	}
	delete(a.pending, k)
}

// deletePersisted deletes remotely only when the id could have been
// persisted. Legacy ids never reached the store. Caller holds a.mu.
func (a *App) deletePersisted(ctx context.Context, k Key) {
	if !ident.IsUUID(k.ID) {
		delete(a.pending, k)
		return
	}
	a.write(ctx, k, OpDelete)
}

func (a *App) upsertRemote(ctx context.Context, k Key) (bool, error) {
	switch k.Kind {
	case models.KindIdea:
		if i := indexOf(a.data.Ideas, k.ID); i >= 0 {
			v := a.data.Ideas[i]
			return true, a.store.Ideas.Upsert(ctx, &v)
		}
	case models.KindPipeline:
		if i := indexOf(a.data.Pipelines, k.ID); i >= 0 {
			v := a.data.Pipelines[i]
			return true, a.store.Pipelines.Upsert(ctx, &v)
		}
	case models.KindRepeated:
		if i := indexOf(a.data.Repeated, k.ID); i >= 0 {
			v := a.data.Repeated[i]
			return true, a.store.Repeated.Upsert(ctx, &v)
		}
	case models.KindOffice:
		if i := indexOf(a.data.Office, k.ID); i >= 0 {
			v := a.data.Office[i]
			return true, a.store.Office.Upsert(ctx, &v)
		}
	case models.KindRegular:
		if i := indexOf(a.data.Regular, k.ID); i >= 0 {
			v := a.data.Regular[i]
			return true, a.store.Regular.Upsert(ctx, &v)
		}
	}
	return false, nil
}

func (a *App) deleteRemote(ctx context.Context, k Key) error {
	switch k.Kind {
	case models.KindIdea:
		return a.store.Ideas.Delete(ctx, k.ID)
	case models.KindPipeline:
		return a.store.Pipelines.Delete(ctx, k.ID)
	case models.KindRepeated:
		return a.store.Repeated.Delete(ctx, k.ID)
	case models.KindOffice:
		return a.store.Office.Delete(ctx, k.ID)
	case models.KindRegular:
		return a.store.Regular.Delete(ctx, k.ID)
	}
	return nil
}

// notify delivers evt and logs failures. Must not be called with a.mu held.
func (a *App) notify(ctx context.Context, evt notify.Event) {
	if err := a.notifier.Notify(ctx, evt); err != nil {
		log.Printf("app: notify %s: %v", evt.Type, err)
	}
}

func indexOf[T models.Entity](rows []T, id string) int {
	for i := range rows {
		if rows[i].EntityID() == id {
			return i
		}
	}
	return -1
}

// overlay replaces the row id in dst with its version in src, or drops it
// for a pending delete.
func overlay[T models.Entity](dst, src []T, id string, op Op) []T {
	dst, _ = remove(dst, id)
	if op == OpUpsert {
		if i := indexOf(src, id); i >= 0 {
			dst = append(dst, src[i])
		}
	}
	return dst
}

func remove[T models.Entity](rows []T, id string) ([]T, bool) {
	i := indexOf(rows, id)
	if i < 0 {
		return rows, false
	}
	return append(rows[:i:i], rows[i+1:]...), true
}
