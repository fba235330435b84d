// Package loader fetches every collection for a user and reconciles it:
// duplicates are dropped and legacy ids are remapped to UUIDs.
package loader

import (
	"context"
	"log"
	"sync"

	"github.com/zulandar/launchpad/internal/ident"
	"github.com/zulandar/launchpad/internal/models"
	"github.com/zulandar/launchpad/internal/store"
)

// Options tunes reconciliation.
type Options struct {
	// DedupeRegularTasks enables content dedup of regular tasks by
	// (title, description). Off by default to match stored behaviour.
	DedupeRegularTasks bool
}

// AppData is every collection loaded for one user.
type AppData struct {
	UserID    string                `json:"userId"`
	Ideas     []models.Idea         `json:"ideas"`
	Pipelines []models.Pipeline     `json:"pipelines"`
	Repeated  []models.RepeatedTask `json:"repeatedTasks"`
	Office    []models.OfficeTask   `json:"officeTasks"`
	Regular   []models.RegularTask  `json:"regularTasks"`

	// Migrations lists rows rewritten during Load that must be written back.
	Migrations []Migration `json:"migrations,omitempty"`
	// Report summarizes what reconciliation did.
	Report Report `json:"report"`
}

// Migration records one legacy id rewritten to a UUID. OldID equals NewID
// when only a reference inside the row was rewritten.
type Migration struct {
	Kind  models.Kind `json:"kind"`
	OldID string      `json:"oldId"`
	NewID string      `json:"newId"`
}

// InPlace reports whether the row kept its id.
func (m Migration) InPlace() bool { return m.OldID == m.NewID }

// Report counts reconciliation effects per kind.
type Report struct {
	Failed           []models.Kind       `json:"failed,omitempty"`
	DroppedByID      map[models.Kind]int `json:"droppedById,omitempty"`
	DroppedByContent map[models.Kind]int `json:"droppedByContent,omitempty"`
}

// Empty returns an AppData with no rows.
func Empty(userID string) *AppData {
	return &AppData{
		UserID:    userID,
		Ideas:     []models.Idea{},
		Pipelines: []models.Pipeline{},
		Repeated:  []models.RepeatedTask{},
		Office:    []models.OfficeTask{},
		Regular:   []models.RegularTask{},
		Report:    newReport(),
	}
}

func newReport() Report {
	return Report{
		DroppedByID:      make(map[models.Kind]int),
		DroppedByContent: make(map[models.Kind]int),
	}
}

// Load fetches all collections concurrently and reconciles them. It never
// fails: a collection whose fetch errors is logged and loaded empty.
func Load(ctx context.Context, s *store.Store, userID string, opts Options) *AppData {
	data := Empty(userID)
	if s == nil {
		return data
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []models.Kind
	)
	fail := func(kind models.Kind, err error) {
		log.Printf("loader: list %s for %s: %v", kind, userID, err)
		mu.Lock()
		failed = append(failed, kind)
		mu.Unlock()
	}

	wg.Add(5)
	go func() {
		defer wg.Done()
		if rows, err := s.Ideas.List(ctx, userID); err != nil {
			fail(models.KindIdea, err)
		} else {
			data.Ideas = rows
		}
	}()
	go func() {
		defer wg.Done()
		if rows, err := s.Pipelines.List(ctx, userID); err != nil {
			fail(models.KindPipeline, err)
		} else {
			data.Pipelines = rows
		}
	}()
	go func() {
		defer wg.Done()
		if rows, err := s.Repeated.List(ctx, userID); err != nil {
			fail(models.KindRepeated, err)
		} else {
			data.Repeated = rows
		}
	}()
	go func() {
		defer wg.Done()
		if rows, err := s.Office.List(ctx, userID); err != nil {
			fail(models.KindOffice, err)
		} else {
			data.Office = rows
		}
	}()
	go func() {
		defer wg.Done()
		if rows, err := s.Regular.List(ctx, userID); err != nil {
			fail(models.KindRegular, err)
		} else {
			data.Regular = rows
		}
	}()
	wg.Wait()

	data.Report.Failed = sortKinds(failed)
	Reconcile(data, opts)
	return data
}

// Reconcile deduplicates and normalizes data in place.
func Reconcile(data *AppData, opts Options) {
	Dedup(data, opts)
	Normalize(data)
}

// Dedup drops duplicate rows: first by id, then by kind-specific content.
// Running it twice gives the same result as running it once.
func Dedup(data *AppData, opts Options) {
	r := &data.Report
	if r.DroppedByID == nil {
		r.DroppedByID = make(map[models.Kind]int)
	}
	if r.DroppedByContent == nil {
		r.DroppedByContent = make(map[models.Kind]int)
	}

	data.Ideas = countDrop(r.DroppedByID, models.KindIdea, data.Ideas, DedupByID(data.Ideas))
	data.Pipelines = countDrop(r.DroppedByID, models.KindPipeline, data.Pipelines, DedupByID(data.Pipelines))
	data.Repeated = countDrop(r.DroppedByID, models.KindRepeated, data.Repeated, DedupByID(data.Repeated))
	data.Office = countDrop(r.DroppedByID, models.KindOffice, data.Office, DedupByID(data.Office))
	data.Regular = countDrop(r.DroppedByID, models.KindRegular, data.Regular, DedupByID(data.Regular))

	// One pipeline per idea.
	data.Pipelines = countDrop(r.DroppedByContent, models.KindPipeline, data.Pipelines,
		DedupByContent(data.Pipelines, func(p models.Pipeline) string { return p.IdeaID }))
	data.Repeated = countDrop(r.DroppedByContent, models.KindRepeated, data.Repeated,
		DedupByContent(data.Repeated, repeatedKey))
	data.Office = countDrop(r.DroppedByContent, models.KindOffice, data.Office,
		DedupByContent(data.Office, officeKey))
	if opts.DedupeRegularTasks {
		data.Regular = countDrop(r.DroppedByContent, models.KindRegular, data.Regular,
			DedupByContent(data.Regular, regularKey))
	}
}

type contentKey struct {
	title, description, extra string
}

func repeatedKey(t models.RepeatedTask) contentKey {
	return contentKey{t.Title, t.Description, t.Frequency}
}

func officeKey(t models.OfficeTask) contentKey {
	return contentKey{t.Title, t.Description, t.Deadline}
}

func regularKey(t models.RegularTask) contentKey {
	return contentKey{t.Title, t.Description, ""}
}

func countDrop[T any](counts map[models.Kind]int, kind models.Kind, before, after []T) []T {
	if n := len(before) - len(after); n > 0 {
		counts[kind] += n
	}
	return after
}

// DedupByID keeps the first row for each id, preserving order.
func DedupByID[T models.Entity](rows []T) []T {
	return DedupByContent(rows, func(v T) string { return v.EntityID() })
}

// DedupByContent keeps the first row for each key, preserving order.
func DedupByContent[T any, K comparable](rows []T, key func(T) K) []T {
	out := make([]T, 0, len(rows))
	seen := make(map[K]struct{}, len(rows))
	for _, r := range rows {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Normalize rewrites every non-UUID id. Each kind gets its own Remapper,
// and a pipeline's IdeaID goes through the idea Remapper so it follows its
// idea's new id. A pipeline whose IdeaID alone changed is recorded with
// OldID equal to NewID.
func Normalize(data *AppData) {
	ideas := ident.NewRemapper()
	remap := func(r *ident.Remapper, kind models.Kind, id *string) {
		old := *id
		*id = r.Map(old)
		if *id != old {
			data.Migrations = append(data.Migrations, Migration{Kind: kind, OldID: old, NewID: *id})
		}
	}

	for i := range data.Ideas {
		remap(ideas, models.KindIdea, &data.Ideas[i].ID)
	}
	pipelines := ident.NewRemapper()
	for i := range data.Pipelines {
		p := &data.Pipelines[i]
		oldIdea := p.IdeaID
		p.IdeaID = ideas.Map(oldIdea)
		before := len(data.Migrations)
		remap(pipelines, models.KindPipeline, &p.ID)
		if p.IdeaID != oldIdea && len(data.Migrations) == before {
			data.Migrations = append(data.Migrations, Migration{Kind: models.KindPipeline, OldID: p.ID, NewID: p.ID})
		}
	}
	repeated := ident.NewRemapper()
	for i := range data.Repeated {
		remap(repeated, models.KindRepeated, &data.Repeated[i].ID)
	}
	office := ident.NewRemapper()
	for i := range data.Office {
		remap(office, models.KindOffice, &data.Office[i].ID)
	}
	regular := ident.NewRemapper()
	for i := range data.Regular {
		remap(regular, models.KindRegular, &data.Regular[i].ID)
	}
}

// sortKinds orders kinds by collection order so reports are stable.
func sortKinds(kinds []models.Kind) []models.Kind {
	order := []models.Kind{models.KindIdea, models.KindPipeline, models.KindRepeated, models.KindOffice, models.KindRegular}
	var out []models.Kind
	for _, k := range order {
		for _, f := range kinds {
			if f == k {
				out = append(out, k)
			}
		}
	}
	return out
}
