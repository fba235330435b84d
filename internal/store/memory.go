package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/zulandar/launchpad/internal/models"
)

// Memory is an in-process Collection. Failures can be injected per
// operation, and every call is recorded.
type Memory[T models.Entity] struct {
	mu   sync.Mutex
	kind models.Kind
	rows []T

	FailList   error
	FailUpsert error
	FailDelete error

	ListCalls   int
	UpsertCalls []string
	DeleteCalls []string
}

// NewMemory returns an empty Memory collection seeded with rows.
func NewMemory[T models.Entity](kind models.Kind, rows ...T) *Memory[T] {
	return &Memory[T]{kind: kind, rows: append([]T(nil), rows...)}
}

// List implements Collection.
func (m *Memory[T]) List(_ context.Context, userID string) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.FailList != nil {
		return nil, fmt.Errorf("store: list %s: %w: %w", m.kind, models.ErrNetwork, m.FailList)
	}
	out := []T{}
	for _, r := range m.rows {
		if r.OwnerID() == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Upsert implements Collection.
func (m *Memory[T]) Upsert(_ context.Context, v *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := (*v).EntityID()
	m.UpsertCalls = append(m.UpsertCalls, id)
	if m.FailUpsert != nil {
		return fmt.Errorf("store: upsert %s %s: %w: %w", m.kind, id, models.ErrNetwork, m.FailUpsert)
	}
	for i := range m.rows {
		if m.rows[i].EntityID() == id {
			m.rows[i] = *v
			return nil
		}
	}
	m.rows = append(m.rows, *v)
	return nil
}

// Delete implements Collection.
func (m *Memory[T]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.FailDelete != nil {
		return fmt.Errorf("store: delete %s %s: %w: %w", m.kind, id, models.ErrNetwork, m.FailDelete)
	}
	for i := range m.rows {
		if m.rows[i].EntityID() == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// Rows returns a copy of every stored row regardless of owner.
func (m *Memory[T]) Rows() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]T(nil), m.rows...)
}

// Get returns the row with id, if present.
func (m *Memory[T]) Get(id string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.EntityID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// MemoryStore groups Memory collections and exposes them as a Store.
type MemoryStore struct {
	Ideas     *Memory[models.Idea]
	Pipelines *Memory[models.Pipeline]
	Repeated  *Memory[models.RepeatedTask]
	Office    *Memory[models.OfficeTask]
	Regular   *Memory[models.RegularTask]
}

// NewMemoryStore returns empty in-memory collections for every kind.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Ideas:     NewMemory[models.Idea](models.KindIdea),
		Pipelines: NewMemory[models.Pipeline](models.KindPipeline),
		Repeated:  NewMemory[models.RepeatedTask](models.KindRepeated),
		Office:    NewMemory[models.OfficeTask](models.KindOffice),
		Regular:   NewMemory[models.RegularTask](models.KindRegular),
	}
}

// Store returns a Store view over the memory collections.
func (m *MemoryStore) Store() *Store {
	return &Store{
		Ideas:     m.Ideas,
		Pipelines: m.Pipelines,
		Repeated:  m.Repeated,
		Office:    m.Office,
		Regular:   m.Regular,
	}
}
