// Package store is the data-store collaborator: per entity kind list,
// upsert and delete, scoped by user.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/zulandar/launchpad/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Collection is the CRUD surface for one entity kind.
type Collection[T models.Entity] interface {
	// List returns every row owned by userID in stable order. A missing
	// table yields an empty slice.
	List(ctx context.Context, userID string) ([]T, error)
	// Upsert inserts or replaces the row keyed by its id.
	Upsert(ctx context.Context, v *T) error
	// Delete removes the row with id. Deleting an absent id succeeds.
	Delete(ctx context.Context, id string) error
}

// Store bundles one collection per entity kind.
type Store struct {
	Ideas     Collection[models.Idea]
	Pipelines Collection[models.Pipeline]
	Repeated  Collection[models.RepeatedTask]
	Office    Collection[models.OfficeTask]
	Regular   Collection[models.RegularTask]
}

// New returns a Store backed by GORM tables.
func New(db *gorm.DB) *Store {
	return &Store{
		Ideas:     NewTable[models.Idea](db, models.KindIdea),
		Pipelines: NewTable[models.Pipeline](db, models.KindPipeline),
		Repeated:  NewTable[models.RepeatedTask](db, models.KindRepeated),
		Office:    NewTable[models.OfficeTask](db, models.KindOffice),
		Regular:   NewTable[models.RegularTask](db, models.KindRegular),
	}
}

// Table is a GORM-backed Collection.
type Table[T models.Entity] struct {
	db   *gorm.DB
	kind models.Kind
}

// NewTable returns a Table for T.
func NewTable[T models.Entity](db *gorm.DB, kind models.Kind) *Table[T] {
	return &Table[T]{db: db, kind: kind}
}

// List implements Collection.
func (t *Table[T]) List(ctx context.Context, userID string) ([]T, error) {
	var zero T
	if !t.db.WithContext(ctx).Migrator().HasTable(&zero) {
		return []T{}, nil
	}
	var rows []T
	err := t.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w: %w", t.kind, classify(err), err)
	}
	return rows, nil
}

// Upsert implements Collection.
func (t *Table[T]) Upsert(ctx context.Context, v *T) error {
	err := t.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(v).Error
	if err != nil {
		return fmt.Errorf("store: upsert %s %s: %w: %w", t.kind, (*v).EntityID(), classify(err), err)
	}
	return nil
}

// Delete implements Collection.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	err := t.db.WithContext(ctx).Where("id = ?", id).Delete(new(T)).Error
	if err != nil {
		return fmt.Errorf("store: delete %s %s: %w: %w", t.kind, id, classify(err), err)
	}
	return nil
}

// classify maps a driver error onto the shared taxonomy. Constraint
// violations need the connection opened with TranslateError.
func classify(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrConflict
	}
	return models.ErrNetwork
}
