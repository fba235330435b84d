package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zulandar/launchpad/internal/ident"
	"github.com/zulandar/launchpad/internal/models"
	"github.com/zulandar/launchpad/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	legacyID = "1699999999999"
	uuidA    = "6f1c2a34-1b2c-4d5e-8f90-0123456789ab"
	uuidB    = "7a2d3b45-2c3d-4e6f-9a01-123456789abc"
)

func openSQLiteStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Idea{},
		&models.Pipeline{},
		&models.RepeatedTask{},
		&models.OfficeTask{},
		&models.RegularTask{},
	))
	return store.New(db)
}

func TestLoad_PipelineWithLegacyIdeaIDIsWrittenBack(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	ms.Ideas = store.NewMemory(models.KindIdea,
		models.Idea{ID: legacyID, UserID: "alice", Title: "Legacy", Status: models.IdeaInPipeline, Priority: "low"})
	ms.Pipelines = store.NewMemory(models.KindPipeline,
		models.Pipeline{ID: uuidA, UserID: "alice", IdeaID: legacyID, CurrentStage: models.FinalStage})

	first := New(ms.Store(), "alice", Options{Now: func() time.Time { return testNow }})
	first.Load(ctx)
	newIdea := first.Snapshot().Ideas[0].ID

	stored, ok := ms.Pipelines.Get(uuidA)
	require.True(t, ok)
	assert.Equal(t, newIdea, stored.IdeaID)
	assert.Empty(t, first.Pending())

	second := New(ms.Store(), "alice", Options{Now: func() time.Time { return testNow }})
	second.Load(ctx)
	snap := second.Snapshot()
	require.Len(t, snap.Ideas, 1)
	assert.Equal(t, newIdea, snap.Ideas[0].ID)
	_, found := snap.PipelineFor(newIdea)
	assert.True(t, found, "pipeline still follows its idea after a reload")
	assert.Empty(t, second.Migrations())

	done, err := second.CompletePipeline(ctx, newIdea)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaCompleted, done.Status)
}

func TestLoad_LegacyRowKeptUntilReplacementPersists(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	ms.Office = store.NewMemory(models.KindOffice,
		models.OfficeTask{ID: legacyID, UserID: "alice", Title: "Report", Deadline: "2026-03-10", Status: models.StatusPending})
	ms.Office.FailUpsert = errors.New("offline")
	a := New(ms.Store(), "alice", Options{Now: func() time.Time { return testNow }})

	a.Load(ctx)
	newID := a.Snapshot().Office[0].ID
	assert.Empty(t, ms.Office.DeleteCalls, "legacy row must survive a failed upsert")
	assert.ElementsMatch(t, []PendingItem{
		{Key: Key{models.KindOffice, newID}, Op: OpUpsert},
		{Key: Key{models.KindOffice, legacyID}, Op: OpDelete},
	}, a.Pending())

	ms.Office.FailUpsert = nil
	assert.Equal(t, 0, a.Sync(ctx))
	_, ok := ms.Office.Get(legacyID)
	assert.False(t, ok)
	_, ok = ms.Office.Get(newID)
	assert.True(t, ok)
}

func TestLoad_LegacyPipelineDeletedBeforeReplacement(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	ms.Ideas = store.NewMemory(models.KindIdea,
		models.Idea{ID: uuidB, UserID: "alice", Title: "Modern", Status: models.IdeaInPipeline, Priority: "low"})
	ms.Pipelines = store.NewMemory(models.KindPipeline,
		models.Pipeline{ID: legacyID, UserID: "alice", IdeaID: uuidB, CurrentStage: 2})
	ms.Pipelines.FailDelete = errors.New("offline")
	a := New(ms.Store(), "alice", Options{Now: func() time.Time { return testNow }})

	a.Load(ctx)
	newID := a.Snapshot().Pipelines[0].ID
	assert.Empty(t, ms.Pipelines.UpsertCalls, "replacement waits for the legacy delete")
	assert.True(t, a.IsPending(models.KindPipeline, newID))
	assert.True(t, a.IsPending(models.KindPipeline, legacyID))

	// Mutations made meanwhile wait too.
	_, err := a.AdvanceStage(ctx, newID, 1)
	require.NoError(t, err)
	assert.Empty(t, ms.Pipelines.UpsertCalls)

	ms.Pipelines.FailDelete = nil
	assert.Equal(t, 0, a.Sync(ctx))
	assert.Equal(t, []string{legacyID, legacyID}, ms.Pipelines.DeleteCalls)
	stored, ok := ms.Pipelines.Get(newID)
	require.True(t, ok)
	assert.Equal(t, 3, stored.CurrentStage)
	assert.Len(t, ms.Pipelines.Rows(), 1)
}

func TestLoad_LegacyPipelineOnSQLite(t *testing.T) {
	ctx := context.Background()
	s := openSQLiteStore(t)
	idea := models.Idea{ID: uuidB, UserID: "alice", Title: "Modern", Status: models.IdeaInPipeline, Priority: "low", CreatedAt: testNow}
	require.NoError(t, s.Ideas.Upsert(ctx, &idea))
	legacy := models.Pipeline{ID: legacyID, UserID: "alice", IdeaID: uuidB, CurrentStage: 2, CreatedAt: testNow}
	require.NoError(t, s.Pipelines.Upsert(ctx, &legacy))

	a := New(s, "alice", Options{Now: func() time.Time { return testNow }})
	a.Load(ctx)

	assert.Empty(t, a.Pending())
	rows, err := s.Pipelines.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, ident.IsUUID(rows[0].ID))
	assert.Equal(t, uuidB, rows[0].IdeaID)
	assert.Equal(t, 2, rows[0].CurrentStage)
}

func TestLoad_KeepsUnsyncedLocalWrites(t *testing.T) {
	ctx := context.Background()
	a, ms, _ := newTestApp(t)
	ms.Regular.FailUpsert = errors.New("offline")
	task, err := a.CreateRegularTask(ctx, models.RegularTask{Title: "Call bank"})
	require.NoError(t, err)

	a.Load(ctx)

	snap := a.Snapshot()
	require.Len(t, snap.Regular, 1)
	assert.Equal(t, task.ID, snap.Regular[0].ID)
	assert.True(t, a.IsPending(models.KindRegular, task.ID))
}

func TestCreateTask_RejectsNonUUIDID(t *testing.T) {
	a, ms, _ := newTestApp(t)
	_, err := a.CreateRegularTask(context.Background(), models.RegularTask{ID: "not-a-uuid", Title: "x"})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, a.Snapshot().Regular)
	assert.Empty(t, ms.Regular.UpsertCalls)
}

func TestCreateTask_RejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestApp(t)
	task, err := a.CreateRepeatedTask(ctx, models.RepeatedTask{ID: uuidA, Title: "Stretch"})
	require.NoError(t, err)
	assert.Equal(t, uuidA, task.ID)

	_, err = a.CreateRepeatedTask(ctx, models.RepeatedTask{ID: uuidA, Title: "Stretch again"})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Len(t, a.Snapshot().Repeated, 1)

	_, err = a.CreateOfficeTask(ctx, models.OfficeTask{ID: uuidB, Title: "a", Deadline: "2026-03-10"})
	require.NoError(t, err)
	_, err = a.CreateOfficeTask(ctx, models.OfficeTask{ID: uuidB, Title: "b", Deadline: "2026-03-11"})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Len(t, a.Snapshot().Office, 1)
}

func TestRegistry_RetriesFailedLoad(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	ms.Ideas = store.NewMemory(models.KindIdea,
		models.Idea{ID: uuidA, UserID: "alice", Title: "Stored", Status: models.IdeaParking, Priority: "low"})
	ms.Ideas.FailList = context.Canceled
	r := NewRegistry(ms.Store(), Options{Now: func() time.Time { return testNow }})

	a := r.Get(ctx, "alice")
	assert.Empty(t, a.Snapshot().Ideas)

	ms.Ideas.FailList = nil
	assert.Same(t, a, r.Get(ctx, "alice"))
	assert.Len(t, a.Snapshot().Ideas, 1)

	r.Get(ctx, "alice")
	assert.Equal(t, 2, ms.Ideas.ListCalls, "a complete load is not repeated")
}

func TestRegistry_SyncAllRetriesFailedLoad(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	ms.Office = store.NewMemory(models.KindOffice,
		models.OfficeTask{ID: uuidA, UserID: "alice", Title: "Report", Deadline: "2026-03-10", Status: models.StatusPending})
	ms.Office.FailList = errors.New("503")
	r := NewRegistry(ms.Store(), Options{Now: func() time.Time { return testNow }})
	a := r.Get(ctx, "alice")
	assert.Empty(t, a.Snapshot().Office)

	ms.Office.FailList = nil
	assert.Equal(t, 0, r.SyncAll(ctx))
	assert.Len(t, a.Snapshot().Office, 1)
}

func TestRegistry_LoadOutlivesCancelledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := openSQLiteStore(t)
	idea := models.Idea{ID: uuidA, UserID: "alice", Title: "Stored", Status: models.IdeaParking, Priority: "low", CreatedAt: testNow}
	require.NoError(t, s.Ideas.Upsert(context.Background(), &idea))
	r := NewRegistry(s, Options{Now: func() time.Time { return testNow }})

	a := r.Get(ctx, "alice")
	assert.Len(t, a.Snapshot().Ideas, 1)
}
