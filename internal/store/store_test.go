package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zulandar/launchpad/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	ideaA = "6f1c2a34-1b2c-4d5e-8f90-0123456789ab"
	ideaB = "7a2d3b45-2c3d-4e6f-9a01-123456789abc"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// every pooled connection to :memory: would see its own empty database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB(): %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.Idea{},
		&models.Pipeline{},
		&models.RepeatedTask{},
		&models.OfficeTask{},
		&models.RegularTask{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func TestTable_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	s := New(openTestDB(t))

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	second := models.Idea{ID: ideaB, UserID: "alice", Title: "second", Status: models.IdeaParking, CreatedAt: base.Add(time.Hour)}
	first := models.Idea{ID: ideaA, UserID: "alice", Title: "first", Status: models.IdeaParking, CreatedAt: base}
	other := models.Idea{ID: "8b3e4c56-3d4e-4f70-ab12-23456789abcd", UserID: "bob", Title: "bob's", Status: models.IdeaParking, CreatedAt: base}

	for _, idea := range []models.Idea{second, first, other} {
		idea := idea
		if err := s.Ideas.Upsert(ctx, &idea); err != nil {
			t.Fatalf("Upsert(%s): %v", idea.ID, err)
		}
	}

	got, err := s.Ideas.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List returned %d ideas, want 2", len(got))
	}
	if got[0].ID != ideaA || got[1].ID != ideaB {
		t.Errorf("List order = [%s %s], want created_at ascending", got[0].ID, got[1].ID)
	}
}

func TestTable_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	gormDB := openTestDB(t)
	s := New(gormDB)

	task := models.RepeatedTask{ID: ideaA, UserID: "alice", Title: "Stretch", Frequency: models.FrequencyDaily, IsActive: true}
	for i := 0; i < 2; i++ {
		if err := s.Repeated.Upsert(ctx, &task); err != nil {
			t.Fatalf("Upsert #%d: %v", i+1, err)
		}
	}
	var count int64
	gormDB.Model(&models.RepeatedTask{}).Count(&count)
	if count != 1 {
		t.Errorf("row count = %d, want 1", count)
	}

	task.IsActive = false
	task.Streak = 4
	if err := s.Repeated.Upsert(ctx, &task); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	rows, err := s.Repeated.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 || rows[0].IsActive || rows[0].Streak != 4 {
		t.Errorf("after update rows = %+v, want inactive with streak 4", rows)
	}
}

func TestTable_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New(openTestDB(t))

	task := models.OfficeTask{ID: ideaA, UserID: "alice", Title: "Report", Deadline: "2026-03-10", Status: models.StatusPending}
	if err := s.Office.Upsert(ctx, &task); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Office.Delete(ctx, ideaA); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Office.Delete(ctx, ideaA); err != nil {
		t.Errorf("second Delete should succeed, got %v", err)
	}
	rows, _ := s.Office.List(ctx, "alice")
	if len(rows) != 0 {
		t.Errorf("rows after delete = %d, want 0", len(rows))
	}
}

func TestTable_MissingTableIsEmpty(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := New(db)
	rows, err := s.Regular.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("List on missing table: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("List on missing table = %v, want empty non-nil slice", rows)
	}
}

func TestTable_ErrorsWrapNetwork(t *testing.T) {
	gormDB := openTestDB(t)
	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("DB(): %v", err)
	}
	s := New(gormDB)
	sqlDB.Close()

	idea := models.Idea{ID: ideaA, UserID: "alice", Title: "x"}
	err = s.Ideas.Upsert(context.Background(), &idea)
	if !errors.Is(err, models.ErrNetwork) {
		t.Errorf("Upsert on closed db = %v, want ErrNetwork", err)
	}
	err = s.Ideas.Delete(context.Background(), ideaA)
	if !errors.Is(err, models.ErrNetwork) {
		t.Errorf("Delete on closed db = %v, want ErrNetwork", err)
	}
}

func TestTable_UniqueViolationIsConflict(t *testing.T) {
	ctx := context.Background()
	s := New(openTestDB(t))

	first := models.Pipeline{ID: ideaA, UserID: "alice", IdeaID: ideaB, CurrentStage: 1}
	if err := s.Pipelines.Upsert(ctx, &first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second := models.Pipeline{ID: "8b3e4c56-3d4e-4f70-ab12-23456789abcd", UserID: "alice", IdeaID: ideaB, CurrentStage: 2}
	err := s.Pipelines.Upsert(ctx, &second)
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("Upsert with taken idea id = %v, want ErrConflict", err)
	}
	if errors.Is(err, models.ErrNetwork) {
		t.Errorf("constraint violation should not be reported as ErrNetwork: %v", err)
	}
}

func TestMemory_FailureInjection(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[models.Idea](models.KindIdea)
	m.FailUpsert = errors.New("boom")

	err := m.Upsert(ctx, &models.Idea{ID: ideaA, UserID: "alice"})
	if !errors.Is(err, models.ErrNetwork) {
		t.Errorf("Upsert err = %v, want ErrNetwork", err)
	}
	if len(m.Rows()) != 0 {
		t.Error("failed upsert should not store the row")
	}
	if len(m.UpsertCalls) != 1 || m.UpsertCalls[0] != ideaA {
		t.Errorf("UpsertCalls = %v", m.UpsertCalls)
	}

	m.FailUpsert = nil
	if err := m.Upsert(ctx, &models.Idea{ID: ideaA, UserID: "alice", Title: "v1"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := m.Upsert(ctx, &models.Idea{ID: ideaA, UserID: "alice", Title: "v2"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, ok := m.Get(ideaA)
	if !ok || got.Title != "v2" {
		t.Errorf("Get = %+v, %v; want v2", got, ok)
	}

	m.FailList = errors.New("offline")
	if _, err := m.List(ctx, "alice"); !errors.Is(err, models.ErrNetwork) {
		t.Errorf("List err = %v, want ErrNetwork", err)
	}
}

func TestMemoryStore_ScopesByUser(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	ms.Regular = NewMemory(models.KindRegular,
		models.RegularTask{ID: ideaA, UserID: "alice"},
		models.RegularTask{ID: ideaB, UserID: "bob"},
	)
	rows, err := ms.Store().Regular.List(ctx, "bob")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != ideaB {
		t.Errorf("List(bob) = %+v", rows)
	}
	if err := ms.Store().Regular.Delete(ctx, "absent"); err != nil {
		t.Errorf("Delete absent = %v, want nil", err)
	}
}
