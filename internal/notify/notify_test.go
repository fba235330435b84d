package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/zulandar/launchpad/internal/models"
)

type recorder struct {
	events []Event
	err    error
}

func (r *recorder) Notify(_ context.Context, evt Event) error {
	r.events = append(r.events, evt)
	return r.err
}

func TestNop(t *testing.T) {
	if err := (Nop{}).Notify(context.Background(), Event{}); err != nil {
		t.Errorf("Nop.Notify() = %v", err)
	}
}

func TestMulti_FansOutAndJoinsErrors(t *testing.T) {
	ok := &recorder{}
	bad := &recorder{err: errors.New("slack down")}
	m := Multi{ok, bad, &recorder{}}

	err := m.Notify(context.Background(), Event{Title: "hi"})
	if err == nil || !strings.Contains(err.Error(), "slack down") {
		t.Errorf("Multi.Notify() = %v, want joined error", err)
	}
	if len(ok.events) != 1 || len(bad.events) != 1 {
		t.Error("every notifier should receive the event even when one fails")
	}
}

func TestPipelineAdvanced(t *testing.T) {
	evt := PipelineAdvanced(models.Idea{Title: "Build CLI", Priority: "high", UserID: "alice"}, models.Pipeline{CurrentStage: 3})
	if evt.Title != "Build CLI moved to Code" {
		t.Errorf("Title = %q", evt.Title)
	}
	if evt.Fields[0].Value != "3/6" {
		t.Errorf("Stage field = %q, want 3/6", evt.Fields[0].Value)
	}
	if evt.Type != TypePipelineAdvanced || evt.UserID != "alice" {
		t.Errorf("evt = %+v", evt)
	}
}

func TestPipelineCompleted(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	evt := PipelineCompleted(
		models.Idea{Title: "Build CLI", UpdatedAt: end},
		models.Pipeline{CreatedAt: start, Notes: "launched on HN"},
	)
	if evt.Title != "Build CLI shipped" || evt.Color != ColorSuccess {
		t.Errorf("evt = %+v", evt)
	}
	if len(evt.Fields) != 3 || evt.Fields[0].Value != "2026-09-01" || evt.Fields[1].Value != "2026-10-18" {
		t.Errorf("fields = %+v", evt.Fields)
	}
}

func TestDigest(t *testing.T) {
	yesterday := "2026-10-17"
	today := "2026-10-18"
	repeated := []models.RepeatedTask{
		{Title: "Stretch", IsActive: true, Frequency: "daily", LastCompleted: &yesterday, Streak: 5},
		{Title: "Read", IsActive: true, Frequency: "daily", LastCompleted: &today, Streak: 9},
		{Title: "Paused", IsActive: false, Frequency: "daily"},
	}
	office := []models.OfficeTask{
		{Title: "Taxes", Deadline: "2026-10-01", Status: "pending"},
		{Title: "Slides", Deadline: "2026-10-30", Status: "pending"},
	}

	evt := Digest("alice", repeated, office, today)
	if evt.Fields[0].Value != "1" {
		t.Errorf("due = %q, want 1", evt.Fields[0].Value)
	}
	if evt.Fields[1].Value != "1" {
		t.Errorf("overdue = %q, want 1", evt.Fields[1].Value)
	}
	if evt.Color != ColorWarning {
		t.Errorf("Color = %q, want warning when something is overdue", evt.Color)
	}
	if evt.Fields[2].Value != "Read (9)" {
		t.Errorf("best streak = %q, want Read (9)", evt.Fields[2].Value)
	}
	if !strings.Contains(evt.Body, "• Stretch") || !strings.Contains(evt.Body, "• Taxes") {
		t.Errorf("Body = %q", evt.Body)
	}
}

func TestDigest_Empty(t *testing.T) {
	evt := Digest("alice", nil, nil, "2026-10-18")
	if evt.Body != "" || len(evt.Fields) != 2 || evt.Color != ColorInfo {
		t.Errorf("evt = %+v", evt)
	}
}
