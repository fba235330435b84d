// Package notify delivers Launchpad events to chat platforms (Slack,
// Discord). Delivery is best effort: callers log failures and move on.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/zulandar/launchpad/internal/models"
	"github.com/zulandar/launchpad/internal/pipeline"
	"github.com/zulandar/launchpad/internal/tasks"
)

// Event types.
const (
	TypePipelineAdvanced  = "pipeline.advanced"
	TypePipelineCompleted = "pipeline.completed"
	TypeDigest            = "digest"
)

// Sidebar colors.
const (
	ColorInfo    = "#439fe0"
	ColorSuccess = "#36a64f"
	ColorWarning = "#daa038"
)

// Event is a platform-neutral notification.
type Event struct {
	Type   string
	UserID string
	Title  string
	Body   string
	Color  string
	Fields []Field
}

// Field is a key-value pair displayed with an event.
type Field struct {
	Name  string
	Value string
	Short bool // hint: render side-by-side with another field
}

// Notifier delivers events to one destination.
type Notifier interface {
	Notify(ctx context.Context, evt Event) error
}

// Nop discards every event.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, Event) error { return nil }

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, evt Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PipelineAdvanced describes a stage change.
func PipelineAdvanced(idea models.Idea, p models.Pipeline) Event {
	return Event{
		Type:   TypePipelineAdvanced,
		UserID: idea.UserID,
		Title:  fmt.Sprintf("%s moved to %s", idea.Title, pipeline.StageName(p.CurrentStage)),
		Color:  ColorInfo,
		Fields: []Field{
			{Name: "Stage", Value: fmt.Sprintf("%d/%d", p.CurrentStage, models.FinalStage), Short: true},
			{Name: "Priority", Value: idea.Priority, Short: true},
		},
	}
}

// PipelineCompleted describes an idea that made it through every stage.
func PipelineCompleted(idea models.Idea, p models.Pipeline) Event {
	evt := Event{
		Type:   TypePipelineCompleted,
		UserID: idea.UserID,
		Title:  fmt.Sprintf("%s shipped", idea.Title),
		Body:   idea.Description,
		Color:  ColorSuccess,
		Fields: []Field{
			{Name: "Started", Value: p.CreatedAt.Format(models.DateLayout), Short: true},
			{Name: "Finished", Value: idea.UpdatedAt.Format(models.DateLayout), Short: true},
		},
	}
	if p.Notes != "" {
		evt.Fields = append(evt.Fields, Field{Name: "Notes", Value: p.Notes})
	}
	return evt
}

// Digest summarizes the day: repeated tasks still due, overdue office
// tasks and the best running streak.
func Digest(userID string, repeated []models.RepeatedTask, office []models.OfficeTask, today string) Event {
	var due []string
	best := models.RepeatedTask{}
	for _, t := range repeated {
		if tasks.IsDue(t, today) {
			due = append(due, t.Title)
		}
		if t.Streak > best.Streak {
			best = t
		}
	}
	var overdue []string
	for _, t := range office {
		if tasks.DisplayStatus(t, today) == models.StatusOverdue {
			overdue = append(overdue, t.Title)
		}
	}
	sort.Strings(due)
	sort.Strings(overdue)

	evt := Event{
		Type:   TypeDigest,
		UserID: userID,
		Title:  "Daily digest for " + today,
		Color:  ColorInfo,
		Fields: []Field{
			{Name: "Due today", Value: strconv.Itoa(len(due)), Short: true},
			{Name: "Overdue", Value: strconv.Itoa(len(overdue)), Short: true},
		},
	}
	if len(overdue) > 0 {
		evt.Color = ColorWarning
	}
	if best.Streak > 0 {
		evt.Fields = append(evt.Fields, Field{Name: "Best streak", Value: fmt.Sprintf("%s (%d)", best.Title, best.Streak)})
	}
	evt.Body = bulletList("Due", due) + bulletList("Overdue", overdue)
	return evt
}

func bulletList(heading string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	s := heading + ":\n"
	for _, it := range items {
		s += "• " + it + "\n"
	}
	return s
}
