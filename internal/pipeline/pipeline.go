// Package pipeline implements the idea lifecycle and the execution stage
// state machine.
//
// Idea states: parking -> in-pipeline -> completed, plus parking ->
// archived. A pipeline starts at stage 1 and moves one stage at a time
// through models.StageCatalog; it never leaves [1, models.FinalStage].
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/zulandar/launchpad/internal/ident"
	"github.com/zulandar/launchpad/internal/models"
	"github.com/zulandar/launchpad/internal/tasks"
)

// Directions accepted by Advance.
const (
	Forward  = 1
	Backward = -1
)

// IdeaFields holds the user-supplied fields for a new idea.
type IdeaFields struct {
	Title       string
	Description string
	Priority    string
	Tags        []string
}

// NewIdea builds a parking idea owned by userID.
func NewIdea(userID string, f IdeaFields, now time.Time) (models.Idea, error) {
	idea := models.Idea{
		ID:          ident.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(f.Title),
		Description: f.Description,
		Priority:    f.Priority,
		Tags:        cleanTags(f.Tags),
		Status:      models.IdeaParking,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if idea.Priority == "" {
		idea.Priority = models.PriorityMedium
	}
	if err := ValidateIdea(idea); err != nil {
		return models.Idea{}, err
	}
	return idea, nil
}

// ApplyFields updates the editable fields of idea. Empty fields in f keep
// their current value; Tags replaces when non-nil.
func ApplyFields(idea models.Idea, f IdeaFields, now time.Time) (models.Idea, error) {
	if t := strings.TrimSpace(f.Title); t != "" {
		idea.Title = t
	}
	if f.Description != "" {
		idea.Description = f.Description
	}
	if f.Priority != "" {
		idea.Priority = f.Priority
	}
	if f.Tags != nil {
		idea.Tags = cleanTags(f.Tags)
	}
	idea.UpdatedAt = now
	if err := ValidateIdea(idea); err != nil {
		return models.Idea{}, err
	}
	return idea, nil
}

// ValidateIdea checks required fields and enums.
func ValidateIdea(idea models.Idea) error {
	if idea.Title == "" {
		return fmt.Errorf("pipeline: %w: title is required", models.ErrValidation)
	}
	if err := tasks.ValidatePriority(idea.Priority); err != nil {
		return fmt.Errorf("pipeline: idea: %w", err)
	}
	return nil
}

// cleanTags trims tags and drops blanks and duplicates, keeping order.
func cleanTags(tags []string) models.StringList {
	out := models.StringList{}
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Promote moves a parking idea into a new pipeline at stage 1. existing is
// the idea's current pipeline, if any.
func Promote(idea models.Idea, existing *models.Pipeline, now time.Time) (models.Idea, models.Pipeline, error) {
	if idea.Status != models.IdeaParking {
		return idea, models.Pipeline{}, fmt.Errorf("pipeline: %w: idea %s is %s, want %s",
			models.ErrInvalidState, idea.ID, idea.Status, models.IdeaParking)
	}
	if existing != nil {
		return idea, models.Pipeline{}, fmt.Errorf("pipeline: %w: idea %s already has pipeline %s",
			models.ErrInvalidState, idea.ID, existing.ID)
	}
	p := models.Pipeline{
		ID:           ident.New(),
		UserID:       idea.UserID,
		IdeaID:       idea.ID,
		CurrentStage: 1,
		Notes:        "",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	idea.Status = models.IdeaInPipeline
	idea.UpdatedAt = now
	return idea, p, nil
}

// Advance moves p one stage in direction. A target outside the catalog is
// rejected and p is returned unchanged.
func Advance(p models.Pipeline, direction int, now time.Time) (models.Pipeline, error) {
	if direction != Forward && direction != Backward {
		return p, fmt.Errorf("pipeline: %w: direction must be +1 or -1, got %d", models.ErrValidation, direction)
	}
	target := p.CurrentStage + direction
	if target < 1 || target > models.FinalStage {
		return p, fmt.Errorf("pipeline: %w: stage %d is outside [1, %d]", models.ErrOutOfRange, target, models.FinalStage)
	}
	p.CurrentStage = target
	p.UpdatedAt = now
	return p, nil
}

// Complete marks the idea completed once its pipeline sits on the final
// stage. The pipeline itself is kept.
func Complete(idea models.Idea, p models.Pipeline, now time.Time) (models.Idea, error) {
	if idea.Status != models.IdeaInPipeline {
		return idea, fmt.Errorf("pipeline: %w: idea %s is %s, want %s",
			models.ErrInvalidState, idea.ID, idea.Status, models.IdeaInPipeline)
	}
	if p.IdeaID != idea.ID {
		return idea, fmt.Errorf("pipeline: %w: pipeline %s belongs to idea %s", models.ErrInvalidState, p.ID, p.IdeaID)
	}
	if p.CurrentStage != models.FinalStage {
		return idea, fmt.Errorf("pipeline: %w: pipeline %s is at stage %d, want %d",
			models.ErrInvalidState, p.ID, p.CurrentStage, models.FinalStage)
	}
	idea.Status = models.IdeaCompleted
	idea.UpdatedAt = now
	return idea, nil
}

// Archive shelves a parking idea for good.
func Archive(idea models.Idea, now time.Time) (models.Idea, error) {
	if idea.Status != models.IdeaParking {
		return idea, fmt.Errorf("pipeline: %w: only parking ideas can be archived, idea %s is %s",
			models.ErrInvalidState, idea.ID, idea.Status)
	}
	idea.Status = models.IdeaArchived
	idea.UpdatedAt = now
	return idea, nil
}

// StageName returns the catalog name for stage n, or "" if n is out of range.
func StageName(n int) string {
	if n < 1 || n > models.FinalStage {
		return ""
	}
	return models.StageCatalog[n-1].Name
}

// Progress returns how far p has come as a fraction of the catalog.
func Progress(p models.Pipeline) float64 {
	return float64(p.CurrentStage) / float64(models.FinalStage)
}
