package app

import (
	"context"
	"fmt"

	"github.com/zulandar/launchpad/internal/models"
	"github.com/zulandar/launchpad/internal/notify"
	"github.com/zulandar/launchpad/internal/pipeline"
)

// CreateIdea adds a parking idea.
func (a *App) CreateIdea(ctx context.Context, f pipeline.IdeaFields) (models.Idea, error) {
	idea, err := pipeline.NewIdea(a.userID, f, a.now())
	if err != nil {
		return models.Idea{}, fmt.Errorf("app: create idea: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.data.Ideas = append(a.data.Ideas, idea)
	a.write(ctx, Key{models.KindIdea, idea.ID}, OpUpsert)
	return idea, nil
}

// UpdateIdea edits an idea's title, description, priority or tags.
func (a *App) UpdateIdea(ctx context.Context, id string, f pipeline.IdeaFields) (models.Idea, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i, err := a.ideaIndex(id)
	if err != nil {
		return models.Idea{}, fmt.Errorf("app: update idea: %w", err)
	}
	idea, err := pipeline.ApplyFields(a.data.Ideas[i], f, a.now())
	if err != nil {
		return models.Idea{}, fmt.Errorf("app: update idea: %w", err)
	}
	a.data.Ideas[i] = idea
	a.write(ctx, Key{models.KindIdea, id}, OpUpsert)
	return idea, nil
}

// ArchiveIdea shelves a parking idea.
func (a *App) ArchiveIdea(ctx context.Context, id string) (models.Idea, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i, err := a.ideaIndex(id)
	if err != nil {
		return models.Idea{}, fmt.Errorf("app: archive idea: %w", err)
	}
	idea, err := pipeline.Archive(a.data.Ideas[i], a.now())
	if err != nil {
		return models.Idea{}, fmt.Errorf("app: archive idea: %w", err)
	}
	a.data.Ideas[i] = idea
	a.write(ctx, Key{models.KindIdea, id}, OpUpsert)
	return idea, nil
}

// DeleteIdea removes an idea and its pipeline. Deleting an unknown id
// succeeds.
func (a *App) DeleteIdea(ctx context.Context, id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data.Ideas, _ = remove(a.data.Ideas, id)
	if p, found := a.pipelineFor(id); found {
		a.data.Pipelines, _ = remove(a.data.Pipelines, p.ID)
		a.deletePersisted(ctx, Key{models.KindPipeline, p.ID})
	}
	a.deletePersisted(ctx, Key{models.KindIdea, id})
}

// PromoteToPipeline starts a pipeline at stage 1 for a parking idea.
func (a *App) PromoteToPipeline(ctx context.Context, ideaID string) (models.Idea, models.Pipeline, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i, err := a.ideaIndex(ideaID)
	if err != nil {
		return models.Idea{}, models.Pipeline{}, fmt.Errorf("app: promote: %w", err)
	}
	var existing *models.Pipeline
	if p, found := a.pipelineFor(ideaID); found {
		existing = &p
	}
	idea, p, err := pipeline.Promote(a.data.Ideas[i], existing, a.now())
	if err != nil {
		return models.Idea{}, models.Pipeline{}, fmt.Errorf("app: promote: %w", err)
	}
	a.data.Ideas[i] = idea
	a.data.Pipelines = append(a.data.Pipelines, p)
	a.write(ctx, Key{models.KindPipeline, p.ID}, OpUpsert)
	a.write(ctx, Key{models.KindIdea, idea.ID}, OpUpsert)
	return idea, p, nil
}

// AdvanceStage moves a pipeline one stage forward (+1) or back (-1).
func (a *App) AdvanceStage(ctx context.Context, pipelineID string, direction int) (models.Pipeline, error) {
	a.mu.Lock()
	j := indexOf(a.data.Pipelines, pipelineID)
	if j < 0 {
		a.mu.Unlock()
		return models.Pipeline{}, fmt.Errorf("app: advance: %w: pipeline %s", models.ErrNotFound, pipelineID)
	}
	p, err := pipeline.Advance(a.data.Pipelines[j], direction, a.now())
	if err != nil {
		a.mu.Unlock()
		return p, fmt.Errorf("app: advance: %w", err)
	}
	a.data.Pipelines[j] = p
	a.write(ctx, Key{models.KindPipeline, p.ID}, OpUpsert)
	var idea models.Idea
	if i := indexOf(a.data.Ideas, p.IdeaID); i >= 0 {
		idea = a.data.Ideas[i]
	}
	a.mu.Unlock()

	a.notify(ctx, notify.PipelineAdvanced(idea, p))
	return p, nil
}

// UpdatePipelineNotes replaces a pipeline's free-form notes.
func (a *App) UpdatePipelineNotes(ctx context.Context, pipelineID, notes string) (models.Pipeline, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	j := indexOf(a.data.Pipelines, pipelineID)
	if j < 0 {
		return models.Pipeline{}, fmt.Errorf("app: update notes: %w: pipeline %s", models.ErrNotFound, pipelineID)
	}
	p := a.data.Pipelines[j]
	p.Notes = notes
	p.UpdatedAt = a.now()
	a.data.Pipelines[j] = p
	a.write(ctx, Key{models.KindPipeline, p.ID}, OpUpsert)
	return p, nil
}

// CompletePipeline marks the idea completed once its pipeline reached the
// final stage.
func (a *App) CompletePipeline(ctx context.Context, ideaID string) (models.Idea, error) {
	a.mu.Lock()
	i, err := a.ideaIndex(ideaID)
	if err != nil {
		a.mu.Unlock()
		return models.Idea{}, fmt.Errorf("app: complete: %w", err)
	}
	p, found := a.pipelineFor(ideaID)
	if !found {
		a.mu.Unlock()
		return models.Idea{}, fmt.Errorf("app: complete: %w: idea %s has no pipeline", models.ErrInvalidState, ideaID)
	}
	idea, err := pipeline.Complete(a.data.Ideas[i], p, a.now())
	if err != nil {
		a.mu.Unlock()
		return models.Idea{}, fmt.Errorf("app: complete: %w", err)
	}
	a.data.Ideas[i] = idea
	a.write(ctx, Key{models.KindIdea, idea.ID}, OpUpsert)
	a.mu.Unlock()

	a.notify(ctx, notify.PipelineCompleted(idea, p))
	return idea, nil
}

func (a *App) ideaIndex(id string) (int, error) {
	i := indexOf(a.data.Ideas, id)
	if i < 0 {
		return -1, fmt.Errorf("%w: idea %s", models.ErrNotFound, id)
	}
	return i, nil
}

func (a *App) pipelineFor(ideaID string) (models.Pipeline, bool) {
	for _, p := range a.data.Pipelines {
		if p.IdeaID == ideaID {
			return p, true
		}
	}
	return models.Pipeline{}, false
}
