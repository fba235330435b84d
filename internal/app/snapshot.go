package app

import (
	"github.com/zulandar/launchpad/internal/models"
	"github.com/zulandar/launchpad/internal/pipeline"
	"github.com/zulandar/launchpad/internal/tasks"
)

// Snapshot is a read-only copy of one user's data with derived fields.
type Snapshot struct {
	UserID    string         `json:"userId"`
	Today     string         `json:"today"`
	Ideas     []models.Idea  `json:"ideas"`
	Pipelines []PipelineView `json:"pipelines"`
	Repeated  []RepeatedView `json:"repeatedTasks"`
	Office    []OfficeView   `json:"officeTasks"`
	Regular   []RegularView  `json:"regularTasks"`
	Pending   []PendingItem  `json:"pending"`
}

// PipelineView adds the stage name and progress to a pipeline.
type PipelineView struct {
	models.Pipeline
	StageName string  `json:"stageName"`
	Progress  float64 `json:"progress"`
}

// RepeatedView adds completion state to a repeated task.
type RepeatedView struct {
	models.RepeatedTask
	CompletedToday bool `json:"completedToday"`
	Due            bool `json:"due"`
}

// OfficeView adds the display status, which may be overdue.
type OfficeView struct {
	models.OfficeTask
	DisplayStatus string `json:"displayStatus"`
}

// RegularView wraps a regular task.
type RegularView struct {
	models.RegularTask
}

// Snapshot copies the current state.
func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	today := tasks.Today(a.now())
	s := Snapshot{
		UserID:    a.userID,
		Today:     today,
		Ideas:     make([]models.Idea, 0, len(a.data.Ideas)),
		Pipelines: make([]PipelineView, 0, len(a.data.Pipelines)),
		Repeated:  make([]RepeatedView, 0, len(a.data.Repeated)),
		Office:    make([]OfficeView, 0, len(a.data.Office)),
		Regular:   make([]RegularView, 0, len(a.data.Regular)),
		Pending:   a.pendingLocked(),
	}
	for _, idea := range a.data.Ideas {
		idea.Tags = append(models.StringList{}, idea.Tags...)
		s.Ideas = append(s.Ideas, idea)
	}
	for _, p := range a.data.Pipelines {
		s.Pipelines = append(s.Pipelines, PipelineView{
			Pipeline:  p,
			StageName: pipeline.StageName(p.CurrentStage),
			Progress:  pipeline.Progress(p),
		})
	}
	for _, t := range a.data.Repeated {
		s.Repeated = append(s.Repeated, RepeatedView{
			RepeatedTask:   t,
			CompletedToday: tasks.IsCompletedToday(t, today),
			Due:            tasks.IsDue(t, today),
		})
	}
	for _, t := range a.data.Office {
		s.Office = append(s.Office, OfficeView{OfficeTask: t, DisplayStatus: tasks.DisplayStatus(t, today)})
	}
	for _, t := range a.data.Regular {
		s.Regular = append(s.Regular, RegularView{RegularTask: t})
	}
	return s
}

// Idea returns the idea with id.
func (s Snapshot) Idea(id string) (models.Idea, bool) {
	for _, idea := range s.Ideas {
		if idea.ID == id {
			return idea, true
		}
	}
	return models.Idea{}, false
}

// PipelineFor returns the pipeline attached to ideaID.
func (s Snapshot) PipelineFor(ideaID string) (PipelineView, bool) {
	for _, p := range s.Pipelines {
		if p.IdeaID == ideaID {
			return p, true
		}
	}
	return PipelineView{}, false
}

// RepeatedTasks returns the bare repeated tasks.
func (s Snapshot) RepeatedTasks() []models.RepeatedTask {
	out := make([]models.RepeatedTask, len(s.Repeated))
	for i, v := range s.Repeated {
		out[i] = v.RepeatedTask
	}
	return out
}

// OfficeTasks returns the bare office tasks.
func (s Snapshot) OfficeTasks() []models.OfficeTask {
	out := make([]models.OfficeTask, len(s.Office))
	for i, v := range s.Office {
		out[i] = v.OfficeTask
	}
	return out
}
