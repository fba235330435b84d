package app

import (
	"context"
	"fmt"

	"github.com/zulandar/launchpad/internal/models"
	"github.com/zulandar/launchpad/internal/tasks"
)

// CreateRepeatedTask adds an active repeated task with no streak.
func (a *App) CreateRepeatedTask(ctx context.Context, t models.RepeatedTask) (models.RepeatedTask, error) {
	t.UserID = a.userID
	t, err := tasks.NewRepeated(t, a.now())
	if err != nil {
		return models.RepeatedTask{}, fmt.Errorf("app: create repeated task: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if indexOf(a.data.Repeated, t.ID) >= 0 {
		return models.RepeatedTask{}, fmt.Errorf("app: create repeated task: %w: id %s already exists", models.ErrValidation, t.ID)
	}
	a.data.Repeated = append(a.data.Repeated, t)
	a.write(ctx, Key{models.KindRepeated, t.ID}, OpUpsert)
	return t, nil
}

// CompleteRepeatedTask marks a repeated task done for today.
func (a *App) CompleteRepeatedTask(ctx context.Context, id string) (models.RepeatedTask, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := indexOf(a.data.Repeated, id)
	if i < 0 {
		return models.RepeatedTask{}, fmt.Errorf("app: complete repeated task: %w: %s", models.ErrNotFound, id)
	}
	t := tasks.CompleteRepeated(a.data.Repeated[i], tasks.Today(a.now()))
	a.data.Repeated[i] = t
	a.write(ctx, Key{models.KindRepeated, id}, OpUpsert)
	return t, nil
}

// SetRepeatedActive pauses or resumes a repeated task.
func (a *App) SetRepeatedActive(ctx context.Context, id string, active bool) (models.RepeatedTask, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := indexOf(a.data.Repeated, id)
	if i < 0 {
		return models.RepeatedTask{}, fmt.Errorf("app: set repeated active: %w: %s", models.ErrNotFound, id)
	}
	a.data.Repeated[i].IsActive = active
	a.write(ctx, Key{models.KindRepeated, id}, OpUpsert)
	return a.data.Repeated[i], nil
}

// DeleteRepeatedTask removes a repeated task locally, and remotely when
// its id was ever persisted.
func (a *App) DeleteRepeatedTask(ctx context.Context, id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data.Repeated, _ = remove(a.data.Repeated, id)
	a.deletePersisted(ctx, Key{models.KindRepeated, id})
}

// CreateOfficeTask adds a deadline-bound task.
func (a *App) CreateOfficeTask(ctx context.Context, t models.OfficeTask) (models.OfficeTask, error) {
	t.UserID = a.userID
	t, err := tasks.NewOffice(t, a.now())
	if err != nil {
		return models.OfficeTask{}, fmt.Errorf("app: create office task: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if indexOf(a.data.Office, t.ID) >= 0 {
		return models.OfficeTask{}, fmt.Errorf("app: create office task: %w: id %s already exists", models.ErrValidation, t.ID)
	}
	a.data.Office = append(a.data.Office, t)
	a.write(ctx, Key{models.KindOffice, t.ID}, OpUpsert)
	return t, nil
}

// ToggleOfficeTask flips an office task between pending and completed.
func (a *App) ToggleOfficeTask(ctx context.Context, id string) (models.OfficeTask, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := indexOf(a.data.Office, id)
	if i < 0 {
		return models.OfficeTask{}, fmt.Errorf("app: toggle office task: %w: %s", models.ErrNotFound, id)
	}
	t := tasks.ToggleOffice(a.data.Office[i], a.now())
	a.data.Office[i] = t
	a.write(ctx, Key{models.KindOffice, id}, OpUpsert)
	return t, nil
}

// DeleteOfficeTask removes an office task. See DeleteRepeatedTask.
func (a *App) DeleteOfficeTask(ctx context.Context, id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data.Office, _ = remove(a.data.Office, id)
	a.deletePersisted(ctx, Key{models.KindOffice, id})
}

// CreateRegularTask adds a plain to-do item.
func (a *App) CreateRegularTask(ctx context.Context, t models.RegularTask) (models.RegularTask, error) {
	t.UserID = a.userID
	t, err := tasks.NewRegular(t, a.now())
	if err != nil {
		return models.RegularTask{}, fmt.Errorf("app: create regular task: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if indexOf(a.data.Regular, t.ID) >= 0 {
		return models.RegularTask{}, fmt.Errorf("app: create regular task: %w: id %s already exists", models.ErrValidation, t.ID)
	}
	a.data.Regular = append(a.data.Regular, t)
	a.write(ctx, Key{models.KindRegular, t.ID}, OpUpsert)
	return t, nil
}

// ToggleRegularTask flips a regular task between pending and completed.
func (a *App) ToggleRegularTask(ctx context.Context, id string) (models.RegularTask, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := indexOf(a.data.Regular, id)
	if i < 0 {
		return models.RegularTask{}, fmt.Errorf("app: toggle regular task: %w: %s", models.ErrNotFound, id)
	}
	t := tasks.ToggleRegular(a.data.Regular[i], a.now())
	a.data.Regular[i] = t
	a.write(ctx, Key{models.KindRegular, id}, OpUpsert)
	return t, nil
}

// DeleteRegularTask removes a regular task. See DeleteRepeatedTask.
func (a *App) DeleteRegularTask(ctx context.Context, id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data.Regular, _ = remove(a.data.Regular, id)
	a.deletePersisted(ctx, Key{models.KindRegular, id})
}
