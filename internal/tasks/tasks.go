// Package tasks holds the per-kind completion rules for repeated, office
// and regular tasks. Every function is pure: it takes a task value and
// returns the updated value.
package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/zulandar/launchpad/internal/ident"
	"github.com/zulandar/launchpad/internal/models"
)

// Today formats now as an ISO-8601 calendar date.
func Today(now time.Time) string {
	return now.Format(models.DateLayout)
}

// dateOnly trims a date or timestamp string to its YYYY-MM-DD prefix.
func dateOnly(s string) string {
	if len(s) > len(models.DateLayout) {
		return s[:len(models.DateLayout)]
	}
	return s
}

// IsCompletedToday reports whether t was completed on today.
func IsCompletedToday(t models.RepeatedTask, today string) bool {
	return t.LastCompleted != nil && dateOnly(*t.LastCompleted) == today
}

// CompleteRepeated marks t done for today. The streak grows only on the
// first completion of a day; repeat calls just re-stamp LastCompleted.
// There is no undo.
func CompleteRepeated(t models.RepeatedTask, today string) models.RepeatedTask {
	if !IsCompletedToday(t, today) {
		t.Streak++
	}
	stamp := today
	t.LastCompleted = &stamp
	return t
}

// IsDue reports whether an active repeated task still needs doing in the
// period containing today.
func IsDue(t models.RepeatedTask, today string) bool {
	if !t.IsActive {
		return false
	}
	if t.LastCompleted == nil || *t.LastCompleted == "" {
		return true
	}
	last := dateOnly(*t.LastCompleted)
	switch t.Frequency {
	case models.FrequencyWeekly:
		lastDay, err1 := time.Parse(models.DateLayout, last)
		todayDay, err2 := time.Parse(models.DateLayout, today)
		if err1 != nil || err2 != nil {
			return true
		}
		return todayDay.Sub(lastDay) >= 7*24*time.Hour
	case models.FrequencyMonthly:
		if len(last) < 7 || len(today) < 7 {
			return true
		}
		return last[:7] != today[:7]
	default:
		return last != today
	}
}

// ToggleOffice flips t between pending and completed.
func ToggleOffice(t models.OfficeTask, now time.Time) models.OfficeTask {
	t.Status, t.CompletedAt = toggle(t.Status, now)
	return t
}

// ToggleRegular flips t between pending and completed.
func ToggleRegular(t models.RegularTask, now time.Time) models.RegularTask {
	t.Status, t.CompletedAt = toggle(t.Status, now)
	return t
}

func toggle(status string, now time.Time) (string, *time.Time) {
	if status == models.StatusCompleted {
		return models.StatusPending, nil
	}
	stamp := now
	return models.StatusCompleted, &stamp
}

// DisplayStatus derives the status shown for an office task. Overdue is
// never stored.
func DisplayStatus(t models.OfficeTask, today string) string {
	if t.Status != models.StatusCompleted && t.Deadline != "" && dateOnly(t.Deadline) < today {
		return models.StatusOverdue
	}
	return t.Status
}

// NewRepeated fills defaults on t and validates it.
func NewRepeated(t models.RepeatedTask, now time.Time) (models.RepeatedTask, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.ID == "" {
		t.ID = ident.New()
	} else if err := validateID(t.ID); err != nil {
		return t, err
	}
	if t.Frequency == "" {
		t.Frequency = models.FrequencyDaily
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	t.IsActive = true
	t.Streak = 0
	t.LastCompleted = nil
	t.CreatedAt = now
	return t, ValidateRepeated(t)
}

// NewOffice fills defaults on t and validates it.
func NewOffice(t models.OfficeTask, now time.Time) (models.OfficeTask, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.ID == "" {
		t.ID = ident.New()
	} else if err := validateID(t.ID); err != nil {
		return t, err
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if t.Status == "" {
		t.Status = models.StatusPending
	}
	t.CreatedAt = now
	t.CompletedAt = nil
	if t.Status == models.StatusCompleted {
		stamp := now
		t.CompletedAt = &stamp
	}
	return t, ValidateOffice(t)
}

// NewRegular fills defaults on t and validates it.
func NewRegular(t models.RegularTask, now time.Time) (models.RegularTask, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.ID == "" {
		t.ID = ident.New()
	} else if err := validateID(t.ID); err != nil {
		return t, err
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if t.Status == "" {
		t.Status = models.StatusPending
	}
	t.CreatedAt = now
	t.CompletedAt = nil
	if t.Status == models.StatusCompleted {
		stamp := now
		t.CompletedAt = &stamp
	}
	return t, ValidateRegular(t)
}

// ValidateRepeated checks required fields and enums.
func ValidateRepeated(t models.RepeatedTask) error {
	if t.Title == "" {
		return invalid("title is required")
	}
	switch t.Frequency {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly:
	default:
		return invalid(fmt.Sprintf("frequency %q is not one of daily, weekly, monthly", t.Frequency))
	}
	return ValidatePriority(t.Priority)
}

// ValidateOffice checks required fields and enums. The deadline must be
// a calendar date.
func ValidateOffice(t models.OfficeTask) error {
	if t.Title == "" {
		return invalid("title is required")
	}
	if t.Deadline == "" {
		return invalid("deadline is required")
	}
	if _, err := time.Parse(models.DateLayout, dateOnly(t.Deadline)); err != nil {
		return invalid(fmt.Sprintf("deadline %q is not a YYYY-MM-DD date", t.Deadline))
	}
	if err := validateStatus(t.Status); err != nil {
		return err
	}
	return ValidatePriority(t.Priority)
}

// ValidateRegular checks required fields and enums.
func ValidateRegular(t models.RegularTask) error {
	if t.Title == "" {
		return invalid("title is required")
	}
	if err := validateStatus(t.Status); err != nil {
		return err
	}
	return ValidatePriority(t.Priority)
}

// validateID accepts caller-supplied ids only in canonical UUID form.
func validateID(id string) error {
	if !ident.IsUUID(id) {
		return invalid(fmt.Sprintf("id %q is not a UUID", id))
	}
	return nil
}

// ValidatePriority accepts low, medium and high.
func ValidatePriority(p string) error {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return nil
	}
	return invalid(fmt.Sprintf("priority %q is not one of low, medium, high", p))
}

// validateStatus accepts stored statuses. Overdue is derived only.
func validateStatus(s string) error {
	switch s {
	case models.StatusPending, models.StatusInProgress, models.StatusCompleted:
		return nil
	}
	return invalid(fmt.Sprintf("status %q is not one of pending, in-progress, completed", s))
}

func invalid(msg string) error {
	return fmt.Errorf("tasks: %w: %s", models.ErrValidation, msg)
}
