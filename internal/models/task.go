package models

import "time"

// Repeated task frequencies.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Task statuses for office and regular tasks.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusOverdue    = "overdue"
)

// DateLayout is the ISO-8601 calendar date format used for date-only fields.
const DateLayout = "2006-01-02"

// RepeatedTask is a habit-like task re-completed on a cadence. Completion
// is derived from LastCompleted, never stored.
type RepeatedTask struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"size:64;index;not null" json:"userId"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	Frequency     string    `gorm:"size:8;default:daily" json:"frequency"`
	IsActive      bool      `gorm:"not null" json:"isActive"`
	LastCompleted *string   `gorm:"size:10" json:"lastCompleted,omitempty"`
	Streak        int       `gorm:"default:0" json:"streak"`
	Priority      string    `gorm:"size:8;default:medium" json:"priority"`
	Project       string    `gorm:"size:128" json:"project,omitempty"`
	TimeSlot      string    `gorm:"size:32" json:"timeSlot,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// OfficeTask is a one-off task bound to a deadline.
type OfficeTask struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"size:64;index;not null" json:"userId"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Deadline    string     `gorm:"size:10" json:"deadline"`
	Priority    string     `gorm:"size:8;default:medium" json:"priority"`
	Status      string     `gorm:"size:16;default:pending;index" json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// RegularTask is a plain prioritized to-do item.
type RegularTask struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"size:64;index;not null" json:"userId"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Priority    string     `gorm:"size:8;default:medium" json:"priority"`
	Status      string     `gorm:"size:16;default:pending;index" json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
