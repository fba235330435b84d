package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Idea statuses.
const (
	IdeaParking    = "parking"
	IdeaInPipeline = "in-pipeline"
	IdeaCompleted  = "completed"
	IdeaArchived   = "archived"
)

// Priorities shared by ideas and tasks.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Idea is a prospective project captured before execution begins.
type Idea struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"size:64;index;not null" json:"userId"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Priority    string     `gorm:"size:8;default:medium" json:"priority"`
	Tags        StringList `gorm:"type:text" json:"tags"`
	Status      string     `gorm:"size:16;default:parking;index" json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// StringList is a []string persisted as a JSON array in a text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("models: scan StringList from %T", src)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("models: scan StringList: %w", err)
	}
	*l = out
	return nil
}
