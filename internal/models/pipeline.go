package models

import "time"

// Stage is one step of the fixed execution catalog.
type Stage struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// StageCatalog is the ordered list every pipeline walks through.
var StageCatalog = []Stage{
	{1, "Product"},
	{2, "UI/UX"},
	{3, "Code"},
	{4, "Deploy"},
	{5, "Market"},
	{6, "Sale"},
}

// FinalStage is the last stage number in StageCatalog.
var FinalStage = len(StageCatalog)

// Pipeline tracks an idea through the execution stages. There is at most
// one pipeline per idea.
type Pipeline struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       string    `gorm:"size:64;index;not null" json:"userId"`
	IdeaID       string    `gorm:"size:36;uniqueIndex;not null" json:"ideaId"`
	CurrentStage int       `gorm:"not null;default:1" json:"currentStage"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Stages returns the static stage catalog.
func (Pipeline) Stages() []Stage {
	return StageCatalog
}
