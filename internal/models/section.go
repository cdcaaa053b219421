package models

import "time"

// Section types the UI knows about. The column itself is free-form.
const (
	SectionOverview     = "overview"
	SectionRequirements = "requirements"
	SectionTodo         = "todo"
	SectionHours        = "hours"
	SectionScope        = "scope"
	SectionBilling      = "billing"
	SectionComms        = "comms"
	SectionQA           = "qa"
	SectionAssets       = "assets"
	SectionProgress     = "progress"
)

// Section is a free-text slot; (project_id, section_type) is unique.
type Section struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ProjectID   uint      `json:"project_id" gorm:"not null;uniqueIndex:idx_section_project_type"`
	SectionType string    `json:"section_type" gorm:"not null;uniqueIndex:idx_section_project_type"`
	Content     *string   `json:"content"`
	UpdatedAt   time.Time `json:"updated_at"`

	Project *Project `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
}

func (Section) TableName() string {
	return "project_sections"
}
