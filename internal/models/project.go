package models

import (
	"time"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// Valid reports whether s is one of the known project states.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectOnHold, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

// Project is the root aggregate; every other table cascades from it.
type Project struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	Name       string        `json:"name" gorm:"not null"`
	ClientName string        `json:"client_name"`
	Status     ProjectStatus `json:"status" gorm:"not null;default:active"`
	CreatedAt  time.Time     `json:"created_at" gorm:"autoCreateTime;index"`

	// Thumbnail is derived on every list read, never stored.
	Thumbnail *string `json:"thumbnail" gorm:"-"`
}

// ProjectPatch carries a partial project update. Nil fields stay unchanged.
type ProjectPatch struct {
	Name       *string        `json:"name"`
	ClientName *string        `json:"client_name"`
	Status     *ProjectStatus `json:"status"`
}

// Empty reports whether the patch would change nothing.
func (p ProjectPatch) Empty() bool {
	return p.Name == nil && p.ClientName == nil && p.Status == nil
}

// ProjectDetail is a project together with all of its children.
type ProjectDetail struct {
	Project
	Sections []Section    `json:"sections"`
	Todos    []Todo       `json:"todos"`
	Hours    []HoursEntry `json:"hours"`
	Files    []File       `json:"files"`
}

// SectionContent returns the content of the section of the given type, or ""
// when the section is absent or null.
func (d *ProjectDetail) SectionContent(sectionType string) string {
	for _, s := range d.Sections {
		if s.SectionType == sectionType && s.Content != nil {
			return *s.Content
		}
	}
	return ""
}

// TotalHours sums durations in log order.
func (d *ProjectDetail) TotalHours() float64 {
	var total float64
	for _, h := range d.Hours {
		total += h.Duration
	}
	return total
}
