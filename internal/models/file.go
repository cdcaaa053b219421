package models

import (
	"strings"
	"time"
)

// File is an attachment row. The binary lives in the blob store under
// StorageName; SectionType is a label, not a reference to a Section row.
type File struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ProjectID    uint      `json:"project_id" gorm:"not null;index:idx_file_project_mime"`
	SectionType  string    `json:"section_type" gorm:"not null"`
	StorageName  string    `json:"filename" gorm:"column:filename;not null;uniqueIndex"`
	OriginalName string    `json:"original_name" gorm:"not null"`
	MimeType     string    `json:"mime_type" gorm:"index:idx_file_project_mime"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	Project *Project `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
}

func (File) TableName() string {
	return "project_files"
}

// IsImage reports whether the attachment can serve as a thumbnail.
func (f File) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(f.MimeType), "image/")
}

// FileDescriptor describes a binary that has already been persisted.
type FileDescriptor struct {
	StorageName  string
	OriginalName string
	MimeType     string
}
