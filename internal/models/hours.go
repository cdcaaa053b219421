package models

// HoursEntry is one line of the time log. Date is caller-supplied text.
type HoursEntry struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	ProjectID   uint    `json:"project_id" gorm:"not null;index"`
	Date        string  `json:"date" gorm:"not null"`
	Duration    float64 `json:"duration" gorm:"not null"`
	Description string  `json:"description"`

	Project *Project `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
}

func (HoursEntry) TableName() string {
	return "hours_log"
}
