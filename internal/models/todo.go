package models

type TodoStatus string

const (
	TodoPending   TodoStatus = "pending"
	TodoCompleted TodoStatus = "completed"
)

func (s TodoStatus) Valid() bool {
	return s == TodoPending || s == TodoCompleted
}

type TodoPriority string

const (
	PriorityLow    TodoPriority = "low"
	PriorityMedium TodoPriority = "medium"
	PriorityHigh   TodoPriority = "high"
)

func (p TodoPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Todo struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	ProjectID uint         `json:"project_id" gorm:"not null;index"`
	Task      string       `json:"task" gorm:"not null"`
	Status    TodoStatus   `json:"status" gorm:"not null;default:pending"`
	Priority  TodoPriority `json:"priority" gorm:"not null;default:medium"`

	Project *Project `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
}

// Done reports whether the task is ticked off.
func (t Todo) Done() bool {
	return t.Status == TodoCompleted
}
