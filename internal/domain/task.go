package domain

import (
	"fmt"
	"strings"
	"time"
)

// TaskType is one of the three task cadences.
type TaskType string

const (
	TaskShortTerm TaskType = "short-term"
	TaskLongTerm  TaskType = "long-term"
	TaskDaily     TaskType = "daily"
)

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	switch t {
	case TaskShortTerm, TaskLongTerm, TaskDaily:
		return true
	}
	return false
}

// Task Model
type Task struct {
	ID        uint       `gorm:"primaryKey" json:"id"`                                           // Primary key
	UserID    uint       `gorm:"index;not null" json:"user_id"`                                  // Owner
	Name      string     `gorm:"column:task_name;size:255;not null" json:"task_name"`            // Non-empty name
	CreatedAt time.Time  `gorm:"column:created_date;not null" json:"created_date"`               // Creation instant, UTC
	DueDate   *time.Time `gorm:"column:due_date" json:"due_date"`                                // Optional due instant
	Renewed   bool       `gorm:"column:task_renewed;not null;default:false" json:"task_renewed"` // Renewed flag
	Complete  bool       `gorm:"column:task_complete;not null;default:false" json:"task_complete"`
	Type      TaskType   `gorm:"column:task_type;size:16;not null;check:chk_task_type,task_type IN ('short-term','long-term','daily')" json:"task_type"`
	User      *User      `gorm:"constraint:OnDelete:CASCADE" json:"-"` // Foreign key only, never loaded
}

// Validate checks the name and type invariants.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: task name is required", ErrValidation)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unknown task type %q", ErrValidation, t.Type)
	}
	return nil
}
