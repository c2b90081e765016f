package models

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
)

// Task statuses. The data layer does not enforce a transition graph,
// any status may change to any other.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	DefaultStatus   = StatusPending
	DefaultPriority = 1
)

var ErrTitleRequired = errors.New("title is required")

type Task struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Status      string    `json:"status" gorm:"not null;default:'pending';index:idx_status"`
	Priority    int       `json:"priority" gorm:"not null;default:1;index:idx_priority"`
	CreatedAt   time.Time `json:"created_at" gorm:"index:idx_created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskFilters narrows a list query. Zero-valued members contribute no predicate.
type TaskFilters struct {
	Status   string
	Priority *int
	Search   string
}

// TaskInput carries the caller-supplied fields for task creation.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    *int   `json:"priority"`
}

// TaskPatch carries a partial update. Nil members leave the column untouched.
type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *int    `json:"priority"`
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil
}

type TaskStats struct {
	Total       int64            `json:"total"`
	ByStatus    map[string]int64 `json:"by_status"`
	ByPriority  map[int]int64    `json:"by_priority"`
	AvgPriority float64          `json:"avg_priority"`
}
