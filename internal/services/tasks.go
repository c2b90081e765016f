package services

import (
	"task-tracker/backend/internal/models"
	"task-tracker/backend/internal/repositories"

	"github.com/gofrs/uuid"
)

// TaskService is the surface the HTTP layer programs against. The task
// repository is the canonical implementation; CachedTaskService decorates any
// implementation with a read-through cache.
type TaskService interface {
	ListTasks(filters models.TaskFilters, sortBy, sortOrder string) ([]models.Task, error)
	GetTaskByID(id uuid.UUID) (models.Task, error)
	CreateTask(input models.TaskInput) (models.Task, error)
	UpdateTask(id uuid.UUID, patch models.TaskPatch) (models.Task, error)
	DeleteTask(id uuid.UUID) (bool, error)
	GetTaskStats() (models.TaskStats, error)
}

var _ TaskService = (*repositories.TaskRepository)(nil)
