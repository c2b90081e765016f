package services

import (
	"fmt"
	"time"

	"task-tracker/backend/internal/cache"
	"task-tracker/backend/internal/models"

	"github.com/gofrs/uuid"
)

const (
	taskTTL  = 30 * time.Minute
	listTTL  = 5 * time.Minute
	statsTTL = time.Minute

	statsKey = "task_stats"
)

// CachedTaskService decorates a TaskService with a read-through Redis cache.
// Every mutation invalidates the affected task plus all list and stats keys.
type CachedTaskService struct {
	tasks TaskService
	cache *cache.RedisCache
}

func NewCachedTaskService(tasks TaskService, cacheInstance *cache.RedisCache) *CachedTaskService {
	return &CachedTaskService{tasks: tasks, cache: cacheInstance}
}

var _ TaskService = (*CachedTaskService)(nil)

func taskKey(id uuid.UUID) string {
	return fmt.Sprintf("task:%s", id)
}

func listKey(filters models.TaskFilters, sortBy, sortOrder string) string {
	priority := ""
	if filters.Priority != nil {
		priority = fmt.Sprintf("%d", *filters.Priority)
	}
	return fmt.Sprintf("tasks:%s:%s:%s:%s:%s", filters.Status, priority, filters.Search, sortBy, sortOrder)
}

func (s *CachedTaskService) invalidateDerived() {
	s.cache.DeletePattern("tasks:*")
	s.cache.Delete(statsKey)
}

func (s *CachedTaskService) ListTasks(filters models.TaskFilters, sortBy, sortOrder string) ([]models.Task, error) {
	key := listKey(filters, sortBy, sortOrder)

	var cached []models.Task
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	tasks, err := s.tasks.ListTasks(filters, sortBy, sortOrder)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, tasks, listTTL)
	return tasks, nil
}

func (s *CachedTaskService) GetTaskByID(id uuid.UUID) (models.Task, error) {
	key := taskKey(id)

	var cached models.Task
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	task, err := s.tasks.GetTaskByID(id)
	if err != nil {
		return task, err
	}

	s.cache.Set(key, task, taskTTL)
	return task, nil
}

func (s *CachedTaskService) CreateTask(input models.TaskInput) (models.Task, error) {
	task, err := s.tasks.CreateTask(input)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(task.ID), task, taskTTL)
	s.invalidateDerived()
	return task, nil
}

func (s *CachedTaskService) UpdateTask(id uuid.UUID, patch models.TaskPatch) (models.Task, error) {
	task, err := s.tasks.UpdateTask(id, patch)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(id), task, taskTTL)
	s.invalidateDerived()
	return task, nil
}

func (s *CachedTaskService) DeleteTask(id uuid.UUID) (bool, error) {
	deleted, err := s.tasks.DeleteTask(id)
	if err != nil || !deleted {
		return deleted, err
	}

	s.cache.Delete(taskKey(id))
	s.invalidateDerived()
	return true, nil
}

func (s *CachedTaskService) GetTaskStats() (models.TaskStats, error) {
	var cached models.TaskStats
	if err := s.cache.Get(statsKey, &cached); err == nil {
		return cached, nil
	}

	stats, err := s.tasks.GetTaskStats()
	if err != nil {
		return stats, err
	}

	s.cache.Set(statsKey, stats, statsTTL)
	return stats, nil
}
