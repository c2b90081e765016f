package repositories

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"task-tracker/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Sort tokens are mapped through this fixed table so caller input is never
// interpolated into the query.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"priority":   "priority",
	"status":     "status",
}

// TaskRepository is the only component that knows the tasks table's shape.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListTasks returns tasks matching the filters, sorted by the given field and
// order. Each present filter contributes one AND-ed predicate. No matching
// rows yields an empty slice, not an error.
func (r *TaskRepository) ListTasks(filters models.TaskFilters, sortBy, sortOrder string) ([]models.Task, error) {
	query := r.db.Model(&models.Task{})

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}
	if filters.Search != "" {
		term := "%" + filters.Search + "%"
		query = query.Where("(title LIKE ? OR description LIKE ?)", term, term)
	}

	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "ASC") {
		direction = "ASC"
	}

	tasks := []models.Task{}
	if err := query.Order(column + " " + direction).Find(&tasks).Error; err != nil {
		log.Printf("Error fetching tasks: %v", err)
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	return tasks, nil
}

// GetTaskByID looks up one task. Absence surfaces as gorm.ErrRecordNotFound.
func (r *TaskRepository) GetTaskByID(id uuid.UUID) (models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, "id = ?", id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error fetching task %s: %v", id, err)
		}
		return models.Task{}, err
	}
	return task, nil
}

// CreateTask validates the input, assigns an id and timestamps, and persists
// the row. A missing title fails validation and persists nothing.
func (r *TaskRepository) CreateTask(input models.TaskInput) (models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		log.Println("Attempted to create task without title")
		return models.Task{}, models.ErrTitleRequired
	}

	id, err := uuid.NewV4()
	if err != nil {
		return models.Task{}, fmt.Errorf("generate task id: %w", err)
	}

	status := input.Status
	if status == "" {
		status = models.DefaultStatus
	}
	priority := models.DefaultPriority
	if input.Priority != nil {
		priority = *input.Priority
	}

	now := time.Now().UTC()
	task := models.Task{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := r.db.Create(&task).Error; err != nil {
		log.Printf("Error creating task: %v", err)
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// UpdateTask applies a partial update. A miss on the id fails fast with
// gorm.ErrRecordNotFound and issues no write; an empty patch returns the
// existing task unchanged. A non-empty patch always refreshes updated_at and
// the post-update row is re-read before returning.
func (r *TaskRepository) UpdateTask(id uuid.UUID, patch models.TaskPatch) (models.Task, error) {
	var existing models.Task
	if err := r.db.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Attempted to update non-existent task: %s", id)
		}
		return models.Task{}, err
	}

	if patch.IsEmpty() {
		log.Printf("No fields to update for task: %s", id)
		return existing, nil
	}

	updates := map[string]any{}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return models.Task{}, models.ErrTitleRequired
		}
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	updates["updated_at"] = time.Now().UTC()

	if err := r.db.Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		log.Printf("Error updating task %s: %v", id, err)
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}

	var updated models.Task
	if err := r.db.First(&updated, "id = ?", id).Error; err != nil {
		return models.Task{}, fmt.Errorf("reload task: %w", err)
	}
	return updated, nil
}

// DeleteTask removes a task. Deleting a missing id returns false without
// issuing a delete; deleting twice yields true then false.
func (r *TaskRepository) DeleteTask(id uuid.UUID) (bool, error) {
	var existing models.Task
	if err := r.db.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Attempted to delete non-existent task: %s", id)
			return false, nil
		}
		return false, err
	}

	if err := r.db.Delete(&models.Task{}, "id = ?", id).Error; err != nil {
		log.Printf("Error deleting task %s: %v", id, err)
		return false, fmt.Errorf("delete task: %w", err)
	}
	log.Printf("Deleted task: %s", id)
	return true, nil
}

// GetTaskStats aggregates the table. The four queries run without a shared
// transaction, so the values may reflect interleaved writes. Acceptable for a
// dashboard read.
func (r *TaskRepository) GetTaskStats() (models.TaskStats, error) {
	stats := models.TaskStats{
		ByStatus:   map[string]int64{},
		ByPriority: map[int]int64{},
	}

	if err := r.db.Model(&models.Task{}).Count(&stats.Total).Error; err != nil {
		log.Printf("Error getting task stats: %v", err)
		return models.TaskStats{}, fmt.Errorf("count tasks: %w", err)
	}

	var statusRows []struct {
		Status string
		Count  int64
	}
	if err := r.db.Model(&models.Task{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return models.TaskStats{}, fmt.Errorf("count by status: %w", err)
	}
	for _, row := range statusRows {
		stats.ByStatus[row.Status] = row.Count
	}

	var priorityRows []struct {
		Priority int
		Count    int64
	}
	if err := r.db.Model(&models.Task{}).
		Select("priority, COUNT(*) as count").
		Group("priority").
		Order("priority").
		Scan(&priorityRows).Error; err != nil {
		return models.TaskStats{}, fmt.Errorf("count by priority: %w", err)
	}
	for _, row := range priorityRows {
		stats.ByPriority[row.Priority] = row.Count
	}

	var avg float64
	if err := r.db.Model(&models.Task{}).
		Select("COALESCE(AVG(priority), 0)").
		Scan(&avg).Error; err != nil {
		return models.TaskStats{}, fmt.Errorf("average priority: %w", err)
	}
	stats.AvgPriority = math.Round(avg*100) / 100

	return stats, nil
}
