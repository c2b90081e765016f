package services

import (
	"testing"
	"time"

	"task-tracker/backend/internal/cache"
	"task-tracker/backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTaskService struct {
	listCalls  int
	getCalls   int
	statsCalls int
	task       models.Task
}

func (s *stubTaskService) ListTasks(filters models.TaskFilters, sortBy, sortOrder string) ([]models.Task, error) {
	s.listCalls++
	return []models.Task{s.task}, nil
}

func (s *stubTaskService) GetTaskByID(id uuid.UUID) (models.Task, error) {
	s.getCalls++
	return s.task, nil
}

func (s *stubTaskService) CreateTask(input models.TaskInput) (models.Task, error) {
	return s.task, nil
}

func (s *stubTaskService) UpdateTask(id uuid.UUID, patch models.TaskPatch) (models.Task, error) {
	return s.task, nil
}

func (s *stubTaskService) DeleteTask(id uuid.UUID) (bool, error) {
	return true, nil
}

func (s *stubTaskService) GetTaskStats() (models.TaskStats, error) {
	s.statsCalls++
	return models.TaskStats{Total: 1, ByStatus: map[string]int64{"pending": 1}, ByPriority: map[int]int64{1: 1}, AvgPriority: 1}, nil
}

func setupCachedService(t *testing.T) (*CachedTaskService, *stubTaskService) {
	t.Helper()
	mr := miniredis.RunT(t)

	cacheConfig := cache.DefaultCacheConfig()
	cacheConfig.Addr = mr.Addr()
	redisCache := cache.NewRedisCache(cacheConfig)
	t.Cleanup(func() { redisCache.Close() })

	now := time.Now().UTC()
	stub := &stubTaskService{task: models.Task{
		ID:        uuid.Must(uuid.NewV4()),
		Title:     "cached",
		Status:    models.StatusPending,
		Priority:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	return NewCachedTaskService(stub, redisCache), stub
}

func TestCachedGetTaskByIDHitsStoreOnce(t *testing.T) {
	svc, stub := setupCachedService(t)

	first, err := svc.GetTaskByID(stub.task.ID)
	require.NoError(t, err)
	second, err := svc.GetTaskByID(stub.task.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, stub.getCalls)
}

func TestCachedListKeyedBySortAndFilters(t *testing.T) {
	svc, stub := setupCachedService(t)

	_, err := svc.ListTasks(models.TaskFilters{}, "created_at", "DESC")
	require.NoError(t, err)
	_, err = svc.ListTasks(models.TaskFilters{}, "created_at", "DESC")
	require.NoError(t, err)
	assert.Equal(t, 1, stub.listCalls, "same query must be served from cache")

	_, err = svc.ListTasks(models.TaskFilters{}, "priority", "ASC")
	require.NoError(t, err)
	assert.Equal(t, 2, stub.listCalls, "different sort must bypass the cached entry")
}

func TestMutationsInvalidateListsAndStats(t *testing.T) {
	svc, stub := setupCachedService(t)

	_, err := svc.ListTasks(models.TaskFilters{}, "created_at", "DESC")
	require.NoError(t, err)
	_, err = svc.GetTaskStats()
	require.NoError(t, err)

	_, err = svc.UpdateTask(stub.task.ID, models.TaskPatch{})
	require.NoError(t, err)

	_, err = svc.ListTasks(models.TaskFilters{}, "created_at", "DESC")
	require.NoError(t, err)
	_, err = svc.GetTaskStats()
	require.NoError(t, err)

	assert.Equal(t, 2, stub.listCalls, "update must invalidate list entries")
	assert.Equal(t, 2, stub.statsCalls, "update must invalidate stats")
}

func TestDeleteEvictsTaskEntry(t *testing.T) {
	svc, stub := setupCachedService(t)

	_, err := svc.GetTaskByID(stub.task.ID)
	require.NoError(t, err)

	deleted, err := svc.DeleteTask(stub.task.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = svc.GetTaskByID(stub.task.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stub.getCalls, "delete must evict the cached task")
}
