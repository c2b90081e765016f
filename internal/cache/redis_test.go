package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)

	config := DefaultCacheConfig()
	config.Addr = mr.Addr()

	cache := NewRedisCache(config)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestDefaultCacheConfig(t *testing.T) {
	config := DefaultCacheConfig()

	if config.Addr != "localhost:6379" {
		t.Errorf("Expected Addr to be localhost:6379, got %s", config.Addr)
	}
	if config.DB != 0 {
		t.Errorf("Expected DB to be 0, got %d", config.DB)
	}
	if config.DialTimeout != 5*time.Second {
		t.Errorf("Expected DialTimeout to be 5s, got %v", config.DialTimeout)
	}
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestRedis(t)

	value := map[string]string{"title": "Test Task"}
	if err := cache.Set("task:1", value, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got map[string]string
	if err := cache.Get("task:1", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got["title"] != "Test Task" {
		t.Errorf("Expected cached title, got %v", got)
	}
}

func TestGetMiss(t *testing.T) {
	cache := setupTestRedis(t)

	var dest map[string]string
	if err := cache.Get("no_such_key", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	cache := setupTestRedis(t)

	if err := cache.Set("task:1", "x", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Delete("task:1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var dest string
	if err := cache.Get("task:1", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestDeletePattern(t *testing.T) {
	cache := setupTestRedis(t)

	for _, key := range []string{"tasks:a", "tasks:b", "task_stats"} {
		if err := cache.Set(key, "x", time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := cache.DeletePattern("tasks:*"); err != nil {
		t.Fatalf("DeletePattern failed: %v", err)
	}

	var dest string
	if err := cache.Get("tasks:a", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected tasks:a to be gone, got %v", err)
	}
	if err := cache.Get("task_stats", &dest); err != nil {
		t.Errorf("Expected task_stats to survive, got %v", err)
	}
}
