package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"task-tracker/backend/internal/backup"
	"task-tracker/backend/internal/cache"
	"task-tracker/backend/internal/config"
	"task-tracker/backend/internal/database"
	"task-tracker/backend/internal/repositories"
	"task-tracker/backend/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.DefaultFilePath
	}

	settings, err := config.NewStore(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	manager, err := database.Open(settings)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer manager.Close()

	if err := manager.EnsureSchema(); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	scheduler := backup.NewScheduler(settings, manager)
	if taken, err := scheduler.RunIfDue(); err != nil {
		log.Printf("Startup backup failed: %v", err)
	} else if taken {
		log.Println("Startup backup completed")
	}

	repo := repositories.NewTaskRepository(manager.DB())
	var taskService services.TaskService = repo

	if settings.CacheEnabled() {
		cacheConfig := cache.DefaultCacheConfig()
		cacheConfig.Addr = settings.RedisAddr()
		redisCache := cache.NewRedisCache(cacheConfig)
		if err := redisCache.Ping(); err != nil {
			log.Printf("Redis unavailable at %s, serving without cache: %v", cacheConfig.Addr, err)
		} else {
			taskService = services.NewCachedTaskService(repo, redisCache)
			log.Println("Task cache enabled")
		}
	}

	auth := services.NewOperatorAuthService(settings)

	if !settings.DebugEnabled() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := buildRouter(settings, manager, scheduler, taskService, auth)

	server := &http.Server{
		Addr:         settings.ServerAddr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting API server on %s", settings.ServerAddr())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
