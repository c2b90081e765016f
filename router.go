package main

import (
	"context"

	"task-tracker/backend/internal/backup"
	"task-tracker/backend/internal/config"
	"task-tracker/backend/internal/database"
	"task-tracker/backend/internal/handlers"
	"task-tracker/backend/internal/middleware"
	"task-tracker/backend/internal/monitoring"
	"task-tracker/backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func buildRouter(
	settings *config.Store,
	manager *database.Manager,
	scheduler *backup.Scheduler,
	taskService services.TaskService,
	auth *services.OperatorAuthService,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), monitoring.MetricsMiddleware())

	if settings.CORSEnabled() {
		router.Use(cors.Default())
	}
	if rpm := settings.RateLimitPerMinute(); rpm > 0 {
		router.Use(middleware.NewRateLimiter(rpm).Middleware())
	}

	taskHandler := handlers.NewTaskHandler(taskService)
	systemHandler := handlers.NewSystemHandler(manager, settings, scheduler)
	settingsHandler := handlers.NewSettingsHandler(settings)
	authHandler := handlers.NewAuthHandler(auth)
	requireOperator := middleware.RequireOperator(auth)

	api := router.Group("/api")
	{
		api.GET("/tasks", taskHandler.GetTasks)
		api.POST("/tasks", taskHandler.CreateTask)
		api.GET("/tasks/:id", taskHandler.GetTask)
		api.PUT("/tasks/:id", taskHandler.UpdateTask)
		api.DELETE("/tasks/:id", taskHandler.DeleteTask)

		api.GET("/stats", taskHandler.GetStats)

		api.POST("/auth/token", authHandler.IssueToken)

		api.GET("/health", monitoring.HealthHandler(map[string]monitoring.HealthCheckFunc{
			"database": func(ctx context.Context) error { return manager.Ping() },
		}))
		api.GET("/metrics", monitoring.MetricsHandler)

		system := api.Group("/system")
		{
			system.GET("/info", systemHandler.GetSystemInfo)
			system.POST("/backup", requireOperator, systemHandler.CreateBackup)
		}

		settingsGroup := api.Group("/config")
		{
			settingsGroup.GET("/:section", settingsHandler.GetSection)
			settingsGroup.PUT("/:section", requireOperator, settingsHandler.UpdateSection)
			settingsGroup.POST("/reset", requireOperator, settingsHandler.ResetToDefaults)
		}
	}

	return router
}
