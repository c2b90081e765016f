package handlers

import (
	"log"
	"net/http"

	"task-tracker/backend/internal/backup"
	"task-tracker/backend/internal/config"
	"task-tracker/backend/internal/database"

	"github.com/gin-gonic/gin"
)

const APIVersion = "1.0.0"

type SystemHandler struct {
	manager   *database.Manager
	settings  *config.Store
	scheduler *backup.Scheduler
}

func NewSystemHandler(manager *database.Manager, settings *config.Store, scheduler *backup.Scheduler) *SystemHandler {
	return &SystemHandler{manager: manager, settings: settings, scheduler: scheduler}
}

// GetSystemInfo surfaces the schema diagnostics and the non-secret subset of
// the API settings.
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	schema, err := h.manager.DescribeSchema()
	if err != nil {
		log.Printf("Error describing schema: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to inspect database"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"database":    schema,
		"config":      h.settings.SafeAPIConfig(),
		"api_version": APIVersion,
	})
}

// CreateBackup takes a point-in-time backup and records its completion.
func (h *SystemHandler) CreateBackup(c *gin.Context) {
	destination, err := h.manager.Backup("")
	if err != nil {
		log.Printf("Error creating backup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create database backup"})
		return
	}

	if err := h.scheduler.RecordCompleted(); err != nil {
		log.Printf("Error recording backup completion: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Database backup created successfully",
		"path":    destination,
	})
}
