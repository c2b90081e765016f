package handlers

import (
	"net/http"

	"task-tracker/backend/internal/config"

	"github.com/gin-gonic/gin"
)

// SettingsHandler exposes the configuration document to the companion UI.
type SettingsHandler struct {
	settings *config.Store
}

func NewSettingsHandler(settings *config.Store) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) GetSection(c *gin.Context) {
	section := h.settings.Section(c.Param("section"))
	if section == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown configuration section"})
		return
	}
	c.JSON(http.StatusOK, section)
}

func (h *SettingsHandler) UpdateSection(c *gin.Context) {
	var values map[string]any
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settings.UpdateSection(c.Param("section"), values); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save configuration"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Configuration updated successfully"})
}

func (h *SettingsHandler) ResetToDefaults(c *gin.Context) {
	if err := h.settings.ResetToDefaults(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset configuration"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Configuration reset to defaults"})
}
