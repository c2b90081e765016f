package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"task-tracker/backend/internal/config"
	"task-tracker/backend/internal/middleware"
	"task-tracker/backend/internal/services"

	"github.com/gin-gonic/gin"
)

func setupOperatorRouter(t *testing.T, withKey bool) (*gin.Engine, *services.OperatorAuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	settings, err := config.NewStore(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Failed to create settings: %v", err)
	}
	if withKey {
		hash, err := services.HashOperatorKey("operator-key")
		if err != nil {
			t.Fatalf("Failed to hash key: %v", err)
		}
		if err := settings.Set("api", "operator_key_hash", hash); err != nil {
			t.Fatalf("Failed to store key hash: %v", err)
		}
	}

	auth := services.NewOperatorAuthService(settings)
	router := gin.New()
	router.POST("/protected", middleware.RequireOperator(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return router, auth
}

func TestRequireOperatorOpenWhenUnconfigured(t *testing.T) {
	router, _ := setupOperatorRouter(t, false)

	req, _ := http.NewRequest("POST", "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected open access without a configured key, got %d", w.Code)
	}
}

func TestRequireOperatorRejectsMissingToken(t *testing.T) {
	router, _ := setupOperatorRouter(t, true)

	req, _ := http.NewRequest("POST", "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequireOperatorRejectsMalformedHeader(t *testing.T) {
	router, _ := setupOperatorRouter(t, true)

	req, _ := http.NewRequest("POST", "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequireOperatorAcceptsIssuedToken(t *testing.T) {
	router, auth := setupOperatorRouter(t, true)

	token, _, err := auth.IssueToken("operator-key")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	req, _ := http.NewRequest("POST", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}
