package monitoring

import (
	"context"
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type Metrics struct {
	mu              sync.RWMutex
	RequestCount    int64            `json:"request_count"`
	RequestDuration time.Duration    `json:"avg_request_duration_ms"`
	ActiveRequests  int64            `json:"active_requests"`
	ErrorCount      int64            `json:"error_count"`
	StatusCodes     map[string]int64 `json:"status_codes"`
	Endpoints       map[string]int64 `json:"endpoint_calls"`
	StartTime       time.Time        `json:"start_time"`
	LastRequest     time.Time        `json:"last_request"`
	totalDuration   time.Duration
}

type HealthCheckFunc func(ctx context.Context) error

var globalMetrics = &Metrics{
	StatusCodes: make(map[string]int64),
	Endpoints:   make(map[string]int64),
	StartTime:   time.Now(),
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		globalMetrics.mu.Lock()
		globalMetrics.ActiveRequests++
		globalMetrics.mu.Unlock()

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()
		endpoint := c.Request.Method + " " + c.FullPath()

		globalMetrics.mu.Lock()
		globalMetrics.RequestCount++
		globalMetrics.ActiveRequests--
		globalMetrics.totalDuration += duration
		globalMetrics.RequestDuration = globalMetrics.totalDuration / time.Duration(globalMetrics.RequestCount)
		globalMetrics.LastRequest = time.Now()
		globalMetrics.StatusCodes[strconv.Itoa(statusCode)]++
		globalMetrics.Endpoints[endpoint]++
		if statusCode >= http.StatusInternalServerError {
			globalMetrics.ErrorCount++
		}
		globalMetrics.mu.Unlock()
	}
}

func MetricsHandler(c *gin.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	globalMetrics.mu.RLock()
	defer globalMetrics.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"requests": gin.H{
			"total":           globalMetrics.RequestCount,
			"active":          globalMetrics.ActiveRequests,
			"errors":          globalMetrics.ErrorCount,
			"avg_duration_ms": globalMetrics.RequestDuration.Milliseconds(),
			"status_codes":    globalMetrics.StatusCodes,
			"endpoints":       globalMetrics.Endpoints,
		},
		"runtime": gin.H{
			"goroutines":      runtime.NumGoroutine(),
			"heap_alloc_mb":   memStats.HeapAlloc / 1024 / 1024,
			"uptime_seconds":  int64(time.Since(globalMetrics.StartTime).Seconds()),
			"last_request_at": globalMetrics.LastRequest,
		},
	})
}

// HealthHandler reports overall health from the registered checks.
func HealthHandler(checks map[string]HealthCheckFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		results := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = gin.H{"status": "unhealthy", "message": err.Error()}
			} else {
				results[name] = gin.H{"status": "healthy"}
			}
		}

		overall := "healthy"
		if status != http.StatusOK {
			overall = "unhealthy"
		}
		c.JSON(status, gin.H{"status": overall, "checks": results})
	}
}
