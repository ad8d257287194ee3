package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"stockview/internal/caching"
	"stockview/internal/services"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db        Pinger
	cache     caching.CacheService
	storage   services.StorageService
	version   string
	startedAt time.Time
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(db Pinger, cache caching.CacheService, storage services.StorageService, version string) *HealthHandlers {
	return &HealthHandlers{
		db:        db,
		cache:     cache,
		storage:   storage,
		version:   version,
		startedAt: time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Goroutines int               `json:"goroutines"`
}

// HealthCheck performs comprehensive health checks
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	health := &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   make(map[string]string),
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	}

	checks := map[string]func(context.Context) error{
		"database": h.db.Ping,
		"redis":    h.cache.Ping,
		"storage":  h.storage.Ping,
	}
	for name, check := range checks {
		if err := check(ctx); err != nil {
			health.Services[name] = "unhealthy"
			health.Status = "degraded"
		} else {
			health.Services[name] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusPartialContent
	}
	return c.JSON(statusCode, health)
}

// ReadinessCheck determines if the application is ready to serve traffic.
// Conversion needs the database and the cache; storage is only hit on rebuild.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if h.db.Ping(ctx) != nil || h.cache.Ping(ctx) != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Critical services unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

// LivenessCheck is a basic liveness probe
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
