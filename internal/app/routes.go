package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/soundmint/internal/middleware"
)

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Modules []Module
	DB      *gorm.DB
	// Metrics is served on /metrics when set.
	Metrics *middleware.Metrics
	// MediaDir is served on /media when set. Stored upload paths are
	// relative to it.
	MediaDir string
}

// RegisterRoutes registers all application routes on the given gin.Engine.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}

	r.GET("/health", healthHandler(deps.DB))
	if deps.Metrics != nil {
		r.GET("/metrics", deps.Metrics.Handler())
	}
	if dir := strings.TrimSpace(deps.MediaDir); dir != "" {
		r.GET("/media/*filepath", cacheStaticHandler("/media", http.Dir(dir)))
	}

	api := r.Group("/api/v1")
	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		m.RegisterRoutes(api)
	}

	r.HandleMethodNotAllowed = true
	r.NoRoute(noRouteHandler())
	r.NoMethod(noMethodHandler())

	return nil
}

// healthHandler returns a handler that pings the database and reports status.
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "ok"
		status := "ok"
		code := http.StatusOK

		if err := pingDB(c.Request.Context(), db); err != nil {
			dbStatus = "error"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status": status,
			"components": gin.H{
				"database": dbStatus,
			},
		})
	}
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("database is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// cacheStaticHandler serves fsys below prefix with a Cache-Control header.
// Uploaded media is stored under random names and never rewritten.
func cacheStaticHandler(prefix string, fsys http.FileSystem) gin.HandlerFunc {
	fileServer := http.StripPrefix(prefix, http.FileServer(fsys))
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
