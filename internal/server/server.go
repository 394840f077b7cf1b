// Package server exposes the assignment engine as a JSON HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sndworks/crewline/internal/assignment"
	"github.com/sndworks/crewline/internal/equipstatus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StartOpts holds configuration for the API server.
type StartOpts struct {
	DB   *gorm.DB
	Port int
	Log  *zap.Logger
}

// Start launches the HTTP server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("server: db is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	eng := assignment.New(opts.DB, opts.Log, equipstatus.Recompute)
	router := newRouter(eng)

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	opts.Log.Info("api server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// newRouter builds the Gin router over an engine. Split out from Start so
// tests can drive it with httptest.
func newRouter(eng *assignment.Engine) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, eng)
	return router
}

// registerRoutes sets up all API routes.
func registerRoutes(router *gin.Engine, eng *assignment.Engine) {
	router.GET("/healthz", handleHealth())

	api := router.Group("/api")
	api.POST("/assignments", handleCreate(eng))
	api.POST("/assignments/:kind/:id/complete", handleComplete(eng))
	api.DELETE("/assignments/:kind/:id", handleDelete(eng))

	api.GET("/equipment/:id/assignments", handleEquipmentAssignments(eng))
	api.GET("/employees/:id/assignments", handleEmployeeAssignments(eng))
	api.PATCH("/employees/assignments/:id", handleUpdateEmployee(eng))
	api.POST("/employees/:id/reconcile", handleReconcile(eng))

	api.POST("/employees/:id/vacation", handleVacation(eng))
	api.DELETE("/employees/:id/vacation", handleVacationDeletion(eng))
	api.POST("/employees/:id/exit", handleExit(eng))
	api.DELETE("/employees/:id/exit", handleExitDeletion(eng))
}

func handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
