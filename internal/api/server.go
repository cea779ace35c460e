// Package api serves the scheduling and lifecycle core over a JSON HTTP API.
package api

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/laneyard/internal/capacity"
	"github.com/zulandar/laneyard/internal/models"
	"github.com/zulandar/laneyard/internal/ncr"
	"gorm.io/gorm"
)

// StartOpts holds configuration for the API server.
type StartOpts struct {
	DB           *gorm.DB
	Port         int
	Out          io.Writer
	Scope        models.Scope // used when a request carries no scope headers
	Ledger       capacity.Ledger
	Workflow     ncr.Workflow
	CalendarDays int
	AccessLog    bool
}

// Start launches the API server. It blocks until ctx is cancelled, then shuts
// down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("api: db is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	gin.SetMode(gin.ReleaseMode)
	router := newRouter(opts)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Printf("api: shutdown: %v", err)
		}
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "API listening on http://localhost:%d/api\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

// newRouter builds the gin engine with middleware and every route.
func newRouter(opts StartOpts) *gin.Engine {
	if opts.CalendarDays <= 0 {
		opts.CalendarDays = 7
	}
	if opts.Ledger.Thresholds.Overbooked.IsZero() {
		opts.Ledger = capacity.New(capacity.DefaultThresholds)
	}
	if opts.Workflow.Name() == "" {
		opts.Workflow = ncr.Review
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.AccessLog {
		router.Use(gin.Logger())
	}

	h := &handlers{
		db:           opts.DB,
		ledger:       opts.Ledger,
		workflow:     opts.Workflow,
		calendarDays: opts.CalendarDays,
	}
	registerRoutes(router, h, opts.Scope)
	return router
}
