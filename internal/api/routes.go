package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/laneyard/internal/capacity"
	"github.com/zulandar/laneyard/internal/models"
	"github.com/zulandar/laneyard/internal/ncr"
	"github.com/zulandar/laneyard/internal/workorder"
	"gorm.io/gorm"
)

type handlers struct {
	db           *gorm.DB
	ledger       capacity.Ledger
	workflow     ncr.Workflow
	calendarDays int
}

// conn binds the connection to the request so queries stop when the client
// goes away.
func (h *handlers) conn(c *gin.Context) *gorm.DB {
	return h.db.WithContext(c.Request.Context())
}

// registerRoutes sets up every API route on the router.
func registerRoutes(router *gin.Engine, h *handlers, fallback models.Scope) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", withScope(fallback))

	api.GET("/lanes", h.listLanes)
	api.POST("/lanes", h.createLane)
	api.GET("/lanes/:id", h.getLane)
	api.PATCH("/lanes/:id", h.updateLane)

	api.GET("/assignments", h.listAssignments)
	api.POST("/assignments", h.createAssignment)
	api.GET("/assignments/:id", h.getAssignment)
	api.PATCH("/assignments/:id", h.updateAssignment)
	api.DELETE("/assignments/:id", h.deleteAssignment)
	api.GET("/assignments/:id/position", h.assignmentPosition)

	api.GET("/calendar", h.calendar)

	api.GET("/work-orders", h.listWorkOrders)
	api.POST("/work-orders", h.createWorkOrder)
	api.GET("/work-orders/:id", h.getWorkOrder)
	api.GET("/work-orders/:id/transitions", h.workOrderTransitions)
	for _, a := range workorder.Actions {
		api.POST("/work-orders/:id/"+string(a), h.transitionWorkOrder(a))
	}

	api.GET("/ncrs", h.listNCRs)
	api.POST("/ncrs", h.createNCR)
	api.GET("/ncrs/:id", h.getNCR)
	api.GET("/ncrs/:id/transitions", h.ncrTransitions)
	api.PATCH("/ncrs/:id/status", h.updateNCRStatus)
}
