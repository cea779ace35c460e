package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/laneyard/internal/calendar"
	"github.com/zulandar/laneyard/internal/fault"
	"github.com/zulandar/laneyard/internal/interval"
	"github.com/zulandar/laneyard/internal/lane"
	"github.com/zulandar/laneyard/internal/models"
	"github.com/zulandar/laneyard/internal/schedule"
)

// assignmentResponse pairs a stored assignment with the capacity picture of
// its lane across its dates.
type assignmentResponse struct {
	Assignment *models.LaneAssignment `json:"assignment"`
	Capacity   schedule.Advice        `json:"capacity"`
}

func (h *handlers) listLanes(c *gin.Context) {
	lanes, err := lane.List(h.conn(c), scopeOf(c), c.Query("active") == "true")
	if err != nil {
		abortWithError(c, err)
		return
	}
	if lanes == nil {
		lanes = []models.Lane{}
	}
	c.JSON(http.StatusOK, gin.H{"items": lanes})
}

func (h *handlers) createLane(c *gin.Context) {
	var opts lane.CreateOpts
	if !bindJSON(c, &opts) {
		return
	}
	l, err := lane.Create(h.conn(c), scopeOf(c), opts)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *handlers) getLane(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	l, err := lane.Get(h.conn(c), scopeOf(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *handlers) updateLane(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var p lane.Patch
	if !bindJSON(c, &p) {
		return
	}
	l, err := lane.Update(h.conn(c), scopeOf(c), id, p)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *handlers) listAssignments(c *gin.Context) {
	laneID, ok := queryUint(c, "lane_id")
	if !ok {
		return
	}
	orderID, ok := queryUint(c, "work_order_id")
	if !ok {
		return
	}
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	result, err := schedule.List(h.conn(c), scopeOf(c), schedule.ListFilters{
		LaneID:      laneID,
		WorkOrderID: orderID,
		Status:      c.Query("status"),
		From:        c.Query("from"),
		To:          c.Query("to"),
		PageRequest: page,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) createAssignment(c *gin.Context) {
	var opts schedule.CreateOpts
	if !bindJSON(c, &opts) {
		return
	}
	a, err := schedule.Create(h.conn(c), scopeOf(c), opts)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.respondWithAdvice(c, http.StatusCreated, a)
}

func (h *handlers) getAssignment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	a, err := schedule.Get(h.conn(c), scopeOf(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *handlers) updateAssignment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var p schedule.Patch
	if !bindJSON(c, &p) {
		return
	}
	a, err := schedule.Update(h.conn(c), scopeOf(c), id, p)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.respondWithAdvice(c, http.StatusOK, a)
}

func (h *handlers) deleteAssignment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := schedule.Delete(h.conn(c), scopeOf(c), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) assignmentPosition(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	start, days, ok := h.window(c)
	if !ok {
		return
	}
	a, err := schedule.Get(h.conn(c), scopeOf(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	pos, err := schedule.PositionOnCalendar(*a, start, days)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, pos)
}

func (h *handlers) calendar(c *gin.Context) {
	start, days, ok := h.window(c)
	if !ok {
		return
	}
	view, err := calendar.Load(h.conn(c), scopeOf(c), h.ledger, start, days)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// window reads ?start=&days=, defaulting to today and the configured width.
func (h *handlers) window(c *gin.Context) (string, int, bool) {
	start := c.Query("start")
	if start == "" {
		start = interval.Format(time.Now())
	} else if _, err := interval.Parse(start); err != nil {
		abortWithError(c, fault.Invalid("start", "must be a YYYY-MM-DD date"))
		return "", 0, false
	}
	days, ok := queryInt(c, "days", h.calendarDays)
	if !ok {
		return "", 0, false
	}
	if days < 1 || days > calendar.MaxDays {
		abortWithError(c, fault.Invalid("days", "must be between 1 and %d", calendar.MaxDays))
		return "", 0, false
	}
	return start, days, true
}

// respondWithAdvice writes a together with its lane's ledger over its dates.
// Overbooking is reported, never rejected.
func (h *handlers) respondWithAdvice(c *gin.Context, status int, a *models.LaneAssignment) {
	scope := scopeOf(c)
	l, err := lane.Get(h.conn(c), scope, a.LaneID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	others, err := schedule.Window(h.conn(c), scope, []uint{a.LaneID}, a.ScheduledStart, a.ScheduledEnd)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(status, assignmentResponse{
		Assignment: a,
		Capacity:   schedule.Advise(h.ledger, *a, *l, others),
	})
}
