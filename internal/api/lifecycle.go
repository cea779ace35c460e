package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/laneyard/internal/ncr"
	"github.com/zulandar/laneyard/internal/workorder"
)

type transitionsResponse struct {
	Status  string   `json:"status"`
	Allowed []string `json:"allowed"`
	Actions []string `json:"actions,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
	ncr.Payload
}

func (h *handlers) listWorkOrders(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	result, err := workorder.List(h.conn(c), scopeOf(c), workorder.ListFilters{
		Status:      c.Query("status"),
		ProductCode: c.Query("product_code"),
		PageRequest: page,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) createWorkOrder(c *gin.Context) {
	var opts workorder.CreateOpts
	if !bindJSON(c, &opts) {
		return
	}
	order, err := workorder.Create(h.conn(c), scopeOf(c), opts)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *handlers) getWorkOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	order, err := workorder.Get(h.conn(c), scopeOf(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) workOrderTransitions(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	order, err := workorder.Get(h.conn(c), scopeOf(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	resp := transitionsResponse{
		Status:  order.OrderStatus,
		Allowed: nonNil(workorder.AllowedTransitions(order.OrderStatus)),
	}
	for _, a := range workorder.AllowedActions(order.OrderStatus) {
		resp.Actions = append(resp.Actions, string(a))
	}
	c.JSON(http.StatusOK, resp)
}

// transitionWorkOrder handles POST /work-orders/:id/<action>. The body is
// optional; complete may carry {"actual_quantity": "..."}.
func (h *handlers) transitionWorkOrder(action workorder.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var in workorder.TransitionInput
		if c.Request.ContentLength != 0 {
			if !bindJSON(c, &in) {
				return
			}
		}
		order, err := workorder.ApplyTransition(h.conn(c), scopeOf(c), id, action, in)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func (h *handlers) listNCRs(c *gin.Context) {
	orderID, ok := queryUint(c, "work_order_id")
	if !ok {
		return
	}
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	result, err := ncr.List(h.conn(c), scopeOf(c), ncr.ListFilters{
		Status:      c.Query("status"),
		Severity:    c.Query("severity"),
		WorkOrderID: orderID,
		PageRequest: page,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) createNCR(c *gin.Context) {
	var opts ncr.CreateOpts
	if !bindJSON(c, &opts) {
		return
	}
	w, ok := h.workflowFor(c)
	if !ok {
		return
	}
	n, err := ncr.Create(h.conn(c), scopeOf(c), w, opts)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *handlers) getNCR(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	n, err := ncr.Get(h.conn(c), scopeOf(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *handlers) ncrTransitions(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	n, err := ncr.Get(h.conn(c), scopeOf(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	w, ok := h.workflowFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, transitionsResponse{
		Status:  n.Status,
		Allowed: nonNil(w.AllowedTransitions(n.Status)),
	})
}

func (h *handlers) updateNCRStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	w, ok := h.workflowFor(c)
	if !ok {
		return
	}
	n, err := ncr.UpdateStatus(h.conn(c), scopeOf(c), w, id, req.Status, req.Payload)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// workflowFor resolves the NCR workflow of the request's plant, falling back
// to the server default.
func (h *handlers) workflowFor(c *gin.Context) (ncr.Workflow, bool) {
	w, err := ncr.ForPlant(h.conn(c), scopeOf(c), h.workflow)
	if err != nil {
		abortWithError(c, err)
		return ncr.Workflow{}, false
	}
	return w, true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
