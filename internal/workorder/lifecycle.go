// Package workorder provides the work order lifecycle and its persistence.
package workorder

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zulandar/laneyard/internal/fault"
	"github.com/zulandar/laneyard/internal/lifecycle"
	"github.com/zulandar/laneyard/internal/models"
)

// Action is a lifecycle command. Each action maps to exactly one target
// status.
type Action string

const (
	ActionRelease  Action = "release"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// Actions lists every action in display order.
var Actions = []Action{ActionRelease, ActionStart, ActionComplete, ActionCancel}

var targets = map[Action]string{
	ActionRelease:  models.OrderReleased,
	ActionStart:    models.OrderInProgress,
	ActionComplete: models.OrderCompleted,
	ActionCancel:   models.OrderCancelled,
}

// Table is the work order transition table. Only forward edges exist;
// COMPLETED and CANCELLED are terminal.
var Table = lifecycle.NewTable("work_order", models.OrderPlanned,
	lifecycle.Edge{From: models.OrderPlanned, To: []string{models.OrderReleased, models.OrderCancelled}},
	lifecycle.Edge{From: models.OrderReleased, To: []string{models.OrderInProgress, models.OrderCancelled}},
	lifecycle.Edge{From: models.OrderInProgress, To: []string{models.OrderCompleted, models.OrderCancelled}},
	lifecycle.Edge{From: models.OrderCompleted},
	lifecycle.Edge{From: models.OrderCancelled},
)

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := targets[a]; !ok {
		return "", fault.Invalid("action", "unknown action %q", s)
	}
	return a, nil
}

// Target returns the status an action leads to.
func (a Action) Target() string { return targets[a] }

// TransitionInput carries caller-supplied data for a transition. Only
// complete reads it.
type TransitionInput struct {
	ActualQuantity *decimal.Decimal `json:"actual_quantity"`
}

// AllowedTransitions returns the statuses reachable from status.
func AllowedTransitions(status string) []string {
	return Table.Allowed(status)
}

// AllowedActions returns the actions that succeed from status.
func AllowedActions(status string) []Action {
	var out []Action
	for _, a := range Actions {
		if Table.CanTransition(status, a.Target()) {
			out = append(out, a)
		}
	}
	return out
}

// Transition applies action to a copy of order. It either lands on the
// action's target status or fails with an IllegalTransitionError; start and
// complete stamp the actual start and end times with now.
func Transition(order models.WorkOrder, action Action, in TransitionInput, now time.Time) (models.WorkOrder, error) {
	to, ok := targets[action]
	if !ok {
		return order, fault.Invalid("action", "unknown action %q", action)
	}
	if !Table.CanTransition(order.OrderStatus, to) {
		return order, &fault.IllegalTransitionError{
			Entity:  "work_order",
			From:    order.OrderStatus,
			To:      to,
			Action:  string(action),
			Allowed: Table.Allowed(order.OrderStatus),
		}
	}

	next := order
	next.OrderStatus = to
	switch action {
	case ActionStart:
		next.StartDateActual = &now
	case ActionComplete:
		if in.ActualQuantity != nil {
			if in.ActualQuantity.IsNegative() {
				return order, fault.Invalid("actual_quantity", "must not be negative")
			}
			next.ActualQuantity = *in.ActualQuantity
		}
		next.EndDateActual = &now
	}
	return next, nil
}
