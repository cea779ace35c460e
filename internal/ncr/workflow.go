// Package ncr provides the non-conformance report lifecycle and its
// persistence.
package ncr

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/zulandar/laneyard/internal/fault"
	"github.com/zulandar/laneyard/internal/lifecycle"
	"github.com/zulandar/laneyard/internal/models"
)

// MaxNotesLength bounds resolution notes, counted in characters.
const MaxNotesLength = 1000

// Workflow is one NCR transition table together with the statuses that
// require resolution notes on entry.
type Workflow struct {
	table       lifecycle.Table
	notesNeeded map[string]bool
}

// Review is the canonical workflow. Any non-terminal status may jump to
// CLOSED.
var Review = Workflow{
	table: lifecycle.NewTable("review", models.NCROpen,
		lifecycle.Edge{From: models.NCROpen, To: []string{models.NCRInReview, models.NCRResolved, models.NCRClosed}},
		lifecycle.Edge{From: models.NCRInReview, To: []string{models.NCRResolved, models.NCRClosed}},
		lifecycle.Edge{From: models.NCRResolved, To: []string{models.NCRClosed}},
		lifecycle.Edge{From: models.NCRClosed},
	),
	notesNeeded: map[string]bool{models.NCRResolved: true},
}

// Investigation is the legacy workflow kept for plants that still run it.
var Investigation = Workflow{
	table: lifecycle.NewTable("investigation", models.NCROpen,
		lifecycle.Edge{From: models.NCROpen, To: []string{models.NCRInvestigating, models.NCRRejected, models.NCRClosed}},
		lifecycle.Edge{From: models.NCRInvestigating, To: []string{models.NCRCorrectiveAction, models.NCRRejected, models.NCRClosed}},
		lifecycle.Edge{From: models.NCRCorrectiveAction, To: []string{models.NCRClosed}},
		lifecycle.Edge{From: models.NCRRejected},
		lifecycle.Edge{From: models.NCRClosed},
	),
	notesNeeded: map[string]bool{models.NCRCorrectiveAction: true},
}

// ForName returns the workflow configured under name. An empty name selects
// Review.
func ForName(name string) (Workflow, error) {
	switch name {
	case "", Review.Name():
		return Review, nil
	case Investigation.Name():
		return Investigation, nil
	default:
		return Workflow{}, fault.Invalid("workflow", "unknown NCR workflow %q", name)
	}
}

// Name returns the workflow name as used in configuration.
func (w Workflow) Name() string { return w.table.Name() }

// Initial is the status new NCRs start in.
func (w Workflow) Initial() string { return w.table.Initial() }

// Statuses lists every status of the workflow.
func (w Workflow) Statuses() []string { return w.table.States() }

// RequiresNotes reports whether entering status needs resolution notes.
func (w Workflow) RequiresNotes(status string) bool { return w.notesNeeded[status] }

// AllowedTransitions returns the statuses reachable from status.
func (w Workflow) AllowedTransitions(status string) []string {
	return w.table.Allowed(status)
}

// Payload carries the data supplied with a status change.
type Payload struct {
	ResolutionNotes string `json:"resolution_notes"`
	ResolvedBy      string `json:"resolved_by"`
}

// Transition moves a copy of n to target.
//
// A terminal status rejects every call with IllegalTransitionError, whatever
// the target. Otherwise checks run in a fixed order: the target must belong
// to the workflow, notes must be present when the target requires them
// (regardless of the current status), notes must fit MaxNotesLength, and only
// then is the edge checked. Notes are read only for notes-required targets;
// entering one records the notes, ResolvedBy and ResolvedAt, and any other
// target ignores the payload.
func (w Workflow) Transition(n models.NCR, target string, p Payload, now time.Time) (models.NCR, error) {
	notes := strings.TrimSpace(p.ResolutionNotes)
	if w.table.Terminal(n.Status) {
		err := &fault.IllegalTransitionError{Entity: "ncr", From: n.Status, To: target}
		if w.RequiresNotes(target) && notes == "" {
			err.Cause = fault.Missing("resolution_notes", "required when moving to "+target)
		}
		return n, err
	}
	if !w.table.Known(target) {
		return n, fault.Invalid("status", "%q is not a status of the %s workflow", target, w.Name())
	}
	if w.RequiresNotes(target) {
		if notes == "" {
			return n, fault.Missing("resolution_notes", "required when moving to "+target)
		}
		if utf8.RuneCountInString(notes) > MaxNotesLength {
			return n, fault.Invalid("resolution_notes", "must be at most %d characters", MaxNotesLength)
		}
	}
	if !w.table.CanTransition(n.Status, target) {
		return n, &fault.IllegalTransitionError{
			Entity:  "ncr",
			From:    n.Status,
			To:      target,
			Allowed: w.table.Allowed(n.Status),
		}
	}

	next := n
	next.Status = target
	if w.RequiresNotes(target) {
		next.ResolutionNotes = notes
		next.ResolvedBy = strings.TrimSpace(p.ResolvedBy)
		next.ResolvedAt = &now
	}
	return next, nil
}
