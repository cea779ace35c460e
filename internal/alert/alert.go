// Package alert sends the overbooking digest to chat platforms (Slack,
// Discord).
package alert

import "context"

// Notifier delivers a message to one chat platform.
type Notifier interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Message is a platform-neutral chat message.
type Message struct {
	Text   string  // plain-text fallback
	Events []Event // rendered as attachments or embeds
}

// Event is one block of a message, e.g. one overbooked lane.
type Event struct {
	Title  string
	Body   string
	Color  string // sidebar color hint, e.g. "#e53935"
	Fields []Field
}

// Field is a key-value pair displayed in an event block.
type Field struct {
	Name  string
	Value string
	Short bool // hint: render side-by-side with another field
}

// Sidebar colors by capacity level.
const (
	ColorSafe       = "#36a64f"
	ColorWarning    = "#ff9800"
	ColorOverbooked = "#e53935"
)
