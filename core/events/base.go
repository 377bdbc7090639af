package events

import (
	"strings"
	"time"
)

// Kind names an event as "<component>.<change>", e.g.
// "speech_input.capture_restarting".
type Kind string

// Component returns the part of the kind before the first dot.
func (k Kind) Component() string {
	component, _, _ := strings.Cut(string(k), ".")
	return component
}

// Event is a state change reported by a session or controller.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base is embedded by every event.
type Base struct {
	kind       Kind
	occurredAt time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, occurredAt: time.Now()}
}

func (b Base) Kind() Kind           { return b.kind }
func (b Base) Timestamp() time.Time { return b.occurredAt }
