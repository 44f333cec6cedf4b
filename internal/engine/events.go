package engine

import "time"

// EventType captures the lifecycle notifications emitted while a role is
// being resolved and stopped.
type EventType string

const (
	EventTypeStopping EventType = "stopping"
	EventTypeStopped  EventType = "stopped"
	EventTypeKilled   EventType = "killed"
	EventTypeFailed   EventType = "failed"
	EventTypeAbsent   EventType = "absent"
	EventTypeError    EventType = "error"
)

// Event represents a single lifecycle notification for one role.
type Event struct {
	Timestamp time.Time
	Role      string
	PID       int
	Type      EventType
	Message   string
	Err       error
}

func sendEvent(events chan<- Event, role string, pid int, t EventType, message string, err error) {
	if events == nil {
		return
	}
	events <- Event{
		Timestamp: time.Now(),
		Role:      role,
		PID:       pid,
		Type:      t,
		Message:   message,
		Err:       err,
	}
}
