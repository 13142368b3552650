package systemkit

import "time"

// Status describes the background monitor of a System.
type Status struct {
	// Running indicates if the monitor is active.
	Running bool
	// StartTime is when the monitor was last started (zero if never started).
	StartTime time.Time
	// UpdateCount is the number of monitor updates since the System was created.
	UpdateCount uint64
	// LastError is the error of the most recent failed update (nil if none).
	LastError error
	// Platform is the name of the platform provider in use.
	Platform string
}

// ErrorHandler is a callback for update failures.
// It is called asynchronously; do not block in the handler.
type ErrorHandler func(err error)

// EventHandler is a callback for lifecycle events.
// It is called asynchronously; do not block in the handler.
type EventHandler func(event Event)

// Event represents a lifecycle event.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Message   string
}

// EventType enumerates lifecycle event types.
type EventType int

const (
	// EventStarted is emitted when the background monitor starts.
	EventStarted EventType = iota
	// EventStopped is emitted when the background monitor stops.
	EventStopped
	// EventUpdated is emitted after every monitor update.
	EventUpdated
	// EventError is emitted when an update has failed reads.
	EventError
)

// String returns a human-readable representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventUpdated:
		return "updated"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
