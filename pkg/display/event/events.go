// Package event defines the event types that can be sent to a
// display.Driver. It is separate from the display package so drivers
// and the display registry can both depend on it without cycles.
package event

// Type identifies the action a driver should take.
type Type int

const (
	// Quit is sent when the application is shutting down and the
	// driver should tear its surface down.
	Quit Type = iota
	// Title is sent to change the window title, e.g. to show the
	// loaded ROM name or a halt notice.
	Title
)

// Event is sent to a display.Driver over its event channel. Data is
// event-type specific and may be nil.
type Event struct {
	Type Type
	Data interface{}
}
