package resource

import "github.com/wippyai/protoobj/object"

// Handle is an opaque reference to an object in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Event types for handle lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventAcquired
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventAcquired:
		return "acquired"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Event represents a handle lifecycle event.
type Event struct {
	Object *object.Object
	Handle Handle
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
// Observers run synchronously and must not call back into the table.
type Observer interface {
	OnResourceEvent(Event)
}
