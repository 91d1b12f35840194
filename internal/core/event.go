package core

// EventKind is a notification the core emits to connections.
type EventKind int

const (
	// EventHistory delivers room history to a connection upon joining.
	EventHistory EventKind = iota
	// EventRoomMessage notifies room members about a chat message.
	EventRoomMessage
	// EventUsersInRoom announces the room's current member user ids.
	EventUsersInRoom
	// EventNewMessageNotification is the out-of-room toast for users whose
	// job category matches the room but who are not currently viewing it.
	EventNewMessageNotification
	// EventTyping notifies room members that a user started typing.
	EventTyping
	// EventStopTyping notifies room members that a user stopped typing.
	EventStopTyping
	// EventNotification carries an opaque push from another subsystem
	// (badge awards, challenge announcements and the like).
	EventNotification
)

// Event is sent to connections to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Room     string
	User     string // acting user, for typing events
	Message  Message
	Messages []Message // for EventHistory
	Users    []string  // for EventUsersInRoom
	Type     string    // for EventNotification
	Payload  any       // for EventNotification
}
