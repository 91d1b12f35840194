package core

import (
	"context"

	"github.com/jobdeck/presence-server/internal/store"
)

// Notifier routes events based on presence: room members get live events,
// connected users outside the room get toasts, everyone else gets a
// silent drop. It is safe to call from any goroutine; other subsystems
// use NotifyUser and BroadcastAll as their push mechanism.
type Notifier struct {
	registry *Registry
	rooms    *Rooms
	dir      store.UserDirectory
}

// NewNotifier constructs a notifier over the given presence state.
func NewNotifier(registry *Registry, rooms *Rooms, dir store.UserDirectory) *Notifier {
	return &Notifier{registry: registry, rooms: rooms, dir: dir}
}

// NotifyRoomOfMessage fans out a persisted message: a live receiveMessage
// event to every room member, and a newMessageNotification toast to every
// connected user whose job category matches the room key but who is not
// currently a member. Users with no active connection receive nothing.
func (n *Notifier) NotifyRoomOfMessage(ctx context.Context, msg Message) {
	n.rooms.Broadcast(msg.Room, &Event{
		Kind:    EventRoomMessage,
		Room:    msg.Room,
		Message: msg,
	})

	users, err := n.dir.UsersByJobCategory(ctx, msg.Room)
	if err != nil {
		// The message is already durable; missed toasts are recoverable
		// through a later join's history fetch.
		return
	}

	present := make(map[string]struct{})
	for _, id := range n.rooms.MemberUserIDs(msg.Room) {
		present[id] = struct{}{}
	}

	for _, u := range users {
		if _, ok := present[u.ID]; ok {
			continue
		}
		conn := n.registry.Resolve(u.ID)
		if conn == nil {
			continue // routing miss: drop, not queue
		}
		conn.send(&Event{
			Kind:    EventNewMessageNotification,
			Room:    msg.Room,
			Message: msg,
		})
	}
}

// NotifyUser pushes an opaque notification to a user's active connection.
// Returns whether a live connection existed.
func (n *Notifier) NotifyUser(userID, typ string, payload any) bool {
	conn := n.registry.Resolve(userID)
	if conn == nil {
		return false
	}
	conn.send(&Event{Kind: EventNotification, Type: typ, Payload: payload})
	return true
}

// BroadcastAll pushes an opaque notification to every open connection,
// identified or not, regardless of room.
func (n *Notifier) BroadcastAll(typ string, payload any) {
	ev := &Event{Kind: EventNotification, Type: typ, Payload: payload}
	for _, conn := range n.registry.Conns() {
		conn.send(ev)
	}
}
