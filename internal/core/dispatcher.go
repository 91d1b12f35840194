package core

import (
	"context"
	"errors"

	"github.com/jobdeck/presence-server/internal/store"
)

// Dispatcher is the single entry point for inbound client events. The
// transport invokes one handler per event, in arrival order for a given
// connection; the registry and room tables are mutated only through these
// handlers. Every handler outcome reaches the client through the
// connection's event queue, errors included only on the calling side.
type Dispatcher struct {
	registry *Registry
	rooms    *Rooms
	messages store.MessageStore
	dir      store.UserDirectory
	notifier *Notifier
	history  int
}

// NewDispatcher wires the dispatcher over its collaborators. historyLimit
// caps how many messages a join backfills.
func NewDispatcher(registry *Registry, rooms *Rooms, messages store.MessageStore, dir store.UserDirectory, notifier *Notifier, historyLimit int) *Dispatcher {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &Dispatcher{
		registry: registry,
		rooms:    rooms,
		messages: messages,
		dir:      dir,
		notifier: notifier,
		history:  historyLimit,
	}
}

// Connect registers a freshly opened, still anonymous connection.
func (d *Dispatcher) Connect(c *Conn) {
	d.registry.Add(c)
}

// Identify binds a user identity to the connection. Valid before joining
// a room; re-identify replaces the user's prior connection binding and
// explicitly moves that stale connection out of its room.
func (d *Dispatcher) Identify(c *Conn, userID string) *CoreError {
	if userID == "" {
		return coreError(ErrCodeBadRequest, "userId is required")
	}
	if d.rooms.RoomOf(c) != "" {
		return coreError(ErrCodeBadRequest, "cannot identify while joined to a room")
	}

	displaced := d.registry.Bind(c, userID)
	if displaced != nil {
		if room, left := d.rooms.Leave(displaced); left {
			d.announcePresence(room)
		}
	}
	return nil
}

// JoinRoom moves the connection into a room, announces the membership
// change, and backfills history to the joiner only.
func (d *Dispatcher) JoinRoom(ctx context.Context, c *Conn, roomKey string) *CoreError {
	if roomKey == "" {
		return coreError(ErrCodeBadRequest, "roomKey is required")
	}
	userID := d.registry.UserIDOf(c)
	if userID == "" {
		return coreError(ErrCodeNotIdentified, "identify before joining a room")
	}

	prev := d.rooms.Join(c, userID, roomKey)
	if prev != "" {
		d.announcePresence(prev)
	}
	d.announcePresence(roomKey)

	history, err := d.messages.RoomHistory(ctx, roomKey, d.history)
	if err != nil {
		// Membership stands; the client can retry the join to refetch.
		return coreError(ErrCodePersistenceFailed, "failed to load room history")
	}

	msgs := make([]Message, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, messageFromStore(m))
	}
	c.send(&Event{Kind: EventHistory, Room: roomKey, Messages: msgs})
	return nil
}

// LeaveRoom removes the connection from its room, if any. Idempotent.
func (d *Dispatcher) LeaveRoom(c *Conn) *CoreError {
	if room, left := d.rooms.Leave(c); left {
		d.announcePresence(room)
	}
	return nil
}

// SendMessage resolves the sender, persists the message, then fans out.
// Persistence strictly precedes delivery: a failed append or an unknown
// sender aborts before anything reaches other clients.
func (d *Dispatcher) SendMessage(ctx context.Context, c *Conn, roomKey, text string) *CoreError {
	userID := d.registry.UserIDOf(c)
	if userID == "" {
		return coreError(ErrCodeNotIdentified, "identify before sending")
	}
	if roomKey == "" || text == "" {
		return coreError(ErrCodeBadRequest, "roomKey and text are required")
	}
	if d.rooms.RoomOf(c) != roomKey {
		return coreError(ErrCodeNotInRoom, "join the room before sending")
	}

	sender, err := d.dir.ResolveUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return coreError(ErrCodeUnknownSender, "sender is not a known user")
		}
		return coreError(ErrCodePersistenceFailed, "failed to resolve sender")
	}

	persisted, err := d.messages.AppendMessage(ctx, &store.Message{
		RoomKey:      roomKey,
		SenderID:     sender.ID,
		SenderName:   sender.DisplayName,
		SenderAvatar: sender.AvatarRef,
		Body:         text,
	})
	if err != nil {
		return coreError(ErrCodePersistenceFailed, "failed to persist message")
	}

	d.notifier.NotifyRoomOfMessage(ctx, messageFromStore(persisted))
	return nil
}

// Typing broadcasts a typing indicator to the room, sender included.
// Never persisted.
func (d *Dispatcher) Typing(c *Conn, roomKey string) *CoreError {
	return d.typingEvent(c, roomKey, EventTyping)
}

// StopTyping broadcasts the end of a typing indicator to the room.
func (d *Dispatcher) StopTyping(c *Conn, roomKey string) *CoreError {
	return d.typingEvent(c, roomKey, EventStopTyping)
}

func (d *Dispatcher) typingEvent(c *Conn, roomKey string, kind EventKind) *CoreError {
	if roomKey == "" {
		return coreError(ErrCodeBadRequest, "roomKey is required")
	}
	userID := d.registry.UserIDOf(c)
	if userID == "" {
		return coreError(ErrCodeNotIdentified, "identify before typing")
	}
	d.rooms.Broadcast(roomKey, &Event{Kind: kind, Room: roomKey, User: userID})
	return nil
}

// Disconnect tears down a closed connection: identity first, then room
// membership, announcing the change to remaining members.
func (d *Dispatcher) Disconnect(c *Conn) {
	d.registry.Remove(c)
	if room, left := d.rooms.Leave(c); left {
		d.announcePresence(room)
	}
}

func (d *Dispatcher) announcePresence(roomKey string) {
	d.rooms.Broadcast(roomKey, &Event{
		Kind:  EventUsersInRoom,
		Room:  roomKey,
		Users: d.rooms.MemberUserIDs(roomKey),
	})
}

func messageFromStore(m *store.Message) Message {
	return Message{
		ID:           m.ID,
		Room:         m.RoomKey,
		SenderID:     m.SenderID,
		SenderName:   m.SenderName,
		SenderAvatar: m.SenderAvatar,
		Text:         m.Body,
		CreatedAt:    m.CreatedAt,
	}
}
