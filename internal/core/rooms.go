package core

import (
	"sort"
	"sync"
)

type roomMember struct {
	conn   *Conn
	userID string
}

// Rooms groups connections by room key (a job category). It keeps two
// lookup tables consistent under one lock: membership by room and the
// joined room by connection, so a connection is in at most one room and
// presence lookups stay O(room size).
type Rooms struct {
	mu      sync.RWMutex
	members map[string]map[string]roomMember // roomKey -> connID -> member
	roomOf  map[string]string                // connID -> roomKey
}

// NewRooms constructs an empty room table.
func NewRooms() *Rooms {
	return &Rooms{
		members: make(map[string]map[string]roomMember),
		roomOf:  make(map[string]string),
	}
}

// Join adds a connection to a room, removing it from any previous room
// first. Returns the previous room key, or "" if there was none.
func (r *Rooms) Join(c *Conn, userID, roomKey string) (prev string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev = r.roomOf[c.ID]
	if prev == roomKey {
		return ""
	}
	if prev != "" {
		r.removeLocked(c, prev)
	}

	room, ok := r.members[roomKey]
	if !ok {
		room = make(map[string]roomMember)
		r.members[roomKey] = room
	}
	room[c.ID] = roomMember{conn: c, userID: userID}
	r.roomOf[c.ID] = roomKey
	return prev
}

// Leave removes a connection from whatever room it is in. Idempotent.
func (r *Rooms) Leave(c *Conn) (roomKey string, left bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomKey, ok := r.roomOf[c.ID]
	if !ok {
		return "", false
	}
	r.removeLocked(c, roomKey)
	return roomKey, true
}

func (r *Rooms) removeLocked(c *Conn, roomKey string) {
	delete(r.roomOf, c.ID)
	room, ok := r.members[roomKey]
	if !ok {
		return
	}
	delete(room, c.ID)
	if len(room) == 0 {
		delete(r.members, roomKey)
	}
}

// RoomOf returns the room a connection is joined to, or "".
func (r *Rooms) RoomOf(c *Conn) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roomOf[c.ID]
}

// Broadcast delivers an event to every member of a room except the listed
// connection ids. Broadcasting to an empty or unknown room is a no-op.
func (r *Rooms) Broadcast(roomKey string, ev *Event, except ...string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	skip := make(map[string]struct{}, len(except))
	for _, id := range except {
		skip[id] = struct{}{}
	}
	for connID, m := range r.members[roomKey] {
		if _, ok := skip[connID]; ok {
			continue
		}
		m.conn.send(ev)
	}
}

// MemberUserIDs returns the sorted user ids currently joined to a room.
func (r *Rooms) MemberUserIDs(roomKey string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.members[roomKey]))
	for _, m := range r.members[roomKey] {
		ids = append(ids, m.userID)
	}
	sort.Strings(ids)
	return ids
}
