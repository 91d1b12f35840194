package core

import "sync"

// Registry owns the user identity to transport connection mapping.
// All open connections are tracked; identity is attached on identify.
// A user has at most one bound connection (last identify wins).
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Conn  // connID -> conn, every open connection
	users map[string]*Conn  // userID -> bound conn
	bound map[string]string // connID -> userID
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]*Conn),
		users: make(map[string]*Conn),
		bound: make(map[string]string),
	}
}

// Add tracks a newly opened connection before it has identified.
func (r *Registry) Add(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID] = c
}

// Bind attaches a user identity to a connection. If the user already had
// a different connection bound, that binding is replaced and the displaced
// connection is returned so the caller can move its room membership.
func (r *Registry) Bind(c *Conn, userID string) (displaced *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.users[userID]; ok && prev != c {
		delete(r.bound, prev.ID)
		displaced = prev
	}
	if prevUser, ok := r.bound[c.ID]; ok && prevUser != userID {
		delete(r.users, prevUser)
	}
	r.conns[c.ID] = c
	r.users[userID] = c
	r.bound[c.ID] = userID
	return displaced
}

// Resolve returns the active connection for a user, or nil if there is none.
func (r *Registry) Resolve(userID string) *Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[userID]
}

// UserIDOf returns the identity bound to a connection, or "" if anonymous.
func (r *Registry) UserIDOf(c *Conn) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bound[c.ID]
}

// Remove drops a connection and its identity binding, returning the user id
// it was bound to, if any.
func (r *Registry) Remove(c *Conn) (userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.conns, c.ID)
	userID, ok := r.bound[c.ID]
	if !ok {
		return ""
	}
	delete(r.bound, c.ID)
	if r.users[userID] == c {
		delete(r.users, userID)
	}
	return userID
}

// Conns returns a snapshot of every open connection, identified or not.
func (r *Registry) Conns() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out
}
