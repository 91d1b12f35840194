package core

// Conn is one client transport connection as seen by the core layer.
// Identity lives in the Registry, not here; a Conn is just an outbound
// event queue with an opaque id assigned by the transport.
type Conn struct {
	ID     string
	Events chan *Event
}

// NewConn constructs a connection handle with a buffered event queue.
func NewConn(id string) *Conn {
	return &Conn{
		ID:     id,
		Events: make(chan *Event, 32),
	}
}

// send enqueues an event without blocking. Slow consumers lose events
// rather than stall the dispatcher.
func (c *Conn) send(ev *Event) {
	select {
	case c.Events <- ev:
	default:
	}
}
