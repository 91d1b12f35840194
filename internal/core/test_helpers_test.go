package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jobdeck/presence-server/internal/store"
)

func mustEvent(t *testing.T, c *Conn, kind EventKind) *Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-c.Events:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("expected event kind %v not received", kind)
			return nil
		}
	}
}

// drainEvents empties the connection's queue. Handlers are synchronous,
// so everything a prior call produced is already buffered.
func drainEvents(c *Conn) []*Event {
	var evs []*Event
	for {
		select {
		case ev := <-c.Events:
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

func noEvent(t *testing.T, c *Conn) {
	t.Helper()
	select {
	case ev := <-c.Events:
		t.Fatalf("unexpected event kind %v", ev.Kind)
	default:
	}
}

type fakeDirectory struct {
	users map[string]*store.User
	err   error
}

func (f *fakeDirectory) ResolveUser(_ context.Context, id string) (*store.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeDirectory) UsersByJobCategory(_ context.Context, category string) ([]*store.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*store.User
	for _, u := range f.users {
		if u.JobCategory == category {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeMessages struct {
	msgs       []*store.Message
	nextID     int64
	failAppend bool
}

func (f *fakeMessages) AppendMessage(_ context.Context, msg *store.Message) (*store.Message, error) {
	if f.failAppend {
		return nil, errors.New("store unavailable")
	}
	f.nextID++
	stored := *msg
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	f.msgs = append(f.msgs, &stored)
	return &stored, nil
}

func (f *fakeMessages) RoomHistory(_ context.Context, roomKey string, limit int) ([]*store.Message, error) {
	var out []*store.Message
	for _, m := range f.msgs {
		if m.RoomKey == roomKey {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type testEnv struct {
	registry   *Registry
	rooms      *Rooms
	dir        *fakeDirectory
	messages   *fakeMessages
	notifier   *Notifier
	dispatcher *Dispatcher
}

func newTestEnv() *testEnv {
	dir := &fakeDirectory{users: make(map[string]*store.User)}
	messages := &fakeMessages{}
	registry := NewRegistry()
	rooms := NewRooms()
	notifier := NewNotifier(registry, rooms, dir)
	return &testEnv{
		registry:   registry,
		rooms:      rooms,
		dir:        dir,
		messages:   messages,
		notifier:   notifier,
		dispatcher: NewDispatcher(registry, rooms, messages, dir, notifier, 50),
	}
}

func (e *testEnv) addUser(id, name, category string) {
	e.dir.users[id] = &store.User{ID: id, DisplayName: name, JobCategory: category}
}

func (e *testEnv) connect(t *testing.T, connID, userID string) *Conn {
	t.Helper()
	c := NewConn(connID)
	e.dispatcher.Connect(c)
	if userID != "" {
		if cerr := e.dispatcher.Identify(c, userID); cerr != nil {
			t.Fatalf("identify %s: %v", userID, cerr)
		}
	}
	return c
}
