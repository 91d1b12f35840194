package store

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound is returned when a user id has no directory entry.
var ErrUserNotFound = errors.New("user not found")

// User is a directory entry owned by the wider platform. This service
// only ever reads it.
type User struct {
	ID          string
	DisplayName string
	AvatarRef   string
	JobCategory string
	CreatedAt   time.Time
}

// Message is a persisted chat message. Append-only; this service never
// updates or deletes rows.
type Message struct {
	ID           int64
	RoomKey      string
	SenderID     string
	SenderName   string
	SenderAvatar string
	Body         string
	CreatedAt    time.Time
}

// UserDirectory resolves platform users for sender enrichment and
// job-category fan-out.
type UserDirectory interface {
	// ResolveUser retrieves a user by id. Returns ErrUserNotFound if the
	// id has no entry.
	ResolveUser(ctx context.Context, id string) (*User, error)

	// UsersByJobCategory lists every user whose job category matches.
	UsersByJobCategory(ctx context.Context, category string) ([]*User, error)
}

// MessageStore handles message persistence.
type MessageStore interface {
	// AppendMessage persists a message, assigning its id and timestamp,
	// and returns the persisted row.
	AppendMessage(ctx context.Context, msg *Message) (*Message, error)

	// RoomHistory returns the most recent messages in a room, oldest
	// first, capped at limit.
	RoomHistory(ctx context.Context, roomKey string, limit int) ([]*Message, error)
}

// Store aggregates the storage interfaces this service consumes.
type Store interface {
	UserDirectory
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
