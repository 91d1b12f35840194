package core

import "time"

// Message is the domain model for a persisted room message.
type Message struct {
	ID           int64
	Room         string
	SenderID     string
	SenderName   string
	SenderAvatar string
	Text         string
	CreatedAt    time.Time
}
