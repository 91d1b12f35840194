package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound event names. "stop typing" keeps the space the web client sends.
const (
	InboundTypeIdentify   = "identify"
	InboundTypeJoinRoom   = "joinRoom"
	InboundTypeLeaveRoom  = "leaveRoom"
	InboundTypeSend       = "sendMessage"
	InboundTypeTyping     = "typing"
	InboundTypeStopTyping = "stop typing"
)

// Outbound event names.
const (
	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventLoadMessages   = "loadMessages"
	EventReceiveMessage = "receiveMessage"
	EventUsersInRoom    = "usersInRoom"
	EventNewMessage     = "newMessageNotification"
	EventTyping         = "typing"
	EventStopTyping     = "stop typing"
	EventNotification   = "notification"
)

// IdentifyData binds a user identity to the connection. Token is required
// only when the server is configured to demand identify tokens.
type IdentifyData struct {
	UserID string `json:"userId"`
	Token  string `json:"token,omitempty"`
}

// RoomData addresses a room for join/leave/typing events.
type RoomData struct {
	Room string `json:"roomKey"`
}

// SendData is a chat message draft from the client.
type SendData struct {
	Room string `json:"roomKey"`
	Text string `json:"text"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// WireMessage is a chat message as serialized to clients.
type WireMessage struct {
	ID        int64  `json:"id,omitempty"`
	Room      string `json:"roomKey"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	AvatarRef string `json:"avatarRef,omitempty"`
	Text      string `json:"text"`
	TS        int64  `json:"ts"`
}

// LoadMessagesData backfills room history to a joining connection.
type LoadMessagesData struct {
	Room     string        `json:"roomKey"`
	Messages []WireMessage `json:"messages"`
}

// UsersInRoomData announces who is currently joined to a room.
type UsersInRoomData struct {
	Room  string   `json:"roomKey"`
	Users []string `json:"users"`
}

// TypingData tells room members that a user started or stopped typing.
type TypingData struct {
	Room string `json:"roomKey"`
	User string `json:"userId"`
}

// NewMessageData is the out-of-room toast for users whose job category
// matches the room but who are not currently viewing it.
type NewMessageData struct {
	Room         string      `json:"roomKey"`
	SenderName   string      `json:"senderDisplayName"`
	SenderAvatar string      `json:"senderAvatarRef,omitempty"`
	Message      WireMessage `json:"message"`
}

// NotificationData carries an opaque push from another subsystem.
type NotificationData struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
