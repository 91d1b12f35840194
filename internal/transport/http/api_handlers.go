package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jobdeck/presence-server/internal/core"
)

// PushHandlers expose the notifier to other platform subsystems: badge
// awarding, challenge announcements and the like push through here. The
// payload is opaque to this service.
type PushHandlers struct {
	notifier *core.Notifier
	rooms    *core.Rooms
	log      *zerolog.Logger
}

// NewPushHandlers creates the push API handlers.
func NewPushHandlers(notifier *core.Notifier, rooms *core.Rooms, logger *zerolog.Logger) *PushHandlers {
	return &PushHandlers{notifier: notifier, rooms: rooms, log: logger}
}

// PushRequest is the body for notify and broadcast calls.
type PushRequest struct {
	Type    string          `json:"type" binding:"required"`
	Payload json.RawMessage `json:"payload"`
}

// NotifyResponse reports whether the target had a live connection.
type NotifyResponse struct {
	Delivered bool `json:"delivered"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NotifyUser pushes a notification to one user's active connection.
// POST /api/notify/:userID
func (h *PushHandlers) NotifyUser(c *gin.Context) {
	var req PushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid notify request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	userID := c.Param("userID")
	delivered := h.notifier.NotifyUser(userID, req.Type, req.Payload)

	h.log.Debug().
		Str("user_id", userID).
		Str("type", req.Type).
		Bool("delivered", delivered).
		Msg("push notify")

	c.JSON(http.StatusOK, NotifyResponse{Delivered: delivered})
}

// Broadcast pushes a notification to every open connection.
// POST /api/broadcast
func (h *PushHandlers) Broadcast(c *gin.Context) {
	var req PushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid broadcast request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.notifier.BroadcastAll(req.Type, req.Payload)
	c.JSON(http.StatusAccepted, gin.H{"status": "ok"})
}

// RoomUsers lists the user ids currently joined to a room.
// GET /api/rooms/:roomKey/users
func (h *PushHandlers) RoomUsers(c *gin.Context) {
	roomKey := c.Param("roomKey")
	c.JSON(http.StatusOK, gin.H{
		"roomKey": roomKey,
		"users":   h.rooms.MemberUserIDs(roomKey),
	})
}
