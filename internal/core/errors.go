package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeNotIdentified     = "not_identified"
	ErrCodeNotInRoom         = "not_in_room"
	ErrCodeUnknownSender     = "unknown_sender"
	ErrCodePersistenceFailed = "persistence_failed"
	ErrCodeBadRequest        = "bad_request"
	ErrCodeInvalidToken      = "invalid_token"
)

var (
	ErrNotIdentified = errors.New("connection has not identified")
	ErrNotInRoom     = errors.New("not in room")
	ErrUnknownSender = errors.New("unknown sender")
	ErrBadRequest    = errors.New("bad request")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
