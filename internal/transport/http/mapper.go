package http

import (
	"context"
	"encoding/json"

	"github.com/jobdeck/presence-server/internal/auth"
	"github.com/jobdeck/presence-server/internal/core"
	"github.com/jobdeck/presence-server/internal/proto"
)

// dispatchInbound decodes one inbound envelope and invokes the matching
// dispatcher handler. A returned *proto.Error goes back to the sender
// only; a returned error tears the connection down.
func (h *WSHandler) dispatchInbound(ctx context.Context, client *core.Conn, inbound proto.Inbound, limiter *rateLimiter) (*proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeIdentify:
		var data proto.IdentifyData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		if h.requireToken {
			if data.Token == "" {
				return &proto.Error{Code: core.ErrCodeInvalidToken, Msg: "identify token is required"}, nil
			}
			if err := auth.ValidateIdentifyToken(h.jwtCfg, data.Token, data.UserID); err != nil {
				h.log.Debug().Err(err).Str("conn_id", client.ID).Msg("identify token rejected")
				return &proto.Error{Code: core.ErrCodeInvalidToken, Msg: "identify token rejected"}, nil
			}
		}
		return protoError(h.dispatcher.Identify(client, data.UserID)), nil

	case proto.InboundTypeJoinRoom:
		var data proto.RoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		return protoError(h.dispatcher.JoinRoom(ctx, client, data.Room)), nil

	case proto.InboundTypeLeaveRoom:
		return protoError(h.dispatcher.LeaveRoom(client)), nil

	case proto.InboundTypeSend:
		var data proto.SendData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		if !limiter.allow() {
			return &proto.Error{Code: "rate_limited", Msg: "too many messages"}, nil
		}
		return protoError(h.dispatcher.SendMessage(ctx, client, data.Room, data.Text)), nil

	case proto.InboundTypeTyping:
		var data proto.RoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		return protoError(h.dispatcher.Typing(client, data.Room)), nil

	case proto.InboundTypeStopTyping:
		var data proto.RoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		return protoError(h.dispatcher.StopTyping(client, data.Room)), nil

	default:
		return &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func protoError(cerr *core.CoreError) *proto.Error {
	if cerr == nil {
		return nil
	}
	return &proto.Error{Code: cerr.Code, Msg: cerr.Message}
}

func wireMessage(msg core.Message) proto.WireMessage {
	return proto.WireMessage{
		ID:        msg.ID,
		Room:      msg.Room,
		UserID:    msg.SenderID,
		UserName:  msg.SenderName,
		AvatarRef: msg.SenderAvatar,
		Text:      msg.Text,
		TS:        msg.CreatedAt.Unix(),
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventHistory:
		messages := make([]proto.WireMessage, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, wireMessage(msg))
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventLoadMessages,
			Data: proto.LoadMessagesData{
				Room:     event.Room,
				Messages: messages,
			},
		}
	case core.EventRoomMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventReceiveMessage,
			Data:  wireMessage(event.Message),
		}
	case core.EventUsersInRoom:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUsersInRoom,
			Data: proto.UsersInRoomData{
				Room:  event.Room,
				Users: event.Users,
			},
		}
	case core.EventNewMessageNotification:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNewMessage,
			Data: proto.NewMessageData{
				Room:         event.Room,
				SenderName:   event.Message.SenderName,
				SenderAvatar: event.Message.SenderAvatar,
				Message:      wireMessage(event.Message),
			},
		}
	case core.EventTyping:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventTyping,
			Data:  proto.TypingData{Room: event.Room, User: event.User},
		}
	case core.EventStopTyping:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventStopTyping,
			Data:  proto.TypingData{Room: event.Room, User: event.User},
		}
	case core.EventNotification:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNotification,
			Data:  proto.NotificationData{Type: event.Type, Payload: event.Payload},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
