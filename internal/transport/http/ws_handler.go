package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jobdeck/presence-server/internal/auth"
	"github.com/jobdeck/presence-server/internal/core"
	"github.com/jobdeck/presence-server/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to the dispatcher.
// Each connection gets one read loop invoking dispatcher handlers in
// arrival order and one write loop draining the core event queue.
type WSHandler struct {
	dispatcher   *core.Dispatcher
	jwtCfg       *auth.JWTConfig
	requireToken bool
	msgsPerMin   int
	log          *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(dispatcher *core.Dispatcher, jwtCfg *auth.JWTConfig, requireToken bool, msgsPerMin int, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{
		dispatcher:   dispatcher,
		jwtCfg:       jwtCfg,
		requireToken: requireToken,
		msgsPerMin:   msgsPerMin,
		log:          logger,
	}
}

// Handle is the gin route for GET /ws.
func (h *WSHandler) Handle(c *gin.Context) {
	h.serve(c.Writer, c.Request)
}

func (h *WSHandler) serve(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewConn(uuid.NewString())
	h.dispatcher.Connect(client)
	defer h.dispatcher.Disconnect(client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	limiter := newRateLimiter(h.msgsPerMin)
	limiter.startReset(ctx.Done())

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client, limiter)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("conn_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Conn, limiter *rateLimiter) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		protoErr, err := h.dispatchInbound(ctx, client, inbound, limiter)
		if err != nil {
			h.log.Warn().Err(err).Str("conn_id", client.ID).Msg("failed to map inbound")
			return err
		}
		if protoErr != nil {
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: protoErr,
			}); writeErr != nil {
				return writeErr
			}
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Conn) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("conn_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
