package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jobdeck/presence-server/internal/auth"
	"github.com/jobdeck/presence-server/internal/config"
	"github.com/jobdeck/presence-server/internal/core"
)

// NewServer builds the HTTP server: health check, the WebSocket endpoint,
// and the internal push API other subsystems call.
func NewServer(dispatcher *core.Dispatcher, notifier *core.Notifier, rooms *core.Rooms, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), LoggerMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	jwtCfg := &auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	}
	ws := NewWSHandler(dispatcher, jwtCfg, cfg.RequireIdentifyToken, cfg.WSMsgsPerMinute, logger)
	r.GET("/ws", ws.Handle)

	// Push routes are only mounted when an API key is configured.
	if cfg.APIKeyHash != "" {
		push := NewPushHandlers(notifier, rooms, logger)
		api := r.Group("/api", APIKeyMiddleware(cfg.APIKeyHash, logger))
		api.POST("/notify/:userID", push.NotifyUser)
		api.POST("/broadcast", push.Broadcast)
		api.GET("/rooms/:roomKey/users", push.RoomUsers)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
