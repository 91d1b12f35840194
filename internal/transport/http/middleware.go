package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jobdeck/presence-server/internal/auth"
)

// APIKeyMiddleware guards the internal push API. Callers present the
// shared key in X-API-Key; config stores only its bcrypt hash.
func APIKeyMiddleware(keyHash string, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			logger.Debug().Msg("missing api key header")
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing api key"})
			c.Abort()
			return
		}

		if err := auth.CheckAPIKey(keyHash, key); err != nil {
			logger.Debug().Msg("invalid api key")
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid api key"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}
