package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"dancestudio/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const headerRequestID = "X-Request-ID"

// RequestID echoes the caller's X-Request-ID or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}

// RequestLogger writes one access line per request and one line per error
// attached with c.Error, at warn for 4xx and error for 5xx.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_id", UserID(c)),
			zap.String("request_id", c.GetString("request_id")),
		}

		level := zapcore.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		}

		for _, e := range c.Errors {
			errFields := append(append([]zap.Field{}, fields...), zap.Error(e.Err))
			if meta, ok := e.Meta.(gin.H); ok {
				for k, v := range meta {
					errFields = append(errFields, zap.Any(k, v))
				}
			}
			log.Check(level, "request error").Write(errFields...)
		}

		log.Check(level, "request").Write(fields...)
	}
}

// Recovery turns a panic into the failure envelope with status 500.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error("panic recovered",
					zap.String("panic", fmt.Sprint(recovered)),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString("request_id")),
					zap.ByteString("stack", debug.Stack()),
				)
				response.AbortWithError(c, http.StatusInternalServerError, "An internal error occurred")
			}
		}()
		c.Next()
	}
}
