package middleware

import (
	"dancestudio/internal/authz"
	"dancestudio/internal/pkg/apperr"
	"dancestudio/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Require rejects the request unless the caller may perform op. Use it for
// operations without an ownership rule; handlers that need the target's
// owner call the engine themselves.
func Require(engine *authz.Engine, op authz.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := engine.Authorize(c.Request.Context(), op, authz.Subject{UserID: UserID(c)})
		if err != nil {
			_ = c.Error(err).SetMeta(gin.H{"op": string(op)})
			response.AbortWithError(c, apperr.Status(err), apperr.Message(err))
			return
		}
		c.Next()
	}
}
