package response

import (
	"dancestudio/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// Envelope is the shape of every response body. Status mirrors the HTTP
// status code of the response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Data    any    `json:"data,omitempty"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

func Success(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, Envelope{
		Success: true,
		Message: message,
		Status:  statusCode,
		Data:    data,
	})
}

func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Envelope{
		Success: false,
		Message: message,
		Status:  statusCode,
	})
}

// AbortWithError writes the failure envelope and stops the handler chain.
func AbortWithError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, Envelope{
		Success: false,
		Message: message,
		Status:  statusCode,
	})
}

// FromError records err on the context for the error logger and answers
// with the status and message of its taxonomy kind.
func FromError(c *gin.Context, err error, meta gin.H) {
	ginErr := c.Error(err)
	if meta != nil {
		ginErr.SetMeta(meta)
	}
	Error(c, apperr.Status(err), apperr.Message(err))
}
