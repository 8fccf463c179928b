// Package health reports whether the service can reach its store.
package health

import (
	"context"
	"net/http"
	"time"

	"dancestudio/internal/database"
	"dancestudio/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

type Handler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{db: db, log: log}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.Check)
}

func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := database.Ping(ctx, h.db); err != nil {
		h.log.Error("database ping failed", zap.Error(err))
		response.Error(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	response.Success(c, http.StatusOK, "OK", gin.H{"database": "up"})
}
