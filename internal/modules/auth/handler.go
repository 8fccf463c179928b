package auth

import (
	"net/http"

	"dancestudio/internal/middleware"
	"dancestudio/internal/pkg/response"
	"dancestudio/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts register and login; limit throttles them and
// may be nil.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup, limit gin.HandlerFunc) {
	g := r.Group("/auth")
	if limit != nil {
		g.Use(limit)
	}
	{
		g.POST("/register", h.Register)
		g.POST("/login", h.Login)
	}
}

// RegisterProtectedRoutes expects r to run JWTAuth.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/auth/me", h.Me)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "register"})
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "register"})
		return
	}
	response.Success(c, http.StatusCreated, "Registration successful", res)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "login"})
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "login"})
		return
	}
	response.Success(c, http.StatusOK, "Login successful", res)
}

func (h *Handler) Me(c *gin.Context) {
	userID := middleware.UserID(c)
	u, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "me", "id": userID})
		return
	}
	response.Success(c, http.StatusOK, "User found", u)
}
