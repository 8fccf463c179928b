package permissions

import (
	"net/http"

	"dancestudio/internal/authz"
	"dancestudio/internal/middleware"
	"dancestudio/internal/pkg/response"
	"dancestudio/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	engine  *authz.Engine
}

func NewHandler(service *Service, engine *authz.Engine) *Handler {
	return &Handler{service: service, engine: engine}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/permissions")
	{
		g.GET("", middleware.Require(h.engine, authz.PermissionList), h.Get)
		g.POST("", middleware.Require(h.engine, authz.PermissionWrite), h.Create)
		g.PATCH("", middleware.Require(h.engine, authz.PermissionWrite), h.Update)
		g.DELETE("", middleware.Require(h.engine, authz.PermissionDelete), h.Delete)
	}
}

func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	if id := c.Query("id"); id != "" {
		p, err := h.service.Get(ctx, id, c.Query("includeDeleted") == "true")
		if err != nil {
			response.FromError(c, err, gin.H{"entity": entity, "op": "get", "id": id})
			return
		}
		response.Success(c, http.StatusOK, "Permission found", p)
		return
	}

	page, limit := response.PageParams(c)
	items, total, err := h.service.List(ctx, c.Query("category"), page, limit)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "list"})
		return
	}
	response.Success(c, http.StatusOK, "Permissions fetched successfully", response.NewPage(items, page, limit, total))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "create"})
		return
	}

	p, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "create"})
		return
	}
	response.Success(c, http.StatusCreated, "Permission created successfully", p)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "update"})
		return
	}
	id := c.Query("id")
	if id == "" {
		id = req.ID
	}

	p, err := h.service.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "update", "id": id})
		return
	}
	response.Success(c, http.StatusOK, "Permission updated successfully", p)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Query("id")
	res, err := h.service.Delete(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "delete", "id": id})
		return
	}
	response.Success(c, http.StatusOK, "Permission deleted successfully", res)
}
