package studios

import (
	"net/http"

	"dancestudio/internal/authz"
	"dancestudio/internal/middleware"
	"dancestudio/internal/pkg/response"
	"dancestudio/internal/pkg/validator"
	"dancestudio/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	engine  *authz.Engine
}

func NewHandler(service *Service, engine *authz.Engine) *Handler {
	return &Handler{service: service, engine: engine}
}

// RegisterRoutes mounts the public reads on public and the mutations on
// protected, which must run JWTAuth.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/studios", h.Get)

	g := protected.Group("/studios")
	{
		g.POST("", h.Create)
		g.PATCH("", h.Update)
		g.DELETE("", h.Delete)
	}
}

func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	if id := c.Query("id"); id != "" {
		includeDeleted := c.Query("includeDeleted") == "true"
		if includeDeleted {
			if err := h.engine.Authorize(ctx, authz.AuditRead, authz.Subject{UserID: middleware.UserID(c)}); err != nil {
				response.FromError(c, err, gin.H{"entity": entity, "op": "get", "id": id})
				return
			}
		}

		studio, err := h.service.Get(ctx, id, includeDeleted)
		if err != nil {
			response.FromError(c, err, gin.H{"entity": entity, "op": "get", "id": id})
			return
		}
		response.Success(c, http.StatusOK, "Studio found", studio)
		return
	}

	page, limit := response.PageParams(c)
	f := repository.StudioFilter{OwnerID: c.Query("ownerId"), City: c.Query("city")}
	items, total, err := h.service.List(ctx, f, page, limit)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "list"})
		return
	}
	response.Success(c, http.StatusOK, "Studios fetched successfully", response.NewPage(items, page, limit, total))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateStudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "create"})
		return
	}

	studio, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "create"})
		return
	}
	response.Success(c, http.StatusCreated, "Studio created successfully", studio)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateStudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "update"})
		return
	}
	id := c.Query("id")
	if id == "" {
		id = req.ID
	}

	studio, err := h.service.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "update", "id": id})
		return
	}
	response.Success(c, http.StatusOK, "Studio updated successfully", studio)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Query("id")
	res, err := h.service.Delete(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "delete", "id": id})
		return
	}
	response.Success(c, http.StatusOK, "Studio and its rooms deleted successfully", res)
}
