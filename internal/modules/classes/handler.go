package classes

import (
	"net/http"
	"time"

	"dancestudio/internal/authz"
	"dancestudio/internal/domain"
	"dancestudio/internal/middleware"
	"dancestudio/internal/pkg/apperr"
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

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/classes")
	{
		g.GET("", h.Get)
		g.POST("", middleware.Require(h.engine, authz.ClassWrite), h.Create)
		g.PATCH("", middleware.Require(h.engine, authz.ClassWrite), h.Update)
		g.DELETE("", middleware.Require(h.engine, authz.ClassWrite), h.Delete)
	}
}

// Get serves one class to any authenticated caller and the list to
// administrators.
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	if id := c.Query("id"); id != "" {
		op := authz.ClassGet
		includeDeleted := c.Query("includeDeleted") == "true"
		if includeDeleted {
			op = authz.AuditRead
		}
		if err := h.engine.Authorize(ctx, op, authz.Subject{UserID: userID}); err != nil {
			response.FromError(c, err, gin.H{"entity": entity, "op": "get", "id": id})
			return
		}

		class, err := h.service.Get(ctx, id, includeDeleted)
		if err != nil {
			response.FromError(c, err, gin.H{"entity": entity, "op": "get", "id": id})
			return
		}
		response.Success(c, http.StatusOK, "Class found", class)
		return
	}

	if err := h.engine.Authorize(ctx, authz.ClassList, authz.Subject{UserID: userID}); err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "list"})
		return
	}

	f := repository.ClassFilter{
		StudioID:     c.Query("studioId"),
		RoomID:       c.Query("roomId"),
		InstructorID: c.Query("instructorId"),
		Status:       domain.ClassStatus(c.Query("status")),
	}
	var err error
	if f.From, err = timeParam(c, "from"); err == nil {
		f.To, err = timeParam(c, "to")
	}
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "list"})
		return
	}

	page, limit := response.PageParams(c)
	items, total, err := h.service.List(ctx, f, page, limit)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "list"})
		return
	}
	response.Success(c, http.StatusOK, "Classes fetched successfully", response.NewPage(items, page, limit, total))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "create"})
		return
	}

	class, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "create"})
		return
	}
	response.Success(c, http.StatusCreated, "Class created successfully", class)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "update"})
		return
	}
	id := c.Query("id")
	if id == "" {
		id = req.ID
	}

	class, err := h.service.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "update", "id": id})
		return
	}
	response.Success(c, http.StatusOK, "Class updated successfully", class)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Query("id")
	res, err := h.service.Delete(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "delete", "id": id})
		return
	}
	response.Success(c, http.StatusOK, "Class deleted successfully", res)
}

func timeParam(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperr.Validation("%s must be an RFC 3339 timestamp", name)
	}
	return &t, nil
}
