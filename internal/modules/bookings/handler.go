package bookings

import (
	"net/http"

	"dancestudio/internal/authz"
	"dancestudio/internal/domain"
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
	g := r.Group("/bookings")
	{
		g.GET("", middleware.Require(h.engine, authz.BookingList), h.Get)
		g.POST("", middleware.Require(h.engine, authz.BookingCreate), h.Create)
		g.PATCH("", h.Update)
		g.DELETE("", middleware.Require(h.engine, authz.BookingDelete), h.Delete)
	}
}

func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	if id := c.Query("id"); id != "" {
		b, err := h.service.Get(ctx, userID, id, c.Query("includeDeleted") == "true")
		if err != nil {
			response.FromError(c, err, gin.H{"entity": entity, "op": "get", "id": id})
			return
		}
		response.Success(c, http.StatusOK, "Booking found", b)
		return
	}

	page, limit := response.PageParams(c)
	q := ListQuery{
		UserID:  c.Query("userId"),
		ClassID: c.Query("classId"),
		Status:  domain.BookingStatus(c.Query("status")),
	}
	items, total, err := h.service.List(ctx, userID, q, page, limit)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "list"})
		return
	}
	response.Success(c, http.StatusOK, "Bookings fetched successfully", response.NewPage(items, page, limit, total))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "create"})
		return
	}

	b, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "create"})
		return
	}
	response.Success(c, http.StatusCreated, "Booking created successfully", b)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "update"})
		return
	}
	id := c.Query("id")
	if id == "" {
		id = req.ID
	}

	b, err := h.service.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "update", "id": id})
		return
	}
	response.Success(c, http.StatusOK, "Booking updated successfully", b)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Query("id")
	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "delete", "id": id})
		return
	}
	response.Success(c, http.StatusOK, "Booking deleted successfully", gin.H{"id": id})
}
