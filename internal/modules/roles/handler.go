package roles

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

// RegisterRoutes expects r to run JWTAuth already.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/roles")
	{
		g.GET("", h.Get)
		g.POST("", middleware.Require(h.engine, authz.RoleCreate), h.Create)
		g.PATCH("", middleware.Require(h.engine, authz.RoleUpdate), h.Update)
		g.DELETE("", middleware.Require(h.engine, authz.RoleDelete), h.Delete)

		g.POST("/:roleId/users", middleware.Require(h.engine, authz.RoleAssignUser), h.AssignUser)
		g.DELETE("/:roleId/users", middleware.Require(h.engine, authz.RoleAssignUser), h.UnassignUser)
		g.POST("/:roleId/permissions", middleware.Require(h.engine, authz.RoleGrantAccess), h.GrantPermission)
		g.DELETE("/:roleId/permissions", middleware.Require(h.engine, authz.RoleGrantAccess), h.RevokePermission)
	}
}

// Get serves GET /roles. With ?id= it returns one role to any
// authenticated caller; the list is for administrators.
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	if id := c.Query("id"); id != "" {
		op := authz.RoleGet
		includeDeleted := c.Query("includeDeleted") == "true"
		if includeDeleted {
			op = authz.AuditRead
		}
		if err := h.engine.Authorize(ctx, op, authz.Subject{UserID: userID}); err != nil {
			response.FromError(c, err, gin.H{"entity": entity, "op": "get", "id": id})
			return
		}

		role, err := h.service.Get(ctx, id, includeDeleted)
		if err != nil {
			response.FromError(c, err, gin.H{"entity": entity, "op": "get", "id": id})
			return
		}
		response.Success(c, http.StatusOK, "Role found", role)
		return
	}

	if err := h.engine.Authorize(ctx, authz.RoleList, authz.Subject{UserID: userID}); err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "list"})
		return
	}

	page, limit := response.PageParams(c)
	items, total, err := h.service.List(ctx, page, limit)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "list"})
		return
	}
	response.Success(c, http.StatusOK, "Roles found successfully", response.NewPage(items, page, limit, total))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "create"})
		return
	}

	role, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "create"})
		return
	}
	response.Success(c, http.StatusCreated, "Role created successfully", role)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "update"})
		return
	}
	id := c.Query("id")
	if id == "" {
		id = req.ID
	}

	role, err := h.service.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "update", "id": id})
		return
	}
	response.Success(c, http.StatusOK, "Role updated successfully", role)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Query("id")
	res, err := h.service.Delete(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "delete", "id": id})
		return
	}
	response.Success(c, http.StatusOK, "Role and its assignments deleted successfully", res)
}

func (h *Handler) AssignUser(c *gin.Context) {
	roleID := c.Param("roleId")
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "assign", "id": roleID})
		return
	}

	if err := h.service.AssignUser(c.Request.Context(), middleware.UserID(c), roleID, req.UserID); err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "assign", "id": roleID})
		return
	}
	response.Success(c, http.StatusOK, "User assigned to role", gin.H{"roleId": roleID, "userId": req.UserID})
}

func (h *Handler) UnassignUser(c *gin.Context) {
	roleID := c.Param("roleId")
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "unassign", "id": roleID})
		return
	}

	if err := h.service.UnassignUser(c.Request.Context(), middleware.UserID(c), roleID, req.UserID); err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "unassign", "id": roleID})
		return
	}
	response.Success(c, http.StatusOK, "User removed from role", gin.H{"roleId": roleID, "userId": req.UserID})
}

func (h *Handler) GrantPermission(c *gin.Context) {
	roleID := c.Param("roleId")
	var req PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "grant", "id": roleID})
		return
	}

	if err := h.service.GrantPermission(c.Request.Context(), middleware.UserID(c), roleID, req.PermissionID); err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "grant", "id": roleID})
		return
	}
	response.Success(c, http.StatusOK, "Permission granted", gin.H{"roleId": roleID, "permissionId": req.PermissionID})
}

func (h *Handler) RevokePermission(c *gin.Context) {
	roleID := c.Param("roleId")
	var req PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validator.BindingError(err), gin.H{"entity": entity, "op": "revoke", "id": roleID})
		return
	}

	if err := h.service.RevokePermission(c.Request.Context(), middleware.UserID(c), roleID, req.PermissionID); err != nil {
		response.FromError(c, err, gin.H{"entity": entity, "op": "revoke", "id": roleID})
		return
	}
	response.Success(c, http.StatusOK, "Permission revoked", gin.H{"roleId": roleID, "permissionId": req.PermissionID})
}
