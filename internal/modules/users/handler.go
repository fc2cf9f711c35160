package users

import (
	"context"
	"errors"
	"net/http"

	"hotel/internal/domain"
	"hotel/internal/middleware"
	"hotel/internal/modules/access"
	"hotel/internal/pkg/response"
	"hotel/internal/pkg/validator"
	"hotel/internal/repository"

	"github.com/gin-gonic/gin"
)

// MaxAvatarBytes caps the uploaded file before decoding.
const MaxAvatarBytes = 5 << 20

type Handler struct {
	users       *Service
	groups      *GroupService
	avatars     *AvatarService
	permissions *repository.Store[domain.Permission]
}

func NewHandler(users *Service, groups *GroupService, avatars *AvatarService, permissions *repository.Store[domain.Permission]) *Handler {
	return &Handler{users: users, groups: groups, avatars: avatars, permissions: permissions}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	user := func(op access.Operation) gin.HandlerFunc {
		return middleware.RequirePermission(access.ResourceUser, op)
	}
	users := rg.Group("/users")
	{
		users.GET("", user(access.OpList), h.ListUsers)
		users.POST("", user(access.OpCreate), h.CreateUser)
		users.GET("/soft-delete", user(access.OpListDeleted), h.ListDeletedUsers)
		users.GET("/:id", user(access.OpRetrieve), h.GetUser)
		users.PUT("/:id", user(access.OpUpdate), h.UpdateUser)
		users.PATCH("/:id", user(access.OpUpdate), h.UpdateUser)
		users.POST("/:id/avatar", user(access.OpUpdate), h.UploadUserAvatar)
		users.DELETE("/:id", user(access.OpDestroy), h.DeleteUser)
		users.POST("/:id/restore", user(access.OpRestore), h.RestoreUser)
		users.DELETE("/:id/hard-delete", user(access.OpHardDelete), h.HardDeleteUser)
	}

	group := func(op access.Operation) gin.HandlerFunc {
		return middleware.RequirePermission(access.ResourceGroup, op)
	}
	groups := rg.Group("/groups")
	{
		groups.GET("", group(access.OpList), h.ListGroups)
		groups.POST("", group(access.OpCreate), h.CreateGroup)
		groups.GET("/soft-delete", group(access.OpListDeleted), h.ListDeletedGroups)
		groups.GET("/:id", group(access.OpRetrieve), h.GetGroup)
		groups.PUT("/:id", group(access.OpUpdate), h.UpdateGroup)
		groups.PATCH("/:id", group(access.OpUpdate), h.UpdateGroup)
		groups.DELETE("/:id", group(access.OpDestroy), h.DeleteGroup)
		groups.POST("/:id/restore", group(access.OpRestore), h.RestoreGroup)
		groups.DELETE("/:id/hard-delete", group(access.OpHardDelete), h.HardDeleteGroup)
	}

	perm := func(op access.Operation) gin.HandlerFunc {
		return middleware.RequirePermission(access.ResourcePermission, op)
	}
	rg.GET("/permissions", perm(access.OpList), h.ListPermissions)
	rg.GET("/permissions/:id", perm(access.OpRetrieve), h.GetPermission)
}

func (h *Handler) ListUsers(c *gin.Context) { h.listUsers(c, false) }
func (h *Handler) ListDeletedUsers(c *gin.Context) { h.listUsers(c, true) }

func (h *Handler) listUsers(c *gin.Context, deleted bool) {
	page := response.PageQuery(c)
	items, total, err := h.users.List(c.Request.Context(), deleted, page)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.List(c, h.users.PresentAll(items), total, page)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, "user", err)
		return
	}
	response.Success(c, http.StatusOK, h.users.Present(u))
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromError(err))
		return
	}
	u, err := h.users.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		fail(c, "user", err)
		return
	}
	response.Success(c, http.StatusCreated, h.users.Present(u))
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromError(err))
		return
	}
	u, err := h.users.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		fail(c, "user", err)
		return
	}
	response.Success(c, http.StatusOK, h.users.Present(u))
}

func (h *Handler) UploadUserAvatar(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	h.uploadAvatar(c, id)
}

// UploadAvatar stores the multipart "avatar" file for userID and writes the updated user.
func (h *Handler) UploadAvatar(c *gin.Context, userID int64) {
	h.uploadAvatar(c, userID)
}

func (h *Handler) uploadAvatar(c *gin.Context, userID int64) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.ValidationFailed(c, validator.FieldErrors{"avatar": "No file was submitted."})
		return
	}
	if fh.Size > MaxAvatarBytes {
		response.ValidationFailed(c, validator.FieldErrors{"avatar": "The file is larger than 5 MB."})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Internal(c, err)
		return
	}
	defer f.Close()

	u, err := h.avatars.Set(c.Request.Context(), userID, f)
	if err != nil {
		fail(c, "user", err)
		return
	}
	response.Success(c, http.StatusOK, h.users.Present(u))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	mutate(c, "user", h.users.Delete)
}

func (h *Handler) RestoreUser(c *gin.Context) {
	restore(c, "user", h.users.Restore)
}

func (h *Handler) HardDeleteUser(c *gin.Context) {
	mutate(c, "user", h.users.HardDelete)
}

func (h *Handler) ListGroups(c *gin.Context) { h.listGroups(c, false) }
func (h *Handler) ListDeletedGroups(c *gin.Context) { h.listGroups(c, true) }

func (h *Handler) listGroups(c *gin.Context, deleted bool) {
	page := response.PageQuery(c)
	items, total, err := h.groups.List(c.Request.Context(), deleted, page)
	if err != nil {
		response.Internal(c, err)
		return
	}
	out := make([]GroupResponse, 0, len(items))
	for i := range items {
		out = append(out, NewGroupResponse(&items[i]))
	}
	response.List(c, out, total, page)
}

func (h *Handler) GetGroup(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	g, err := h.groups.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, "group", err)
		return
	}
	response.Success(c, http.StatusOK, NewGroupResponse(g))
}

func (h *Handler) CreateGroup(c *gin.Context) {
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromError(err))
		return
	}
	g, err := h.groups.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, "group", err)
		return
	}
	response.Success(c, http.StatusCreated, NewGroupResponse(g))
}

func (h *Handler) UpdateGroup(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromError(err))
		return
	}
	g, err := h.groups.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, "group", err)
		return
	}
	response.Success(c, http.StatusOK, NewGroupResponse(g))
}

func (h *Handler) DeleteGroup(c *gin.Context) {
	mutate(c, "group", h.groups.Delete)
}

func (h *Handler) RestoreGroup(c *gin.Context) {
	restore(c, "group", h.groups.Restore)
}

func (h *Handler) HardDeleteGroup(c *gin.Context) {
	mutate(c, "group", h.groups.HardDelete)
}

func (h *Handler) ListPermissions(c *gin.Context) {
	page := response.PageQuery(c)
	items, total, err := h.permissions.List(c.Request.Context(), page)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.List(c, items, total, page)
}

func (h *Handler) GetPermission(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	p, err := h.permissions.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, "permission", mapStoreErr(err))
		return
	}
	response.Success(c, http.StatusOK, p)
}

func mutate(c *gin.Context, resource string, fn func(ctx context.Context, id int64) error) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		fail(c, resource, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func restore(c *gin.Context, resource string, fn func(ctx context.Context, id int64) error) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		fail(c, resource, err)
		return
	}
	response.Restored(c, resource)
}

func fail(c *gin.Context, resource string, err error) {
	var fieldErrs validator.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		response.ValidationFailed(c, fieldErrs)
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "Not found.")
	case errors.Is(err, ErrNotDeleted):
		response.NotDeleted(c, resource)
	default:
		response.Internal(c, err)
	}
}
