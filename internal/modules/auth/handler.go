package auth

import (
	"errors"
	"net/http"

	"hotel/internal/middleware"
	"hotel/internal/modules/users"
	"hotel/internal/pkg/response"
	"hotel/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Handler serves sign-up, sign-in and the caller's own account.
type Handler struct {
	service *Service
	users   *users.Service
	avatars *users.Handler
}

func NewHandler(service *Service, userService *users.Service, userHandler *users.Handler) *Handler {
	return &Handler{service: service, users: userService, avatars: userHandler}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/signin", h.SignIn)
		authGroup.POST("/token/refresh", h.Refresh)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	me := protected.Group("/auth/me")
	{
		me.GET("", h.GetMe)
		me.PUT("", h.UpdateMe)
		me.PATCH("", h.UpdateMe)
		me.POST("/password", h.ChangePassword)
		me.POST("/avatar", h.UploadAvatar)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromError(err))
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, h.users.Present(u))
}

func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromError(err))
		return
	}

	res, err := h.service.SignIn(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", MsgNoActiveAccount)
			return
		}
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromError(err))
		return
	}

	access, err := h.service.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, ErrInvalidRefresh) {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired")
			return
		}
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"access": access})
}

func (h *Handler) GetMe(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.GetInt64(middleware.ContextUserID))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.users.Present(u))
}

func (h *Handler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromError(err))
		return
	}

	u, err := h.users.UpdateProfile(c.Request.Context(), c.GetInt64(middleware.ContextUserID), req.FirstName, req.LastName)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.users.Present(u))
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromError(err))
		return
	}

	err := h.users.ChangePassword(c.Request.Context(), c.GetInt64(middleware.ContextUserID), req.OldPassword, req.NewPassword)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "password changed"})
}

func (h *Handler) UploadAvatar(c *gin.Context) {
	h.avatars.UploadAvatar(c, c.GetInt64(middleware.ContextUserID))
}

func (h *Handler) fail(c *gin.Context, err error) {
	var fieldErrs validator.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		response.ValidationFailed(c, fieldErrs)
	case errors.Is(err, users.ErrNotFound):
		response.NotFound(c, "User not found")
	default:
		response.Internal(c, err)
	}
}
