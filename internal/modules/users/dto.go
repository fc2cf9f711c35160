package users

import (
	"time"

	"hotel/internal/domain"
)

type CreateUserRequest struct {
	Email       string  `json:"email" binding:"required,email,max=254"`
	Password    string  `json:"password" binding:"required"`
	FirstName   string  `json:"first_name" binding:"max=150"`
	LastName    string  `json:"last_name" binding:"max=150"`
	IsActive    *bool   `json:"is_active"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
	GroupIDs    []int64 `json:"group_ids"`
}

// UpdateUserRequest overlays only the fields that are present.
type UpdateUserRequest struct {
	Email       *string  `json:"email" binding:"omitempty,email,max=254"`
	Password    *string  `json:"password"`
	FirstName   *string  `json:"first_name" binding:"omitempty,max=150"`
	LastName    *string  `json:"last_name" binding:"omitempty,max=150"`
	IsActive    *bool    `json:"is_active"`
	IsStaff     *bool    `json:"is_staff"`
	IsSuperuser *bool    `json:"is_superuser"`
	GroupIDs    *[]int64 `json:"group_ids"`
}

type GroupRequest struct {
	Name        string   `json:"name" binding:"required,max=150"`
	Permissions []string `json:"permissions"`
}

type UserResponse struct {
	ID          int64              `json:"id"`
	Email       string             `json:"email"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	IsActive    bool               `json:"is_active"`
	IsStaff     bool               `json:"is_staff"`
	IsSuperuser bool               `json:"is_superuser"`
	LastLogin   *time.Time         `json:"last_login"`
	DateJoined  time.Time          `json:"date_joined"`
	Avatar      string             `json:"avatar"`
	AvatarMeta  *domain.AvatarMeta `json:"avatar_meta"`
	Groups      []int64            `json:"groups"`
}

type GroupResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

func NewGroupResponse(g *domain.Group) GroupResponse {
	out := GroupResponse{ID: g.ID, Name: g.Name, Permissions: make([]string, 0, len(g.Permissions))}
	for _, p := range g.Permissions {
		out.Permissions = append(out.Permissions, p.Codename)
	}
	return out
}
