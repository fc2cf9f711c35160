package domain

import (
	"time"

	"gorm.io/datatypes"
)

// AvatarMeta describes the stored, already processed avatar image.
type AvatarMeta struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bytes  int    `json:"bytes"`
}

type User struct {
	Model
	Email        string                         `json:"email" gorm:"size:254;uniqueIndex;not null"`
	PasswordHash string                         `json:"-" gorm:"column:password;not null"`
	FirstName    string                         `json:"first_name" gorm:"size:150"`
	LastName     string                         `json:"last_name" gorm:"size:150"`
	IsActive     bool                           `json:"is_active" gorm:"not null;default:true"`
	IsStaff      bool                           `json:"is_staff" gorm:"not null;default:false"`
	IsSuperuser  bool                           `json:"is_superuser" gorm:"not null;default:false"`
	LastLogin    *time.Time                     `json:"last_login"`
	DateJoined   time.Time                      `json:"date_joined"`
	Avatar       string                         `json:"avatar"`
	AvatarMeta   datatypes.JSONType[AvatarMeta] `json:"avatar_meta"`
	Groups       []Group                        `json:"groups" gorm:"many2many:user_groups"`
}

type Group struct {
	Model
	Name        string       `json:"name" gorm:"size:150;uniqueIndex;not null" binding:"required,max=150"`
	Permissions []Permission `json:"permissions" gorm:"many2many:group_permissions"`
}

// Permission is a named capability, e.g. "add_booking".
type Permission struct {
	Model
	Codename string `json:"codename" gorm:"size:100;uniqueIndex;not null"`
	Name     string `json:"name" gorm:"size:255"`
	Resource string `json:"resource" gorm:"size:50;index"`
}

// Codenames returns every capability the user holds through its groups.
func (u *User) Codenames() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, g := range u.Groups {
		for _, p := range g.Permissions {
			if _, ok := seen[p.Codename]; ok {
				continue
			}
			seen[p.Codename] = struct{}{}
			out = append(out, p.Codename)
		}
	}
	return out
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
