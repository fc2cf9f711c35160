package users

import (
	"context"
	"io"

	"hotel/internal/domain"
	"hotel/internal/repository"
)

// UserStore is implemented by *repository.UserRepository.
type UserStore interface {
	List(ctx context.Context, page repository.Page) ([]domain.User, int64, error)
	ListDeleted(ctx context.Context, page repository.Page) ([]domain.User, int64, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	GetUnscoped(ctx context.Context, id int64) (*domain.User, error)
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	Create(ctx context.Context, u *domain.User) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	SetGroups(ctx context.Context, u *domain.User, groupIDs []int64) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error
}

// GroupStore is implemented by *repository.GroupRepository.
type GroupStore interface {
	List(ctx context.Context, page repository.Page) ([]domain.Group, int64, error)
	ListDeleted(ctx context.Context, page repository.Page) ([]domain.Group, int64, error)
	Get(ctx context.Context, id int64) (*domain.Group, error)
	PermissionsByCodename(ctx context.Context, codenames []string) ([]domain.Permission, []string, error)
	Save(ctx context.Context, g *domain.Group, perms []domain.Permission) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error
}

// FileStore is implemented by *storage.Local.
type FileStore interface {
	Save(dir, ext string, r io.Reader) (string, error)
	Delete(rel string) error
	URL(rel string) string
}
