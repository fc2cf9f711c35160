package users

import (
	"context"
	"strings"

	"hotel/internal/domain"
	"hotel/internal/pkg/validator"
	"hotel/internal/repository"
)

// GroupService manages groups and the capabilities they grant.
type GroupService struct {
	groups GroupStore
}

func NewGroupService(groups GroupStore) *GroupService {
	return &GroupService{groups: groups}
}

func (s *GroupService) List(ctx context.Context, deleted bool, page repository.Page) ([]domain.Group, int64, error) {
	if deleted {
		return s.groups.ListDeleted(ctx, page)
	}
	return s.groups.List(ctx, page)
}

func (s *GroupService) Get(ctx context.Context, id int64) (*domain.Group, error) {
	g, err := s.groups.Get(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return g, nil
}

func (s *GroupService) Create(ctx context.Context, req GroupRequest) (*domain.Group, error) {
	return s.save(ctx, &domain.Group{}, req)
}

func (s *GroupService) Update(ctx context.Context, id int64, req GroupRequest) (*domain.Group, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, g, req)
}

func (s *GroupService) save(ctx context.Context, g *domain.Group, req GroupRequest) (*domain.Group, error) {
	perms, missing, err := s.groups.PermissionsByCodename(ctx, req.Permissions)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, validator.FieldErrors{"permissions": "Unknown permissions: " + strings.Join(missing, ", ") + "."}
	}

	g.Name = strings.TrimSpace(req.Name)
	if err := s.groups.Save(ctx, g, perms); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, validator.FieldErrors{"name": MsgGroupTaken}
		}
		return nil, err
	}
	return g, nil
}

func (s *GroupService) Delete(ctx context.Context, id int64) error {
	return mapStoreErr(s.groups.SoftDelete(ctx, id))
}

func (s *GroupService) Restore(ctx context.Context, id int64) error {
	return mapStoreErr(s.groups.Restore(ctx, id))
}

func (s *GroupService) HardDelete(ctx context.Context, id int64) error {
	return mapStoreErr(s.groups.HardDelete(ctx, id))
}
