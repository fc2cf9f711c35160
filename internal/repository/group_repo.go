package repository

import (
	"context"

	"gorm.io/gorm"

	"hotel/internal/domain"
)

type GroupRepository struct {
	*Store[domain.Group]
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{
		Store: NewStore[domain.Group](db, "Permissions"),
		db:    db,
	}
}

// PermissionsByCodename resolves codenames; unknown ones are returned separately.
func (r *GroupRepository) PermissionsByCodename(ctx context.Context, codenames []string) ([]domain.Permission, []string, error) {
	perms := make([]domain.Permission, 0, len(codenames))
	if len(codenames) == 0 {
		return perms, nil, nil
	}
	if err := r.db.WithContext(ctx).Where("codename IN ?", codenames).Find(&perms).Error; err != nil {
		return nil, nil, err
	}

	found := make(map[string]bool, len(perms))
	for _, p := range perms {
		found[p.Codename] = true
	}
	var missing []string
	for _, c := range codenames {
		if !found[c] {
			missing = append(missing, c)
		}
	}
	return perms, missing, nil
}

// Save creates or updates the group and replaces its permissions.
func (r *GroupRepository) Save(ctx context.Context, g *domain.Group, perms []domain.Permission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g.Permissions = nil
		if err := tx.Omit("Permissions").Save(g).Error; err != nil {
			return translate(err)
		}
		if err := tx.Model(g).Association("Permissions").Replace(perms); err != nil {
			return err
		}
		g.Permissions = perms
		return nil
	})
}

func (r *GroupRepository) HardDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM group_permissions WHERE group_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_groups WHERE group_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Where("id = ?", id).Delete(&domain.Group{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
