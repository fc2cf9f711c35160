package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"hotel/internal/domain"
)

type UserRepository struct {
	*Store[domain.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		Store: NewStore[domain.User](db, "Groups"),
		db:    db,
	}
}

func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Preload("Groups").
		Where("email = ?", NormalizeEmail(email)).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().Model(&domain.User{}).
		Where("email = ? AND id <> ?", NormalizeEmail(email), exceptID).
		Count(&n).Error
	return n > 0, err
}

// GetWithCapabilities loads the user with groups and their permissions.
func (r *UserRepository) GetWithCapabilities(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Preload("Groups.Permissions").
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = NormalizeEmail(u.Email)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		groups := u.Groups
		u.Groups = nil
		if err := tx.Omit("Groups").Create(u).Error; err != nil {
			return translate(err)
		}
		if len(groups) == 0 {
			return nil
		}
		u.Groups = groups
		return tx.Model(u).Association("Groups").Replace(groups)
	})
}

// SetGroups replaces the user's memberships with the given group ids.
func (r *UserRepository) SetGroups(ctx context.Context, u *domain.User, groupIDs []int64) error {
	groups := make([]domain.Group, 0, len(groupIDs))
	if len(groupIDs) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", groupIDs).Find(&groups).Error; err != nil {
			return err
		}
		if len(groups) != len(uniqueIDs(groupIDs)) {
			return ErrNotFound
		}
	}
	if err := r.db.WithContext(ctx).Model(u).Association("Groups").Replace(groups); err != nil {
		return err
	}
	u.Groups = groups
	return nil
}

func (r *UserRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		UpdateColumn("last_login", at).Error
}

// HardDelete drops memberships before the row.
func (r *UserRepository) HardDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_groups WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Where("id = ?", id).Delete(&domain.User{})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func uniqueIDs(ids []int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
