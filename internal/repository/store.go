package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Page struct {
	Limit  int
	Offset int
}

func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Store is the soft-delete aware CRUD shared by every resource table. T is a
// model embedding domain.Model.
type Store[T any] struct {
	db      *gorm.DB
	preload []string
}

func NewStore[T any](db *gorm.DB, preload ...string) *Store[T] {
	return &Store[T]{db: db, preload: preload}
}

// DB returns the handle bound to ctx for queries the generic methods do not cover.
func (s *Store[T]) DB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Store[T]) query(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx).Model(new(T))
	for _, p := range s.preload {
		q = q.Preload(p)
	}
	return q
}

func (s *Store[T]) List(ctx context.Context, page Page) ([]T, int64, error) {
	return s.list(ctx, func(q *gorm.DB) *gorm.DB { return q }, page)
}

// ListDeleted returns soft-deleted rows only.
func (s *Store[T]) ListDeleted(ctx context.Context, page Page) ([]T, int64, error) {
	return s.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Unscoped().Where("deleted_at IS NOT NULL")
	}, page)
}

func (s *Store[T]) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB, page Page) ([]T, int64, error) {
	page = page.Normalize()

	var total int64
	if err := scope(s.db.WithContext(ctx).Model(new(T))).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]T, 0)
	err := scope(s.query(ctx)).Order("id").Limit(page.Limit).Offset(page.Offset).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store[T]) Get(ctx context.Context, id int64) (*T, error) {
	v := new(T)
	if err := s.query(ctx).Where("id = ?", id).First(v).Error; err != nil {
		return nil, translate(err)
	}
	return v, nil
}

// GetUnscoped also finds soft-deleted rows.
func (s *Store[T]) GetUnscoped(ctx context.Context, id int64) (*T, error) {
	v := new(T)
	if err := s.query(ctx).Unscoped().Where("id = ?", id).First(v).Error; err != nil {
		return nil, translate(err)
	}
	return v, nil
}

func (s *Store[T]) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store[T]) Create(ctx context.Context, v *T) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(v).Error)
}

// Update writes every column of v. Associations are left alone.
func (s *Store[T]) Update(ctx context.Context, v *T) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(v).Error)
}

func (s *Store[T]) SoftDelete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Restore clears deleted_at. It returns ErrNotDeleted for a live row.
func (s *Store[T]) Restore(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Unscoped().Model(new(T)).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return ErrNotDeleted
}

// HardDelete removes the row permanently, deleted or not.
func (s *Store[T]) HardDelete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
