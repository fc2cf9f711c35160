package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel/internal/domain"
	"hotel/internal/modules/access"
	"hotel/internal/pkg/password"
	"hotel/internal/pkg/validator"
	"hotel/internal/repository"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrNotDeleted = errors.New("not deleted")
)

const (
	MsgEmailTaken = "user with this email already exists."
	MsgGroupTaken = "group with this name already exists."
)

func msgInvalidPK(id int64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// Service manages user accounts. Privilege flags are only honoured for actors
// that may grant them.
type Service struct {
	users   UserStore
	avatars *AvatarService
	now     func() time.Time
}

func NewService(users UserStore, avatars *AvatarService) *Service {
	return &Service{users: users, avatars: avatars, now: time.Now}
}

func (s *Service) Present(u *domain.User) UserResponse {
	out := UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		LastLogin:   u.LastLogin,
		DateJoined:  u.DateJoined,
		Groups:      make([]int64, 0, len(u.Groups)),
	}
	if u.Avatar != "" {
		out.Avatar = s.avatars.URL(u.Avatar)
		meta := u.AvatarMeta.Data()
		out.AvatarMeta = &meta
	}
	for _, g := range u.Groups {
		out.Groups = append(out.Groups, g.ID)
	}
	return out
}

func (s *Service) PresentAll(items []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(items))
	for i := range items {
		out = append(out, s.Present(&items[i]))
	}
	return out
}

func (s *Service) List(ctx context.Context, deleted bool, page repository.Page) ([]domain.User, int64, error) {
	if deleted {
		return s.users.ListDeleted(ctx, page)
	}
	return s.users.List(ctx, page)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return u, err
}

func (s *Service) Create(ctx context.Context, actor *access.Actor, req CreateUserRequest) (*domain.User, error) {
	errs := validator.FieldErrors{}
	email := repository.NormalizeEmail(req.Email)
	if err := s.checkEmail(ctx, errs, email, 0); err != nil {
		return nil, err
	}
	checkPassword(errs, "password", req.Password)
	if len(errs) > 0 {
		return nil, errs
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	active := req.IsActive == nil || *req.IsActive
	u := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     active,
		DateJoined:   s.now(),
	}
	if actor.CanGrantSuperuser() {
		u.IsStaff = req.IsStaff != nil && *req.IsStaff
		u.IsSuperuser = req.IsSuperuser != nil && *req.IsSuperuser
	}

	if err := s.users.Create(ctx, u); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, validator.FieldErrors{"email": MsgEmailTaken}
		}
		return nil, err
	}
	// GORM skips a false is_active on insert and reads the column default back.
	if !active {
		if err := s.users.UpdateFields(ctx, u.ID, map[string]interface{}{"is_active": false}); err != nil {
			return nil, err
		}
	}
	if len(req.GroupIDs) > 0 {
		if err := s.setGroups(ctx, u, req.GroupIDs); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, u.ID)
}

func (s *Service) Update(ctx context.Context, actor *access.Actor, id int64, req UpdateUserRequest) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	errs := validator.FieldErrors{}
	fields := map[string]interface{}{}
	if req.Email != nil {
		email := repository.NormalizeEmail(*req.Email)
		if err := s.checkEmail(ctx, errs, email, id); err != nil {
			return nil, err
		}
		fields["email"] = email
	}
	if req.Password != nil {
		checkPassword(errs, "password", *req.Password)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if req.Password != nil {
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = hash
	}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if actor.CanGrantSuperuser() {
		if req.IsStaff != nil {
			fields["is_staff"] = *req.IsStaff
		}
		if req.IsSuperuser != nil {
			fields["is_superuser"] = *req.IsSuperuser
		}
	}

	if len(fields) > 0 {
		if err := s.users.UpdateFields(ctx, id, fields); err != nil {
			if repository.IsUniqueViolation(err) {
				return nil, validator.FieldErrors{"email": MsgEmailTaken}
			}
			return nil, err
		}
	}
	if req.GroupIDs != nil {
		if err := s.setGroups(ctx, u, *req.GroupIDs); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// UpdateProfile changes the names a user may edit on their own account.
func (s *Service) UpdateProfile(ctx context.Context, id int64, firstName, lastName *string) (*domain.User, error) {
	return s.Update(ctx, nil, id, UpdateUserRequest{FirstName: firstName, LastName: lastName})
}

// ChangePassword verifies old before storing new.
func (s *Service) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	errs := validator.FieldErrors{}
	if !password.Check(u.PasswordHash, oldPassword) {
		errs.Add("old_password", "Your old password was entered incorrectly. Please enter it again.")
	}
	checkPassword(errs, "new_password", newPassword)
	if len(errs) > 0 {
		return errs
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdateFields(ctx, id, map[string]interface{}{"password": hash})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return mapStoreErr(s.users.SoftDelete(ctx, id))
}

func (s *Service) Restore(ctx context.Context, id int64) error {
	return mapStoreErr(s.users.Restore(ctx, id))
}

// HardDelete removes the account and its avatar file.
func (s *Service) HardDelete(ctx context.Context, id int64) error {
	u, err := s.users.GetUnscoped(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if err := s.users.HardDelete(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	s.avatars.Remove(u)
	return nil
}

func (s *Service) checkEmail(ctx context.Context, errs validator.FieldErrors, email string, exceptID int64) error {
	taken, err := s.users.EmailTaken(ctx, email, exceptID)
	if err != nil {
		return err
	}
	if taken {
		errs.Add("email", MsgEmailTaken)
	}
	return nil
}

func (s *Service) setGroups(ctx context.Context, u *domain.User, ids []int64) error {
	err := s.users.SetGroups(ctx, u, ids)
	if errors.Is(err, repository.ErrNotFound) {
		return validator.FieldErrors{"group_ids": "One or more groups do not exist."}
	}
	return err
}

func checkPassword(errs validator.FieldErrors, field, plain string) {
	if problems := password.Problems(plain); len(problems) > 0 {
		errs.Add(field, strings.Join(problems, " "))
	}
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrNotDeleted):
		return ErrNotDeleted
	}
	return err
}
