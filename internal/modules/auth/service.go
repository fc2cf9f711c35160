package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"hotel/internal/domain"
	"hotel/internal/middleware"
	"hotel/internal/modules/access"
	"hotel/internal/pkg/password"
	"hotel/internal/pkg/validator"
	"hotel/internal/repository"
)

// Service contains the sign-up and sign-in logic and resolves token
// subjects into access actors.
type Service struct {
	users   UserRepositoryInterface
	jwt     tokenService
	now     func() time.Time
	loggerf func(format string, args ...interface{})
}

func NewService(users UserRepositoryInterface, jwt tokenService) *Service {
	return &Service{users: users, jwt: jwt, now: time.Now, loggerf: log.Printf}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	errs := validator.FieldErrors{}
	email := repository.NormalizeEmail(req.Email)

	if req.Password != req.Password2 {
		errs.Add("password", MsgPasswordMismatch)
	} else if problems := password.Problems(req.Password); len(problems) > 0 {
		errs.Add("password", strings.Join(problems, " "))
	}

	taken, err := s.users.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		errs.Add("email", MsgEmailTaken)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
		DateJoined:   s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, validator.FieldErrors{"email": MsgEmailTaken}
		}
		return nil, err
	}

	s.loggerf("level=info msg=\"user registered\" user_id=%d", u.ID)
	return u, nil
}

// SignIn checks credentials and issues an access/refresh pair.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (*SignInResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive || !password.Check(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.jwt.GeneratePair(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	if err := s.users.TouchLastLogin(ctx, u.ID, s.now()); err != nil {
		s.loggerf("level=warn msg=\"last_login update failed\" user_id=%d err=%v", u.ID, err)
	}

	return &SignInResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		UserID:  u.ID,
		Email:   u.Email,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The subject must
// still be an active user.
func (s *Service) Refresh(ctx context.Context, refresh string) (string, error) {
	claims, err := s.jwt.ValidateRefresh(refresh)
	if err != nil {
		return "", ErrInvalidRefresh
	}
	if _, err := s.LoadActor(ctx, claims.UserID); err != nil {
		if errors.Is(err, middleware.ErrInactiveUser) {
			return "", ErrInvalidRefresh
		}
		return "", err
	}
	return s.jwt.GenerateToken(claims.UserID, claims.Email)
}

// LoadActor implements middleware.ActorLoader.
func (s *Service) LoadActor(ctx context.Context, userID int64) (*access.Actor, error) {
	u, err := s.users.GetWithCapabilities(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, middleware.ErrInactiveUser
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, middleware.ErrInactiveUser
	}
	return access.NewActor(u.ID, u.Email, u.IsStaff, u.IsSuperuser, u.Codenames()...), nil
}
