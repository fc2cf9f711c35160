package auth

import (
	"context"
	"time"

	"hotel/internal/domain"
	"hotel/internal/pkg/jwt"
)

// UserRepositoryInterface lists the user queries the auth service needs.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetWithCapabilities(ctx context.Context, id int64) (*domain.User, error)
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

type tokenService interface {
	GenerateToken(userID int64, email string) (string, error)
	GeneratePair(userID int64, email string) (*jwt.TokenPair, error)
	ValidateRefresh(token string) (*jwt.Claims, error)
}
