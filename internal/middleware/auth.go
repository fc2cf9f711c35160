package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"hotel/internal/modules/access"
	"hotel/internal/pkg/jwt"
	"hotel/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextActor  = "actor"
)

// ErrInactiveUser is returned by an ActorLoader when the token subject can no longer sign in.
var ErrInactiveUser = errors.New("user not found or inactive")

// ActorLoader resolves the capabilities of an authenticated user.
type ActorLoader interface {
	LoadActor(ctx context.Context, userID int64) (*access.Actor, error)
}

type authConfig struct {
	queryToken bool
}

type AuthOption func(*authConfig)

// AllowQueryToken accepts ?token= when no Authorization header is sent.
// Browsers cannot set headers on a websocket handshake.
func AllowQueryToken() AuthOption {
	return func(cfg *authConfig) { cfg.queryToken = true }
}

// JWTAuth validates the bearer access token and stores the caller's actor in the context.
// With a nil loader the actor carries only the token identity and no capabilities.
func JWTAuth(jwtService *jwt.Service, actors ActorLoader, opts ...AuthOption) gin.HandlerFunc {
	var cfg authConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(c *gin.Context) {
		token, ok := bearerToken(c, cfg.queryToken)
		if !ok {
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		actor := access.NewActor(claims.UserID, claims.Email, false, false)
		if actors != nil {
			actor, err = actors.LoadActor(c.Request.Context(), claims.UserID)
			if errors.Is(err, ErrInactiveUser) {
				response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "User not found or inactive")
				return
			}
			if err != nil {
				_ = c.Error(err)
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextActor, actor)
		c.Next()
	}
}

func bearerToken(c *gin.Context, allowQuery bool) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if allowQuery {
			if token := c.Query("token"); token != "" {
				return token, true
			}
		}
		response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
		return "", false
	}
	return parts[1], true
}

// ActorFrom returns the actor set by JWTAuth, or nil for anonymous requests.
func ActorFrom(c *gin.Context) *access.Actor {
	v, ok := c.Get(ContextActor)
	if !ok {
		return nil
	}
	actor, _ := v.(*access.Actor)
	return actor
}
