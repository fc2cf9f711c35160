package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotel/internal/modules/access"
	"hotel/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type loaderFunc func(ctx context.Context, userID int64) (*access.Actor, error)

func (f loaderFunc) LoadActor(ctx context.Context, userID int64) (*access.Actor, error) {
	return f(ctx, userID)
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour, 24*time.Hour)
	validToken, err := jwtService.GenerateToken(42, "clerk@hotel.test")
	require.NoError(t, err)

	router := gin.New()
	router.Use(JWTAuth(jwtService, nil))
	router.GET("/protected", func(c *gin.Context) {
		actor := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64(ContextUserID),
			"email":   actor.Email,
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
	assert.Contains(t, w.Body.String(), "clerk@hotel.test")
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	jwtService := jwt.New("wrong-secret", time.Hour, time.Hour)

	router := gin.New()
	router.Use(JWTAuth(jwtService, nil))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("This handler should not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-jwt-here")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuth_RefreshTokenRejected(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour, time.Hour)
	pair, err := jwtService.GeneratePair(7, "a@b.c")
	require.NoError(t, err)

	router := gin.New()
	router.Use(JWTAuth(jwtService, nil))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("Should not reach here")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Refresh)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuth_NoToken(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour, time.Hour)

	router := gin.New()
	router.Use(JWTAuth(jwtService, nil))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("Should not reach here")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_HEADER_MISSING")
}

func TestJWTAuth_WrongFormat(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour, time.Hour)

	router := gin.New()
	router.Use(JWTAuth(jwtService, nil))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("Should not reach here")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dGVzdA==")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
}

func TestJWTAuth_QueryToken(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour, time.Hour)
	token, err := jwtService.GenerateToken(3, "ws@hotel.test")
	require.NoError(t, err)

	handler := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	withQuery := gin.New()
	withQuery.GET("/ws", JWTAuth(jwtService, nil, AllowQueryToken()), handler)
	w := httptest.NewRecorder()
	withQuery.ServeHTTP(w, httptest.NewRequest("GET", "/ws?token="+token, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	headerOnly := gin.New()
	headerOnly.GET("/ws", JWTAuth(jwtService, nil), handler)
	w = httptest.NewRecorder()
	headerOnly.ServeHTTP(w, httptest.NewRequest("GET", "/ws?token="+token, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_LoaderRejectsInactiveUser(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour, time.Hour)
	token, err := jwtService.GenerateToken(9, "gone@hotel.test")
	require.NoError(t, err)

	loader := loaderFunc(func(ctx context.Context, userID int64) (*access.Actor, error) {
		assert.Equal(t, int64(9), userID)
		return nil, ErrInactiveUser
	})

	router := gin.New()
	router.Use(JWTAuth(jwtService, loader))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("Should not reach here")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not found or inactive")
}

func TestJWTAuth_LoaderFailure(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour, time.Hour)
	token, err := jwtService.GenerateToken(9, "x@hotel.test")
	require.NoError(t, err)

	loader := loaderFunc(func(ctx context.Context, userID int64) (*access.Actor, error) {
		return nil, errors.New("db down")
	})

	router := gin.New()
	router.Use(JWTAuth(jwtService, loader))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("Should not reach here")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
