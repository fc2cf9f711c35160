package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel/internal/domain"
	"hotel/internal/pkg/jwt"
	"hotel/internal/pkg/storage"
	"hotel/internal/testfixtures"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type client struct {
	t     *testing.T
	h     http.Handler
	token string
}

func (c *client) do(method, path string, body interface{}) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func (c *client) id(env envelope) int64 {
	c.t.Helper()
	var v struct {
		ID int64 `json:"id"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &v))
	require.NotZero(c.t, v.ID)
	return v.ID
}

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db := testfixtures.NewDB(t)
	srv := New(db, Options{
		JWT:         jwt.New("test-secret", 15*time.Minute, time.Hour),
		Files:       storage.NewLocal(t.TempDir(), "/media"),
		AvatarMaxPx: 400,
		Now:         func() time.Time { return time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(srv.Hub.Close)
	return srv, db
}

func signIn(t *testing.T, h http.Handler, email string) *client {
	t.Helper()
	anon := &client{t: t, h: h}
	code, env := anon.do(http.MethodPost, "/api/auth/signin", gin.H{"email": email, "password": testfixtures.Password})
	require.Equal(t, http.StatusOK, code, env.Error.Message)
	var tokens struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	return &client{t: t, h: h, token: tokens.Access}
}

func TestHealthAndRoot(t *testing.T) {
	srv, _ := newTestServer(t)
	anon := &client{t: t, h: srv.Handler()}

	code, env := anon.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))

	code, env = anon.do(http.MethodGet, "/api/", nil)
	require.Equal(t, http.StatusOK, code)
	var links map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &links))
	assert.Equal(t, "/api/bookings", links["bookings"])
	assert.Len(t, links, len(resourceLinks))

	code, env = anon.do(http.MethodGet, "/api/hotels", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_HEADER_MISSING", env.Error.Code)
}

func TestBookingFlow(t *testing.T) {
	srv, db := newTestServer(t)
	admin := testfixtures.User(t, db, testfixtures.Superuser(), testfixtures.WithEmail("root@hotel.test"))
	c := signIn(t, srv.Handler(), admin.Email)

	code, env := c.do(http.MethodPost, "/api/hotels", gin.H{
		"name": "Lakeside", "address": "1 Lake Road", "phone": "+10000000",
		"email": "desk@lakeside.test", "stars": 4, "check_in_time": "14:00", "check_out_time": "12:00",
	})
	require.Equal(t, http.StatusCreated, code, env.Error.Details)
	hotelID := c.id(env)

	code, env = c.do(http.MethodPost, "/api/room-types", gin.H{"name": "Double", "capacity": 2, "price_per_night": "90.00"})
	require.Equal(t, http.StatusCreated, code, env.Error.Details)
	typeID := c.id(env)

	code, env = c.do(http.MethodPost, "/api/rooms", gin.H{"hotel": hotelID, "room_type": typeID, "room_number": "201"})
	require.Equal(t, http.StatusCreated, code, env.Error.Details)
	roomID := c.id(env)

	code, env = c.do(http.MethodPost, "/api/guests", gin.H{
		"first_name": "Mia", "last_name": "Park", "date_of_birth": "1990-02-03",
		"address": "2 Hill Street", "phone": "+20000000", "email": "mia@guest.test",
	})
	require.Equal(t, http.StatusCreated, code, env.Error.Details)
	guestID := c.id(env)

	code, env = c.do(http.MethodPost, "/api/bookings", gin.H{
		"guest": guestID, "room": roomID, "check_in_date": "2024-01-15", "check_out_date": "2024-01-18",
	})
	require.Equal(t, http.StatusCreated, code, env.Error.Details)
	bookingID := c.id(env)
	var created struct {
		TotalPrice string `json:"total_price"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "270.00", created.TotalPrice)

	code, env = c.do(http.MethodGet, fmt.Sprintf("/api/rooms/%d", roomID), nil)
	require.Equal(t, http.StatusOK, code)
	var room domain.Room
	require.NoError(t, json.Unmarshal(env.Data, &room))
	assert.Equal(t, domain.RoomOccupied, room.Status)

	code, env = c.do(http.MethodDelete, fmt.Sprintf("/api/rooms/%d", roomID), nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	code, env = c.do(http.MethodPatch, fmt.Sprintf("/api/room-types/%d", typeID), gin.H{"price_per_night": "95.00"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error.Details, "price_per_night")

	res, err := srv.Sweeper.Sweep(context.Background(), domain.NewDate(2024, time.February, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Released)

	code, env = c.do(http.MethodGet, fmt.Sprintf("/api/rooms/%d", roomID), nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &room))
	assert.Equal(t, domain.RoomAvailable, room.Status)

	code, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/bookings/%d", bookingID), nil)
	assert.Equal(t, http.StatusNoContent, code)
}

func TestGroupPermissions(t *testing.T) {
	srv, db := newTestServer(t)
	clerk := testfixtures.User(t, db,
		testfixtures.WithEmail("clerk@hotel.test"),
		testfixtures.InGroup(db, "Reception", "view_booking", "view_guest"),
	)
	guest := testfixtures.Guest(t, db)
	c := signIn(t, srv.Handler(), clerk.Email)

	code, _ := c.do(http.MethodGet, "/api/bookings", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodGet, fmt.Sprintf("/api/guests/%d", guest.ID), nil)
	assert.Equal(t, http.StatusOK, code)

	code, env := c.do(http.MethodDelete, fmt.Sprintf("/api/guests/%d", guest.ID), nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	code, _ = c.do(http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = c.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, code)
	var me struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "clerk@hotel.test", me.Email)
}
