package booking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"hotel/internal/domain"
	"hotel/internal/middleware"
	"hotel/internal/modules/access"
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

func newTestRouter(t *testing.T, actor *access.Actor) (*gin.Engine, *gorm.DB) {
	t.Helper()
	svc, db := newTestService(t)

	r := gin.New()
	api := r.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.ContextActor, actor)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(api)
	return r, db
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestHandler_CreateAndGet(t *testing.T) {
	r, db := newTestRouter(t, access.NewActor(1, "root@hotel.test", true, true))
	guest := testfixtures.Guest(t, db)
	room := testfixtures.Room(t, db, nil, nil)

	w, env := do(t, r, http.MethodPost, "/api/bookings", gin.H{
		"guest":          guest.ID,
		"room":           room.ID,
		"check_in_date":  "2024-01-15",
		"check_out_date": "2024-01-18",
		"payment_method": "credit_card",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID         int64  `json:"id"`
		TotalPrice string `json:"total_price"`
		Payment    struct {
			Amount        string `json:"amount"`
			PaymentMethod string `json:"payment_method"`
		} `json:"payment"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "300.00", created.TotalPrice)
	assert.Equal(t, "300.00", created.Payment.Amount)
	assert.Equal(t, "credit_card", created.Payment.PaymentMethod)

	w, _ = do(t, r, http.MethodGet, "/api/bookings/"+strconv.FormatInt(created.ID, 10), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodPost, "/api/bookings", gin.H{
		"guest":          guest.ID,
		"room":           room.ID,
		"check_in_date":  "2024-01-20",
		"check_out_date": "2024-01-22",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, MsgRoomOccupied, env.Error.Details["room"])
}

func TestHandler_CreateValidation(t *testing.T) {
	r, _ := newTestRouter(t, access.NewActor(1, "root@hotel.test", true, true))

	w, env := do(t, r, http.MethodPost, "/api/bookings", gin.H{"guest": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Details, "room")
	assert.Contains(t, env.Error.Details, "check_in_date")

	w, env = do(t, r, http.MethodPost, "/api/bookings", gin.H{
		"guest":          1,
		"room":           1,
		"check_in_date":  "15/01/2024",
		"check_out_date": "2024-01-18",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, MsgDateFormat, env.Error.Details["check_in_date"])
	assert.Contains(t, env.Error.Details, "room", "unknown room is reported with the date")
	assert.Contains(t, env.Error.Details, "guest")
}

func TestHandler_CancelRestoreFlow(t *testing.T) {
	r, db := newTestRouter(t, access.NewActor(1, "root@hotel.test", true, true))
	room := testfixtures.Room(t, db, nil, nil)
	b := testfixtures.Booking(t, db, testfixtures.Guest(t, db), room,
		domain.NewDate(2024, 1, 15), domain.NewDate(2024, 1, 18))
	path := "/api/bookings/" + strconv.FormatInt(b.ID, 10)

	w, env := do(t, r, http.MethodPost, path+"/restore", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "NOT_DELETED", env.Error.Code)

	w, _ = do(t, r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, domain.RoomAvailable, roomStatus(t, db, room.ID))

	w, _ = do(t, r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/bookings/soft-delete", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodPost, path+"/restore", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodPost, path+"/reactivate", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.RoomOccupied, roomStatus(t, db, room.ID))

	w, _ = do(t, r, http.MethodDelete, path+"/hard-delete", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/bookings/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Report(t *testing.T) {
	r, _ := newTestRouter(t, access.NewActor(1, "clerk@hotel.test", false, false, "view_booking"))

	w, env := do(t, r, http.MethodGet, "/api/bookings/report?start_date=2024-01-01&end_date=2024-01-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rep struct {
		TotalBookings int    `json:"total_bookings"`
		TotalSum      string `json:"total_sum"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rep))
	assert.Equal(t, 0, rep.TotalBookings)
	assert.Equal(t, "0.00", rep.TotalSum)

	w, env = do(t, r, http.MethodGet, "/api/bookings/report?start_date=2024-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, MsgRequired, env.Error.Details["end_date"])
}

func TestHandler_Permissions(t *testing.T) {
	r, _ := newTestRouter(t, access.NewActor(2, "clerk@hotel.test", true, false, "view_booking", "delete_booking"))

	w, _ := do(t, r, http.MethodGet, "/api/bookings", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, r, http.MethodPost, "/api/bookings", gin.H{})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	w, _ = do(t, r, http.MethodGet, "/api/bookings/soft-delete", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/bookings/1/hard-delete", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/bookings/1/reactivate", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
