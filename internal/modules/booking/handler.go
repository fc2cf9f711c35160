package booking

import (
	"errors"
	"net/http"

	"hotel/internal/middleware"
	"hotel/internal/modules/access"
	"hotel/internal/pkg/response"
	"hotel/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the booking endpoints. rg must already run JWTAuth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	guard := func(op access.Operation) gin.HandlerFunc {
		return middleware.RequirePermission(access.ResourceBooking, op)
	}

	bookings := rg.Group("/bookings")
	{
		bookings.GET("", guard(access.OpList), h.ListBookings)
		bookings.POST("", guard(access.OpCreate), h.CreateBooking)
		bookings.GET("/report", guard(access.OpReport), h.Report)
		bookings.GET("/soft-delete", guard(access.OpListDeleted), h.ListDeletedBookings)
		bookings.GET("/:id", guard(access.OpRetrieve), h.GetBooking)
		bookings.DELETE("/:id", guard(access.OpDestroy), h.CancelBooking)
		bookings.POST("/:id/restore", guard(access.OpRestore), h.RestoreBooking)
		bookings.POST("/:id/reactivate", guard(access.OpReactivate), h.ReactivateBooking)
		bookings.DELETE("/:id/hard-delete", guard(access.OpHardDelete), h.HardDeleteBooking)
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validator.FromError(err))
		return
	}
	b, err := h.service.Create(c.Request.Context(), req.Input())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) ListBookings(c *gin.Context) {
	h.list(c, false)
}

func (h *Handler) ListDeletedBookings(c *gin.Context) {
	h.list(c, true)
}

func (h *Handler) list(c *gin.Context, deleted bool) {
	page := response.PageQuery(c)
	items, total, err := h.service.List(c.Request.Context(), deleted, page)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.List(c, items, total, page)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) HardDeleteBooking(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	if err := h.service.HardDelete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) RestoreBooking(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	b, err := h.service.Restore(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ReactivateBooking(c *gin.Context) {
	id, ok := response.PathID(c)
	if !ok {
		return
	}
	b, err := h.service.Reactivate(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Report(c *gin.Context) {
	start, end, err := ParseRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	rep, err := h.service.Report(c.Request.Context(), start, end)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, rep)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var fieldErrs validator.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		response.ValidationFailed(c, fieldErrs)
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "Booking not found")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Room occupancy changed, retry the request")
	case errors.Is(err, ErrNotDeleted):
		response.NotDeleted(c, "booking")
	default:
		response.Internal(c, err)
	}
}
