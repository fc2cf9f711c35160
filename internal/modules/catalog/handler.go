package catalog

import (
	"hotel/internal/domain"
	"hotel/internal/modules/access"
	"hotel/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type routes interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Handler mounts the descriptive resources: hotels, staff, guests, room
// types, rooms and payments.
type Handler struct {
	resources []routes
}

func NewHandler(db *gorm.DB, bookings BookingIndex) *Handler {
	hotels := repository.NewStore[domain.Hotel](db)
	roomTypes := repository.NewStore[domain.RoomType](db)

	return &Handler{resources: []routes{
		New(hotels, Config[domain.Hotel]{
			Resource: access.ResourceHotel,
			Path:     "/hotels",
		}),
		New(repository.NewStore[domain.Staff](db), Config[domain.Staff]{
			Resource: access.ResourceStaff,
			Path:     "/staff",
			Hooks:    staffHooks(hotels),
		}),
		New(repository.NewStore[domain.Guest](db), Config[domain.Guest]{
			Resource: access.ResourceGuest,
			Path:     "/guests",
		}),
		New(roomTypes, Config[domain.RoomType]{
			Resource: access.ResourceRoomType,
			Path:     "/room-types",
			Label:    "room type",
			Hooks:    roomTypeHooks(bookings),
		}),
		New(repository.NewStore[domain.Room](db), Config[domain.Room]{
			Resource: access.ResourceRoom,
			Path:     "/rooms",
			Hooks:    roomHooks(hotels, roomTypes, bookings),
		}),
		New(repository.NewStore[domain.Payment](db), Config[domain.Payment]{
			Resource:   access.ResourcePayment,
			Path:       "/payments",
			Hooks:      paymentHooks(),
			Operations: []access.Operation{access.OpList, access.OpRetrieve, access.OpUpdate},
		}),
	}}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	for _, r := range h.resources {
		r.RegisterRoutes(rg)
	}
}
