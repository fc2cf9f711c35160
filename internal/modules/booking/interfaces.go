package booking

import (
	"context"
	"time"

	"hotel/internal/domain"
	"hotel/internal/repository"
)

// Store is the persistence the lifecycle needs. InTx hands fn a Store whose
// calls all run in one transaction.
type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	LockRoom(ctx context.Context, roomID int64) (*domain.Room, error)
	GuestExists(ctx context.Context, guestID int64) (bool, error)
	SetRoomStatus(ctx context.Context, roomID int64, from, to domain.RoomStatus) (bool, error)
	HasActiveBooking(ctx context.Context, roomID, excludeID int64) (bool, error)

	CreateBooking(ctx context.Context, b *domain.Booking) error
	CreatePayment(ctx context.Context, p *domain.Payment) error
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	GetBookingUnscoped(ctx context.Context, id int64) (*domain.Booking, error)
	ListBookings(ctx context.Context, deleted bool, page repository.Page) ([]domain.Booking, int64, error)

	MarkReleased(ctx context.Context, bookingID int64, at time.Time) error
	ClearReleased(ctx context.Context, bookingID int64) error
	SoftDeleteBooking(ctx context.Context, bookingID int64) error
	RestoreBooking(ctx context.Context, bookingID int64) error
	HardDeleteBooking(ctx context.Context, bookingID int64) error

	ListExpired(ctx context.Context, today domain.Date) ([]domain.Booking, error)
	ListInRange(ctx context.Context, start, end domain.Date) ([]domain.Booking, error)
}

// StatusPublisher is told about every committed room status change.
type StatusPublisher interface {
	PublishRoomStatus(room domain.Room)
}

type gormStore struct {
	*repository.BookingRepository
}

// NewStore adapts the GORM booking repository to Store.
func NewStore(repo *repository.BookingRepository) Store {
	return gormStore{BookingRepository: repo}
}

func (s gormStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.Transaction(ctx, func(tx *repository.BookingRepository) error {
		return fn(gormStore{BookingRepository: tx})
	})
}

type noopPublisher struct{}

func (noopPublisher) PublishRoomStatus(domain.Room) {}
