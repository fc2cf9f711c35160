package booking

import (
	"context"
	"time"

	"hotel/internal/domain"
	"hotel/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockStore runs InTx callbacks against itself.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return fn(m)
}

func (m *MockStore) LockRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockStore) GuestExists(ctx context.Context, guestID int64) (bool, error) {
	args := m.Called(ctx, guestID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) SetRoomStatus(ctx context.Context, roomID int64, from, to domain.RoomStatus) (bool, error) {
	args := m.Called(ctx, roomID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) HasActiveBooking(ctx context.Context, roomID, excludeID int64) (bool, error) {
	args := m.Called(ctx, roomID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) CreateBooking(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockStore) CreatePayment(ctx context.Context, p *domain.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockStore) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockStore) GetBookingUnscoped(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockStore) ListBookings(ctx context.Context, deleted bool, page repository.Page) ([]domain.Booking, int64, error) {
	args := m.Called(ctx, deleted, page)
	return args.Get(0).([]domain.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockStore) MarkReleased(ctx context.Context, bookingID int64, at time.Time) error {
	return m.Called(ctx, bookingID, at).Error(0)
}

func (m *MockStore) ClearReleased(ctx context.Context, bookingID int64) error {
	return m.Called(ctx, bookingID).Error(0)
}

func (m *MockStore) SoftDeleteBooking(ctx context.Context, bookingID int64) error {
	return m.Called(ctx, bookingID).Error(0)
}

func (m *MockStore) RestoreBooking(ctx context.Context, bookingID int64) error {
	return m.Called(ctx, bookingID).Error(0)
}

func (m *MockStore) HardDeleteBooking(ctx context.Context, bookingID int64) error {
	return m.Called(ctx, bookingID).Error(0)
}

func (m *MockStore) ListExpired(ctx context.Context, today domain.Date) ([]domain.Booking, error) {
	args := m.Called(ctx, today)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockStore) ListInRange(ctx context.Context, start, end domain.Date) ([]domain.Booking, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
