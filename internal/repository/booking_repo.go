package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel/internal/domain"
)

// BookingRepository owns the booking, payment and room-status tables for the
// booking lifecycle. Use Transaction to run several calls atomically.
type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Transaction runs fn with a repository bound to a single DB transaction.
func (r *BookingRepository) Transaction(ctx context.Context, fn func(tx *BookingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingRepository{db: tx})
	})
}

// LockRoom reads the room with its type and holds a row lock until the
// surrounding transaction ends. SQLite ignores the locking clause.
func (r *BookingRepository) LockRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", roomID).
		First(&room).Error
	if err != nil {
		return nil, translate(err)
	}

	var rt domain.RoomType
	if err := r.db.WithContext(ctx).Unscoped().Where("id = ?", room.RoomTypeID).First(&rt).Error; err != nil {
		return nil, translate(err)
	}
	room.RoomType = &rt
	return &room, nil
}

func (r *BookingRepository) GuestExists(ctx context.Context, guestID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Guest{}).Where("id = ?", guestID).Count(&n).Error
	return n > 0, err
}

// SetRoomStatus moves a room from one status to another and reports whether
// the row was in the expected state.
func (r *BookingRepository) SetRoomStatus(ctx context.Context, roomID int64, from, to domain.RoomStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ? AND status = ?", roomID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// HasActiveBooking reports whether any booking other than excludeID still holds the room.
func (r *BookingRepository) HasActiveBooking(ctx context.Context, roomID, excludeID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("room_id = ? AND id <> ? AND released_at IS NULL", roomID, excludeID).
		Count(&n).Error
	return n > 0, err
}

func (r *BookingRepository) CreateBooking(ctx context.Context, b *domain.Booking) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error)
}

func (r *BookingRepository) CreatePayment(ctx context.Context, p *domain.Payment) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *BookingRepository) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Preload("Payment").Where("id = ?", id).First(&b).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// GetBookingUnscoped also returns soft-deleted bookings, with their payment.
func (r *BookingRepository) GetBookingUnscoped(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Unscoped().
		Preload("Payment", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("id = ?", id).
		First(&b).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *BookingRepository) ListBookings(ctx context.Context, deleted bool, page Page) ([]domain.Booking, int64, error) {
	page = page.Normalize()

	scope := func(q *gorm.DB) *gorm.DB {
		if deleted {
			return q.Unscoped().Where("deleted_at IS NOT NULL")
		}
		return q
	}

	var total int64
	if err := scope(r.db.WithContext(ctx).Model(&domain.Booking{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]domain.Booking, 0)
	err := scope(r.db.WithContext(ctx).Model(&domain.Booking{})).
		Preload("Payment", func(db *gorm.DB) *gorm.DB { return scope(db) }).
		Order("id").Limit(page.Limit).Offset(page.Offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *BookingRepository) MarkReleased(ctx context.Context, bookingID int64, at time.Time) error {
	return r.db.WithContext(ctx).Unscoped().Model(&domain.Booking{}).
		Where("id = ? AND released_at IS NULL", bookingID).
		Update("released_at", at).Error
}

func (r *BookingRepository) ClearReleased(ctx context.Context, bookingID int64) error {
	return translate(r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", bookingID).
		Update("released_at", nil).Error)
}

// SoftDeleteBooking soft-deletes the booking together with its payment.
func (r *BookingRepository) SoftDeleteBooking(ctx context.Context, bookingID int64) error {
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Delete(&domain.Payment{}).Error; err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Where("id = ?", bookingID).Delete(&domain.Booking{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RestoreBooking un-deletes the booking and its payment. Occupancy is untouched.
func (r *BookingRepository) RestoreBooking(ctx context.Context, bookingID int64) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&domain.Booking{}).
		Where("id = ? AND deleted_at IS NOT NULL", bookingID).
		Update("deleted_at", nil)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotDeleted
	}
	return r.db.WithContext(ctx).Unscoped().Model(&domain.Payment{}).
		Where("booking_id = ? AND deleted_at IS NOT NULL", bookingID).
		Update("deleted_at", nil).Error
}

func (r *BookingRepository) HardDeleteBooking(ctx context.Context, bookingID int64) error {
	if err := r.db.WithContext(ctx).Unscoped().Where("booking_id = ?", bookingID).Delete(&domain.Payment{}).Error; err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Unscoped().Where("id = ?", bookingID).Delete(&domain.Booking{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListExpired returns live, unreleased bookings whose checkout day is before today.
func (r *BookingRepository) ListExpired(ctx context.Context, today domain.Date) ([]domain.Booking, error) {
	items := make([]domain.Booking, 0)
	err := r.db.WithContext(ctx).
		Where("released_at IS NULL AND check_out_date < ?", today).
		Order("check_out_date, id").
		Find(&items).Error
	return items, err
}

// ListInRange returns live bookings with check in on or after start and check
// out on or before end, with guest and room loaded for reporting.
func (r *BookingRepository) ListInRange(ctx context.Context, start, end domain.Date) ([]domain.Booking, error) {
	items := make([]domain.Booking, 0)
	err := r.db.WithContext(ctx).
		Preload("Guest", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Room", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("check_in_date >= ? AND check_out_date <= ?", start, end).
		Order("check_in_date, id").
		Find(&items).Error
	return items, err
}

func (r *BookingRepository) RoomHasActiveBooking(ctx context.Context, roomID int64) (bool, error) {
	return r.HasActiveBooking(ctx, roomID, 0)
}

// RoomTypeInUse reports whether any booking, live or deleted, was priced against the room type.
func (r *BookingRepository) RoomTypeInUse(ctx context.Context, roomTypeID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().Model(&domain.Booking{}).
		Joins("JOIN rooms ON rooms.id = bookings.room_id").
		Where("rooms.room_type_id = ?", roomTypeID).
		Count(&n).Error
	return n > 0, err
}
