package catalog

import (
	"context"
	"fmt"

	"hotel/internal/domain"
	"hotel/internal/pkg/validator"
	"hotel/internal/repository"
)

const (
	MsgNegativePrice = "Ensure this value is greater than or equal to 0."
	MsgPriceLocked   = "Price cannot change once rooms of this type have been booked."
)

// BookingIndex answers the booking questions the room rules depend on.
type BookingIndex interface {
	RoomHasActiveBooking(ctx context.Context, roomID int64) (bool, error)
	RoomTypeInUse(ctx context.Context, roomTypeID int64) (bool, error)
}

func msgInvalidPK(id int64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// mustExist records a field error when id does not name a live row.
func mustExist[T any](ctx context.Context, store *repository.Store[T], errs validator.FieldErrors, field string, id int64) error {
	ok, err := store.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		errs.Add(field, msgInvalidPK(id))
	}
	return nil
}

func staffHooks(hotels *repository.Store[domain.Hotel]) Hooks[domain.Staff] {
	return Hooks[domain.Staff]{
		Prepare: func(ctx context.Context, _, s *domain.Staff) error {
			errs := validator.FieldErrors{}
			if err := mustExist(ctx, hotels, errs, "hotel", s.HotelID); err != nil {
				return err
			}
			return errs.OrNil()
		},
	}
}

func roomTypeHooks(bookings BookingIndex) Hooks[domain.RoomType] {
	return Hooks[domain.RoomType]{
		Prepare: func(ctx context.Context, old, rt *domain.RoomType) error {
			if rt.PricePerNight.IsNegative() {
				return validator.FieldErrors{"price_per_night": MsgNegativePrice}
			}
			if old == nil || old.PricePerNight.EqualAmount(rt.PricePerNight) {
				return nil
			}
			used, err := bookings.RoomTypeInUse(ctx, old.ID)
			if err != nil {
				return err
			}
			if used {
				return validator.FieldErrors{"price_per_night": MsgPriceLocked}
			}
			return nil
		},
	}
}

// roomHooks keep status out of client hands: the booking lifecycle owns it.
func roomHooks(hotels *repository.Store[domain.Hotel], roomTypes *repository.Store[domain.RoomType], bookings BookingIndex) Hooks[domain.Room] {
	return Hooks[domain.Room]{
		Prepare: func(ctx context.Context, old, r *domain.Room) error {
			if old == nil {
				r.Status = domain.RoomAvailable
			} else {
				r.Status = old.Status
			}

			errs := validator.FieldErrors{}
			if err := mustExist(ctx, hotels, errs, "hotel", r.HotelID); err != nil {
				return err
			}
			if err := mustExist(ctx, roomTypes, errs, "room_type", r.RoomTypeID); err != nil {
				return err
			}
			return errs.OrNil()
		},
		BeforeDelete: func(ctx context.Context, id int64) error {
			busy, err := bookings.RoomHasActiveBooking(ctx, id)
			if err != nil {
				return err
			}
			if busy {
				return fmt.Errorf("room %d has an active booking: %w", id, ErrInUse)
			}
			return nil
		},
	}
}

// paymentHooks pin the amount and booking; only method and date may change.
func paymentHooks() Hooks[domain.Payment] {
	return Hooks[domain.Payment]{
		Prepare: func(_ context.Context, old, p *domain.Payment) error {
			if old != nil {
				p.Amount = old.Amount
				p.BookingID = old.BookingID
			}
			if p.PaymentMethod == "" {
				p.PaymentMethod = domain.PaymentCash
			}
			if p.PaymentDate.IsZero() {
				return validator.FieldErrors{"payment_date": "This field may not be null."}
			}
			return nil
		},
	}
}
