package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"hotel/internal/domain"
	"hotel/internal/pkg/validator"
	"hotel/internal/repository"
)

type options struct {
	publisher StatusPublisher
	now       func() time.Time
	loggerf   func(format string, args ...interface{})
}

type Option func(*options)

// WithPublisher sends committed room transitions to p.
func WithPublisher(p StatusPublisher) Option {
	return func(o *options) {
		if p != nil {
			o.publisher = p
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(loggerf func(format string, args ...interface{})) Option {
	return func(o *options) { o.loggerf = loggerf }
}

func newOptions(opts []Option) options {
	o := options{publisher: noopPublisher{}, now: time.Now, loggerf: log.Printf}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) today() domain.Date {
	return domain.DateOf(o.now())
}

type CreateInput struct {
	GuestID       int64
	RoomID        int64
	CheckInDate   domain.Date
	CheckOutDate  domain.Date
	PaymentMethod domain.PaymentMethod
	// Invalid holds errors found while decoding the request.
	Invalid validator.FieldErrors
}

// Service runs the booking lifecycle. Every operation that touches room
// occupancy locks the room row inside a single transaction.
type Service struct {
	options
	store Store
}

func NewService(store Store, opts ...Option) *Service {
	return &Service{options: newOptions(opts), store: store}
}

// Create validates, prices and stores a booking, occupies its room and
// records the payment, all in one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Booking, error) {
	method := in.PaymentMethod
	if method == "" {
		method = domain.PaymentCash
	}

	now := s.now()
	var (
		created *domain.Booking
		changed domain.Room
	)
	err := s.store.InTx(ctx, func(tx Store) error {
		errs := validator.FieldErrors{}
		for field, msg := range in.Invalid {
			errs.Add(field, msg)
		}
		if !method.Valid() {
			errs.Add("payment_method", "\"" + string(method) + "\" is not a valid choice.")
		}

		room, err := tx.LockRoom(ctx, in.RoomID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			errs.Add("room", msgInvalidPK(in.RoomID))
			room = nil
		case err != nil:
			return err
		}

		ok, err := tx.GuestExists(ctx, in.GuestID)
		if err != nil {
			return err
		}
		if !ok {
			errs.Add("guest", msgInvalidPK(in.GuestID))
		}

		proposal := Proposal{RoomID: in.RoomID, CheckInDate: in.CheckInDate, CheckOutDate: in.CheckOutDate}
		for field, msg := range Validate(proposal, room, domain.DateOf(now)) {
			errs.Add(field, msg)
		}
		if len(errs) > 0 {
			return errs
		}

		price := Price(in.CheckInDate, in.CheckOutDate, room.RoomType.PricePerNight)
		b := &domain.Booking{
			GuestID:      in.GuestID,
			RoomID:       in.RoomID,
			CheckInDate:  in.CheckInDate,
			CheckOutDate: in.CheckOutDate,
			TotalPrice:   price,
		}
		if err := tx.CreateBooking(ctx, b); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrConflict
			}
			return err
		}

		ok, err = tx.SetRoomStatus(ctx, room.ID, domain.RoomAvailable, domain.RoomOccupied)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConflict
		}

		p := &domain.Payment{
			BookingID:     b.ID,
			Amount:        price,
			PaymentDate:   now,
			PaymentMethod: method,
		}
		if err := tx.CreatePayment(ctx, p); err != nil {
			return err
		}

		b.Payment = p
		created = b
		changed = *room
		changed.Status = domain.RoomOccupied
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishRoomStatus(changed)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *Service) List(ctx context.Context, deleted bool, page repository.Page) ([]domain.Booking, int64, error) {
	return s.store.ListBookings(ctx, deleted, page)
}

// Cancel soft-deletes the booking with its payment and frees the room.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	var freed *domain.Room
	err := s.store.InTx(ctx, func(tx Store) error {
		b, err := tx.GetBooking(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		freed, err = releaseRoom(ctx, tx, b, s.now())
		if err != nil {
			return err
		}
		return tx.SoftDeleteBooking(ctx, b.ID)
	})
	if err != nil {
		return err
	}

	if freed != nil {
		s.publisher.PublishRoomStatus(*freed)
	}
	return nil
}

// HardDelete removes a booking, live or soft-deleted, and frees its room.
func (s *Service) HardDelete(ctx context.Context, id int64) error {
	var freed *domain.Room
	err := s.store.InTx(ctx, func(tx Store) error {
		b, err := tx.GetBookingUnscoped(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		freed, err = releaseRoom(ctx, tx, b, s.now())
		if err != nil {
			return err
		}
		return tx.HardDeleteBooking(ctx, b.ID)
	})
	if err != nil {
		return err
	}

	if freed != nil {
		s.publisher.PublishRoomStatus(*freed)
	}
	return nil
}

// Restore un-deletes a booking and its payment. The booking stays released;
// use Reactivate to occupy the room again.
func (s *Service) Restore(ctx context.Context, id int64) (*domain.Booking, error) {
	var restored *domain.Booking
	err := s.store.InTx(ctx, func(tx Store) error {
		b, err := tx.GetBookingUnscoped(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if !b.DeletedAt.Valid {
			return ErrNotDeleted
		}

		if err := tx.RestoreBooking(ctx, b.ID); err != nil {
			return err
		}
		restored, err = tx.GetBooking(ctx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// Reactivate makes a released booking hold its room again. The stored price
// is kept.
func (s *Service) Reactivate(ctx context.Context, id int64) (*domain.Booking, error) {
	var (
		reactivated *domain.Booking
		changed     domain.Room
	)
	err := s.store.InTx(ctx, func(tx Store) error {
		b, err := tx.GetBooking(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if b.ReleasedAt == nil {
			return validator.FieldErrors{"booking": MsgAlreadyActive}
		}

		errs := validator.FieldErrors{}
		room, err := tx.LockRoom(ctx, b.RoomID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			errs.Add("room", msgInvalidPK(b.RoomID))
		case err != nil:
			return err
		case room.IsOccupied():
			errs.Add("room", MsgRoomOccupied)
		}
		if !b.CheckOutDate.After(s.today()) {
			errs.Add("check_out_date", MsgCheckOutPassed)
		}
		if len(errs) > 0 {
			return errs
		}

		if err := tx.ClearReleased(ctx, b.ID); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrConflict
			}
			return err
		}
		ok, err := tx.SetRoomStatus(ctx, room.ID, domain.RoomAvailable, domain.RoomOccupied)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConflict
		}

		b.ReleasedAt = nil
		reactivated = b
		changed = *room
		changed.Status = domain.RoomOccupied
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishRoomStatus(changed)
	return reactivated, nil
}

// releaseRoom marks b released and frees its room unless another active
// booking holds it. It returns the room when its status changed. Must run
// inside a transaction.
func releaseRoom(ctx context.Context, tx Store, b *domain.Booking, at time.Time) (*domain.Room, error) {
	room, err := tx.LockRoom(ctx, b.RoomID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if b.ReleasedAt == nil {
		if err := tx.MarkReleased(ctx, b.ID, at); err != nil {
			return nil, err
		}
		b.ReleasedAt = &at
	}

	if room == nil || !room.IsOccupied() {
		return nil, nil
	}

	busy, err := tx.HasActiveBooking(ctx, room.ID, b.ID)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, nil
	}

	ok, err := tx.SetRoomStatus(ctx, room.ID, domain.RoomOccupied, domain.RoomAvailable)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	room.Status = domain.RoomAvailable
	return room, nil
}
