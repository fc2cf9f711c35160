package booking

import (
	"hotel/internal/domain"
	"hotel/internal/pkg/validator"
)

// Proposal is a booking that has not been accepted yet.
type Proposal struct {
	RoomID       int64
	CheckInDate  domain.Date
	CheckOutDate domain.Date
}

// Validate checks the dates against today and the room's occupancy. Every
// broken rule is reported, keyed by field.
func Validate(p Proposal, room *domain.Room, today domain.Date) validator.FieldErrors {
	errs := validator.FieldErrors{}

	if !p.CheckOutDate.After(p.CheckInDate) {
		errs.Add("check_out_date", MsgCheckOutOrder)
	}
	if p.CheckInDate.Before(today) {
		errs.Add("check_in_date", MsgCheckInPast)
	}
	if room != nil && room.IsOccupied() {
		errs.Add("room", MsgRoomOccupied)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
