package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("booking not found")
	// ErrConflict means another request changed the room first. Retrying may succeed.
	ErrConflict   = errors.New("room occupancy changed concurrently")
	ErrNotDeleted = errors.New("booking is not deleted")
)

const (
	MsgRoomOccupied   = "The room is currently occupied and cannot be booked."
	MsgCheckInPast    = "Check-in date cannot be in the past."
	MsgCheckOutOrder  = "Check-out date must be after check-in date."
	MsgCheckOutPassed = "Check-out date has already passed."
	MsgAlreadyActive  = "Booking is already active."
	MsgRequired       = "This field is required."
	MsgDateFormat     = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	MsgRangeOrder     = "start_date must be on or before end_date."
)

func msgInvalidPK(id int64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}
