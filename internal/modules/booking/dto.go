package booking

import (
	"strings"

	"hotel/internal/domain"
	"hotel/internal/pkg/validator"
)

// CreateBookingRequest carries dates as strings so a bad date is reported
// against its own field.
type CreateBookingRequest struct {
	GuestID       int64                `json:"guest" binding:"required"`
	RoomID        int64                `json:"room" binding:"required"`
	CheckInDate   string               `json:"check_in_date" binding:"required"`
	CheckOutDate  string               `json:"check_out_date" binding:"required"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

// Input converts the request. Date format errors travel with the input so
// Create reports them together with every other broken rule.
func (r CreateBookingRequest) Input() CreateInput {
	errs := validator.FieldErrors{}
	return CreateInput{
		GuestID:       r.GuestID,
		RoomID:        r.RoomID,
		CheckInDate:   parseDateField(errs, "check_in_date", r.CheckInDate),
		CheckOutDate:  parseDateField(errs, "check_out_date", r.CheckOutDate),
		PaymentMethod: r.PaymentMethod,
		Invalid:       errs,
	}
}

func parseDateField(errs validator.FieldErrors, field, raw string) domain.Date {
	d, err := domain.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		errs.Add(field, MsgDateFormat)
	}
	return d
}
