package booking

import (
	"context"
	"strings"

	"hotel/internal/domain"
	"hotel/internal/pkg/validator"
)

type ReportRow struct {
	ID           int64        `json:"id"`
	GuestID      int64        `json:"guest"`
	GuestName    string       `json:"guest_name"`
	RoomID       int64        `json:"room"`
	RoomNumber   string       `json:"room_number"`
	CheckInDate  domain.Date  `json:"check_in_date"`
	CheckOutDate domain.Date  `json:"check_out_date"`
	Nights       int          `json:"nights"`
	TotalPrice   domain.Money `json:"total_price"`
}

type Report struct {
	StartDate     domain.Date  `json:"start_date"`
	EndDate       domain.Date  `json:"end_date"`
	Bookings      []ReportRow  `json:"bookings"`
	TotalBookings int          `json:"total_bookings"`
	TotalSum      domain.Money `json:"total_sum"`
}

// ParseRange reads the report bounds from their query-string form.
func ParseRange(rawStart, rawEnd string) (domain.Date, domain.Date, error) {
	errs := validator.FieldErrors{}
	start := parseBound(errs, "start_date", rawStart)
	end := parseBound(errs, "end_date", rawEnd)
	if len(errs) == 0 && start.After(end) {
		errs.Add("start_date", MsgRangeOrder)
	}
	if len(errs) > 0 {
		return domain.Date{}, domain.Date{}, errs
	}
	return start, end, nil
}

func parseBound(errs validator.FieldErrors, field, raw string) domain.Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs.Add(field, MsgRequired)
		return domain.Date{}
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		errs.Add(field, MsgDateFormat)
		return domain.Date{}
	}
	return d
}

// Report lists live bookings that fall entirely inside [start, end] with
// their count and summed price.
func (s *Service) Report(ctx context.Context, start, end domain.Date) (*Report, error) {
	if start.After(end) {
		return nil, validator.FieldErrors{"start_date": MsgRangeOrder}
	}

	bookings, err := s.store.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		StartDate: start,
		EndDate:   end,
		Bookings:  make([]ReportRow, 0, len(bookings)),
		TotalSum:  domain.MoneyFromInt(0),
	}
	for _, b := range bookings {
		row := ReportRow{
			ID:           b.ID,
			GuestID:      b.GuestID,
			RoomID:       b.RoomID,
			CheckInDate:  b.CheckInDate,
			CheckOutDate: b.CheckOutDate,
			Nights:       b.Nights(),
			TotalPrice:   b.TotalPrice,
		}
		if b.Guest != nil {
			row.GuestName = b.Guest.FullName()
		}
		if b.Room != nil {
			row.RoomNumber = b.Room.RoomNumber
		}
		rep.Bookings = append(rep.Bookings, row)
		rep.TotalSum = rep.TotalSum.Plus(b.TotalPrice)
	}
	rep.TotalBookings = len(rep.Bookings)
	return rep, nil
}
