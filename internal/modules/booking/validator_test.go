package booking

import (
	"testing"
	"time"

	"hotel/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	today := domain.NewDate(2024, time.January, 10)
	available := &domain.Room{Status: domain.RoomAvailable}
	occupied := &domain.Room{Status: domain.RoomOccupied}

	tests := []struct {
		name     string
		checkIn  domain.Date
		checkOut domain.Date
		room     *domain.Room
		want     map[string]string
	}{
		{
			name:     "valid",
			checkIn:  domain.NewDate(2024, time.January, 15),
			checkOut: domain.NewDate(2024, time.January, 18),
			room:     available,
		},
		{
			name:     "check in today is allowed",
			checkIn:  today,
			checkOut: today.AddDays(1),
			room:     available,
		},
		{
			name:     "check out equal to check in",
			checkIn:  domain.NewDate(2024, time.January, 15),
			checkOut: domain.NewDate(2024, time.January, 15),
			room:     available,
			want:     map[string]string{"check_out_date": MsgCheckOutOrder},
		},
		{
			name:     "check in in the past",
			checkIn:  domain.NewDate(2024, time.January, 9),
			checkOut: domain.NewDate(2024, time.January, 12),
			room:     available,
			want:     map[string]string{"check_in_date": MsgCheckInPast},
		},
		{
			name:     "occupied room",
			checkIn:  domain.NewDate(2024, time.January, 15),
			checkOut: domain.NewDate(2024, time.January, 18),
			room:     occupied,
			want:     map[string]string{"room": MsgRoomOccupied},
		},
		{
			name:     "every rule reported at once",
			checkIn:  domain.NewDate(2024, time.January, 5),
			checkOut: domain.NewDate(2024, time.January, 4),
			room:     occupied,
			want: map[string]string{
				"check_out_date": MsgCheckOutOrder,
				"check_in_date":  MsgCheckInPast,
				"room":           MsgRoomOccupied,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(Proposal{RoomID: 1, CheckInDate: tt.checkIn, CheckOutDate: tt.checkOut}, tt.room, today)
			if tt.want == nil {
				assert.Nil(t, errs)
				return
			}
			assert.Equal(t, tt.want, map[string]string(errs))
		})
	}
}
