package domain

import "time"

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentBankTransfer:
		return true
	}
	return false
}

// Booking holds a room for a guest between two dates. ReleasedAt is set once
// the booking stops holding its room (cancelled or checked out); an active
// booking has neither ReleasedAt nor DeletedAt.
type Booking struct {
	Model
	GuestID      int64      `json:"guest" gorm:"not null;index"`
	RoomID       int64      `json:"room" gorm:"not null;index"`
	CheckInDate  Date       `json:"check_in_date" gorm:"not null;index"`
	CheckOutDate Date       `json:"check_out_date" gorm:"not null;index"`
	TotalPrice   Money      `json:"total_price" gorm:"type:numeric(9,2);not null"`
	ReleasedAt   *time.Time `json:"released_at"`

	Guest   *Guest   `json:"-" gorm:"foreignKey:GuestID"`
	Room    *Room    `json:"-" gorm:"foreignKey:RoomID"`
	Payment *Payment `json:"payment,omitempty" gorm:"foreignKey:BookingID"`
}

func (b *Booking) Nights() int {
	return b.CheckInDate.DaysUntil(b.CheckOutDate)
}

func (b *Booking) IsActive() bool {
	return b.ReleasedAt == nil && !b.DeletedAt.Valid
}

type Payment struct {
	Model
	BookingID     int64         `json:"booking" gorm:"not null;index"`
	Amount        Money         `json:"amount" gorm:"type:numeric(9,2);not null"`
	PaymentDate   time.Time     `json:"payment_date" gorm:"not null"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"size:20;not null;default:cash" binding:"omitempty,oneof=cash credit_card debit_card bank_transfer"`
}
