package booking

import "hotel/internal/domain"

// Nights is the number of whole nights between check in and check out.
func Nights(checkIn, checkOut domain.Date) int {
	return checkIn.DaysUntil(checkOut)
}

// Price is nights × nightly rate. Callers guarantee checkOut is after checkIn.
func Price(checkIn, checkOut domain.Date, rate domain.Money) domain.Money {
	return rate.Times(Nights(checkIn, checkOut))
}
