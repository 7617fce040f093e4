package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Active reports whether a booking with this status blocks its dates.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return BookingStatus(s), true
	}
	return "", false
}

type Booking struct {
	ID                int64
	Reference         string
	CarID             int64
	UserID            int64
	StartDate         Date
	EndDate           Date
	Status            BookingStatus
	TotalPrice        Money
	Currency          string
	InsuranceSelected bool
	// InsuranceFee is nil when insurance was not selected.
	InsuranceFee *Money
	CreatedAt    time.Time
}

// Covers reports whether d falls inside the booking's inclusive date range.
func (b Booking) Covers(d Date) bool {
	return !d.Before(b.StartDate) && !d.After(b.EndDate)
}

// Overlaps uses inclusive bounds on both ends.
func (b Booking) Overlaps(start, end Date) bool {
	return !b.StartDate.After(end) && !b.EndDate.Before(start)
}
