package domain

import "errors"

var (
	ErrInvalidDateRange     = errors.New("end date cannot be before start date")
	ErrPastStartDate        = errors.New("start date cannot be in the past")
	ErrDateRangeUnavailable = errors.New("selected dates overlap with an existing booking")
	ErrCarNotFound          = errors.New("car not found")
	ErrCarUnavailable       = errors.New("car is not available for booking")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidPrice         = errors.New("price must be positive")
	ErrAmountOverflow       = errors.New("amount out of range")
	ErrInvalidListing       = errors.New("invalid car listing")
	// ErrTransient marks failures the caller may retry, such as a lost
	// serialization race on the bookings table.
	ErrTransient = errors.New("temporary failure, please retry")
)
