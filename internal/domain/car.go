package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxPricePerDay is 999999.99, the largest daily price a listing can carry.
const MaxPricePerDay Money = 99999999

var (
	carTypes      = map[string]bool{"sedan": true, "suv": true, "hatch": true, "van": true}
	transmissions = map[string]bool{"AUTO": true, "MANUAL": true}
)

type Car struct {
	ID              int64
	DealerID        int64
	Title           string
	CarType         string
	Make            string
	Model           string
	Year            int
	Transmission    string
	Seats           int
	Description     string
	PricePerDay     Money
	Currency        string
	Available       bool
	LocationCity    string
	LocationCountry string
	CreatedAt       time.Time
}

// ValidatePrice accepts positive daily prices up to MaxPricePerDay.
func ValidatePrice(price Money) error {
	if price <= 0 {
		return ErrInvalidPrice
	}
	if price > MaxPricePerDay {
		return fmt.Errorf("%w: at most %s", ErrInvalidPrice, MaxPricePerDay)
	}
	return nil
}

// Validate checks a listing before it is stored.
func (c Car) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidListing)
	}
	if err := ValidatePrice(c.PricePerDay); err != nil {
		return err
	}
	if !carTypes[c.CarType] {
		return fmt.Errorf("%w: unknown car type %q", ErrInvalidListing, c.CarType)
	}
	if !transmissions[c.Transmission] {
		return fmt.Errorf("%w: unknown transmission %q", ErrInvalidListing, c.Transmission)
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidListing)
	}
	if c.Year < 0 || c.Year > 32767 || c.Seats < 0 || c.Seats > 32767 {
		return fmt.Errorf("%w: year and seats must be small positive numbers", ErrInvalidListing)
	}
	return nil
}

// CarPatch holds dealer edits to a listing. Nil fields are left unchanged.
type CarPatch struct {
	Title           *string
	CarType         *string
	Make            *string
	Model           *string
	Year            *int
	Transmission    *string
	Seats           *int
	Description     *string
	PricePerDay     *Money
	Currency        *string
	Available       *bool
	LocationCity    *string
	LocationCountry *string
}

func (p CarPatch) Apply(c *Car) {
	setIf(&c.Title, p.Title)
	setIf(&c.CarType, p.CarType)
	setIf(&c.Make, p.Make)
	setIf(&c.Model, p.Model)
	setIf(&c.Year, p.Year)
	setIf(&c.Transmission, p.Transmission)
	setIf(&c.Seats, p.Seats)
	setIf(&c.Description, p.Description)
	setIf(&c.PricePerDay, p.PricePerDay)
	setIf(&c.Currency, p.Currency)
	setIf(&c.Available, p.Available)
	setIf(&c.LocationCity, p.LocationCity)
	setIf(&c.LocationCountry, p.LocationCountry)
}

// NewCar builds a listing for a dealer from the patch, filling the same
// defaults the cars table uses.
func NewCar(dealerID int64, p CarPatch) Car {
	c := Car{
		DealerID:     dealerID,
		CarType:      "sedan",
		Transmission: "AUTO",
		Currency:     "USD",
		Available:    true,
	}
	p.Apply(&c)
	return c
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// CarStats holds the confirmed booking aggregates shown on the dealer dashboard.
type CarStats struct {
	ConfirmedBookings int
	ConfirmedRevenue  Money
}

type Favorite struct {
	UserID    int64
	CarID     int64
	CreatedAt time.Time
}
