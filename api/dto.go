package api

import (
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/service/scheduler"
)

type carResponse struct {
	ID              int64        `json:"id"`
	DealerID        int64        `json:"dealer_id"`
	Title           string       `json:"title"`
	CarType         string       `json:"car_type"`
	Make            string       `json:"make"`
	Model           string       `json:"model"`
	Year            int          `json:"year,omitempty"`
	Transmission    string       `json:"transmission"`
	Seats           int          `json:"seats,omitempty"`
	Description     string       `json:"description"`
	PricePerDay     domain.Money `json:"price_per_day"`
	Currency        string       `json:"currency"`
	Available       bool         `json:"available"`
	LocationCity    string       `json:"location_city"`
	LocationCountry string       `json:"location_country"`
	CreatedAt       string       `json:"created_at"`
}

type bookingResponse struct {
	ID                int64         `json:"id"`
	Reference         string        `json:"reference"`
	CarID             int64         `json:"car_id"`
	UserID            int64         `json:"user_id"`
	StartDate         domain.Date   `json:"start_date"`
	EndDate           domain.Date   `json:"end_date"`
	Status            string        `json:"status"`
	TotalPrice        domain.Money  `json:"total_price"`
	Currency          string        `json:"currency"`
	InsuranceSelected bool          `json:"insurance_selected"`
	InsuranceFee      *domain.Money `json:"insurance_fee"`
	CreatedAt         string        `json:"created_at"`
}

type scheduleResponse struct {
	CurrentBooking   *bookingResponse      `json:"current_booking"`
	NextBooking      *bookingResponse      `json:"next_booking"`
	UpcomingBookings []bookingResponse     `json:"upcoming_bookings"`
	CalendarMonths   []scheduler.MonthGrid `json:"calendar_months"`
}

type carDetailResponse struct {
	carResponse
	scheduleResponse
}

type dealerCarResponse struct {
	carResponse
	scheduleResponse
	ConfirmedBookings int          `json:"confirmed_bookings"`
	ConfirmedRevenue  domain.Money `json:"confirmed_revenue"`
}

type dealerResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Active bool   `json:"active"`
}

type metricsResponse struct {
	BookingsCount int          `json:"bookings_count"`
	Revenue       domain.Money `json:"revenue"`
	Pending       int          `json:"pending"`
}

type dashboardResponse struct {
	Dealer          dealerResponse      `json:"dealer"`
	Cars            []dealerCarResponse `json:"cars"`
	Metrics         metricsResponse     `json:"metrics"`
	MonthStart      domain.Date         `json:"month_start"`
	PendingBookings []bookingResponse   `json:"pending_bookings"`
	MonthBookings   []bookingResponse   `json:"month_bookings"`
}

type carBookingsResponse struct {
	Car      carDetailResponse `json:"car"`
	Bookings []bookingResponse `json:"bookings"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toCarResponse(car domain.Car) carResponse {
	return carResponse{
		ID:              car.ID,
		DealerID:        car.DealerID,
		Title:           car.Title,
		CarType:         car.CarType,
		Make:            car.Make,
		Model:           car.Model,
		Year:            car.Year,
		Transmission:    car.Transmission,
		Seats:           car.Seats,
		Description:     car.Description,
		PricePerDay:     car.PricePerDay,
		Currency:        car.Currency,
		Available:       car.Available,
		LocationCity:    car.LocationCity,
		LocationCountry: car.LocationCountry,
		CreatedAt:       formatTime(car.CreatedAt),
	}
}

func toCarResponses(cars []domain.Car) []carResponse {
	out := make([]carResponse, 0, len(cars))
	for _, car := range cars {
		out = append(out, toCarResponse(car))
	}
	return out
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:                b.ID,
		Reference:         b.Reference,
		CarID:             b.CarID,
		UserID:            b.UserID,
		StartDate:         b.StartDate,
		EndDate:           b.EndDate,
		Status:            string(b.Status),
		TotalPrice:        b.TotalPrice,
		Currency:          b.Currency,
		InsuranceSelected: b.InsuranceSelected,
		InsuranceFee:      b.InsuranceFee,
		CreatedAt:         formatTime(b.CreatedAt),
	}
}

func toBookingResponses(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return out
}

func optionalBooking(b *domain.Booking) *bookingResponse {
	if b == nil {
		return nil
	}
	resp := toBookingResponse(*b)
	return &resp
}

func toScheduleResponse(s scheduler.Schedule) scheduleResponse {
	months := s.Months
	if months == nil {
		months = []scheduler.MonthGrid{}
	}
	return scheduleResponse{
		CurrentBooking:   optionalBooking(s.CurrentBooking),
		NextBooking:      optionalBooking(s.NextBooking),
		UpcomingBookings: toBookingResponses(s.UpcomingBookings),
		CalendarMonths:   months,
	}
}
