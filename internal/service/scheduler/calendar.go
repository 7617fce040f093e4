package scheduler

import (
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
)

type DayCell struct {
	Date    domain.Date `json:"date"`
	InMonth bool        `json:"in_month"`
	Booked  bool        `json:"booked"`
	Today   bool        `json:"today"`
}

type MonthGrid struct {
	Label string      `json:"label"`
	Start domain.Date `json:"month_start"`
	Weeks [][]DayCell `json:"weeks"`
}

type Schedule struct {
	CurrentBooking   *domain.Booking
	NextBooking      *domain.Booking
	UpcomingBookings []domain.Booking
	Months           []MonthGrid
}

type ScheduleRequest struct {
	MonthStart domain.Date
	MonthCount int
	Today      domain.Date
	// UpcomingLimit caps UpcomingBookings; nil means unbounded.
	UpcomingLimit *int
}

func Limit(n int) *int { return &n }

// ComputeSchedule summarises a car's bookings around today and renders
// MonthCount Monday-first month grids starting at MonthStart. Cancelled
// bookings are ignored. The input slice is not modified.
func (s *Scheduler) ComputeSchedule(bookings []domain.Booking, req ScheduleRequest) Schedule {
	active := ActiveOnly(bookings)
	sortByStart(active)

	var out Schedule
	for i := range active {
		b := active[i]
		if out.CurrentBooking == nil && b.Covers(req.Today) {
			out.CurrentBooking = &b
		}
		if out.NextBooking == nil && b.StartDate.After(req.Today) {
			out.NextBooking = &b
		}
		if !b.StartDate.Before(req.Today) {
			out.UpcomingBookings = append(out.UpcomingBookings, b)
		}
	}
	if req.UpcomingLimit != nil && len(out.UpcomingBookings) > *req.UpcomingLimit {
		out.UpcomingBookings = out.UpcomingBookings[:max(*req.UpcomingLimit, 0)]
	}

	anchor := req.MonthStart.FirstOfMonth()
	out.Months = make([]MonthGrid, 0, max(req.MonthCount, 0))
	for i := 0; i < req.MonthCount; i++ {
		out.Months = append(out.Months, monthGrid(anchor.AddMonths(i), active, req.Today))
	}
	return out
}

func monthGrid(first domain.Date, active []domain.Booking, today domain.Date) MonthGrid {
	last := first.AddMonths(1).AddDays(-1)
	gridStart := first.AddDays(-mondayOffset(first.Weekday()))
	gridEnd := last.AddDays(6 - mondayOffset(last.Weekday()))

	grid := MonthGrid{
		Label: first.Time().Format("January 2006"),
		Start: first,
	}
	var week []DayCell
	for d := gridStart; !d.After(gridEnd); d = d.AddDays(1) {
		week = append(week, DayCell{
			Date:    d,
			InMonth: d.Month() == first.Month(),
			Booked:  bookedOn(active, d),
			Today:   d.Equal(today),
		})
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = nil
		}
	}
	return grid
}

// mondayOffset is the number of days since the most recent Monday.
func mondayOffset(w time.Weekday) int {
	return (int(w) + 6) % 7
}

func bookedOn(active []domain.Booking, d domain.Date) bool {
	for _, b := range active {
		if b.Covers(d) {
			return true
		}
	}
	return false
}
