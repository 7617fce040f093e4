package scheduler

import (
	"sort"
	"strings"

	"github.com/Domenick1991/carrental/internal/domain"
)

// DefaultInsuranceDailyFee is 20.00 in the car's currency.
const DefaultInsuranceDailyFee domain.Money = 2000

type Config struct {
	InsuranceDailyFee domain.Money
}

// Scheduler validates and prices booking requests and renders car calendars.
// It holds no state besides its configuration and is safe for concurrent use.
type Scheduler struct {
	insuranceDailyFee domain.Money
}

func New(cfg Config) *Scheduler {
	return &Scheduler{insuranceDailyFee: cfg.InsuranceDailyFee}
}

type Request struct {
	StartDate         domain.Date
	EndDate           domain.Date
	InsuranceSelected bool
}

// ValidateAndPrice checks a request against the car's bookings and returns an
// unsaved pending booking. Checks run in order: date range, past start, overlap.
func (s *Scheduler) ValidateAndPrice(car domain.Car, existing []domain.Booking, req Request, today domain.Date) (*domain.Booking, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}
	if req.StartDate.Before(today) {
		return nil, domain.ErrPastStartDate
	}
	for _, b := range existing {
		if b.Status.Active() && b.Overlaps(req.StartDate, req.EndDate) {
			return nil, domain.ErrDateRangeUnavailable
		}
	}

	days := BillableDays(req.StartDate, req.EndDate)
	total, err := car.PricePerDay.Times(days)
	if err != nil {
		return nil, err
	}

	draft := &domain.Booking{
		CarID:             car.ID,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Status:            domain.BookingStatusPending,
		Currency:          car.Currency,
		InsuranceSelected: req.InsuranceSelected,
	}
	if req.InsuranceSelected {
		fee, err := s.insuranceDailyFee.Times(days)
		if err != nil {
			return nil, err
		}
		draft.InsuranceFee = &fee
		if total, err = total.Plus(fee); err != nil {
			return nil, err
		}
	}
	draft.TotalPrice = total
	return draft, nil
}

// BillableDays counts nights between start and end, never less than one.
func BillableDays(start, end domain.Date) int {
	days := start.DaysUntil(end)
	if days < 1 {
		return 1
	}
	return days
}

type Action string

const (
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
	ActionReject  Action = "reject"
)

func ParseAction(s string) Action {
	return Action(strings.ToLower(strings.TrimSpace(s)))
}

// Transition applies a dealer action to an already authorized booking and
// reports whether the status changed. Cancelled bookings stay cancelled.
func (s *Scheduler) Transition(b *domain.Booking, action Action) bool {
	switch action {
	case ActionConfirm:
		if b.Status != domain.BookingStatusPending {
			return false
		}
		b.Status = domain.BookingStatusConfirmed
		return true
	case ActionCancel, ActionReject:
		if !b.Status.Active() {
			return false
		}
		b.Status = domain.BookingStatusCancelled
		return true
	}
	return false
}

// ActiveOnly drops cancelled bookings.
func ActiveOnly(bookings []domain.Booking) []domain.Booking {
	active := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status.Active() {
			active = append(active, b)
		}
	}
	return active
}

// sortByStart orders by start date, then id.
func sortByStart(bookings []domain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		a, b := bookings[i], bookings[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.ID < b.ID
	})
}
