package dealer

import (
	"context"
	"log/slog"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/repository"
	"github.com/Domenick1991/carrental/internal/service/scheduler"
)

const (
	dashboardMonths        = 3
	dashboardUpcomingLimit = 4
)

type DealerUseCase interface {
	Dashboard(ctx context.Context, userID int64, today domain.Date) (*Dashboard, error)
	CarBookings(ctx context.Context, userID, carID int64, today domain.Date) (*CarBookings, error)
	UpdatePrice(ctx context.Context, userID, carID int64, price domain.Money) error
	ListCars(ctx context.Context, userID int64) ([]domain.Car, error)
	CreateCar(ctx context.Context, userID int64, fields domain.CarPatch) (*domain.Car, error)
	UpdateCar(ctx context.Context, userID, carID int64, patch domain.CarPatch) (*domain.Car, error)
	DeleteCar(ctx context.Context, userID, carID int64) error
}

type CacheInvalidator interface {
	InvalidateCars(ctx context.Context) error
}

// CarOverview is a dealer's car with its confirmed totals and calendar.
type CarOverview struct {
	Car      domain.Car
	Stats    domain.CarStats
	Schedule scheduler.Schedule
}

// Metrics aggregate the active bookings starting in the current month.
type Metrics struct {
	BookingsCount int
	Revenue       domain.Money
	Pending       int
}

type Dashboard struct {
	Dealer          domain.Dealer
	Cars            []CarOverview
	Metrics         Metrics
	MonthStart      domain.Date
	PendingBookings []domain.Booking
	MonthBookings   []domain.Booking
}

type CarBookings struct {
	Car      domain.Car
	Schedule scheduler.Schedule
	Bookings []domain.Booking
}

type DealerService struct {
	dealers   repository.DealerRepository
	cars      repository.CarRepository
	bookings  repository.BookingRepository
	scheduler *scheduler.Scheduler
	cache     CacheInvalidator
	log       *slog.Logger
}

func NewDealerService(
	dealers repository.DealerRepository,
	cars repository.CarRepository,
	bookings repository.BookingRepository,
	sched *scheduler.Scheduler,
	cache CacheInvalidator,
	log *slog.Logger,
) *DealerService {
	if log == nil {
		log = slog.Default()
	}
	return &DealerService{
		dealers:   dealers,
		cars:      cars,
		bookings:  bookings,
		scheduler: sched,
		cache:     cache,
		log:       log,
	}
}

func (s *DealerService) Dashboard(ctx context.Context, userID int64, today domain.Date) (*Dashboard, error) {
	dealer, err := s.dealers.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cars, err := s.cars.ListByDealer(ctx, dealer.ID)
	if err != nil {
		return nil, err
	}
	stats, err := s.cars.StatsByDealer(ctx, dealer.ID)
	if err != nil {
		return nil, err
	}

	monthStart := today.FirstOfMonth()
	overviews := make([]CarOverview, 0, len(cars))
	for _, car := range cars {
		active, err := s.bookings.ListActiveByCar(ctx, car.ID)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, CarOverview{
			Car:   car,
			Stats: stats[car.ID],
			Schedule: s.scheduler.ComputeSchedule(active, scheduler.ScheduleRequest{
				MonthStart:    monthStart,
				MonthCount:    dashboardMonths,
				Today:         today,
				UpcomingLimit: scheduler.Limit(dashboardUpcomingLimit),
			}),
		})
	}

	pending, err := s.bookings.ListPendingByDealer(ctx, dealer.ID)
	if err != nil {
		return nil, err
	}
	monthBookings, err := s.bookings.ListActiveByDealerStartingBetween(ctx, dealer.ID, monthStart, monthStart.AddMonths(1))
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Dealer:          *dealer,
		Cars:            overviews,
		Metrics:         monthMetrics(monthBookings),
		MonthStart:      monthStart,
		PendingBookings: pending,
		MonthBookings:   monthBookings,
	}, nil
}

// CarBookings returns the current month calendar and the full booking history
// of one of the dealer's cars.
func (s *DealerService) CarBookings(ctx context.Context, userID, carID int64, today domain.Date) (*CarBookings, error) {
	car, err := s.ownedCar(ctx, userID, carID)
	if err != nil {
		return nil, err
	}

	all, err := s.bookings.ListByCar(ctx, car.ID)
	if err != nil {
		return nil, err
	}
	schedule := s.scheduler.ComputeSchedule(scheduler.ActiveOnly(all), scheduler.ScheduleRequest{
		MonthStart: today.FirstOfMonth(),
		MonthCount: 1,
		Today:      today,
	})
	return &CarBookings{Car: *car, Schedule: schedule, Bookings: all}, nil
}

func (s *DealerService) UpdatePrice(ctx context.Context, userID, carID int64, price domain.Money) error {
	if err := domain.ValidatePrice(price); err != nil {
		return err
	}
	car, err := s.ownedCar(ctx, userID, carID)
	if err != nil {
		return err
	}
	if err := s.cars.UpdatePrice(ctx, car.ID, price); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "car price updated", "car_id", car.ID, "price", price.String())
	s.invalidateCars(ctx)
	return nil
}

func (s *DealerService) ListCars(ctx context.Context, userID int64) ([]domain.Car, error) {
	dealer, err := s.dealers.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.cars.ListByDealer(ctx, dealer.ID)
}

func (s *DealerService) CreateCar(ctx context.Context, userID int64, fields domain.CarPatch) (*domain.Car, error) {
	dealer, err := s.dealers.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	car := domain.NewCar(dealer.ID, fields)
	if err := car.Validate(); err != nil {
		return nil, err
	}
	if err := s.cars.Create(ctx, &car); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "car listed", "car_id", car.ID, "dealer_id", dealer.ID)
	s.invalidateCars(ctx)
	return &car, nil
}

func (s *DealerService) UpdateCar(ctx context.Context, userID, carID int64, patch domain.CarPatch) (*domain.Car, error) {
	car, err := s.ownedCar(ctx, userID, carID)
	if err != nil {
		return nil, err
	}
	patch.Apply(car)
	if err := car.Validate(); err != nil {
		return nil, err
	}
	if err := s.cars.Update(ctx, car); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "car updated", "car_id", car.ID)
	s.invalidateCars(ctx)
	return car, nil
}

// DeleteCar removes a listing. Its bookings go with it.
func (s *DealerService) DeleteCar(ctx context.Context, userID, carID int64) error {
	car, err := s.ownedCar(ctx, userID, carID)
	if err != nil {
		return err
	}
	if err := s.cars.Delete(ctx, car.ID); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "car deleted", "car_id", car.ID)
	s.invalidateCars(ctx)
	return nil
}

func (s *DealerService) invalidateCars(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCars(ctx); err != nil {
		s.log.WarnContext(ctx, "cars cache invalidation failed", "error", err)
	}
}

// ownedCar hides cars of other dealers behind ErrCarNotFound.
func (s *DealerService) ownedCar(ctx context.Context, userID, carID int64) (*domain.Car, error) {
	dealer, err := s.dealers.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.DealerID != dealer.ID {
		return nil, domain.ErrCarNotFound
	}
	return car, nil
}

func monthMetrics(bookings []domain.Booking) Metrics {
	var m Metrics
	for _, b := range bookings {
		m.BookingsCount++
		switch b.Status {
		case domain.BookingStatusConfirmed:
			m.Revenue += b.TotalPrice
		case domain.BookingStatusPending:
			m.Pending++
		}
	}
	return m
}

var _ DealerUseCase = (*DealerService)(nil)
