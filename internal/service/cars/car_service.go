package cars

import (
	"context"
	"log/slog"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/repository"
	"github.com/Domenick1991/carrental/internal/service/scheduler"
)

const (
	detailMonths        = 12
	detailUpcomingLimit = 5
)

type CarUseCase interface {
	ListAvailable(ctx context.Context) ([]domain.Car, error)
	GetDetail(ctx context.Context, id int64, today domain.Date) (*CarDetail, error)
	ToggleFavorite(ctx context.Context, userID, carID int64) (bool, error)
	ListFavorites(ctx context.Context, userID int64) ([]domain.Car, error)
}

type Cache interface {
	GetCars(ctx context.Context) ([]domain.Car, error)
	SetCars(ctx context.Context, cars []domain.Car) error
	InvalidateCars(ctx context.Context) error
}

// CarDetail is a car with its booking calendar.
type CarDetail struct {
	Car      domain.Car
	Schedule scheduler.Schedule
}

type CarService struct {
	cars      repository.CarRepository
	bookings  repository.BookingRepository
	favorites repository.FavoriteRepository
	scheduler *scheduler.Scheduler
	cache     Cache
	log       *slog.Logger
}

func NewCarService(
	cars repository.CarRepository,
	bookings repository.BookingRepository,
	favorites repository.FavoriteRepository,
	sched *scheduler.Scheduler,
	cache Cache,
	log *slog.Logger,
) *CarService {
	if log == nil {
		log = slog.Default()
	}
	return &CarService{
		cars:      cars,
		bookings:  bookings,
		favorites: favorites,
		scheduler: sched,
		cache:     cache,
		log:       log,
	}
}

func (s *CarService) ListAvailable(ctx context.Context) ([]domain.Car, error) {
	if s.cache != nil {
		cached, err := s.cache.GetCars(ctx)
		if err != nil {
			s.log.WarnContext(ctx, "cars cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	cars, err := s.cars.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetCars(ctx, cars); err != nil {
			s.log.WarnContext(ctx, "cars cache write failed", "error", err)
		}
	}
	return cars, nil
}

// GetDetail returns the car and a year of calendar starting at today's month.
func (s *CarService) GetDetail(ctx context.Context, id int64, today domain.Date) (*CarDetail, error) {
	car, err := s.cars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	active, err := s.bookings.ListActiveByCar(ctx, car.ID)
	if err != nil {
		return nil, err
	}

	schedule := s.scheduler.ComputeSchedule(active, scheduler.ScheduleRequest{
		MonthStart:    today.FirstOfMonth(),
		MonthCount:    detailMonths,
		Today:         today,
		UpcomingLimit: scheduler.Limit(detailUpcomingLimit),
	})
	return &CarDetail{Car: *car, Schedule: schedule}, nil
}

func (s *CarService) ToggleFavorite(ctx context.Context, userID, carID int64) (bool, error) {
	if userID <= 0 {
		return false, domain.ErrUnauthorized
	}
	if _, err := s.cars.GetByID(ctx, carID); err != nil {
		return false, err
	}
	return s.favorites.Toggle(ctx, userID, carID)
}

func (s *CarService) ListFavorites(ctx context.Context, userID int64) ([]domain.Car, error) {
	if userID <= 0 {
		return nil, domain.ErrUnauthorized
	}
	return s.favorites.ListCarsByUser(ctx, userID)
}

var _ CarUseCase = (*CarService)(nil)
