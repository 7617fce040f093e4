package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/kafka"
	"github.com/Domenick1991/carrental/internal/repository"
	"github.com/Domenick1991/carrental/internal/service/scheduler"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*StatusUpdate, error)
	RemindOverduePending(ctx context.Context, today domain.Date) ([]domain.Booking, error)
}

// CarLocker hands out per-car locks. The token returned by AcquireCarLock
// must be passed back to ReleaseCarLock.
type CarLocker interface {
	AcquireCarLock(ctx context.Context, carID int64, ttl time.Duration) (token string, ok bool, err error)
	ReleaseCarLock(ctx context.Context, carID int64, token string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	cars               repository.CarRepository
	dealers            repository.DealerRepository
	scheduler          *scheduler.Scheduler
	locker             CarLocker
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	lockTTL            time.Duration
	lockWait           time.Duration
	log                *slog.Logger
}

type CreateBookingInput struct {
	UserID            int64
	CarID             int64
	StartDate         domain.Date
	EndDate           domain.Date
	InsuranceSelected bool
	Today             domain.Date
}

type UpdateStatusInput struct {
	DealerUserID int64
	BookingID    int64
	Action       string
}

// StatusUpdate reports the booking after a dealer action. Updated is false
// when there was nothing to update.
type StatusUpdate struct {
	Booking *domain.Booking
	Updated bool
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithCarLock(locker CarLocker, ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.locker = locker
		s.lockTTL = ttl
	}
}

func WithLogger(log *slog.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = log
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	cars repository.CarRepository,
	dealers repository.DealerRepository,
	sched *scheduler.Scheduler,
	producer Producer,
	eventsTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		cars:        cars,
		dealers:     dealers,
		scheduler:   sched,
		producer:    producer,
		eventsTopic: eventsTopic,
		lockWait:    2 * time.Second,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking validates, prices and stores a booking. The overlap check and
// the insert happen in one transaction; a lost serialization race is retried
// once and then reported as domain.ErrTransient.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.UserID <= 0 {
		return nil, domain.ErrUnauthorized
	}

	// Cheap checks first so obviously bad requests never touch the lock.
	if input.EndDate.Before(input.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}
	if input.StartDate.Before(input.Today) {
		return nil, domain.ErrPastStartDate
	}

	car, err := s.cars.GetByID(ctx, input.CarID)
	if err != nil {
		return nil, err
	}
	if !car.Available {
		return nil, domain.ErrCarUnavailable
	}

	release, err := s.lockCar(ctx, car.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	req := scheduler.Request{
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		InsuranceSelected: input.InsuranceSelected,
	}
	build := func(active []domain.Booking) (*domain.Booking, error) {
		draft, err := s.scheduler.ValidateAndPrice(*car, active, req, input.Today)
		if err != nil {
			return nil, err
		}
		draft.UserID = input.UserID
		draft.Reference = uuid.NewString()
		return draft, nil
	}

	created, err := s.bookings.CreateIfAvailable(ctx, car.ID, build)
	if errors.Is(err, repository.ErrTxConflict) {
		s.log.WarnContext(ctx, "booking transaction conflict, retrying", "car_id", car.ID)
		created, err = s.bookings.CreateIfAvailable(ctx, car.ID, build)
	}
	if err != nil {
		if errors.Is(err, repository.ErrTxConflict) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTransient, err)
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "booking created",
		"booking_id", created.ID,
		"car_id", created.CarID,
		"start", created.StartDate.String(),
		"end", created.EndDate.String(),
		"total", created.TotalPrice.String(),
	)
	if err := s.publish(ctx, kafka.EventBookingCreated, created, car.DealerID); err != nil {
		s.log.WarnContext(ctx, "failed to publish event", "type", kafka.EventBookingCreated, "booking_id", created.ID, "error", err)
	}
	return created, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	if userID <= 0 {
		return nil, domain.ErrUnauthorized
	}
	return s.bookings.ListByUser(ctx, userID)
}

// UpdateStatus applies a dealer action to a booking of one of the dealer's
// own cars.
func (s *BookingService) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*StatusUpdate, error) {
	dealer, err := s.dealers.GetActiveByUserID(ctx, input.DealerUserID)
	if err != nil {
		return nil, err
	}
	current, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	car, err := s.cars.GetByID(ctx, current.CarID)
	if err != nil {
		return nil, err
	}
	if car.DealerID != dealer.ID {
		return nil, domain.ErrUnauthorized
	}

	from := current.Status
	if !s.scheduler.Transition(current, scheduler.ParseAction(input.Action)) {
		return &StatusUpdate{Booking: current, Updated: false}, nil
	}

	updated, err := s.bookings.UpdateStatus(ctx, current.ID, from, current.Status)
	if errors.Is(err, repository.ErrStatusChanged) {
		s.log.InfoContext(ctx, "booking status changed before update", "booking_id", current.ID, "action", input.Action)
		latest, err := s.bookings.GetByID(ctx, current.ID)
		if err != nil {
			return nil, err
		}
		return &StatusUpdate{Booking: latest, Updated: false}, nil
	}
	if err != nil {
		return nil, err
	}

	eventType := kafka.EventBookingConfirmed
	if updated.Status == domain.BookingStatusCancelled {
		eventType = kafka.EventBookingCancelled
	}
	if err := s.publish(ctx, eventType, updated, dealer.ID); err != nil {
		s.log.WarnContext(ctx, "failed to publish event", "type", eventType, "booking_id", updated.ID, "error", err)
	}
	return &StatusUpdate{Booking: updated, Updated: true}, nil
}

// RemindOverduePending publishes a reminder for every pending booking whose
// start date has passed without a dealer decision. Statuses are not touched.
func (s *BookingService) RemindOverduePending(ctx context.Context, today domain.Date) ([]domain.Booking, error) {
	overdue, err := s.bookings.ListPendingStartingBefore(ctx, today)
	if err != nil {
		return nil, err
	}

	dealerByCar := make(map[int64]int64)
	for i := range overdue {
		b := &overdue[i]
		dealerID, ok := dealerByCar[b.CarID]
		if !ok {
			car, err := s.cars.GetByID(ctx, b.CarID)
			if err != nil {
				s.log.WarnContext(ctx, "skip overdue reminder", "booking_id", b.ID, "car_id", b.CarID, "error", err)
				continue
			}
			dealerID = car.DealerID
			dealerByCar[b.CarID] = dealerID
		}
		if err := s.publish(ctx, kafka.EventBookingPendingOverdue, b, dealerID); err != nil {
			s.log.WarnContext(ctx, "failed to publish event", "type", kafka.EventBookingPendingOverdue, "booking_id", b.ID, "error", err)
		}
	}
	return overdue, nil
}

// lockCar waits briefly for the per-car booking lock. Without a locker it
// relies on the transaction alone.
func (s *BookingService) lockCar(ctx context.Context, carID int64) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}

	deadline := time.Now().Add(s.lockWait)
	for {
		token, ok, err := s.locker.AcquireCarLock(ctx, carID, s.lockTTL)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				if err := s.locker.ReleaseCarLock(context.WithoutCancel(ctx), carID, token); err != nil {
					s.log.WarnContext(ctx, "failed to release car lock", "car_id", carID, "error", err)
				}
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: car %d is being booked", domain.ErrTransient, carID)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, dealerID int64) error {
	if s.producer == nil || s.eventsTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		Reference:  booking.Reference,
		BookingID:  booking.ID,
		CarID:      booking.CarID,
		UserID:     booking.UserID,
		DealerID:   dealerID,
		StartDate:  booking.StartDate.String(),
		EndDate:    booking.EndDate.String(),
		Status:     string(booking.Status),
		TotalPrice: booking.TotalPrice.String(),
		Currency:   booking.Currency,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.Reference, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
