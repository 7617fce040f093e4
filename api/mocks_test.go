package api

import (
	"context"
	"net/http/httptest"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/service/booking"
	"github.com/Domenick1991/carrental/internal/service/cars"
	"github.com/Domenick1991/carrental/internal/service/dealer"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdateStatus(ctx context.Context, input booking.UpdateStatusInput) (*booking.StatusUpdate, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.StatusUpdate), args.Error(1)
}

func (m *MockBookingUseCase) RemindOverduePending(ctx context.Context, today domain.Date) ([]domain.Booking, error) {
	args := m.Called(ctx, today)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockCarUseCase struct {
	mock.Mock
}

func (m *MockCarUseCase) ListAvailable(ctx context.Context) ([]domain.Car, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Car), args.Error(1)
}

func (m *MockCarUseCase) GetDetail(ctx context.Context, id int64, today domain.Date) (*cars.CarDetail, error) {
	args := m.Called(ctx, id, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cars.CarDetail), args.Error(1)
}

func (m *MockCarUseCase) ToggleFavorite(ctx context.Context, userID, carID int64) (bool, error) {
	args := m.Called(ctx, userID, carID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCarUseCase) ListFavorites(ctx context.Context, userID int64) ([]domain.Car, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Car), args.Error(1)
}

type MockDealerUseCase struct {
	mock.Mock
}

func (m *MockDealerUseCase) Dashboard(ctx context.Context, userID int64, today domain.Date) (*dealer.Dashboard, error) {
	args := m.Called(ctx, userID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dealer.Dashboard), args.Error(1)
}

func (m *MockDealerUseCase) CarBookings(ctx context.Context, userID, carID int64, today domain.Date) (*dealer.CarBookings, error) {
	args := m.Called(ctx, userID, carID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dealer.CarBookings), args.Error(1)
}

func (m *MockDealerUseCase) UpdatePrice(ctx context.Context, userID, carID int64, price domain.Money) error {
	return m.Called(ctx, userID, carID, price).Error(0)
}

func (m *MockDealerUseCase) ListCars(ctx context.Context, userID int64) ([]domain.Car, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Car), args.Error(1)
}

func (m *MockDealerUseCase) CreateCar(ctx context.Context, userID int64, fields domain.CarPatch) (*domain.Car, error) {
	args := m.Called(ctx, userID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

func (m *MockDealerUseCase) UpdateCar(ctx context.Context, userID, carID int64, patch domain.CarPatch) (*domain.Car, error) {
	args := m.Called(ctx, userID, carID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

func (m *MockDealerUseCase) DeleteCar(ctx context.Context, userID, carID int64) error {
	return m.Called(ctx, userID, carID).Error(0)
}

var testToday = domain.NewDate(2024, 3, 1)

func fixedClock() domain.Date { return testToday }

// newTestContext returns a gin context acting for userID.
func newTestContext(userID int64) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if userID > 0 {
		c.Set(ContextUserID, userID)
	}
	return c, w
}
