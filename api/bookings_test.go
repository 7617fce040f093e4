package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/service/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, fixedClock)

	c, w := newTestContext(11)
	c.Request = httptest.NewRequest("POST", "/api/bookings/", strings.NewReader(
		`{"car_id": 7, "start_date": "2024-03-16", "end_date": "2024-03-18", "insurance_selected": true}`))
	c.Request.Header.Set("Content-Type", "application/json")

	start, _ := domain.ParseDate("2024-03-16")
	end, _ := domain.ParseDate("2024-03-18")
	input := booking.CreateBookingInput{
		UserID:            11,
		CarID:             7,
		StartDate:         start,
		EndDate:           end,
		InsuranceSelected: true,
		Today:             testToday,
	}
	fee := domain.Money(4000)
	created := &domain.Booking{
		ID:                1,
		Reference:         "9b2f",
		CarID:             7,
		UserID:            11,
		StartDate:         start,
		EndDate:           end,
		Status:            domain.BookingStatusPending,
		TotalPrice:        14000,
		Currency:          "USD",
		InsuranceSelected: true,
		InsuranceFee:      &fee,
	}
	mockService.On("CreateBooking", c.Request.Context(), input).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2024-03-16", body["start_date"])
	assert.Equal(t, "140.00", body["total_price"])
	assert.Equal(t, "40.00", body["insurance_fee"])
	assert.Equal(t, "pending", body["status"])
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_errors(t *testing.T) {
	testCases := []struct {
		name           string
		serviceErr     error
		expectedStatus int
		expectedDetail string
	}{
		{name: "overlap", serviceErr: domain.ErrDateRangeUnavailable, expectedStatus: http.StatusBadRequest, expectedDetail: domain.ErrDateRangeUnavailable.Error()},
		{name: "past start", serviceErr: domain.ErrPastStartDate, expectedStatus: http.StatusBadRequest, expectedDetail: domain.ErrPastStartDate.Error()},
		{name: "invalid range", serviceErr: domain.ErrInvalidDateRange, expectedStatus: http.StatusBadRequest, expectedDetail: domain.ErrInvalidDateRange.Error()},
		{name: "car missing", serviceErr: domain.ErrCarNotFound, expectedStatus: http.StatusNotFound, expectedDetail: domain.ErrCarNotFound.Error()},
		{name: "lost race", serviceErr: domain.ErrTransient, expectedStatus: http.StatusServiceUnavailable, expectedDetail: domain.ErrTransient.Error()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewBookingHandler(mockService, fixedClock)

			c, w := newTestContext(11)
			c.Request = httptest.NewRequest("POST", "/api/bookings/", strings.NewReader(
				`{"car_id": 7, "start_date": "2024-03-16", "end_date": "2024-03-18"}`))
			c.Request.Header.Set("Content-Type", "application/json")
			mockService.On("CreateBooking", c.Request.Context(), mock.Anything).Return(nil, tc.serviceErr)

			handler.create(c)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.JSONEq(t, `{"detail": "`+tc.expectedDetail+`"}`, w.Body.String())
		})
	}
}

func TestBookingHandler_create_badDate(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, fixedClock)

	c, w := newTestContext(11)
	c.Request = httptest.NewRequest("POST", "/api/bookings/", strings.NewReader(
		`{"car_id": 7, "start_date": "16/03/2024", "end_date": "2024-03-18"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBookingHandler_mine(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, fixedClock)

	c, w := newTestContext(11)
	c.Request = httptest.NewRequest("GET", "/api/bookings/mine/", nil)
	mockService.On("ListForUser", c.Request.Context(), int64(11)).Return([]domain.Booking{
		{ID: 2, Status: domain.BookingStatusConfirmed, TotalPrice: 5000},
		{ID: 1, Status: domain.BookingStatusCancelled, TotalPrice: 5000},
	}, nil)

	handler.mine(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Results []map[string]interface{} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.Nil(t, body.Results[0]["insurance_fee"])
	assert.Equal(t, "cancelled", body.Results[1]["status"])
}
