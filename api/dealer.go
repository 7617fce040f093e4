package api

import (
	"net/http"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/service/booking"
	"github.com/Domenick1991/carrental/internal/service/dealer"
	"github.com/gin-gonic/gin"
)

type DealerHandler struct {
	dealers  dealer.DealerUseCase
	bookings booking.BookingUseCase
	today    Clock
}

type updatePriceRequest struct {
	PricePerDay *domain.Money `json:"price_per_day"`
}

type updateStatusRequest struct {
	Action string `json:"action"`
}

// carFieldsRequest is the listing body for create and partial update.
type carFieldsRequest struct {
	Title           *string       `json:"title"`
	CarType         *string       `json:"car_type"`
	Make            *string       `json:"make"`
	Model           *string       `json:"model"`
	Year            *int          `json:"year"`
	Transmission    *string       `json:"transmission"`
	Seats           *int          `json:"seats"`
	Description     *string       `json:"description"`
	PricePerDay     *domain.Money `json:"price_per_day"`
	Currency        *string       `json:"currency"`
	Available       *bool         `json:"available"`
	LocationCity    *string       `json:"location_city"`
	LocationCountry *string       `json:"location_country"`
}

func (r carFieldsRequest) patch() domain.CarPatch {
	return domain.CarPatch{
		Title:           r.Title,
		CarType:         r.CarType,
		Make:            r.Make,
		Model:           r.Model,
		Year:            r.Year,
		Transmission:    r.Transmission,
		Seats:           r.Seats,
		Description:     r.Description,
		PricePerDay:     r.PricePerDay,
		Currency:        r.Currency,
		Available:       r.Available,
		LocationCity:    r.LocationCity,
		LocationCountry: r.LocationCountry,
	}
}

func NewDealerHandler(dealers dealer.DealerUseCase, bookings booking.BookingUseCase, today Clock) *DealerHandler {
	return &DealerHandler{dealers: dealers, bookings: bookings, today: today}
}

func (h *DealerHandler) Register(router *gin.RouterGroup) {
	router.GET("/dashboard/", h.dashboard)
	router.GET("/cars/", h.listCars)
	router.POST("/cars/", h.createCar)
	router.PATCH("/cars/:id/", h.updateCar)
	router.DELETE("/cars/:id/", h.deleteCar)
	router.GET("/cars/:id/bookings/", h.carBookings)
	router.POST("/cars/:id/price/", h.updatePrice)
	router.POST("/bookings/:id/status/", h.updateStatus)
}

func (h *DealerHandler) dashboard(c *gin.Context) {
	d, err := h.dealers.Dashboard(c.Request.Context(), currentUserID(c), h.today())
	if err != nil {
		writeError(c, err)
		return
	}

	carsResp := make([]dealerCarResponse, 0, len(d.Cars))
	for _, overview := range d.Cars {
		carsResp = append(carsResp, dealerCarResponse{
			carResponse:       toCarResponse(overview.Car),
			scheduleResponse:  toScheduleResponse(overview.Schedule),
			ConfirmedBookings: overview.Stats.ConfirmedBookings,
			ConfirmedRevenue:  overview.Stats.ConfirmedRevenue,
		})
	}

	c.JSON(http.StatusOK, dashboardResponse{
		Dealer: dealerResponse{
			ID:     d.Dealer.ID,
			Name:   d.Dealer.Name,
			Email:  d.Dealer.Email,
			Phone:  d.Dealer.Phone,
			Active: d.Dealer.Active,
		},
		Cars: carsResp,
		Metrics: metricsResponse{
			BookingsCount: d.Metrics.BookingsCount,
			Revenue:       d.Metrics.Revenue,
			Pending:       d.Metrics.Pending,
		},
		MonthStart:      d.MonthStart,
		PendingBookings: toBookingResponses(d.PendingBookings),
		MonthBookings:   toBookingResponses(d.MonthBookings),
	})
}

func (h *DealerHandler) carBookings(c *gin.Context) {
	carID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.dealers.CarBookings(c.Request.Context(), currentUserID(c), carID, h.today())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, carBookingsResponse{
		Car: carDetailResponse{
			carResponse:      toCarResponse(result.Car),
			scheduleResponse: toScheduleResponse(result.Schedule),
		},
		Bookings: toBookingResponses(result.Bookings),
	})
}

func (h *DealerHandler) updatePrice(c *gin.Context) {
	carID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PricePerDay == nil {
		badRequest(c, "price_per_day must be a decimal amount")
		return
	}
	if err := h.dealers.UpdatePrice(c.Request.Context(), currentUserID(c), carID, *req.PricePerDay); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "ok"})
}

func (h *DealerHandler) updateStatus(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	result, err := h.bookings.UpdateStatus(c.Request.Context(), booking.UpdateStatusInput{
		DealerUserID: currentUserID(c),
		BookingID:    bookingID,
		Action:       req.Action,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if !result.Updated {
		c.JSON(http.StatusOK, gin.H{"detail": "Nothing to update."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "ok"})
}

func (h *DealerHandler) listCars(c *gin.Context) {
	list, err := h.dealers.ListCars(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCarResponses(list))
}

func (h *DealerHandler) createCar(c *gin.Context) {
	var req carFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	car, err := h.dealers.CreateCar(c.Request.Context(), currentUserID(c), req.patch())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCarResponse(*car))
}

func (h *DealerHandler) updateCar(c *gin.Context) {
	carID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req carFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	car, err := h.dealers.UpdateCar(c.Request.Context(), currentUserID(c), carID, req.patch())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCarResponse(*car))
}

func (h *DealerHandler) deleteCar(c *gin.Context) {
	carID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.dealers.DeleteCar(c.Request.Context(), currentUserID(c), carID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "deleted"})
}
