package api

import (
	"net/http"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
	today   Clock
}

type createBookingRequest struct {
	CarID             int64  `json:"car_id" binding:"required"`
	StartDate         string `json:"start_date" binding:"required"`
	EndDate           string `json:"end_date" binding:"required"`
	InsuranceSelected bool   `json:"insurance_selected"`
}

func NewBookingHandler(service booking.BookingUseCase, today Clock) *BookingHandler {
	return &BookingHandler{service: service, today: today}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/mine/", h.mine)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "car_id, start_date and end_date are required")
		return
	}
	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	end, err := domain.ParseDate(req.EndDate)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:            currentUserID(c),
		CarID:             req.CarID,
		StartDate:         start,
		EndDate:           end,
		InsuranceSelected: req.InsuranceSelected,
		Today:             h.today(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(*created))
}

func (h *BookingHandler) mine(c *gin.Context) {
	list, err := h.service.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": toBookingResponses(list)})
}
