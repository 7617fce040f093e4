package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/service/cars"
	"github.com/gin-gonic/gin"
)

// Clock returns the current calendar day in the service timezone.
type Clock func() domain.Date

type CarHandler struct {
	service cars.CarUseCase
	today   Clock
}

func NewCarHandler(service cars.CarUseCase, today Clock) *CarHandler {
	return &CarHandler{service: service, today: today}
}

func (h *CarHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id/", h.get)
}

func (h *CarHandler) list(c *gin.Context) {
	list, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCarResponses(list))
}

func (h *CarHandler) get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.service.GetDetail(c.Request.Context(), id, h.today())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, carDetailResponse{
		carResponse:      toCarResponse(detail.Car),
		scheduleResponse: toScheduleResponse(detail.Schedule),
	})
}

type FavoriteHandler struct {
	service cars.CarUseCase
}

type toggleFavoriteRequest struct {
	CarID int64 `json:"car_id" binding:"required"`
}

func NewFavoriteHandler(service cars.CarUseCase) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

func (h *FavoriteHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/toggle/", h.toggle)
}

func (h *FavoriteHandler) list(c *gin.Context) {
	list, err := h.service.ListFavorites(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": toCarResponses(list)})
}

func (h *FavoriteHandler) toggle(c *gin.Context) {
	var req toggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "car_id is required")
		return
	}
	isFavorite, err := h.service.ToggleFavorite(c.Request.Context(), currentUserID(c), req.CarID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_favorite": isFavorite})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
