package api

import (
	"net/http"
	"time"

	"github.com/frankmutethia/Aurora-sub000/internal/domain"
	"github.com/frankmutethia/Aurora-sub000/internal/pricing"
	"github.com/frankmutethia/Aurora-sub000/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/quote", h.quote)
	router.POST("/", h.create)
	router.GET("/", h.listByUser)
	router.GET("/:id", h.get)
	router.PATCH("/:id/status", h.updateStatus)
	router.PATCH("/:id/payment", h.updatePayment)
	router.DELETE("/:id", h.cancel)
}

type quoteRequest struct {
	VehicleID string         `json:"vehicle_id" binding:"required"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	Extras    pricing.Extras `json:"extras"`
}

func (h *BookingHandler) quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.service.Quote(c.Request.Context(), req.VehicleID, req.StartDate, req.EndDate, req.Extras)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

type createBookingRequest struct {
	UserID          string                 `json:"user_id" binding:"required"`
	VehicleID       string                 `json:"vehicle_id" binding:"required"`
	StartDate       time.Time              `json:"start_date"`
	EndDate         time.Time              `json:"end_date"`
	PickupLocation  string                 `json:"pickup_location"`
	ReturnLocation  string                 `json:"return_location"`
	Phone           string                 `json:"phone"`
	SpecialRequests string                 `json:"special_requests"`
	PromoCode       string                 `json:"promo_code"`
	Extras          pricing.Extras         `json:"extras"`
	DriverDetails   *booking.DriverDetails `json:"driver_details"`
	PayNow          bool                   `json:"pay_now"`
	PaymentMethod   string                 `json:"payment_method"`
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		Session:         booking.SessionContext{UserID: req.UserID},
		VehicleID:       req.VehicleID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		PickupLocation:  req.PickupLocation,
		ReturnLocation:  req.ReturnLocation,
		Phone:           req.Phone,
		SpecialRequests: req.SpecialRequests,
		PromoCode:       req.PromoCode,
		Extras:          req.Extras,
		DriverDetails:   req.DriverDetails,
		PayNow:          req.PayNow,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) listByUser(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	bookings, err := h.service.ListUserBookings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.ApplyStatus(c.Request.Context(), c.Param("id"), domain.BookingStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *BookingHandler) updatePayment(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.ApplyPayment(c.Request.Context(), c.Param("id"), domain.PaymentStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	updated, err := h.service.ApplyStatus(c.Request.Context(), c.Param("id"), domain.BookingStatusCancelled)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
