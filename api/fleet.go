package api

import (
	"net/http"

	"github.com/frankmutethia/Aurora-sub000/internal/catalog"
	"github.com/frankmutethia/Aurora-sub000/internal/domain"
	"github.com/frankmutethia/Aurora-sub000/internal/service/fleet"
	"github.com/gin-gonic/gin"
)

type FleetHandler struct {
	service fleet.FleetUseCase
}

func NewFleetHandler(service fleet.FleetUseCase) *FleetHandler {
	return &FleetHandler{service: service}
}

func (h *FleetHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.search)
	router.GET("/:id", h.get)
	router.PATCH("/:id/odometer", h.recordOdometer)
	router.POST("/:id/service", h.markServiced)
	router.PATCH("/:id/status", h.setStatus)
}

func (h *FleetHandler) search(c *gin.Context) {
	var criteria catalog.Criteria
	// malformed criteria degrade to "no filter", they never fail the request
	_ = c.ShouldBindQuery(&criteria)

	result, err := h.service.Search(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FleetHandler) get(c *gin.Context) {
	vehicle, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

type odometerRequest struct {
	CurrentOdometer int64 `json:"current_odometer" binding:"required"`
}

func (h *FleetHandler) recordOdometer(c *gin.Context) {
	var req odometerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle, err := h.service.RecordOdometer(c.Request.Context(), c.Param("id"), req.CurrentOdometer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle, "service_due": vehicle.ServiceDue()})
}

func (h *FleetHandler) markServiced(c *gin.Context) {
	vehicle, err := h.service.MarkServiced(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

type vehicleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *FleetHandler) setStatus(c *gin.Context) {
	var req vehicleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), domain.VehicleStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}
