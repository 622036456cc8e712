package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
	"github.com/Nicholas91X/auto2g-backend/internal/service"
)

type createVehicleRequest struct {
	Brand       string  `json:"brand" binding:"required"`
	Model       string  `json:"model" binding:"required"`
	Plate       string  `json:"plate" binding:"required"`
	Year        int     `json:"year" binding:"required,gte=1950"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Mileage     int     `json:"mileage" binding:"gte=0"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
}

func (h HandlerSet) CreateVehicle(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	vehicle, err := h.vehicleService.Create(c.Request.Context(), service.CreateVehicleInput{
		Brand:       req.Brand,
		Model:       req.Model,
		Plate:       req.Plate,
		Year:        req.Year,
		Price:       req.Price,
		Mileage:     req.Mileage,
		Status:      req.Status,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

func (h HandlerSet) GetVehicle(c *gin.Context) {
	vehicle, err := h.vehicleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

func (h HandlerSet) ListVehicles(c *gin.Context) {
	filter := domain.VehicleFilter{
		Brand: c.Query("brand"),
		Model: c.Query("model"),
	}
	if status := c.Query("status"); status != "" {
		parsed, ok := domain.ParseVehicleStatus(status)
		if !ok {
			h.respondError(c, domain.ErrInvalidStatus)
			return
		}
		filter.Status = parsed
	}
	filter.PriceMin = floatQuery(c, "priceMin")
	filter.PriceMax = floatQuery(c, "priceMax")
	filter.YearFrom = intQuery(c, "yearFrom")
	filter.MileageMax = intQuery(c, "mileageMax")

	vehicles, err := h.vehicleService.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": vehicles})
}

type updateVehicleRequest struct {
	Brand       *string  `json:"brand"`
	Model       *string  `json:"model"`
	Plate       *string  `json:"plate"`
	Year        *int     `json:"year"`
	Price       *float64 `json:"price"`
	Mileage     *int     `json:"mileage"`
	Description *string  `json:"description"`
}

func (h HandlerSet) UpdateVehicle(c *gin.Context) {
	var req updateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	vehicle, err := h.vehicleService.Update(c.Request.Context(), c.Param("id"), service.UpdateVehicleInput{
		Brand:       req.Brand,
		Model:       req.Model,
		Plate:       req.Plate,
		Year:        req.Year,
		Price:       req.Price,
		Mileage:     req.Mileage,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) ChangeVehicleStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	vehicle, err := h.vehicleService.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func (h HandlerSet) DeleteVehicle(c *gin.Context) {
	if err := h.vehicleService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) AddVehicleImage(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	image, err := h.vehicleService.AddImage(c.Request.Context(), c.Param("id"), data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, image)
}

func (h HandlerSet) RemoveVehicleImage(c *gin.Context) {
	if err := h.vehicleService.RemoveImage(c.Request.Context(), c.Param("id"), c.Param("imageId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func floatQuery(c *gin.Context, name string) float64 {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			return v
		}
	}
	return 0
}

func intQuery(c *gin.Context, name string) int {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return 0
}
