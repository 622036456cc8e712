package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nicholas91X/auto2g-backend/internal/service"
)

type registerSaleRequest struct {
	VehicleID  string  `json:"vehicleId" binding:"required"`
	FinalPrice float64 `json:"finalPrice" binding:"required,gt=0"`
	BuyerID    string  `json:"buyerId"`
	BuyerName  string  `json:"buyerName"`
	BuyerInfo  string  `json:"buyerInfo"`
}

func (h HandlerSet) RegisterSale(c *gin.Context) {
	var req registerSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sale, err := h.saleService.RegisterSale(c.Request.Context(), service.RegisterSaleInput{
		VehicleID:  req.VehicleID,
		FinalPrice: req.FinalPrice,
		BuyerID:    req.BuyerID,
		BuyerName:  req.BuyerName,
		BuyerInfo:  req.BuyerInfo,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sale)
}

func (h HandlerSet) ListSales(c *gin.Context) {
	sales, err := h.saleService.All(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": sales})
}

func (h HandlerSet) RecentSales(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	sales, err := h.saleService.Recent(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": sales})
}
