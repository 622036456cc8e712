package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) DashboardSummary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h HandlerSet) DashboardBrandPerformance(c *gin.Context) {
	performance, err := h.dashboardService.BrandPerformance(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": performance})
}

func (h HandlerSet) DashboardRecentActivity(c *gin.Context) {
	sales, err := h.dashboardService.RecentActivity(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": sales})
}
