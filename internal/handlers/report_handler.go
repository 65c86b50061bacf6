package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dealdesk/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// @Summary      Deal summary counts
// @Tags         Reports
// @Produce      json
// @Success      200  {object}  services.DealSummary
// @Router       /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	summary, err := h.Service.Summary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) FilterDeals(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("size", "100"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if limit < 1 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}
	revenueMin, _ := strconv.ParseFloat(c.Query("revenue_min"), 64)
	revenueMax, _ := strconv.ParseFloat(c.Query("revenue_max"), 64)

	deals, err := h.Service.FilterDeals(
		c.Query("status"),
		c.Query("from"),
		c.Query("to"),
		c.Query("sort_by"),
		c.Query("order"),
		revenueMin,
		revenueMax,
		limit,
		(page-1)*limit,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, deals)
}
