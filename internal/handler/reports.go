package handler

import (
	"net/http"

	"pharmatrack/internal/apierror"
	"pharmatrack/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Alerts GET /v1/reports/alerts — low-stock and expiring-soon sets.
func (h *ReportsHandler) Alerts(c *gin.Context) {
	resp, err := h.svc.Alerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to compute alerts"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Profit GET /v1/reports/profit — aggregate profit over all sale items.
func (h *ReportsHandler) Profit(c *gin.Context) {
	resp, err := h.svc.Profit(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to compute profit"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Daily GET /v1/reports/daily — today's sale count, revenue, and profit.
func (h *ReportsHandler) Daily(c *gin.Context) {
	resp, err := h.svc.DailySummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to compute daily summary"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
