package handler

import (
	"net/http"
	"time"

	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/infra"
	"github.com/AzizSouissi/store-inventory-suite/internal/service"

	"github.com/gin-gonic/gin"
)

type AlertsHandler struct{ svc service.AlertService }

func NewAlertsHandler(svc service.AlertService) *AlertsHandler {
	return &AlertsHandler{svc: svc}
}

// LowStock GET /v1/products/alerts/low-stock
func (h *AlertsHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.GetLowStockAlerts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReorderList GET /v1/products/reorder-list
func (h *AlertsHandler) ReorderList(c *gin.Context) {
	resp, err := h.svc.GetReorderList(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReorderListPDF godoc
// @Summary Download the reorder list as a PDF report
// @Tags alerts
// @Produce application/pdf
// @Success 200 {file} binary
// @Router /v1/products/reorder-list/pdf [get]
func (h *AlertsHandler) ReorderListPDF(c *gin.Context) {
	items, err := h.svc.GetReorderList(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	pdfBytes, err := infra.GenerateReorderPDF(items, time.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="reorder-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// Snooze POST /v1/products/:id/alerts/snooze
func (h *AlertsHandler) Snooze(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.SnoozeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Snooze(c.Request.Context(), id, req.Until)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
