package handler

import (
	"net/http"
	"strconv"

	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/service"

	"github.com/gin-gonic/gin"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

// Receive POST /v1/products/:id/stock/receive
func (h *StockHandler) Receive(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.StockReceiveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Receive(c.Request.Context(), id, req, actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Waste POST /v1/products/:id/stock/waste
func (h *StockHandler) Waste(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.StockWasteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Waste(c.Request.Context(), id, req, actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Adjust POST /v1/products/:id/stock/adjust
func (h *StockHandler) Adjust(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.StockAdjustRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Adjust(c.Request.Context(), id, req, actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reconcile POST /v1/products/:id/stock/reconcile
func (h *StockHandler) Reconcile(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Reconcile(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements GET /v1/products/:id/stock/movements
func (h *StockHandler) Movements(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if page < 0 {
		page = 0
	}
	if size < 1 || size > 200 {
		size = 20
	}
	resp, err := h.svc.GetMovements(c.Request.Context(), id, page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Batches GET /v1/products/:id/stock/batches
func (h *StockHandler) Batches(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	availableOnly := c.Query("available") == "true"
	resp, err := h.svc.GetBatches(c.Request.Context(), id, availableOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
