package handler

import (
	"net/http"

	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductSuppliersHandler struct{ svc service.ProductSupplierService }

func NewProductSuppliersHandler(svc service.ProductSupplierService) *ProductSuppliersHandler {
	return &ProductSuppliersHandler{svc: svc}
}

// Upsert PUT /v1/products/:id/suppliers
func (h *ProductSuppliersHandler) Upsert(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ProductSupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Upsert(c.Request.Context(), id, req, actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListForProduct GET /v1/products/:id/suppliers
func (h *ProductSuppliersHandler) ListForProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetSuppliersForProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History GET /v1/products/:id/suppliers/history
func (h *ProductSuppliersHandler) History(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetHistoryForProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
