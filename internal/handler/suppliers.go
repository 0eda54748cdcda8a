package handler

import (
	"net/http"

	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/service"

	"github.com/gin-gonic/gin"
)

type SuppliersHandler struct {
	svc     service.SupplierService
	linkSvc service.ProductSupplierService
}

func NewSuppliersHandler(svc service.SupplierService, linkSvc service.ProductSupplierService) *SuppliersHandler {
	return &SuppliersHandler{svc: svc, linkSvc: linkSvc}
}

// Create POST /v1/suppliers
func (h *SuppliersHandler) Create(c *gin.Context) {
	var req dto.SupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List GET /v1/suppliers
func (h *SuppliersHandler) List(c *gin.Context) {
	resp, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID GET /v1/suppliers/:id
func (h *SuppliersHandler) GetByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update PUT /v1/suppliers/:id
func (h *SuppliersHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.SupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete DELETE /v1/suppliers/:id
func (h *SuppliersHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// Products GET /v1/suppliers/:id/products — products linked to a supplier.
func (h *SuppliersHandler) Products(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.linkSvc.GetProductsForSupplier(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
