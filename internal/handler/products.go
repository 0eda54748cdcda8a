package handler

import (
	"net/http"

	"github.com/AzizSouissi/store-inventory-suite/internal/apierror"
	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct {
	svc       service.ProductService
	importSvc service.CatalogImportService
}

func NewProductsHandler(svc service.ProductService, importSvc service.CatalogImportService) *ProductsHandler {
	return &ProductsHandler{svc: svc, importSvc: importSvc}
}

// Create POST /v1/products
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req, actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List products with filters and pagination
// @Tags products
// @Produce json
// @Param name query string false "Name substring filter"
// @Param categoryId query string false "Category id"
// @Param supplierId query string false "Supplier id (via link table)"
// @Param page query int false "0-based page"
// @Param size query int false "Page size"
// @Success 200 {object} dto.Page[dto.ProductResponse]
// @Router /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID GET /v1/products/:id
func (h *ProductsHandler) GetByID(c *gin.Context) {
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

// GetByBarcode GET /v1/products/barcode/:barcode
func (h *ProductsHandler) GetByBarcode(c *gin.Context) {
	resp, err := h.svc.GetByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update PUT /v1/products/:id
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req, actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete DELETE /v1/products/:id
func (h *ProductsHandler) Delete(c *gin.Context) {
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

// BulkCategory PATCH /v1/products/bulk/category
func (h *ProductsHandler) BulkCategory(c *gin.Context) {
	var req dto.ProductBulkCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.BulkUpdateCategory(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BulkPrice PATCH /v1/products/bulk/price
func (h *ProductsHandler) BulkPrice(c *gin.Context) {
	var req dto.ProductBulkPriceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.BulkUpdatePrice(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ImportCSV godoc
// @Summary Bulk import products from a CSV file
// @Tags products
// @Accept mpfd
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.ImportResult
// @Router /v1/products/import-csv [post]
func (h *ProductsHandler) ImportCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("CSV file is required"))
		return
	}
	defer file.Close()

	resp, err := h.importSvc.ImportCSV(c.Request.Context(), file)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
