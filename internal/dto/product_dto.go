package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProductRequest is shared by create and update; both take the full shape.
type ProductRequest struct {
	Name              string           `json:"name" validate:"required,min=1,max=200"`
	Barcode           *string          `json:"barcode" validate:"omitempty,max=128"`
	CategoryID        string           `json:"categoryId" validate:"required,uuid"`
	PrimarySupplierID string           `json:"primarySupplierId" validate:"required,uuid"`
	Price             *decimal.Decimal `json:"price" validate:"omitempty,min=0"`
	Unit              string           `json:"unit" validate:"required,oneof=KG G PIECE PACK"`
	ImageURL          *string          `json:"imageUrl" validate:"omitempty,max=2048"`
	Notes             *string          `json:"notes" validate:"omitempty,max=5000"`
	LowStockThreshold *decimal.Decimal `json:"lowStockThreshold" validate:"omitempty,min=0"`
}

type ProductBulkCategoryRequest struct {
	ProductIDs []string `json:"productIds" validate:"required,min=1,dive,uuid"`
	CategoryID string   `json:"categoryId" validate:"required,uuid"`
}

type ProductBulkPriceRequest struct {
	ProductIDs []string         `json:"productIds" validate:"required,min=1,dive,uuid"`
	Price      *decimal.Decimal `json:"price" validate:"omitempty,min=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Name       string `form:"name"`
	CategoryID string `form:"categoryId"`
	SupplierID string `form:"supplierId"`
	Page       int    `form:"page,default=0" validate:"min=0"`
	Size       int    `form:"size,default=20" validate:"min=1,max=200"`
	SortBy     string `form:"sortBy,default=name"`
	SortDir    string `form:"sortDir,default=asc" validate:"omitempty,oneof=asc desc"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Barcode              *string          `json:"barcode"`
	CategoryID           string           `json:"categoryId"`
	PrimarySupplierID    string           `json:"primarySupplierId"`
	CostPrice            *decimal.Decimal `json:"costPrice"`
	Price                decimal.Decimal  `json:"price"`
	Quantity             decimal.Decimal  `json:"quantity"`
	Unit                 string           `json:"unit"`
	ImageURL             *string          `json:"imageUrl"`
	Notes                *string          `json:"notes"`
	LowStockThreshold    *decimal.Decimal `json:"lowStockThreshold"`
	LowStockSnoozedUntil *string          `json:"lowStockSnoozedUntil"`
}

// ImportResult summarizes a CSV import. Skipped rows are counted but not
// itemized.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
