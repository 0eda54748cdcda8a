package dto

import "github.com/shopspring/decimal"

type ProductSupplierRequest struct {
	SupplierID      string           `json:"supplierId" validate:"required,uuid"`
	NegotiatedPrice *decimal.Decimal `json:"negotiatedPrice" validate:"omitempty,min=0"`
	Note            *string          `json:"note" validate:"omitempty,max=1000"`
}

type ProductSupplierResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"productId"`
	SupplierID      string           `json:"supplierId"`
	SupplierName    string           `json:"supplierName"`
	NegotiatedPrice *decimal.Decimal `json:"negotiatedPrice"`
	Note            *string          `json:"note"`
	UpdatedAt       string           `json:"updatedAt"`
}

type ProductSupplierHistoryResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"productId"`
	SupplierID      string           `json:"supplierId"`
	SupplierName    string           `json:"supplierName"`
	NegotiatedPrice *decimal.Decimal `json:"negotiatedPrice"`
	Note            *string          `json:"note"`
	UpdatedBy       string           `json:"updatedBy"`
	EffectiveAt     string           `json:"effectiveAt"`
}
