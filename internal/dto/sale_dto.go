package dto

import "github.com/shopspring/decimal"

type SaleCreateRequest struct {
	ProductID string           `json:"productId" validate:"required,uuid"`
	Quantity  decimal.Decimal  `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
	SaleDate  string           `json:"saleDate" validate:"required"`
	Note      *string          `json:"note" validate:"omitempty,max=1000"`
}

type SaleFilter struct {
	ProductID string `form:"productId"`
	Page      int    `form:"page,default=0" validate:"min=0"`
	Size      int    `form:"size,default=20" validate:"min=1,max=200"`
}

type SaleResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName *string         `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	SaleDate    string          `json:"saleDate"`
	Note        *string         `json:"note"`
	PerformedBy string          `json:"performedBy"`
	CreatedAt   string          `json:"createdAt"`
}
