package dto

import "github.com/shopspring/decimal"

type CategoryRequest struct {
	Name                     string           `json:"name" validate:"required,min=1,max=120"`
	DefaultLowStockThreshold *decimal.Decimal `json:"defaultLowStockThreshold" validate:"omitempty,min=0"`
}

type CategoryResponse struct {
	ID                       string           `json:"id"`
	Name                     string           `json:"name"`
	DefaultLowStockThreshold *decimal.Decimal `json:"defaultLowStockThreshold"`
}
