package dto

import "github.com/shopspring/decimal"

// ReorderItemResponse is a low-stock product with its suggested order size.
type ReorderItemResponse struct {
	ID                     string           `json:"id"`
	Name                   string           `json:"name"`
	CategoryID             string           `json:"categoryId"`
	Unit                   string           `json:"unit"`
	Quantity               decimal.Decimal  `json:"quantity"`
	LowStockThreshold      *decimal.Decimal `json:"lowStockThreshold"`
	SuggestedOrderQuantity decimal.Decimal  `json:"suggestedOrderQuantity"`
}
