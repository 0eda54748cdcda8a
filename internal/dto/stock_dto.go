package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type StockReceiveRequest struct {
	Quantity   decimal.Decimal  `json:"quantity" validate:"required,gt=0"`
	SupplierID *string          `json:"supplierId" validate:"omitempty,uuid"`
	CostPrice  *decimal.Decimal `json:"costPrice"`
	LotNumber  *string          `json:"lotNumber" validate:"omitempty,max=128"`
	ExpiryDate *string          `json:"expiryDate"`
	Note       *string          `json:"note" validate:"omitempty,max=1000"`
}

type StockWasteRequest struct {
	BatchID  string          `json:"batchId" validate:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity" validate:"required,gt=0"`
	Reason   string          `json:"reason" validate:"required"`
	Note     *string         `json:"note" validate:"omitempty,max=1000"`
}

type StockAdjustRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"required,gt=0"`
	Reason   string          `json:"reason" validate:"required"`
	Increase bool            `json:"increase"`
	Note     *string         `json:"note" validate:"omitempty,max=1000"`
}

type SnoozeRequest struct {
	Until time.Time `json:"until" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type StockMovementResponse struct {
	ID          string           `json:"id"`
	ProductID   string           `json:"productId"`
	Delta       decimal.Decimal  `json:"delta"`
	Reason      string           `json:"reason"`
	BatchID     *string          `json:"batchId"`
	SupplierID  *string          `json:"supplierId"`
	UnitCost    *decimal.Decimal `json:"unitCost"`
	Note        *string          `json:"note"`
	PerformedBy string           `json:"performedBy"`
	CreatedAt   string           `json:"createdAt"`
}

type BatchResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"productId"`
	SupplierID        string          `json:"supplierId"`
	SupplierName      *string         `json:"supplierName"`
	LotNumber         *string         `json:"lotNumber"`
	ExpiryDate        *string         `json:"expiryDate"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	QuantityReceived  decimal.Decimal `json:"quantityReceived"`
	QuantityRemaining decimal.Decimal `json:"quantityRemaining"`
	ReceivedAt        string          `json:"receivedAt"`
	Note              *string         `json:"note"`
}
