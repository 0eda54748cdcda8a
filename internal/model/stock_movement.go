package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockMovementReason classifies why a stock movement happened.
type StockMovementReason string

const (
	ReasonReceive    StockMovementReason = "RECEIVE"
	ReasonWaste      StockMovementReason = "WASTE"
	ReasonSpoilage   StockMovementReason = "SPOILAGE"
	ReasonSale       StockMovementReason = "SALE"
	ReasonAdjustment StockMovementReason = "ADJUSTMENT"
	ReasonCorrection StockMovementReason = "CORRECTION"
)

// Valid reports whether r is a known reason code.
func (r StockMovementReason) Valid() bool {
	switch r {
	case ReasonReceive, ReasonWaste, ReasonSpoilage, ReasonSale, ReasonAdjustment, ReasonCorrection:
		return true
	}
	return false
}

// StockMovement is the append-only audit row behind every stock change.
// The sum of Delta over a product's movements always equals the product's
// cached Quantity; both are written in the same transaction.
type StockMovement struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	Delta      decimal.Decimal     `gorm:"type:decimal(14,3);not null"` // signed: positive = in, negative = out
	Reason     StockMovementReason `gorm:"type:varchar(32);not null"`
	BatchID    *uuid.UUID          `gorm:"type:uuid"`
	SupplierID *uuid.UUID          `gorm:"type:uuid"`
	UnitCost   *decimal.Decimal    `gorm:"type:decimal(12,2)"`
	Note       *string
	PerformedBy string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

func (StockMovement) TableName() string { return "stock_movements" }
