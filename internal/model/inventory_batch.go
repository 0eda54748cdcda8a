package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryBatch is a discrete received lot of a product, tracked separately
// for waste/spoilage accounting and expiry. QuantityRemaining only decreases,
// via waste/spoilage movements tied to this batch, and never exceeds
// QuantityReceived.
type InventoryBatch struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;index"`
	SupplierID        uuid.UUID `gorm:"type:uuid;not null;index"`
	LotNumber         *string
	ExpiryDate        *time.Time
	UnitCost          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	QuantityReceived  decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	QuantityRemaining decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	ReceivedAt        time.Time       `gorm:"not null;index"`
	Note              *string
	CreatedBy         string `gorm:"not null"`

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

func (InventoryBatch) TableName() string { return "inventory_batches" }
