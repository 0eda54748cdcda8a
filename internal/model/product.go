package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unit is the measurement unit a product is stocked and sold in.
// Values are case-sensitive on the wire.
type Unit string

const (
	UnitKG    Unit = "KG"
	UnitG     Unit = "G"
	UnitPiece Unit = "PIECE"
	UnitPack  Unit = "PACK"
)

// ParseUnit normalizes a raw string (trim + uppercase) into a Unit.
// Used by the CSV importer; the JSON boundary validates the exact value.
func ParseUnit(raw string) (Unit, bool) {
	switch u := Unit(strings.ToUpper(strings.TrimSpace(raw))); u {
	case UnitKG, UnitG, UnitPiece, UnitPack:
		return u, true
	default:
		return "", false
	}
}

// Product is a catalog entry. Quantity is the running stock counter and is
// mutated exclusively through stock-ledger operations, never by catalog edits.
type Product struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                 string    `gorm:"index;not null"`
	Barcode              *string   `gorm:"uniqueIndex"`
	CategoryID           uuid.UUID `gorm:"type:uuid;not null;index"`
	PrimarySupplierID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CostPrice            *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Price                decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Quantity             decimal.Decimal  `gorm:"type:decimal(14,3);not null;default:0"`
	Unit                 Unit             `gorm:"type:varchar(16);not null"`
	ImageURL             *string
	Notes                *string
	LowStockThreshold    *decimal.Decimal `gorm:"type:decimal(14,3)"`
	LowStockSnoozedUntil *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Category        *Category `gorm:"foreignKey:CategoryID"`
	PrimarySupplier *Supplier `gorm:"foreignKey:PrimarySupplierID"`
}

func (Product) TableName() string { return "products" }
