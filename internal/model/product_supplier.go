package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSupplier links a product to a supplier with the currently
// negotiated price. Upserted whenever a supplier transacts with a product
// (create/update/receive/import). Unique per (product, supplier).
type ProductSupplier struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_supplier"`
	SupplierID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_supplier"`
	NegotiatedPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Note            *string
	UpdatedAt       time.Time

	Product  *Product  `gorm:"foreignKey:ProductID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

func (ProductSupplier) TableName() string { return "product_suppliers" }

// ProductSupplierHistory records every effective change of a negotiated
// price. Rows are immutable and only appended when the price actually
// changes from the prior link value.
type ProductSupplierHistory struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null;index"`
	SupplierID      uuid.UUID `gorm:"type:uuid;not null;index"`
	NegotiatedPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Note            *string
	UpdatedBy       string `gorm:"not null"`
	EffectiveAt     time.Time `gorm:"not null;index"`
}

func (ProductSupplierHistory) TableName() string { return "product_supplier_history" }
