package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a manually recorded sale. Each sale also appends a SALE stock
// movement whose audit timestamp is the caller-supplied sale date.
type Sale struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaleDate    time.Time       `gorm:"not null;index"`
	Note        *string
	PerformedBy string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (Sale) TableName() string { return "sales" }
