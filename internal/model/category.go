package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category classifies products and carries an optional default low-stock
// threshold inherited by products that do not set their own.
type Category struct {
	ID                       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                     string    `gorm:"uniqueIndex;not null"`
	DefaultLowStockThreshold *decimal.Decimal `gorm:"type:decimal(14,3)"`
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

func (Category) TableName() string { return "categories" }
