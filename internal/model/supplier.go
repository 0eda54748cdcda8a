package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a vendor products can be sourced from.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Phone     *string
	Address   *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Supplier) TableName() string { return "suppliers" }
