package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles recognized by the authorization middleware.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// AppUser is an operator account. The username is threaded into every
// mutating call as the audit actor (performedBy / createdBy / updatedBy).
type AppUser struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null;default:'staff'"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (AppUser) TableName() string { return "app_users" }
