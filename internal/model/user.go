package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of identity roles. Route allow-lists and the order
// status transition table are validated against these values — free-text
// roles are never written.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleSeller     Role = "seller"
	RoleClient     Role = "client"
	RoleKitchen    Role = "kitchen"
	RoleDelivery   Role = "delivery"
)

// ParseRole validates a role string against the closed enum.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleSupervisor, RoleSeller, RoleClient, RoleKitchen, RoleDelivery:
		return Role(s), true
	}
	return "", false
}

// User stores staff accounts, storefront clients, and the synthetic
// counterparties created by the sales importer (email under @import.local).
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         Role      `gorm:"type:varchar(20);not null"`
	StoreID      *uuid.UUID `gorm:"type:uuid;index"`
	Active       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Store *Store `gorm:"foreignKey:StoreID"`
}
