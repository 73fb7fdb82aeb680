package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is a configurable payment option (pix, dinheiro, cartao…).
type PaymentMethod struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
