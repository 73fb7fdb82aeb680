package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SentinelSKU anchors orders replayed by the sales importer. Exactly one
// product row ever carries it (upserted, never duplicated).
const SentinelSKU = "IMPORT"

// Product is a catalog entry. Stock is the authoritative on-hand quantity and
// must stay >= 0; every write path that changes it records a StockMovement
// inside the same transaction.
type Product struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU        string          `gorm:"uniqueIndex;not null"`
	Code       string          `gorm:"index"`
	Name       string          `gorm:"index;not null"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Cost       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock      int             `gorm:"not null;default:0"`
	MinStock   int             `gorm:"not null;default:0"`
	Unit       string          `gorm:"not null;default:'un'"`
	Barcode    *string         `gorm:"index"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index"`
	Active     bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}
