package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement kinds. Qty always holds the positive magnitude; Kind carries the
// direction.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// StockMovement records each stock change on a product. The authoritative
// stock value lives denormalized on Product.Stock; StockBefore/StockAfter
// let the history be reconciled against it.
type StockMovement struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Qty           int       `gorm:"not null"` // positive magnitude
	Kind          string    `gorm:"type:varchar(10);not null"` // "in" | "out"
	StockBefore   int       `gorm:"not null"`
	StockAfter    int       `gorm:"not null"`
	ReferenceType *string   // "order" | "order_cancel" | "manual" …
	ReferenceID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
