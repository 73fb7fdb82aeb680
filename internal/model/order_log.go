package model

import (
	"time"

	"github.com/google/uuid"
)

// Log actions written by the order workflows.
const (
	LogActionCreate       = "create"
	LogActionStatusChange = "status_change"
	LogActionImport       = "import"
)

// OrderLog is the append-only audit trail of an order. Rows are never updated
// or deleted except transitively when the order itself is deleted.
type OrderLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Action     string    `gorm:"not null"`
	ByUserID   uuid.UUID `gorm:"type:uuid;not null"`
	FromStatus *OrderStatus `gorm:"type:varchar(20)"`
	ToStatus   OrderStatus  `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time    `gorm:"index"`

	ByUser *User `gorm:"foreignKey:ByUserID"`
}
