package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is owned by a client, a seller and a store. Items, payments and logs
// cascade on delete so replace-mode imports can drop whole orders in one go.
type Order struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	StoreID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status    OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time       `gorm:"index"`
	UpdatedAt time.Time

	Client   *User          `gorm:"foreignKey:ClientID"`
	Seller   *User          `gorm:"foreignKey:SellerID"`
	Store    *Store         `gorm:"foreignKey:StoreID"`
	Items    []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments []OrderPayment `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Logs     []OrderLog     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is one line of an order. Imported orders carry exactly one line
// referencing the sentinel product, with the original descriptions in Note.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Qty       int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Note      string

	Product *Product `gorm:"foreignKey:ProductID"`
}

// OrderPayment splits an order total across payment methods.
type OrderPayment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	PaymentMethod *PaymentMethod `gorm:"foreignKey:PaymentMethodID"`
}
