package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Qty       int    `json:"qty"        validate:"required,min=1"`
	Note      string `json:"note"`
}

type OrderPaymentRequest struct {
	PaymentMethodID string          `json:"payment_method_id" validate:"required,uuid"`
	Amount          decimal.Decimal `json:"amount"            validate:"required"`
}

type CreateOrderRequest struct {
	ClientID string                `json:"client_id" validate:"required,uuid"`
	Items    []OrderItemRequest    `json:"items"     validate:"required,min=1,dive"`
	Payments []OrderPaymentRequest `json:"payments"  validate:"omitempty,dive"`
}

type ChangeStatusRequest struct {
	ToStatus string `json:"toStatus" validate:"required"`
}

// OrderFilter is bound from the query string of GET /api/orders.
type OrderFilter struct {
	Status   string `form:"status"` // enum value or "all"
	Date     string `form:"date"`   // YYYY-MM-DD
	SellerID string `form:"seller_id"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	Product   string          `json:"product"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Note      string          `json:"note,omitempty"`
}

type OrderPaymentResponse struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

type OrderResponse struct {
	ID        string                 `json:"id"`
	Client    string                 `json:"client"`
	Seller    string                 `json:"seller"`
	Status    string                 `json:"status"`
	Total     decimal.Decimal        `json:"total"`
	Items     []OrderItemResponse    `json:"items"`
	Payments  []OrderPaymentResponse `json:"payments,omitempty"`
	CreatedAt string                 `json:"created_at"`
	UpdatedAt string                 `json:"updated_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type OrderLogResponse struct {
	Action     string  `json:"action"`
	ByUser     string  `json:"by_user"`
	FromStatus *string `json:"from_status,omitempty"`
	ToStatus   string  `json:"to_status"`
	CreatedAt  string  `json:"created_at"`
}

type PaymentMethodRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

type PaymentMethodResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
