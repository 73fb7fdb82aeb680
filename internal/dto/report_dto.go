package dto

import "github.com/shopspring/decimal"

// DateRange is bound from ?from&to query params (YYYY-MM-DD, both optional).
type DateRange struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// SellerTotal is one row of the top-sellers ranking.
type SellerTotal struct {
	Vendedor string          `json:"vendedor"`
	Pedidos  int64           `json:"pedidos"`
	Total    decimal.Decimal `json:"total"`
}

// KPIResponse feeds the public dashboard. JSON keys are the legacy wire
// contract consumed by the storefront.
type KPIResponse struct {
	Total         decimal.Decimal `json:"total"`
	Pedidos       int64           `json:"pedidos"`
	Ticket        decimal.Decimal `json:"ticket"`
	TopVendedores []SellerTotal   `json:"topVendedores"`
}

// RecentOrder is the public recent-orders projection.
type RecentOrder struct {
	Cliente   string          `json:"cliente"`
	Vendedor  string          `json:"vendedor"`
	Total     decimal.Decimal `json:"total"`
	Itens     []string        `json:"itens"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"createdAt"`
}

type RecentOrdersResponse struct {
	Data []RecentOrder `json:"data"`
}

type PaymentMethodTotal struct {
	Method  string          `json:"method"`
	Pedidos int64           `json:"pedidos"`
	Total   decimal.Decimal `json:"total"`
}

type ProductTotal struct {
	Product string          `json:"product"`
	Qty     int64           `json:"qty"`
	Total   decimal.Decimal `json:"total"`
}

type DailyTotal struct {
	Day     string          `json:"day"` // YYYY-MM-DD
	Pedidos int64           `json:"pedidos"`
	Total   decimal.Decimal `json:"total"`
}
