package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	SKU        string          `json:"sku"         validate:"required"`
	Code       string          `json:"code"`
	Name       string          `json:"name"        validate:"required,min=2"`
	Price      decimal.Decimal `json:"price"       validate:"min=0"`
	Cost       decimal.Decimal `json:"cost"        validate:"min=0"`
	Stock      int             `json:"stock"       validate:"min=0"`
	MinStock   int             `json:"min_stock"   validate:"min=0"`
	Unit       string          `json:"unit"`
	Barcode    *string         `json:"barcode"`
	CategoryID *string         `json:"category_id" validate:"omitempty,uuid"`
}

type UpdateProductRequest struct {
	Code       string           `json:"code"`
	Name       string           `json:"name"`
	Price      *decimal.Decimal `json:"price"`
	Cost       *decimal.Decimal `json:"cost"`
	MinStock   *int             `json:"min_stock"   validate:"omitempty,min=0"`
	Unit       string           `json:"unit"`
	Barcode    *string          `json:"barcode"`
	CategoryID *string          `json:"category_id" validate:"omitempty,uuid"`
}

// ProductFilter is bound from the query string of GET /api/products.
type ProductFilter struct {
	Name       string `form:"name"`
	SKU        string `form:"sku"`
	CategoryID string `form:"category_id"`
	Active     string `form:"active"` // "false" = inactive, "all" = everything, default active
	LowStock   bool   `form:"low_stock"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductResponse struct {
	ID       string          `json:"id"`
	SKU      string          `json:"sku"`
	Code     string          `json:"code,omitempty"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Cost     decimal.Decimal `json:"cost"`
	Stock    int             `json:"stock"`
	MinStock int             `json:"min_stock"`
	Unit     string          `json:"unit"`
	Barcode  *string         `json:"barcode,omitempty"`
	Category *string         `json:"category,omitempty"`
	Active   bool            `json:"active"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// CatalogItem is the public storefront projection — no cost, no stock counts.
type CatalogItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Unit     string          `json:"unit"`
	Category *string         `json:"category,omitempty"`
	InStock  bool            `json:"in_stock"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

type CategoryResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
