package dto

// CreateMovementRequest registers a manual stock entry or exit.
type CreateMovementRequest struct {
	ProductID     string  `json:"productId"     validate:"required,uuid"`
	Qty           int     `json:"qty"           validate:"required,min=1"`
	Kind          string  `json:"kind"          validate:"required,oneof=in out"`
	ReferenceType *string `json:"referenceType"`
	ReferenceID   *string `json:"referenceId"   validate:"omitempty,uuid"`
}

type MovementResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	Qty         int    `json:"qty"`
	Kind        string `json:"kind"`
	StockBefore int    `json:"stockBefore"`
	StockAfter  int    `json:"stockAfter"`
	CreatedAt   string `json:"createdAt"`
}

type CreateMovementResponse struct {
	OK       bool             `json:"ok"`
	Movement MovementResponse `json:"movement"`
	NewStock int              `json:"newStock"`
}

// MovementFilter is bound from the query string of GET /api/stock/movements.
type MovementFilter struct {
	ProductID string `form:"product_id"`
	Kind      string `form:"kind"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
