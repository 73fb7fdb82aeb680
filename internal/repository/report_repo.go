package repository

import (
	"context"

	"lojalink/internal/dto"
	"lojalink/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportRepository holds the read-only aggregation queries behind the
// dashboards. Pure projections — no invariants, no writes.
type ReportRepository interface {
	Totals(ctx context.Context, rng dto.DateRange) (decimal.Decimal, int64, error)
	TopSellers(ctx context.Context, rng dto.DateRange, limit int) ([]dto.SellerTotal, error)
	ByPaymentMethod(ctx context.Context, rng dto.DateRange) ([]dto.PaymentMethodTotal, error)
	ByProduct(ctx context.Context, rng dto.DateRange) ([]dto.ProductTotal, error)
	ByDay(ctx context.Context, rng dto.DateRange) ([]dto.DailyTotal, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

// ranged applies the optional from/to date filter on orders.created_at and
// always excludes canceled orders from revenue numbers.
func ranged(q *gorm.DB, rng dto.DateRange) *gorm.DB {
	q = q.Where("orders.status <> ?", model.StatusCanceled)
	if rng.From != "" {
		q = q.Where("DATE(orders.created_at) >= ?", rng.From)
	}
	if rng.To != "" {
		q = q.Where("DATE(orders.created_at) <= ?", rng.To)
	}
	return q
}

func (r *reportRepo) Totals(ctx context.Context, rng dto.DateRange) (decimal.Decimal, int64, error) {
	var row struct {
		Total   decimal.Decimal
		Pedidos int64
	}
	err := ranged(r.db.WithContext(ctx).Model(&model.Order{}), rng).
		Select("COALESCE(SUM(orders.total), 0) AS total, COUNT(*) AS pedidos").
		Scan(&row).Error
	return row.Total, row.Pedidos, err
}

func (r *reportRepo) TopSellers(ctx context.Context, rng dto.DateRange, limit int) ([]dto.SellerTotal, error) {
	var rows []dto.SellerTotal
	err := ranged(r.db.WithContext(ctx).Model(&model.Order{}), rng).
		Select("users.name AS vendedor, COUNT(*) AS pedidos, COALESCE(SUM(orders.total), 0) AS total").
		Joins("JOIN users ON users.id = orders.seller_id").
		Group("users.name").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) ByPaymentMethod(ctx context.Context, rng dto.DateRange) ([]dto.PaymentMethodTotal, error) {
	var rows []dto.PaymentMethodTotal
	err := ranged(r.db.WithContext(ctx).Model(&model.OrderPayment{}).
		Joins("JOIN orders ON orders.id = order_payments.order_id"), rng).
		Select("payment_methods.name AS method, COUNT(DISTINCT orders.id) AS pedidos, COALESCE(SUM(order_payments.amount), 0) AS total").
		Joins("JOIN payment_methods ON payment_methods.id = order_payments.payment_method_id").
		Group("payment_methods.name").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) ByProduct(ctx context.Context, rng dto.DateRange) ([]dto.ProductTotal, error) {
	var rows []dto.ProductTotal
	err := ranged(r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id"), rng).
		Select("products.name AS product, COALESCE(SUM(order_items.qty), 0) AS qty, COALESCE(SUM(order_items.qty * order_items.unit_price), 0) AS total").
		Joins("JOIN products ON products.id = order_items.product_id").
		Group("products.name").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) ByDay(ctx context.Context, rng dto.DateRange) ([]dto.DailyTotal, error) {
	var rows []dto.DailyTotal
	err := ranged(r.db.WithContext(ctx).Model(&model.Order{}), rng).
		Select("TO_CHAR(DATE(orders.created_at), 'YYYY-MM-DD') AS day, COUNT(*) AS pedidos, COALESCE(SUM(orders.total), 0) AS total").
		Group("DATE(orders.created_at)").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}
