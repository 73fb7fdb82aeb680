package repository

import (
	"context"

	"lojalink/internal/dto"
	"lojalink/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines the data access contract for orders and their
// append-only audit log.
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.Order, error)
	ListLogs(ctx context.Context, orderID uuid.UUID) ([]model.OrderLog, error)

	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status model.OrderStatus) error
	CreateLogTx(tx *gorm.DB, l *model.OrderLog) error
	// FindIDsByItemProductTx returns the ids of orders holding at least one
	// line item for the given product — how "imported orders" are identified.
	FindIDsByItemProductTx(tx *gorm.DB, productID uuid.UUID) ([]uuid.UUID, error)
	// DeleteByIDsTx hard-deletes orders; items/payments/logs cascade.
	DeleteByIDsTx(tx *gorm.DB, ids []uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Payments.PaymentMethod").
		Preload("Client").
		Preload("Seller").
		First(&o, id).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}
	if filter.SellerID != "" {
		q = q.Where("seller_id = ?", filter.SellerID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items.Product").Preload("Payments.PaymentMethod").
		Preload("Client").Preload("Seller").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Client").
		Preload("Seller").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) ListLogs(ctx context.Context, orderID uuid.UUID) ([]model.OrderLog, error) {
	var logs []model.OrderLog
	err := r.db.WithContext(ctx).
		Preload("ByUser").
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := tx.Preload("Items").First(&o, id).Error
	return &o, err
}

func (r *orderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status model.OrderStatus) error {
	return tx.Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepo) CreateLogTx(tx *gorm.DB, l *model.OrderLog) error {
	return tx.Create(l).Error
}

func (r *orderRepo) FindIDsByItemProductTx(tx *gorm.DB, productID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := tx.Model(&model.OrderItem{}).
		Distinct("order_id").
		Where("product_id = ?", productID).
		Pluck("order_id", &ids).Error
	return ids, err
}

func (r *orderRepo) DeleteByIDsTx(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Where("id IN ?", ids).Delete(&model.Order{}).Error
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
