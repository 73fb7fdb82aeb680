package repository

import (
	"context"
	"errors"

	"lojalink/internal/model"

	"gorm.io/gorm"
)

type StoreRepository interface {
	FindBySlug(ctx context.Context, slug string) (*model.Store, error)
	// FirstOrCreateTx resolves the store by slug inside a transaction,
	// creating it when absent. Idempotent — safe on every import run.
	FirstOrCreateTx(tx *gorm.DB, s *model.Store) error
	DB() *gorm.DB
}

type storeRepo struct{ db *gorm.DB }

func NewStoreRepository(db *gorm.DB) StoreRepository { return &storeRepo{db: db} }

func (r *storeRepo) FindBySlug(ctx context.Context, slug string) (*model.Store, error) {
	var s model.Store
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&s).Error
	return &s, err
}

func (r *storeRepo) FirstOrCreateTx(tx *gorm.DB, s *model.Store) error {
	err := tx.Where("slug = ?", s.Slug).First(s).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	// Same savepoint dance as the product SKU upsert: a concurrent loser on
	// the slug unique index re-reads instead of poisoning its transaction.
	err = tx.Transaction(func(inner *gorm.DB) error {
		return inner.Create(s).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return tx.Where("slug = ?", s.Slug).First(s).Error
	}
	return err
}

func (r *storeRepo) DB() *gorm.DB { return r.db }
