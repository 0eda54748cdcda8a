package repository

import (
	"context"

	"github.com/AzizSouissi/store-inventory-suite/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BatchRepository covers inventory batches (received lots).
type BatchRepository interface {
	CreateTx(tx *gorm.DB, b *model.InventoryBatch) error
	FindForProduct(ctx context.Context, batchID, productID uuid.UUID) (*model.InventoryBatch, error)
	// LatestByProduct returns the most recently received batch, or
	// gorm.ErrRecordNotFound when the product has none.
	LatestByProduct(ctx context.Context, productID uuid.UUID) (*model.InventoryBatch, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, availableOnly bool) ([]model.InventoryBatch, error)
	// DecrementRemainingTx subtracts qty from quantity_remaining, guarded so
	// the batch can never go below zero; ErrInsufficientStock otherwise.
	DecrementRemainingTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error
	DeleteByProductTx(tx *gorm.DB, productID uuid.UUID) error
}

type batchRepository struct{ db *gorm.DB }

func NewBatchRepository(db *gorm.DB) BatchRepository { return &batchRepository{db: db} }

func (r *batchRepository) CreateTx(tx *gorm.DB, b *model.InventoryBatch) error {
	return tx.Create(b).Error
}

func (r *batchRepository) FindForProduct(ctx context.Context, batchID, productID uuid.UUID) (*model.InventoryBatch, error) {
	var b model.InventoryBatch
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", batchID, productID).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *batchRepository) LatestByProduct(ctx context.Context, productID uuid.UUID) (*model.InventoryBatch, error) {
	var b model.InventoryBatch
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("received_at desc").
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *batchRepository) ListByProduct(ctx context.Context, productID uuid.UUID, availableOnly bool) ([]model.InventoryBatch, error) {
	q := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if availableOnly {
		q = q.Where("quantity_remaining > 0")
	}
	var batches []model.InventoryBatch
	err := q.Order("received_at desc").Find(&batches).Error
	return batches, err
}

func (r *batchRepository) DecrementRemainingTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error {
	res := tx.Model(&model.InventoryBatch{}).
		Where("id = ? AND quantity_remaining >= ?", id, qty).
		Update("quantity_remaining", gorm.Expr("quantity_remaining - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *batchRepository) DeleteByProductTx(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Delete(&model.InventoryBatch{}, "product_id = ?", productID).Error
}
