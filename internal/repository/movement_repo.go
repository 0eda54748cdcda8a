package repository

import (
	"context"

	"github.com/AzizSouissi/store-inventory-suite/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovementRepository covers the append-only stock movement ledger.
type MovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	ListByProduct(ctx context.Context, productID uuid.UUID, page, size int) ([]model.StockMovement, int64, error)
	// SumDeltas returns the ledger total for a product — the authoritative
	// value the cached product quantity is reconciled against.
	SumDeltas(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
	DeleteByProductTx(tx *gorm.DB, productID uuid.UUID) error
}

type movementRepository struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *movementRepository) ListByProduct(ctx context.Context, productID uuid.UUID, page, size int) ([]model.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Where("product_id = ?", productID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movements []model.StockMovement
	err := q.Order("created_at desc").
		Limit(size).Offset(page * size).
		Find(&movements).Error
	return movements, total, err
}

func (r *movementRepository) SumDeltas(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *movementRepository) DeleteByProductTx(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Delete(&model.StockMovement{}, "product_id = ?", productID).Error
}
