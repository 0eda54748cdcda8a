package repository

import (
	"context"

	"github.com/AzizSouissi/store-inventory-suite/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleRepository covers recorded sales.
type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	List(ctx context.Context, productID *uuid.UUID, page, size int) ([]model.Sale, int64, error)
	DeleteByProductTx(tx *gorm.DB, productID uuid.UUID) error
}

type saleRepository struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepository{db: db} }

func (r *saleRepository) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepository) List(ctx context.Context, productID *uuid.UUID, page, size int) ([]model.Sale, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sales []model.Sale
	err := q.Order("sale_date desc").
		Limit(size).Offset(page * size).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepository) DeleteByProductTx(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Delete(&model.Sale{}, "product_id = ?", productID).Error
}
