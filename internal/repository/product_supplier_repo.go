package repository

import (
	"context"

	"github.com/AzizSouissi/store-inventory-suite/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductSupplierRepository covers the per-(product, supplier) link rows and
// the append-only negotiated-price history.
type ProductSupplierRepository interface {
	FindLink(ctx context.Context, productID, supplierID uuid.UUID) (*model.ProductSupplier, error)
	SaveLink(ctx context.Context, link *model.ProductSupplier) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductSupplier, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]model.ProductSupplier, error)
	CreateHistory(ctx context.Context, h *model.ProductSupplierHistory) error
	HistoryByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductSupplierHistory, error)
	DeleteByProductTx(tx *gorm.DB, productID uuid.UUID) error
}

type productSupplierRepository struct{ db *gorm.DB }

func NewProductSupplierRepository(db *gorm.DB) ProductSupplierRepository {
	return &productSupplierRepository{db: db}
}

func (r *productSupplierRepository) FindLink(ctx context.Context, productID, supplierID uuid.UUID) (*model.ProductSupplier, error) {
	var link model.ProductSupplier
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND supplier_id = ?", productID, supplierID).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *productSupplierRepository) SaveLink(ctx context.Context, link *model.ProductSupplier) error {
	return r.db.WithContext(ctx).Save(link).Error
}

func (r *productSupplierRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductSupplier, error) {
	var links []model.ProductSupplier
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Find(&links).Error
	return links, err
}

func (r *productSupplierRepository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]model.ProductSupplier, error) {
	var links []model.ProductSupplier
	err := r.db.WithContext(ctx).Where("supplier_id = ?", supplierID).Find(&links).Error
	return links, err
}

func (r *productSupplierRepository) CreateHistory(ctx context.Context, h *model.ProductSupplierHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *productSupplierRepository) HistoryByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductSupplierHistory, error) {
	var rows []model.ProductSupplierHistory
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("effective_at desc").
		Find(&rows).Error
	return rows, err
}

func (r *productSupplierRepository) DeleteByProductTx(tx *gorm.DB, productID uuid.UUID) error {
	if err := tx.Delete(&model.ProductSupplier{}, "product_id = ?", productID).Error; err != nil {
		return err
	}
	return tx.Delete(&model.ProductSupplierHistory{}, "product_id = ?", productID).Error
}
