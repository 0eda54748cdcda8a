package repository

import (
	"context"
	"errors"

	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned by guarded quantity updates when the
// decrement would drive the counter negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	// FindByNameInCategory matches product name case-insensitively within a
	// category; exclude skips one product id (the one being updated).
	FindByNameInCategory(ctx context.Context, name string, categoryID uuid.UUID, exclude *uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	SaveAll(ctx context.Context, products []model.Product) error
	UpdatePriceAll(ctx context.Context, ids []uuid.UUID, price decimal.Decimal) error
	ExistsByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error)

	// Used inside transactions — callers must pass the tx instance.
	// ApplyQuantityDeltaTx performs an atomic guarded increment: the update
	// only applies when quantity + delta stays non-negative, otherwise
	// ErrInsufficientStock is returned and the row is untouched.
	ApplyQuantityDeltaTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error
	SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity decimal.Decimal) error
	// UpdateCostTx refreshes the last-known cost price, and optionally the
	// primary supplier, without touching the quantity counter.
	UpdateCostTx(tx *gorm.DB, id uuid.UUID, cost decimal.Decimal, supplierID *uuid.UUID) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepository{db: db} }

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("lower(barcode) = lower(?)", barcode).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) FindByNameInCategory(ctx context.Context, name string, categoryID uuid.UUID, exclude *uuid.UUID) (*model.Product, error) {
	q := r.db.WithContext(ctx).
		Where("lower(name) = lower(?) AND category_id = ?", name, categoryID)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	var p model.Product
	if err := q.First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepository) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SupplierID != "" {
		// Supplier filtering goes through the link table, so products
		// sourced from a secondary supplier are included too.
		q = q.Where("id IN (?)", r.db.Model(&model.ProductSupplier{}).
			Select("product_id").Where("supplier_id = ?", filter.SupplierID))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	switch sortBy {
	case "name", "price", "quantity", "created_at":
	default:
		sortBy = "name"
	}
	dir := "ASC"
	if filter.SortDir == "desc" {
		dir = "DESC"
	}

	var products []model.Product
	err := q.Order(sortBy + " " + dir).
		Limit(filter.Size).Offset(filter.Page * filter.Size).
		Find(&products).Error
	return products, total, err
}

func (r *productRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Find(&products).Error
	return products, err
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepository) SaveAll(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(&products).Error
}

func (r *productRepository) UpdatePriceAll(ctx context.Context, ids []uuid.UUID, price decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id IN ?", ids).
		Update("price", price).Error
}

func (r *productRepository) ExistsByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", categoryID).Count(&count).Error
	return count > 0, err
}

func (r *productRepository) ApplyQuantityDeltaTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *productRepository) SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity decimal.Decimal) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *productRepository) UpdateCostTx(tx *gorm.DB, id uuid.UUID, cost decimal.Decimal, supplierID *uuid.UUID) error {
	fields := map[string]any{"cost_price": cost}
	if supplierID != nil {
		fields["primary_supplier_id"] = *supplierID
	}
	return tx.Model(&model.Product{}).Where("id = ?", id).Updates(fields).Error
}

func (r *productRepository) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepository) DB() *gorm.DB { return r.db }
