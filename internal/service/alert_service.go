package service

import (
	"context"
	"errors"
	"time"

	"github.com/AzizSouissi/store-inventory-suite/internal/apierror"
	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/model"
	"github.com/AzizSouissi/store-inventory-suite/internal/numeric"
	"github.com/AzizSouissi/store-inventory-suite/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AlertService evaluates low-stock state, builds reorder suggestions, and
// manages per-product snoozes.
type AlertService interface {
	GetLowStockAlerts(ctx context.Context) ([]dto.ProductResponse, error)
	GetReorderList(ctx context.Context) ([]dto.ReorderItemResponse, error)
	Snooze(ctx context.Context, productID uuid.UUID, until time.Time) (*dto.ProductResponse, error)
	// IsProductLowStock evaluates a single product, used by the async digest
	// worker after stock-decreasing operations.
	IsProductLowStock(ctx context.Context, productID uuid.UUID) (bool, *model.Product, error)
}

type alertService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

func NewAlertService(products repository.ProductRepository, categories repository.CategoryRepository) AlertService {
	return &alertService{products: products, categories: categories}
}

// EffectiveThreshold resolves the threshold that applies to a product: its
// own when set, else the category default, else nil (no alert possible).
func EffectiveThreshold(product *model.Product, category *model.Category) *decimal.Decimal {
	if product.LowStockThreshold != nil {
		return product.LowStockThreshold
	}
	if category != nil {
		return category.DefaultLowStockThreshold
	}
	return nil
}

// IsLowStock reports whether a product is below its effective threshold at
// the given instant. An active snooze always wins; the comparison is strict,
// quantity equal to the threshold is not low.
func IsLowStock(product *model.Product, category *model.Category, now time.Time) bool {
	if product.LowStockSnoozedUntil != nil && product.LowStockSnoozedUntil.After(now) {
		return false
	}
	threshold := EffectiveThreshold(product, category)
	if threshold == nil {
		return false
	}
	return product.Quantity.LessThan(*threshold)
}

func (s *alertService) GetLowStockAlerts(ctx context.Context) ([]dto.ProductResponse, error) {
	low, err := s.lowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ProductResponse, 0, len(low))
	for i := range low {
		result = append(result, *toProductResponse(&low[i]))
	}
	return result, nil
}

func (s *alertService) GetReorderList(ctx context.Context) ([]dto.ReorderItemResponse, error) {
	low, err := s.lowStockProducts(ctx)
	if err != nil {
		return nil, err
	}

	categoryByID, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ReorderItemResponse, 0, len(low))
	for i := range low {
		p := &low[i]
		threshold := EffectiveThreshold(p, categoryByID[p.CategoryID])
		if threshold == nil {
			continue
		}
		suggested := threshold.Sub(p.Quantity)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		result = append(result, dto.ReorderItemResponse{
			ID:                     p.ID.String(),
			Name:                   p.Name,
			CategoryID:             p.CategoryID.String(),
			Unit:                   string(p.Unit),
			Quantity:               p.Quantity,
			LowStockThreshold:      threshold,
			SuggestedOrderQuantity: numeric.ScaleQuantity(suggested),
		})
	}
	return result, nil
}

// Snooze sets the snooze timestamp as given. Whether it lies in the future
// is the caller's business.
func (s *alertService) Snooze(ctx context.Context, productID uuid.UUID, until time.Time) (*dto.ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Product not found")
		}
		return nil, err
	}
	product.LowStockSnoozedUntil = &until
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (s *alertService) IsProductLowStock(ctx context.Context, productID uuid.UUID) (bool, *model.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, apierror.NotFound("Product not found")
		}
		return false, nil, err
	}

	var category *model.Category
	if c, err := s.categories.FindByID(ctx, product.CategoryID); err == nil {
		category = c
	}
	return IsLowStock(product, category, time.Now()), product, nil
}

func (s *alertService) lowStockProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	categoryByID, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	low := make([]model.Product, 0)
	for i := range products {
		if IsLowStock(&products[i], categoryByID[products[i].CategoryID], now) {
			low = append(low, products[i])
		}
	}
	return low, nil
}

func (s *alertService) categoryIndex(ctx context.Context) (map[uuid.UUID]*model.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	return byID, nil
}
