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

// ProductSupplierService maintains the per-(product, supplier) negotiated
// price links and their append-only change history.
type ProductSupplierService interface {
	Upsert(ctx context.Context, productID uuid.UUID, req dto.ProductSupplierRequest, updatedBy string) (*dto.ProductSupplierResponse, error)
	// UpsertLink is the link-maintenance side effect shared with product
	// create/update, stock receive, and CSV import. Callers must have
	// validated both ids.
	UpsertLink(ctx context.Context, productID, supplierID uuid.UUID, price *decimal.Decimal, note *string, updatedBy string) error
	GetSuppliersForProduct(ctx context.Context, productID uuid.UUID) ([]dto.ProductSupplierResponse, error)
	GetProductsForSupplier(ctx context.Context, supplierID uuid.UUID) ([]dto.ProductSupplierResponse, error)
	GetHistoryForProduct(ctx context.Context, productID uuid.UUID) ([]dto.ProductSupplierHistoryResponse, error)
}

type productSupplierService struct {
	repo      repository.ProductSupplierRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
}

func NewProductSupplierService(
	repo repository.ProductSupplierRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
) ProductSupplierService {
	return &productSupplierService{repo: repo, products: products, suppliers: suppliers}
}

func (s *productSupplierService) Upsert(ctx context.Context, productID uuid.UUID, req dto.ProductSupplierRequest, updatedBy string) (*dto.ProductSupplierResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Product not found")
		}
		return nil, err
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, apierror.BadRequest("Invalid supplier id")
	}
	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Supplier not found")
		}
		return nil, err
	}

	if err := s.UpsertLink(ctx, productID, supplierID, req.NegotiatedPrice, req.Note, updatedBy); err != nil {
		return nil, err
	}

	link, err := s.repo.FindLink(ctx, productID, supplierID)
	if err != nil {
		return nil, err
	}
	return mapProductSupplier(*link, supplier.Name), nil
}

func (s *productSupplierService) UpsertLink(ctx context.Context, productID, supplierID uuid.UUID, price *decimal.Decimal, note *string, updatedBy string) error {
	existing, err := s.repo.FindLink(ctx, productID, supplierID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now()
	newPrice := numeric.ScaleMoney(price)

	// History rows are appended only when a concrete price is set and it
	// differs from the prior link value.
	priceChanged := newPrice != nil &&
		(existing == nil || existing.NegotiatedPrice == nil || !existing.NegotiatedPrice.Equal(*newPrice))

	link := existing
	if link == nil {
		link = &model.ProductSupplier{ProductID: productID, SupplierID: supplierID}
	}
	link.NegotiatedPrice = newPrice
	link.Note = note
	link.UpdatedAt = now
	if err := s.repo.SaveLink(ctx, link); err != nil {
		return err
	}

	if priceChanged {
		return s.repo.CreateHistory(ctx, &model.ProductSupplierHistory{
			ProductID:       productID,
			SupplierID:      supplierID,
			NegotiatedPrice: newPrice,
			Note:            note,
			UpdatedBy:       updatedBy,
			EffectiveAt:     now,
		})
	}
	return nil
}

func (s *productSupplierService) GetSuppliersForProduct(ctx context.Context, productID uuid.UUID) ([]dto.ProductSupplierResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Product not found")
		}
		return nil, err
	}

	nameByID, err := s.supplierNames(ctx)
	if err != nil {
		return nil, err
	}

	links, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ProductSupplierResponse, 0, len(links))
	for _, link := range links {
		result = append(result, *mapProductSupplier(link, nameByID[link.SupplierID]))
	}
	return result, nil
}

func (s *productSupplierService) GetProductsForSupplier(ctx context.Context, supplierID uuid.UUID) ([]dto.ProductSupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Supplier not found")
		}
		return nil, err
	}

	links, err := s.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ProductSupplierResponse, 0, len(links))
	for _, link := range links {
		result = append(result, *mapProductSupplier(link, supplier.Name))
	}
	return result, nil
}

func (s *productSupplierService) GetHistoryForProduct(ctx context.Context, productID uuid.UUID) ([]dto.ProductSupplierHistoryResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Product not found")
		}
		return nil, err
	}

	nameByID, err := s.supplierNames(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.HistoryByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ProductSupplierHistoryResponse, 0, len(rows))
	for _, h := range rows {
		result = append(result, dto.ProductSupplierHistoryResponse{
			ID:              h.ID.String(),
			ProductID:       h.ProductID.String(),
			SupplierID:      h.SupplierID.String(),
			SupplierName:    nameByID[h.SupplierID],
			NegotiatedPrice: h.NegotiatedPrice,
			Note:            h.Note,
			UpdatedBy:       h.UpdatedBy,
			EffectiveAt:     formatTime(h.EffectiveAt),
		})
	}
	return result, nil
}

func (s *productSupplierService) supplierNames(ctx context.Context) (map[uuid.UUID]string, error) {
	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, err
	}
	nameByID := make(map[uuid.UUID]string, len(suppliers))
	for _, sup := range suppliers {
		nameByID[sup.ID] = sup.Name
	}
	return nameByID, nil
}

func mapProductSupplier(link model.ProductSupplier, supplierName string) *dto.ProductSupplierResponse {
	if supplierName == "" {
		supplierName = "-"
	}
	return &dto.ProductSupplierResponse{
		ID:              link.ID.String(),
		ProductID:       link.ProductID.String(),
		SupplierID:      link.SupplierID.String(),
		SupplierName:    supplierName,
		NegotiatedPrice: link.NegotiatedPrice,
		Note:            link.Note,
		UpdatedAt:       formatTime(link.UpdatedAt),
	}
}
