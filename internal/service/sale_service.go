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
	"gorm.io/gorm"
)

// SaleService records manual sales. A sale decrements stock and appends a
// SALE movement timestamped at the sale date, so backdated entries land in
// the right place in the ledger.
type SaleService interface {
	Create(ctx context.Context, req dto.SaleCreateRequest, actor string) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.Page[dto.SaleResponse], error)
}

type saleService struct {
	sales     repository.SaleRepository
	products  repository.ProductRepository
	movements repository.MovementRepository
	notifier  LowStockNotifier
}

func NewSaleService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	movements repository.MovementRepository,
	notifier LowStockNotifier,
) SaleService {
	return &saleService{sales: sales, products: products, movements: movements, notifier: notifier}
}

func (s *saleService) Create(ctx context.Context, req dto.SaleCreateRequest, actor string) (*dto.SaleResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.BadRequest("Invalid product id")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Product not found")
		}
		return nil, err
	}

	qty := numeric.ScaleQuantity(req.Quantity)
	if !qty.IsPositive() {
		return nil, apierror.BadRequest("Quantity must be positive")
	}
	if req.UnitPrice == nil || !req.UnitPrice.IsPositive() {
		return nil, apierror.BadRequest("Unit price must be positive")
	}
	unitPrice := numeric.Money(*req.UnitPrice)

	saleDate, err := parseDate(req.SaleDate)
	if err != nil {
		return nil, apierror.BadRequest("Invalid sale date")
	}

	sale := &model.Sale{
		ProductID:   productID,
		Quantity:    qty,
		UnitPrice:   unitPrice,
		SaleDate:    saleDate,
		Note:        req.Note,
		PerformedBy: actor,
		CreatedAt:   time.Now(),
	}

	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.ApplyQuantityDeltaTx(tx, productID, qty.Neg()); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return apierror.BadRequest("Stock quantity cannot be negative")
			}
			return err
		}
		if err := s.sales.CreateTx(tx, sale); err != nil {
			return err
		}
		return s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:   productID,
			Delta:       qty.Neg(),
			Reason:      model.ReasonSale,
			Note:        req.Note,
			PerformedBy: actor,
			CreatedAt:   saleDate,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.EnqueueLowStockCheck(ctx, productID)
	}
	return mapSale(sale, &product.Name), nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.Page[dto.SaleResponse], error) {
	var productID *uuid.UUID
	if filter.ProductID != "" {
		id, err := uuid.Parse(filter.ProductID)
		if err != nil {
			return nil, apierror.BadRequest("Invalid product id")
		}
		productID = &id
	}

	sales, total, err := s.sales.List(ctx, productID, filter.Page, filter.Size)
	if err != nil {
		return nil, err
	}

	// Resolve product names in one pass; deleted products show as nil.
	nameByID := make(map[uuid.UUID]*string)
	ids := make([]uuid.UUID, 0, len(sales))
	seen := make(map[uuid.UUID]struct{})
	for _, sale := range sales {
		if _, ok := seen[sale.ProductID]; ok {
			continue
		}
		seen[sale.ProductID] = struct{}{}
		ids = append(ids, sale.ProductID)
	}
	if len(ids) > 0 {
		products, err := s.products.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range products {
			nameByID[products[i].ID] = &products[i].Name
		}
	}

	content := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		content = append(content, *mapSale(&sales[i], nameByID[sales[i].ProductID]))
	}
	return dto.NewPage(content, total, filter.Page, filter.Size), nil
}

func mapSale(sale *model.Sale, productName *string) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:          sale.ID.String(),
		ProductID:   sale.ProductID.String(),
		ProductName: productName,
		Quantity:    sale.Quantity,
		UnitPrice:   sale.UnitPrice,
		SaleDate:    formatTime(sale.SaleDate),
		Note:        sale.Note,
		PerformedBy: sale.PerformedBy,
		CreatedAt:   formatTime(sale.CreatedAt),
	}
}
