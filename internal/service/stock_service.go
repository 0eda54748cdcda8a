package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/AzizSouissi/store-inventory-suite/internal/apierror"
	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/model"
	"github.com/AzizSouissi/store-inventory-suite/internal/numeric"
	"github.com/AzizSouissi/store-inventory-suite/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LowStockNotifier enqueues an asynchronous low-stock evaluation for a
// product. The redis-backed dispatcher implements it; a nil notifier is
// silently ignored so unit tests and degraded deployments keep working.
type LowStockNotifier interface {
	EnqueueLowStockCheck(ctx context.Context, productID uuid.UUID)
}

// StockService maintains the stock counter and its movement ledger. Every
// mutation appends a movement and applies the guarded counter delta inside
// one transaction, so the counter can neither drift from the ledger nor go
// negative under concurrent writers.
type StockService interface {
	Receive(ctx context.Context, productID uuid.UUID, req dto.StockReceiveRequest, actor string) (*dto.ProductResponse, error)
	Waste(ctx context.Context, productID uuid.UUID, req dto.StockWasteRequest, actor string) (*dto.ProductResponse, error)
	Adjust(ctx context.Context, productID uuid.UUID, req dto.StockAdjustRequest, actor string) (*dto.ProductResponse, error)
	// Reconcile resets the cached counter to the ledger sum. Safety net for
	// drift introduced outside the API, not part of the normal write path.
	Reconcile(ctx context.Context, productID uuid.UUID) (*dto.ProductResponse, error)
	GetMovements(ctx context.Context, productID uuid.UUID, page, size int) (*dto.Page[dto.StockMovementResponse], error)
	GetBatches(ctx context.Context, productID uuid.UUID, availableOnly bool) ([]dto.BatchResponse, error)
}

type stockService struct {
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	batches   repository.BatchRepository
	movements repository.MovementRepository
	linkSvc   ProductSupplierService
	notifier  LowStockNotifier
}

func NewStockService(
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	batches repository.BatchRepository,
	movements repository.MovementRepository,
	linkSvc ProductSupplierService,
	notifier LowStockNotifier,
) StockService {
	return &stockService{
		products:  products,
		suppliers: suppliers,
		batches:   batches,
		movements: movements,
		linkSvc:   linkSvc,
		notifier:  notifier,
	}
}

func (s *stockService) Receive(ctx context.Context, productID uuid.UUID, req dto.StockReceiveRequest, actor string) (*dto.ProductResponse, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	qty := numeric.ScaleQuantity(req.Quantity)
	if !qty.IsPositive() {
		return nil, apierror.BadRequest("Quantity must be positive")
	}
	if req.CostPrice == nil || !req.CostPrice.IsPositive() {
		return nil, apierror.BadRequest("Cost price must be positive")
	}
	cost := numeric.Money(*req.CostPrice)

	supplierID := product.PrimarySupplierID
	var supplierOverride *uuid.UUID
	if req.SupplierID != nil {
		id, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, apierror.BadRequest("Invalid supplier id")
		}
		if _, err := s.suppliers.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.NotFound("Supplier not found")
			}
			return nil, err
		}
		supplierID = id
		supplierOverride = &id
	}

	var expiry *time.Time
	if req.ExpiryDate != nil {
		t, err := parseDate(*req.ExpiryDate)
		if err != nil {
			return nil, apierror.BadRequest("Invalid expiry date")
		}
		expiry = &t
	}

	lot := req.LotNumber
	if lot == nil {
		generated, err := s.nextLotNumber(ctx, productID)
		if err != nil {
			return nil, err
		}
		lot = &generated
	}

	now := time.Now()
	batch := &model.InventoryBatch{
		ProductID:         productID,
		SupplierID:        supplierID,
		LotNumber:         lot,
		ExpiryDate:        expiry,
		UnitCost:          cost,
		QuantityReceived:  qty,
		QuantityRemaining: qty,
		ReceivedAt:        now,
		Note:              req.Note,
		CreatedBy:         actor,
	}

	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.ApplyQuantityDeltaTx(tx, productID, qty); err != nil {
			return err
		}
		if err := s.batches.CreateTx(tx, batch); err != nil {
			return err
		}
		if err := s.products.UpdateCostTx(tx, productID, cost, supplierOverride); err != nil {
			return err
		}
		return s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:   productID,
			Delta:       qty,
			Reason:      model.ReasonReceive,
			BatchID:     &batch.ID,
			SupplierID:  &supplierID,
			UnitCost:    &cost,
			Note:        req.Note,
			PerformedBy: actor,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.linkSvc.UpsertLink(ctx, productID, supplierID, &cost, req.Note, actor); err != nil {
		return nil, err
	}
	return s.refresh(ctx, productID)
}

func (s *stockService) Waste(ctx context.Context, productID uuid.UUID, req dto.StockWasteRequest, actor string) (*dto.ProductResponse, error) {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}

	reason := model.StockMovementReason(req.Reason)
	if reason != model.ReasonWaste && reason != model.ReasonSpoilage {
		return nil, apierror.BadRequest("Invalid waste reason")
	}

	qty := numeric.ScaleQuantity(req.Quantity)
	if !qty.IsPositive() {
		return nil, apierror.BadRequest("Quantity must be positive")
	}

	batchID, err := uuid.Parse(req.BatchID)
	if err != nil {
		return nil, apierror.BadRequest("Invalid batch id")
	}
	batch, err := s.batches.FindForProduct(ctx, batchID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Batch not found")
		}
		return nil, err
	}

	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.batches.DecrementRemainingTx(tx, batch.ID, qty); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return apierror.BadRequest("Batch does not have enough quantity")
			}
			return err
		}
		if err := s.products.ApplyQuantityDeltaTx(tx, productID, qty.Neg()); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return apierror.BadRequest("Stock quantity cannot be negative")
			}
			return err
		}
		return s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:   productID,
			Delta:       qty.Neg(),
			Reason:      reason,
			BatchID:     &batch.ID,
			SupplierID:  &batch.SupplierID,
			UnitCost:    &batch.UnitCost,
			Note:        req.Note,
			PerformedBy: actor,
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifyLowStock(ctx, productID)
	return s.refresh(ctx, productID)
}

func (s *stockService) Adjust(ctx context.Context, productID uuid.UUID, req dto.StockAdjustRequest, actor string) (*dto.ProductResponse, error) {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}

	reason := model.StockMovementReason(req.Reason)
	if !reason.Valid() {
		return nil, apierror.BadRequest("Invalid movement reason")
	}

	qty := numeric.ScaleQuantity(req.Quantity)
	if !qty.IsPositive() {
		return nil, apierror.BadRequest("Quantity must be positive")
	}

	// RECEIVE and WASTE/SPOILAGE fix the direction; every other reason
	// honors the caller's flag.
	increase := req.Increase
	switch reason {
	case model.ReasonReceive:
		increase = true
	case model.ReasonWaste, model.ReasonSpoilage:
		increase = false
	}

	delta := qty
	if !increase {
		delta = qty.Neg()
	}

	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.ApplyQuantityDeltaTx(tx, productID, delta); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return apierror.BadRequest("Stock quantity cannot be negative")
			}
			return err
		}
		return s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:   productID,
			Delta:       delta,
			Reason:      reason,
			Note:        req.Note,
			PerformedBy: actor,
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	if !increase {
		s.notifyLowStock(ctx, productID)
	}
	return s.refresh(ctx, productID)
}

func (s *stockService) Reconcile(ctx context.Context, productID uuid.UUID) (*dto.ProductResponse, error) {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}

	sum, err := s.movements.SumDeltas(ctx, productID)
	if err != nil {
		return nil, err
	}
	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		return s.products.SetQuantityTx(tx, productID, numeric.ScaleQuantity(sum))
	})
	if err != nil {
		return nil, err
	}
	return s.refresh(ctx, productID)
}

func (s *stockService) GetMovements(ctx context.Context, productID uuid.UUID, page, size int) (*dto.Page[dto.StockMovementResponse], error) {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}

	movements, total, err := s.movements.ListByProduct(ctx, productID, page, size)
	if err != nil {
		return nil, err
	}
	content := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		content = append(content, dto.StockMovementResponse{
			ID:          m.ID.String(),
			ProductID:   m.ProductID.String(),
			Delta:       m.Delta,
			Reason:      string(m.Reason),
			BatchID:     uuidPtrString(m.BatchID),
			SupplierID:  uuidPtrString(m.SupplierID),
			UnitCost:    m.UnitCost,
			Note:        m.Note,
			PerformedBy: m.PerformedBy,
			CreatedAt:   formatTime(m.CreatedAt),
		})
	}
	return dto.NewPage(content, total, page, size), nil
}

func (s *stockService) GetBatches(ctx context.Context, productID uuid.UUID, availableOnly bool) ([]dto.BatchResponse, error) {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}

	batches, err := s.batches.ListByProduct(ctx, productID, availableOnly)
	if err != nil {
		return nil, err
	}

	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, err
	}
	nameByID := make(map[uuid.UUID]string, len(suppliers))
	for _, sup := range suppliers {
		nameByID[sup.ID] = sup.Name
	}

	result := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		var supplierName *string
		if name, ok := nameByID[b.SupplierID]; ok {
			supplierName = &name
		}
		result = append(result, dto.BatchResponse{
			ID:                b.ID.String(),
			ProductID:         b.ProductID.String(),
			SupplierID:        b.SupplierID.String(),
			SupplierName:      supplierName,
			LotNumber:         b.LotNumber,
			ExpiryDate:        formatTimePtr(b.ExpiryDate),
			UnitCost:          b.UnitCost,
			QuantityReceived:  b.QuantityReceived,
			QuantityRemaining: b.QuantityRemaining,
			ReceivedAt:        formatTime(b.ReceivedAt),
			Note:              b.Note,
		})
	}
	return result, nil
}

// nextLotNumber continues the numeric sequence from the latest batch's lot.
// A product with no batches, or whose latest lot is not numeric, starts over
// at "1". Lot numbers are a best-effort label, not an identity.
func (s *stockService) nextLotNumber(ctx context.Context, productID uuid.UUID) (string, error) {
	latest, err := s.batches.LatestByProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "1", nil
		}
		return "", err
	}
	if latest.LotNumber == nil {
		return "1", nil
	}
	n, err := strconv.Atoi(*latest.LotNumber)
	if err != nil {
		return "1", nil
	}
	return strconv.Itoa(n + 1), nil
}

func (s *stockService) findProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Product not found")
		}
		return nil, err
	}
	return product, nil
}

func (s *stockService) refresh(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (s *stockService) notifyLowStock(ctx context.Context, productID uuid.UUID) {
	if s.notifier != nil {
		s.notifier.EnqueueLowStockCheck(ctx, productID)
	}
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
