package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/AzizSouissi/store-inventory-suite/internal/apierror"
	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/model"
	"github.com/AzizSouissi/store-inventory-suite/internal/numeric"
	"github.com/AzizSouissi/store-inventory-suite/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const barcodeCacheTTL = 5 * time.Minute

// ProductService covers the product catalog: CRUD, barcode lookup, listing
// with filters, and the bulk category/price operations.
type ProductService interface {
	Create(ctx context.Context, req dto.ProductRequest, actor string) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.ProductRequest, actor string) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.Page[dto.ProductResponse], error)
	BulkUpdateCategory(ctx context.Context, req dto.ProductBulkCategoryRequest) ([]dto.ProductResponse, error)
	BulkUpdatePrice(ctx context.Context, req dto.ProductBulkPriceRequest) ([]dto.ProductResponse, error)
}

type productService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	links      repository.ProductSupplierRepository
	batches    repository.BatchRepository
	movements  repository.MovementRepository
	sales      repository.SaleRepository
	linkSvc    ProductSupplierService
	rdb        *redis.Client
}

func NewProductService(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	suppliers repository.SupplierRepository,
	links repository.ProductSupplierRepository,
	batches repository.BatchRepository,
	movements repository.MovementRepository,
	sales repository.SaleRepository,
	linkSvc ProductSupplierService,
	rdb *redis.Client,
) ProductService {
	return &productService{
		repo:       repo,
		categories: categories,
		suppliers:  suppliers,
		links:      links,
		batches:    batches,
		movements:  movements,
		sales:      sales,
		linkSvc:    linkSvc,
		rdb:        rdb,
	}
}

func (s *productService) Create(ctx context.Context, req dto.ProductRequest, actor string) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apierror.BadRequest("Product name is required")
	}
	if req.Price == nil {
		return nil, apierror.BadRequest("Price is required")
	}

	categoryID, supplierID, err := s.resolveRefs(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameUnique(ctx, name, categoryID, nil); err != nil {
		return nil, err
	}

	barcode := normalizeBarcode(req.Barcode)
	if err := s.ensureBarcodeUnique(ctx, barcode, nil); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:              name,
		Barcode:           barcode,
		CategoryID:        categoryID,
		PrimarySupplierID: supplierID,
		Price:             numeric.Money(*req.Price),
		Unit:              model.Unit(req.Unit),
		ImageURL:          req.ImageURL,
		Notes:             req.Notes,
		LowStockThreshold: numeric.ScaleThreshold(req.LowStockThreshold),
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	// Every product starts with a link to its primary supplier so the
	// supplier views stay complete even before the first receipt.
	if err := s.linkSvc.UpsertLink(ctx, product.ID, supplierID, nil, req.Notes, actor); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.ProductRequest, actor string) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Product not found")
		}
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apierror.BadRequest("Product name is required")
	}

	categoryID, supplierID, err := s.resolveRefs(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameUnique(ctx, name, categoryID, &id); err != nil {
		return nil, err
	}

	barcode := normalizeBarcode(req.Barcode)
	if err := s.ensureBarcodeUnique(ctx, barcode, &id); err != nil {
		return nil, err
	}

	oldBarcode := product.Barcode

	product.Name = name
	product.Barcode = barcode
	product.CategoryID = categoryID
	product.PrimarySupplierID = supplierID
	if req.Price != nil {
		product.Price = numeric.Money(*req.Price)
	}
	product.Unit = model.Unit(req.Unit)
	product.ImageURL = req.ImageURL
	product.Notes = req.Notes
	product.LowStockThreshold = numeric.ScaleThreshold(req.LowStockThreshold)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	// The primary supplier link is refreshed on every update, even when the
	// supplier did not change, so its updatedAt tracks the product.
	if err := s.linkSvc.UpsertLink(ctx, product.ID, supplierID, nil, req.Notes, actor); err != nil {
		return nil, err
	}

	s.invalidateBarcodeCache(ctx, oldBarcode)
	s.invalidateBarcodeCache(ctx, barcode)
	return toProductResponse(product), nil
}

// Delete removes the product together with its supplier links, link history,
// batches, movements, and sales in one transaction.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Product not found")
		}
		return err
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.links.DeleteByProductTx(tx, id); err != nil {
			return err
		}
		if err := s.batches.DeleteByProductTx(tx, id); err != nil {
			return err
		}
		if err := s.movements.DeleteByProductTx(tx, id); err != nil {
			return err
		}
		if err := s.sales.DeleteByProductTx(tx, id); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, id)
	})
	if err != nil {
		return err
	}

	s.invalidateBarcodeCache(ctx, product.Barcode)
	return nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Product not found")
		}
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByBarcode serves the point-of-scan lookup. Hits are cached in Redis for
// a short TTL; a nil client degrades to plain database reads.
func (s *productService) GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, apierror.BadRequest("Barcode is required")
	}

	key := barcodeCacheKey(barcode)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var cached dto.ProductResponse
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	product, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Product not found")
		}
		return nil, err
	}

	resp := toProductResponse(product)
	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, raw, barcodeCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("barcode", barcode).Msg("barcode cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.Page[dto.ProductResponse], error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	content := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		content = append(content, *toProductResponse(&products[i]))
	}
	return dto.NewPage(content, total, filter.Page, filter.Size), nil
}

func (s *productService) BulkUpdateCategory(ctx context.Context, req dto.ProductBulkCategoryRequest) ([]dto.ProductResponse, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, apierror.BadRequest("Invalid category id")
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Category not found")
		}
		return nil, err
	}

	products, err := s.loadProducts(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}

	// Check every name against the target category before persisting
	// anything, so a conflict mid-batch never leaves a partial move.
	for i := range products {
		if products[i].CategoryID == categoryID {
			continue
		}
		if err := s.ensureNameUnique(ctx, products[i].Name, categoryID, &products[i].ID); err != nil {
			return nil, err
		}
	}

	for i := range products {
		products[i].CategoryID = categoryID
	}
	if err := s.repo.SaveAll(ctx, products); err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

func (s *productService) BulkUpdatePrice(ctx context.Context, req dto.ProductBulkPriceRequest) ([]dto.ProductResponse, error) {
	if req.Price == nil {
		return nil, apierror.BadRequest("Price is required")
	}
	price := numeric.Money(*req.Price)

	products, err := s.loadProducts(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
	}
	if err := s.repo.UpdatePriceAll(ctx, ids, price); err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Price = price
	}
	return toProductResponses(products), nil
}

func (s *productService) resolveRefs(ctx context.Context, req dto.ProductRequest) (categoryID, supplierID uuid.UUID, err error) {
	categoryID, err = uuid.Parse(req.CategoryID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apierror.BadRequest("Invalid category id")
	}
	supplierID, err = uuid.Parse(req.PrimarySupplierID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apierror.BadRequest("Invalid supplier id")
	}
	if _, err = s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, uuid.Nil, apierror.NotFound("Category not found")
		}
		return uuid.Nil, uuid.Nil, err
	}
	if _, err = s.suppliers.FindByID(ctx, supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, uuid.Nil, apierror.NotFound("Supplier not found")
		}
		return uuid.Nil, uuid.Nil, err
	}
	return categoryID, supplierID, nil
}

func (s *productService) ensureNameUnique(ctx context.Context, name string, categoryID uuid.UUID, exclude *uuid.UUID) error {
	_, err := s.repo.FindByNameInCategory(ctx, name, categoryID, exclude)
	if err == nil {
		return apierror.Conflict("A product with this name already exists in this category")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (s *productService) ensureBarcodeUnique(ctx context.Context, barcode *string, exclude *uuid.UUID) error {
	if barcode == nil {
		return nil
	}
	existing, err := s.repo.FindByBarcode(ctx, *barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if exclude != nil && existing.ID == *exclude {
		return nil
	}
	return apierror.Conflict("Barcode already in use")
}

func (s *productService) loadProducts(ctx context.Context, rawIDs []string) ([]model.Product, error) {
	ids := make([]uuid.UUID, 0, len(rawIDs))
	seen := make(map[uuid.UUID]struct{}, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apierror.BadRequest("Invalid product id")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	products, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, apierror.NotFound("One or more products not found")
	}
	return products, nil
}

func (s *productService) invalidateBarcodeCache(ctx context.Context, barcode *string) {
	if s.rdb == nil || barcode == nil {
		return
	}
	if err := s.rdb.Del(ctx, barcodeCacheKey(*barcode)).Err(); err != nil {
		log.Warn().Err(err).Msg("barcode cache invalidation failed")
	}
}

func barcodeCacheKey(barcode string) string {
	return "product:barcode:" + strings.ToLower(barcode)
}

func toProductResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                   p.ID.String(),
		Name:                 p.Name,
		Barcode:              p.Barcode,
		CategoryID:           p.CategoryID.String(),
		PrimarySupplierID:    p.PrimarySupplierID.String(),
		CostPrice:            p.CostPrice,
		Price:                p.Price,
		Quantity:             p.Quantity,
		Unit:                 string(p.Unit),
		ImageURL:             p.ImageURL,
		Notes:                p.Notes,
		LowStockThreshold:    p.LowStockThreshold,
		LowStockSnoozedUntil: formatTimePtr(p.LowStockSnoozedUntil),
	}
}

func toProductResponses(products []model.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *toProductResponse(&products[i]))
	}
	return out
}
