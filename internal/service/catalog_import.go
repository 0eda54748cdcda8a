package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
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

// importActor tags rows and history entries written by the CSV importer.
const importActor = "import"

// CatalogImportService performs bulk product import from CSV. Rows with a
// missing or unparseable required field are skipped, never failing the whole
// import.
type CatalogImportService interface {
	ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportResult, error)
}

type catalogImportService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	movements  repository.MovementRepository
	linkSvc    ProductSupplierService
}

func NewCatalogImportService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	suppliers repository.SupplierRepository,
	movements repository.MovementRepository,
	linkSvc ProductSupplierService,
) CatalogImportService {
	return &catalogImportService{
		products:   products,
		categories: categories,
		suppliers:  suppliers,
		movements:  movements,
		linkSvc:    linkSvc,
	}
}

// csvRow gives header-keyed access to one record. Empty cells read as absent.
type csvRow struct {
	index  map[string]int
	record []string
}

func (r csvRow) get(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r csvRow) getPtr(column string) *string {
	v := r.get(column)
	if v == "" {
		return nil
	}
	return &v
}

func (r csvRow) getDecimal(column string) *decimal.Decimal {
	v := r.get(column)
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil
	}
	return &d
}

func (s *catalogImportService) ImportCSV(ctx context.Context, reader io.Reader) (*dto.ImportResult, error) {
	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, apierror.BadRequest("Invalid CSV file")
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}

	result := &dto.ImportResult{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed line, count it and move on.
			result.Skipped++
			continue
		}
		switch s.importRow(ctx, csvRow{index: index, record: record}) {
		case rowCreated:
			result.Created++
		case rowUpdated:
			result.Updated++
		default:
			result.Skipped++
		}
	}
	return result, nil
}

type rowOutcome int

const (
	rowSkipped rowOutcome = iota
	rowCreated
	rowUpdated
)

func (s *catalogImportService) importRow(ctx context.Context, row csvRow) rowOutcome {
	name := row.get("name")
	rawCategory := row.get("categoryId")
	rawSupplier := row.get("primarySupplierId")
	rawUnit := row.get("unit")
	rawPrice := row.get("price")
	if name == "" || rawCategory == "" || rawSupplier == "" || rawUnit == "" || rawPrice == "" {
		return rowSkipped
	}

	unit, ok := model.ParseUnit(rawUnit)
	if !ok {
		return rowSkipped
	}
	price, err := decimal.NewFromString(rawPrice)
	if err != nil || price.IsNegative() {
		return rowSkipped
	}
	price = numeric.Money(price)

	categoryID, err := uuid.Parse(rawCategory)
	if err != nil {
		return rowSkipped
	}
	supplierID, err := uuid.Parse(rawSupplier)
	if err != nil {
		return rowSkipped
	}
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return rowSkipped
	}
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		return rowSkipped
	}

	barcode := normalizeBarcode(row.getPtr("barcode"))
	costPrice := numeric.ScaleMoney(row.getDecimal("costPrice"))

	threshold := numeric.ScaleThreshold(row.getDecimal("lowStockThreshold"))
	if threshold == nil {
		threshold = category.DefaultLowStockThreshold
	}

	existing := s.resolveExisting(ctx, barcode, name, categoryID)
	if existing != nil {
		existing.Name = name
		if barcode != nil {
			existing.Barcode = barcode
		}
		existing.CategoryID = categoryID
		existing.PrimarySupplierID = supplierID
		existing.Price = price
		if costPrice != nil {
			existing.CostPrice = costPrice
		}
		existing.Unit = unit
		if v := row.getPtr("imageUrl"); v != nil {
			existing.ImageURL = v
		}
		if v := row.getPtr("notes"); v != nil {
			existing.Notes = v
		}
		existing.LowStockThreshold = threshold

		if err := s.products.Update(ctx, existing); err != nil {
			return rowSkipped
		}
		if err := s.linkSvc.UpsertLink(ctx, existing.ID, supplierID, costPrice, nil, importActor); err != nil {
			return rowSkipped
		}
		return rowUpdated
	}

	product := &model.Product{
		Name:              name,
		Barcode:           barcode,
		CategoryID:        categoryID,
		PrimarySupplierID: supplierID,
		CostPrice:         costPrice,
		Price:             price,
		Unit:              unit,
		ImageURL:          row.getPtr("imageUrl"),
		Notes:             row.getPtr("notes"),
		LowStockThreshold: threshold,
	}

	// An imported opening quantity is recorded as an adjustment movement so
	// the counter stays equal to the ledger sum.
	var opening decimal.Decimal
	if d := row.getDecimal("quantity"); d != nil && d.IsPositive() {
		opening = numeric.ScaleQuantity(*d)
	}

	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if txErr := createProductTx(ctx, tx, s.products, product); txErr != nil {
			return txErr
		}
		if opening.IsZero() {
			return nil
		}
		if txErr := s.products.ApplyQuantityDeltaTx(tx, product.ID, opening); txErr != nil {
			return txErr
		}
		note := "CSV import opening quantity"
		return s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:   product.ID,
			Delta:       opening,
			Reason:      model.ReasonAdjustment,
			Note:        &note,
			PerformedBy: importActor,
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return rowSkipped
	}
	if err := s.linkSvc.UpsertLink(ctx, product.ID, supplierID, costPrice, nil, importActor); err != nil {
		return rowSkipped
	}
	return rowCreated
}

func (s *catalogImportService) resolveExisting(ctx context.Context, barcode *string, name string, categoryID uuid.UUID) *model.Product {
	if barcode != nil {
		if p, err := s.products.FindByBarcode(ctx, *barcode); err == nil {
			return p
		}
	}
	if p, err := s.products.FindByNameInCategory(ctx, name, categoryID, nil); err == nil {
		return p
	}
	return nil
}

// createProductTx routes the insert through the transaction when one is open
// and falls back to the repository otherwise.
func createProductTx(ctx context.Context, tx *gorm.DB, repo repository.ProductRepository, p *model.Product) error {
	if tx != nil {
		return tx.Create(p).Error
	}
	return repo.Create(ctx, p)
}
