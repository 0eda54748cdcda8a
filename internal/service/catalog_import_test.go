package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/AzizSouissi/store-inventory-suite/internal/model"
	"github.com/AzizSouissi/store-inventory-suite/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImportService(f *fixture) service.CatalogImportService {
	linkSvc := service.NewProductSupplierService(f.links, f.products, f.suppliers)
	return service.NewCatalogImportService(f.products, f.categories, f.suppliers, f.movements, linkSvc)
}

func TestImportCreatesUpdatesAndSkips(t *testing.T) {
	f := newFixture()
	svc := newImportService(f)

	cat := f.seedCategory("Dairy", nil)
	sup := f.seedSupplier("FreshCo")
	existing := f.seedProduct("Milk", cat.ID, sup.ID, decimal.Zero)

	csv := fmt.Sprintf(
		"name,categoryId,primarySupplierId,unit,price,barcode,quantity\n"+
			"Milk,%[1]s,%[2]s,KG,2.80,,\n"+ // updates the seeded product
			"Cream,%[1]s,%[2]s,PIECE,3.10,,5\n"+ // new product with opening stock
			"Butter,%[1]s,%[2]s,,4.00,,\n", // missing unit, skipped
		cat.ID, sup.ID,
	)

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Skipped)

	assert.True(t, f.products.products[existing.ID].Price.Equal(dec("2.80")))
	assert.Len(t, f.products.products, 2)
}

func TestImportOpeningQuantityRecordsMovement(t *testing.T) {
	f := newFixture()
	svc := newImportService(f)

	cat := f.seedCategory("Dairy", nil)
	sup := f.seedSupplier("FreshCo")

	csv := fmt.Sprintf(
		"name,categoryId,primarySupplierId,unit,price,quantity\n"+
			"Cream,%s,%s,PIECE,3.10,7.5\n",
		cat.ID, sup.ID,
	)

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	require.Len(t, f.movements.movements, 1)
	m := f.movements.movements[0]
	assert.Equal(t, model.ReasonAdjustment, m.Reason)
	assert.True(t, m.Delta.Equal(dec("7.5")))
	assert.Equal(t, "import", m.PerformedBy)

	for _, p := range f.products.products {
		assert.True(t, p.Quantity.Equal(dec("7.5")))
	}
}

func TestImportUpdateIgnoresQuantityColumn(t *testing.T) {
	f := newFixture()
	svc := newImportService(f)

	cat := f.seedCategory("Dairy", nil)
	sup := f.seedSupplier("FreshCo")
	existing := f.seedProduct("Milk", cat.ID, sup.ID, dec("3"))

	csv := fmt.Sprintf(
		"name,categoryId,primarySupplierId,unit,price,quantity\n"+
			"Milk,%s,%s,KG,2.80,100\n",
		cat.ID, sup.ID,
	)

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	// Stock is owned by the ledger; an import never rewrites it.
	assert.True(t, f.products.products[existing.ID].Quantity.Equal(dec("3")))
	assert.Empty(t, f.movements.movements)
}

func TestImportMatchesByBarcodeFirst(t *testing.T) {
	f := newFixture()
	svc := newImportService(f)

	cat := f.seedCategory("Dairy", nil)
	sup := f.seedSupplier("FreshCo")
	existing := f.seedProduct("Old Name", cat.ID, sup.ID, decimal.Zero)
	barcode := "4006381333931"
	existing.Barcode = &barcode

	csv := fmt.Sprintf(
		"name,categoryId,primarySupplierId,unit,price,barcode\n"+
			"New Name,%s,%s,KG,2.80,4006381333931\n",
		cat.ID, sup.ID,
	)

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, "New Name", f.products.products[existing.ID].Name)
}

func TestImportSkipsBadRows(t *testing.T) {
	f := newFixture()
	svc := newImportService(f)

	cat := f.seedCategory("Dairy", nil)
	sup := f.seedSupplier("FreshCo")

	csv := fmt.Sprintf(
		"name,categoryId,primarySupplierId,unit,price\n"+
			",%[1]s,%[2]s,KG,2.80\n"+ // no name
			"A,%[1]s,%[2]s,CRATE,2.80\n"+ // unknown unit
			"B,%[1]s,%[2]s,KG,-1\n"+ // negative price
			"C,not-a-uuid,%[2]s,KG,2.80\n"+ // bad category id
			"D,%[1]s,%[2]s,KG,abc\n", // unparseable price
		cat.ID, sup.ID,
	)

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 5, result.Skipped)
	assert.Empty(t, f.products.products)
}

func TestImportInheritsCategoryThreshold(t *testing.T) {
	f := newFixture()
	svc := newImportService(f)

	cat := f.seedCategory("Dairy", decPtr("5"))
	sup := f.seedSupplier("FreshCo")

	csv := fmt.Sprintf(
		"name,categoryId,primarySupplierId,unit,price,lowStockThreshold\n"+
			"Milk,%[1]s,%[2]s,KG,2.80,\n"+
			"Cream,%[1]s,%[2]s,PIECE,3.10,2\n",
		cat.ID, sup.ID,
	)

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)

	byName := make(map[string]*model.Product)
	for _, p := range f.products.products {
		byName[p.Name] = p
	}
	require.NotNil(t, byName["Milk"].LowStockThreshold)
	assert.True(t, byName["Milk"].LowStockThreshold.Equal(dec("5")))
	require.NotNil(t, byName["Cream"].LowStockThreshold)
	assert.True(t, byName["Cream"].LowStockThreshold.Equal(dec("2")))
}

func TestImportCostPriceUpsertsLink(t *testing.T) {
	f := newFixture()
	svc := newImportService(f)

	cat := f.seedCategory("Dairy", nil)
	sup := f.seedSupplier("FreshCo")

	csv := fmt.Sprintf(
		"name,categoryId,primarySupplierId,unit,price,costPrice\n"+
			"Milk,%s,%s,KG,2.80,1.95\n",
		cat.ID, sup.ID,
	)

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	require.Len(t, f.links.links, 1)
	for _, link := range f.links.links {
		require.NotNil(t, link.NegotiatedPrice)
		assert.True(t, link.NegotiatedPrice.Equal(dec("1.95")))
	}
	assert.Len(t, f.links.history, 1)
}

func TestImportRejectsGarbageHeader(t *testing.T) {
	f := newFixture()
	svc := newImportService(f)

	_, err := svc.ImportCSV(context.Background(), strings.NewReader(""))
	require.Error(t, err)
}
