package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/AzizSouissi/store-inventory-suite/internal/apierror"
	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/model"
	"github.com/AzizSouissi/store-inventory-suite/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSaleService(f *fixture) service.SaleService {
	return service.NewSaleService(f.sales, f.products, f.movements, nil)
}

func TestSaleDecrementsStockAndAppendsMovement(t *testing.T) {
	f := newFixture()
	svc := newSaleService(f)

	cat := f.seedCategory("Dairy", nil)
	sup := f.seedSupplier("FreshCo")
	p := f.seedProduct("Milk", cat.ID, sup.ID, dec("10"))
	cost := dec("3.00")
	p.CostPrice = &cost

	resp, err := svc.Create(context.Background(), dto.SaleCreateRequest{
		ProductID: p.ID.String(),
		Quantity:  dec("4"),
		UnitPrice: decPtr("5.50"),
		SaleDate:  "2026-08-30",
	}, "carol")
	require.NoError(t, err)
	assert.True(t, resp.Quantity.Equal(dec("4")))
	assert.True(t, resp.UnitPrice.Equal(dec("5.50")))
	require.NotNil(t, resp.ProductName)
	assert.Equal(t, "Milk", *resp.ProductName)

	assert.True(t, f.products.products[p.ID].Quantity.Equal(dec("6")))

	require.Len(t, f.movements.movements, 1)
	m := f.movements.movements[0]
	assert.Equal(t, model.ReasonSale, m.Reason)
	assert.True(t, m.Delta.Equal(dec("-4")))
	// Sale movements carry no batch cost; revenue lives on the sale row.
	assert.Nil(t, m.UnitCost)
	assert.Equal(t, "carol", m.PerformedBy)
	// Movement is timestamped at the sale date, not at entry time.
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), m.CreatedAt.UTC())
}

func TestSaleRejectsInsufficientStock(t *testing.T) {
	f := newFixture()
	svc := newSaleService(f)

	cat := f.seedCategory("Dairy", nil)
	sup := f.seedSupplier("FreshCo")
	p := f.seedProduct("Milk", cat.ID, sup.ID, dec("7"))

	_, err := svc.Create(context.Background(), dto.SaleCreateRequest{
		ProductID: p.ID.String(),
		Quantity:  dec("8"),
		UnitPrice: decPtr("5.50"),
		SaleDate:  "2026-08-30",
	}, "carol")
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindBadRequest))

	assert.True(t, f.products.products[p.ID].Quantity.Equal(dec("7")))
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.movements.movements)
}

func TestSaleValidation(t *testing.T) {
	f := newFixture()
	svc := newSaleService(f)

	cat := f.seedCategory("Dairy", nil)
	sup := f.seedSupplier("FreshCo")
	p := f.seedProduct("Milk", cat.ID, sup.ID, dec("10"))
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.SaleCreateRequest{
		ProductID: uuid.NewString(),
		Quantity:  dec("1"),
		UnitPrice: decPtr("1.00"),
		SaleDate:  "2026-08-30",
	}, "carol")
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))

	_, err = svc.Create(ctx, dto.SaleCreateRequest{
		ProductID: p.ID.String(),
		Quantity:  dec("1"),
		SaleDate:  "2026-08-30",
	}, "carol")
	assert.True(t, apierror.IsKind(err, apierror.KindBadRequest))

	_, err = svc.Create(ctx, dto.SaleCreateRequest{
		ProductID: p.ID.String(),
		Quantity:  dec("1"),
		UnitPrice: decPtr("-2.00"),
		SaleDate:  "2026-08-30",
	}, "carol")
	assert.True(t, apierror.IsKind(err, apierror.KindBadRequest))

	_, err = svc.Create(ctx, dto.SaleCreateRequest{
		ProductID: p.ID.String(),
		Quantity:  dec("1"),
		UnitPrice: decPtr("1.00"),
		SaleDate:  "yesterday",
	}, "carol")
	assert.True(t, apierror.IsKind(err, apierror.KindBadRequest))

	assert.True(t, f.products.products[p.ID].Quantity.Equal(dec("10")))
}

func TestSaleListFiltersByProduct(t *testing.T) {
	f := newFixture()
	svc := newSaleService(f)

	cat := f.seedCategory("Dairy", nil)
	sup := f.seedSupplier("FreshCo")
	milk := f.seedProduct("Milk", cat.ID, sup.ID, dec("10"))
	eggs := f.seedProduct("Eggs", cat.ID, sup.ID, dec("10"))
	ctx := context.Background()

	for _, p := range []*model.Product{milk, milk, eggs} {
		_, err := svc.Create(ctx, dto.SaleCreateRequest{
			ProductID: p.ID.String(),
			Quantity:  dec("1"),
			UnitPrice: decPtr("2.00"),
			SaleDate:  "2026-08-30",
		}, "carol")
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, dto.SaleFilter{ProductID: milk.ID.String(), Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements)

	page, err = svc.List(ctx, dto.SaleFilter{Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
}

func TestSaleListShowsNilNameForDeletedProduct(t *testing.T) {
	f := newFixture()
	svc := newSaleService(f)

	cat := f.seedCategory("Dairy", nil)
	sup := f.seedSupplier("FreshCo")
	p := f.seedProduct("Milk", cat.ID, sup.ID, dec("10"))
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.SaleCreateRequest{
		ProductID: p.ID.String(),
		Quantity:  dec("1"),
		UnitPrice: decPtr("2.00"),
		SaleDate:  "2026-08-30",
	}, "carol")
	require.NoError(t, err)

	delete(f.products.products, p.ID)

	page, err := svc.List(ctx, dto.SaleFilter{Size: 20})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Nil(t, page.Content[0].ProductName)
}

func TestSaleQuantityRounding(t *testing.T) {
	f := newFixture()
	svc := newSaleService(f)

	cat := f.seedCategory("Produce", nil)
	sup := f.seedSupplier("FreshCo")
	p := f.seedProduct("Apples", cat.ID, sup.ID, dec("10"))

	resp, err := svc.Create(context.Background(), dto.SaleCreateRequest{
		ProductID: p.ID.String(),
		Quantity:  dec("1.99999"),
		UnitPrice: decPtr("2.005"),
		SaleDate:  "2026-08-30",
	}, "carol")
	require.NoError(t, err)
	assert.True(t, resp.Quantity.Equal(dec("2")))
	assert.True(t, resp.UnitPrice.Equal(dec("2.01")))
	assert.True(t, f.products.products[p.ID].Quantity.Equal(dec("8")))
}
