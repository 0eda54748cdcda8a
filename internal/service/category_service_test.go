package service_test

import (
	"context"
	"testing"

	"github.com/AzizSouissi/store-inventory-suite/internal/apierror"
	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryService(f *fixture) service.CategoryService {
	return service.NewCategoryService(f.categories, f.products)
}

func TestCategoryCreateAndDuplicateName(t *testing.T) {
	f := newFixture()
	svc := newCategoryService(f)
	ctx := context.Background()

	resp, err := svc.Create(ctx, dto.CategoryRequest{Name: "  Dairy  ", DefaultLowStockThreshold: decPtr("5")})
	require.NoError(t, err)
	assert.Equal(t, "Dairy", resp.Name)
	require.NotNil(t, resp.DefaultLowStockThreshold)
	assert.True(t, resp.DefaultLowStockThreshold.Equal(dec("5")))

	// Duplicate detection ignores case.
	_, err = svc.Create(ctx, dto.CategoryRequest{Name: "dairy"})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}

func TestCategoryUpdateRenameConflicts(t *testing.T) {
	f := newFixture()
	svc := newCategoryService(f)
	ctx := context.Background()

	dairy, err := svc.Create(ctx, dto.CategoryRequest{Name: "Dairy"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.CategoryRequest{Name: "Produce"})
	require.NoError(t, err)

	dairyID := uuid.MustParse(dairy.ID)

	// Renaming onto an existing name conflicts; a pure case change of the
	// own name does not.
	_, err = svc.Update(ctx, dairyID, dto.CategoryRequest{Name: "produce"})
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))

	resp, err := svc.Update(ctx, dairyID, dto.CategoryRequest{Name: "DAIRY"})
	require.NoError(t, err)
	assert.Equal(t, "DAIRY", resp.Name)
}

func TestCategoryDeleteBlockedWhileReferenced(t *testing.T) {
	f := newFixture()
	svc := newCategoryService(f)
	ctx := context.Background()

	cat := f.seedCategory("Dairy", nil)
	sup := f.seedSupplier("FreshCo")
	p := f.seedProduct("Milk", cat.ID, sup.ID, decimal.Zero)

	err := svc.Delete(ctx, cat.ID)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))

	delete(f.products.products, p.ID)
	require.NoError(t, svc.Delete(ctx, cat.ID))

	_, err = svc.GetByID(ctx, cat.ID)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestCategoryNotFound(t *testing.T) {
	f := newFixture()
	svc := newCategoryService(f)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, uuid.New())
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))

	_, err = svc.Update(ctx, uuid.New(), dto.CategoryRequest{Name: "X"})
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))

	err = svc.Delete(ctx, uuid.New())
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestCategoryThresholdRounding(t *testing.T) {
	f := newFixture()
	svc := newCategoryService(f)

	resp, err := svc.Create(context.Background(), dto.CategoryRequest{
		Name:                     "Bulk",
		DefaultLowStockThreshold: decPtr("2.12345"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.DefaultLowStockThreshold)
	assert.True(t, resp.DefaultLowStockThreshold.Equal(dec("2.123")))
}
