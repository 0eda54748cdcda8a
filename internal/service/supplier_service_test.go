package service_test

import (
	"context"
	"testing"

	"github.com/AzizSouissi/store-inventory-suite/internal/apierror"
	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSupplierService(f *fixture) service.SupplierService {
	return service.NewSupplierService(f.suppliers)
}

func TestSupplierCreateAndDuplicateName(t *testing.T) {
	f := newFixture()
	svc := newSupplierService(f)
	ctx := context.Background()

	phone := "555-0101"
	resp, err := svc.Create(ctx, dto.SupplierRequest{Name: " FreshCo ", Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "FreshCo", resp.Name)
	require.NotNil(t, resp.Phone)
	assert.Equal(t, "555-0101", *resp.Phone)

	_, err = svc.Create(ctx, dto.SupplierRequest{Name: "FRESHCO"})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}

func TestSupplierUpdateAndDelete(t *testing.T) {
	f := newFixture()
	svc := newSupplierService(f)
	ctx := context.Background()

	fresh, err := svc.Create(ctx, dto.SupplierRequest{Name: "FreshCo"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.SupplierRequest{Name: "BudgetFoods"})
	require.NoError(t, err)

	freshID := uuid.MustParse(fresh.ID)

	_, err = svc.Update(ctx, freshID, dto.SupplierRequest{Name: "budgetfoods"})
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))

	resp, err := svc.Update(ctx, freshID, dto.SupplierRequest{Name: "FreshCo Ltd"})
	require.NoError(t, err)
	assert.Equal(t, "FreshCo Ltd", resp.Name)

	require.NoError(t, svc.Delete(ctx, freshID))
	_, err = svc.GetByID(ctx, freshID)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestSupplierNotFound(t *testing.T) {
	f := newFixture()
	svc := newSupplierService(f)
	ctx := context.Background()

	_, err := svc.Update(ctx, uuid.New(), dto.SupplierRequest{Name: "X"})
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))

	err = svc.Delete(ctx, uuid.New())
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}
