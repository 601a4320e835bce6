package services

import (
	"context"
	"math"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy-system/internal/dto"
	"pharmacy-system/internal/entities"
	"pharmacy-system/pkg/types"
)

func TestParseLoose(t *testing.T) {
	assert.Equal(t, 12.5, parseLooseFloat("12.5 mg"))
	assert.Equal(t, 0.5, parseLooseFloat(" .5"))
	assert.True(t, math.IsNaN(parseLooseFloat("abc")))
	assert.True(t, math.IsNaN(parseLooseFloat("")))

	n, ok := parseLooseInt("7 cajas")
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = parseLooseInt("sin stock")
	assert.False(t, ok)
}

func TestAdaptProduct(t *testing.T) {
	p := AdaptProduct(entities.Product{
		ID: "3", Name: "Amoxicilina 500mg", Description: "Amoxicilina. Antibiótico de amplio espectro.",
		Price: "89.90", Stock: "5", PrescriptionFlag: "Si",
	})

	assert.Equal(t, "Amoxicilina", p.ActiveIngredient)
	assert.Equal(t, dto.JSONFloat(89.90), p.Price)
	assert.Equal(t, 5, p.Stock)
	assert.True(t, p.StockValid)
	assert.True(t, p.RequiresPrescription)
	assert.True(t, p.CanIncrement(4))
	assert.False(t, p.CanIncrement(5))
}

func TestAdaptProduct_ZeroStock(t *testing.T) {
	p := AdaptProduct(entities.Product{ID: "3", Stock: "0", Price: "10"})

	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, 0, p.MaxReservable)
	assert.False(t, p.CanIncrement(0))
	assert.False(t, p.CanIncrement(1))
}

func TestAdaptProduct_UnparsableValues(t *testing.T) {
	p := AdaptProduct(entities.Product{ID: "9", Description: "Sin punto", Price: "consultar", Stock: "n/d", PrescriptionFlag: "No"})

	assert.True(t, math.IsNaN(float64(p.Price)))
	assert.False(t, p.StockValid)
	assert.Equal(t, 0, p.MaxReservable)
	assert.Equal(t, "Sin punto", p.ActiveIngredient)
	assert.False(t, p.RequiresPrescription)

	body, err := p.Price.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(body))
}

func TestProductService_FiltersAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "1", "10")
	_, err := env.store.CreateProduct(ctx, entities.Product{
		ID: "2", Name: "Loratadina 10mg", Description: "Loratadina. Antialérgico.",
		Price: "42", Stock: "0", Category: "Antialérgicos", PrescriptionFlag: "No",
	})
	require.NoError(t, err)

	list, total, err := env.products.GetProducts(ctx, types.Filter{Search: "lorat"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	assert.Equal(t, "2", list[0].ID)

	list, _, err = env.products.GetProducts(ctx, types.Filter{Filter: map[string]interface{}{"in_stock": "true"}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID)

	updated, err := env.products.UpdateProduct(ctx, "2", dto.UpdateProductDTO{
		Stock:                null.StringFrom("15"),
		RequiresPrescription: null.BoolFrom(true),
	})
	require.NoError(t, err)
	assert.Equal(t, 15, updated.Stock)
	assert.True(t, updated.RequiresPrescription)
	assert.Equal(t, "Loratadina 10mg", updated.Name)

	stored, err := env.store.FindProduct(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Si", stored.PrescriptionFlag)
	assert.Equal(t, "Antialérgicos", stored.Category)
}

func TestProductService_Create(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.products.CreateProduct(context.Background(), dto.CreateProductDTO{
		Name: "Omeprazol 20mg", Description: "Omeprazol. Protector gástrico.", Price: "55.00", Stock: "30",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 30, created.MaxReservable)
	assert.False(t, created.RequiresPrescription)
	assert.NotEmpty(t, created.CreatedAt)
}

func TestBranchService_ActiveOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedBranch(t, "1", entities.BranchStatusActive)
	env.seedBranch(t, "2", entities.BranchStatusSuspended)
	env.seedBranch(t, "3", entities.BranchStatusClosed)

	active, err := env.branches.GetActiveBranches(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "1", active[0].ID)
	assert.True(t, active[0].IsActive)

	all, total, err := env.branches.GetBranches(ctx, types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	assert.Len(t, all, 3)
}

func TestBranchService_CreateDefaultsAndStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.branches.CreateBranch(ctx, dto.CreateBranchDTO{Name: "Centro", Address: "Av. Juárez 10"})
	require.NoError(t, err)
	assert.Equal(t, string(entities.BranchStatusActive), created.Status)

	suspended, err := env.branches.SetBranchStatus(ctx, created.ID, "suspended")
	require.NoError(t, err)
	assert.Equal(t, string(entities.BranchStatusSuspended), suspended.Status)
	assert.False(t, suspended.IsActive)

	filtered, _, err := env.branches.GetBranches(ctx, types.Filter{Filter: map[string]interface{}{"status": "Suspendido"}})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}
