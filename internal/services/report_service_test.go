package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pharmacy-system/internal/dto"
	"pharmacy-system/internal/entities"
	"pharmacy-system/pkg/types"
)

func TestReportService_Summary(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "3", "10")
	env.seedBranch(t, "1", entities.BranchStatusActive)
	env.seedBranch(t, "2", entities.BranchStatusClosed)
	reports := NewReportService(env.reservations, env.sales, env.store, env.store, env.store, env.store, env.clock, zap.NewNop())

	ctx := clientCtx("c1")
	create := func() *dto.ReservationDTO {
		r, err := env.reservations.CreateReservation(ctx, dto.CreateReservationDTO{ProductID: "3", Quantity: 1, BranchID: "1"})
		require.NoError(t, err)
		return r
	}
	collected := create()
	cancelled := create()
	create()
	_, err := env.reservations.ConfirmPickup(adminCtx(), collected.ID)
	require.NoError(t, err)
	_, err = env.reservations.CancelReservation(ctx, cancelled.ID)
	require.NoError(t, err)

	env.clock.Advance(2 * time.Hour)
	create()
	env.clock.Advance(23 * time.Hour)

	_, err = env.sales.CreateSale(context.Background(), dto.CreateSaleDTO{
		CustomerName: "Ana", PaymentMethod: "Efectivo",
		Lines: []dto.SaleLineDTO{{ProductName: "Ibuprofeno", Quantity: 2, UnitPrice: "10.25"}},
	})
	require.NoError(t, err)
	_, err = env.sales.CreateSale(context.Background(), dto.CreateSaleDTO{
		CustomerName: "Luis", PaymentMethod: "Efectivo", Status: entities.SaleStatusCancelled,
		Lines: []dto.SaleLineDTO{{ProductName: "Ibuprofeno", Quantity: 1, UnitPrice: "99"}},
	})
	require.NoError(t, err)

	summary, err := reports.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Reservations.Total)
	assert.Equal(t, 1, summary.Reservations.Active)
	assert.Equal(t, 1, summary.Reservations.Expired)
	assert.Equal(t, 1, summary.Reservations.Collected)
	assert.Equal(t, 1, summary.Reservations.Cancelled)
	assert.Equal(t, 1, summary.Sales.Count)
	assert.Equal(t, "20.50", summary.Sales.Revenue)
	assert.Equal(t, 1, summary.Products)
	assert.Equal(t, 2, summary.Branches)
	assert.Equal(t, 1, summary.ActiveBranch)

	exported, err := reports.GetReservationsForExport(context.Background(), types.Filter{
		WithPagination: true, Limit: 1,
		Filter: map[string]interface{}{"status": "expired"},
	})
	require.NoError(t, err)
	assert.Len(t, exported, 1)
}
