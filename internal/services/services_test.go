package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pharmacy-system/internal/entities"
	"pharmacy-system/internal/repositories"
	"pharmacy-system/internal/repositories/memory"
	"pharmacy-system/pkg/clock"
	"pharmacy-system/pkg/eventbus"
	"pharmacy-system/pkg/utils"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store        *memory.Store
	cache        repositories.CacheRepositoryInterface
	clock        *clock.Manual
	bus          *eventbus.Bus
	reservations ReservationServiceInterface
	products     ProductServiceInterface
	branches     BranchServiceInterface
	sales        SaleServiceInterface
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	clk := clock.NewManual(testStart)
	cache := repositories.NewMemoryCacheRepository(clk)
	bus := eventbus.New(logger)
	locker := NewLocker(cache, 10*time.Second, logger)

	return &testEnv{
		store:        store,
		cache:        cache,
		clock:        clk,
		bus:          bus,
		reservations: NewReservationService(store, store, store, locker, bus, clk, logger),
		products:     NewProductService(store, clk, logger),
		branches:     NewBranchService(store, logger),
		sales:        NewSaleService(store, clk, logger),
	}
}

func (e *testEnv) seedProduct(t *testing.T, id, stock string) {
	t.Helper()
	_, err := e.store.CreateProduct(context.Background(), entities.Product{
		ID: id, Name: "Ibuprofeno 400mg", Description: "Ibuprofeno. Antiinflamatorio.",
		Price: "35.50", Stock: stock, PrescriptionFlag: "No",
	})
	require.NoError(t, err)
}

func (e *testEnv) seedBranch(t *testing.T, id string, status entities.BranchStatus) {
	t.Helper()
	_, err := e.store.CreateBranch(context.Background(), entities.Branch{
		ID: id, Name: "Sucursal " + id, Address: "Av. Juárez " + id, Status: status,
	})
	require.NoError(t, err)
}

func (e *testEnv) stockOf(t *testing.T, productID string) string {
	t.Helper()
	p, err := e.store.FindProduct(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

func clientCtx(id string) context.Context {
	return utils.WithSession(context.Background(), &utils.Session{
		UserID: id, UserType: utils.UserTypeClient, Name: "Cliente " + id, TokenID: "tok-" + id,
		ExpiresAt: testStart.Add(time.Hour),
	})
}

func adminCtx() context.Context {
	return utils.WithSession(context.Background(), &utils.Session{
		UserID: "a1", UserType: utils.UserTypeAdmin, Name: "Admin", TokenID: "tok-admin",
		ExpiresAt: testStart.Add(time.Hour),
	})
}
