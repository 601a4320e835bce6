package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pharmacy-system/internal/entities"
	"pharmacy-system/migrations"
	apperrors "pharmacy-system/pkg/errors"
)

// testPool подключается к TEST_DATABASE_URL; без переменной интеграционные тесты пропускаются.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан")
	}
	ctx := context.Background()
	require.NoError(t, migrations.Up(ctx, dsn, zap.NewNop()))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE TABLE sale_lines, sales, reservations, products, branches, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Не удалось очистить таблицы")
	return pool
}

func TestReservationRepository_Integration(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewReservationRepository(pool, zap.NewNop())

	created := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	r, err := repo.CreateReservation(ctx, entities.Reservation{
		ProductID: "p1", Quantity: 2, Date: created, CreatedAt: created,
		Status: entities.ReservationStatusPending, CustomerID: "c1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.True(t, created.Equal(r.CreatedAt))

	r.Status = entities.ReservationStatusCancelled
	_, err = repo.UpdateReservation(ctx, *r)
	require.NoError(t, err)

	list, err := repo.GetReservations(ctx, ReservationFilter{CustomerID: "c1", Status: entities.ReservationStatusCancelled})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.DeleteReservation(ctx, r.ID))
	_, err = repo.FindReservation(ctx, r.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaleRepository_Integration(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewSaleRepository(pool, NewTxManager(pool), zap.NewNop())

	sale := entities.Sale{
		Date:          time.Now().UTC(),
		CustomerName:  "Ana",
		PaymentMethod: "Efectivo",
		Status:        entities.SaleStatusCompleted,
		ReservationID: "r1",
		Lines: []entities.SaleLine{
			{ProductName: "Paracetamol", Quantity: 2, UnitPrice: decimal.RequireFromString("12.50")},
		},
	}
	sale.Total = sale.ComputeTotal()

	created, err := repo.CreateSale(ctx, sale)
	require.NoError(t, err)
	require.Len(t, created.Lines, 1)
	assert.Equal(t, "25.00", created.Total.StringFixed(2))

	_, err = repo.CreateSale(ctx, sale)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	byRes, err := repo.FindSaleByReservation(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byRes.ID)
}
