package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pharmacy-system/internal/entities"
	"pharmacy-system/internal/integrations/mockapi"
	"pharmacy-system/internal/repositories"
	apperrors "pharmacy-system/pkg/errors"
)

func newClient(t *testing.T, routes map[string]string) *mockapi.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return mockapi.New(srv.URL, time.Second, zap.NewNop())
}

func TestReservationRepository_FiltersAndSkipsBrokenRows(t *testing.T) {
	client := newClient(t, map[string]string{
		"/Reservas": `[
			{"id":"1","productoId":"10","cantidad":"1","estado":"pendiente","createdAt":"2025-01-01T10:00:00.000Z","clienteId":"c1"},
			{"id":"2","productoId":"11","cantidad":"2","estado":"pendiente","createdAt":"2025-01-01T10:00:00.000Z","clienteId":"c2"},
			{"id":"3","productoId":"12","cantidad":"1","estado":"pendiente","createdAt":"","clienteId":"c1"},
			{"id":"4","productoId":"13","cantidad":3,"estado":"cancelada","createdAt":"2025-01-01T10:00:00.000Z","clienteId":"c1"}
		]`,
	})
	repo := NewReservationRepository(client, zap.NewNop())

	got, err := repo.GetReservations(context.Background(), repositories.ReservationFilter{CustomerID: "c1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "4", got[1].ID)
	assert.Equal(t, 3, got[1].Quantity)

	got, err = repo.GetReservations(context.Background(), repositories.ReservationFilter{
		CustomerID: "c1", Status: entities.ReservationStatusPending,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestUserRepository_FindByUsernameUsesCollectionForType(t *testing.T) {
	client := newClient(t, map[string]string{
		"/Usuarios": `[{"id":"1","username":"admin","password":"x","nombre":"Admin"}]`,
		"/Clientes": `[{"id":"7","username":"ana","password":"y","nombre":"Ana"}]`,
	})
	repo := NewUserRepository(client)

	u, err := repo.FindByUsername(context.Background(), entities.UserTypeClient, "ana")
	require.NoError(t, err)
	assert.Equal(t, "7", u.ID)
	assert.Equal(t, entities.UserTypeClient, u.Type)

	_, err = repo.FindByUsername(context.Background(), entities.UserTypeClient, "admin")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBranchRepository_NormalizesStatus(t *testing.T) {
	client := newClient(t, map[string]string{
		"/Sucursales": `[{"id":"1","nombre":"Centro","estado":"OPEN"},{"id":"2","nombre":"Sur","estado":"Cerrado"}]`,
	})
	branches, err := NewBranchRepository(client).GetBranches(context.Background())
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, entities.BranchStatusActive, branches[0].Status)
	assert.False(t, branches[1].IsActive())
}

func TestSaleRepository_SkipsMalformedSales(t *testing.T) {
	client := newClient(t, map[string]string{
		"/Ventas": `[
			{"id":"1","date":"2025-01-01T10:00:00.000Z","customerName":"Ana","products":[{"name":"Paracetamol","quantity":2,"price":"25.50"}],"total":"51.00","status":"completada"},
			{"id":"2","date":"ayer","customerName":"Luis","products":[{"name":"Ibuprofeno","quantity":1,"price":"30"}],"total":"30","status":"completada"},
			{"id":"3","date":"2025-01-01T11:00:00.000Z","customerName":"Eva","products":[{"name":"Omeprazol","quantity":1,"price":"gratis"}],"total":"","status":"completada"}
		]`,
		"/Ventas/3": `{"id":"3","date":"2025-01-01T11:00:00.000Z","customerName":"Eva","products":[{"name":"Omeprazol","quantity":1,"price":"gratis"}],"total":"","status":"completada"}`,
	})
	repo := NewSaleRepository(client, zap.NewNop())

	got, err := repo.GetSales(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "51.00", got[0].Total.StringFixed(2))

	_, err = repo.FindSale(context.Background(), "3")
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}
