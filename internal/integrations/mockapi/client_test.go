package mockapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "pharmacy-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second, zap.NewNop())
}

func TestList_DecodesMixedNumericTypes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Sucursales", r.URL.Path)
		_, _ = io.WriteString(w, `[
			{"id":"1","nombre":"Centro","nroDeTrabajadores":12,"estado":"Activo"},
			{"id":"2","nombre":"Norte","nroDeTrabajadores":"7","estado":"active"}
		]`)
	})

	got, err := List[SucursalDTO](context.Background(), c, CollectionBranches)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, FlexInt(12), got[0].NroDeTrabajadores)
	assert.Equal(t, FlexInt(7), got[1].NroDeTrabajadores)
	assert.True(t, BranchToEntity(got[1]).IsActive())
}

func TestGet_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `"Not found"`, http.StatusNotFound)
	})

	_, err := Get[ReservaDTO](context.Background(), c, CollectionReservations, "999")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreate_ServerErrorIsUpstream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := Create(context.Background(), c, CollectionReservations, ReservaDTO{ProductoID: "1"})
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestReplace_SendsFullRecord(t *testing.T) {
	var received map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/Reservas/5", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(received)
	})

	rec := ReservaDTO{ID: "5", ProductoID: "3", Cantidad: "2", Estado: "cancelada", CreatedAt: "2025-01-01T00:00:00.000Z"}
	out, err := Replace(context.Background(), c, CollectionReservations, "5", rec)
	require.NoError(t, err)
	assert.Equal(t, "cancelada", out.Estado)
	assert.Equal(t, "3", received["productoId"])
	assert.Equal(t, "2", received["cantidad"])
}

func TestTransportFailureIsUpstream(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second, zap.NewNop())
	err := Delete(context.Background(), c, CollectionSales, "1")
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestReservationToEntity(t *testing.T) {
	r, err := ReservationToEntity(ReservaDTO{
		ID: "1", ProductoID: "9", Cantidad: "3", Estado: "confirmada",
		CreatedAt: "2025-03-01T10:00:00.000Z", Fecha: "2025-03-01T10:00:00.000Z",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, r.Quantity)
	assert.Equal(t, "completada", string(r.Status))
	assert.Equal(t, time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC), r.ExpiresAt())

	_, err = ReservationToEntity(ReservaDTO{ID: "2", Cantidad: "1", CreatedAt: "ayer"})
	assert.Error(t, err)
}

func TestFlexString_AcceptsNumber(t *testing.T) {
	var p ProductoDTO
	require.NoError(t, json.Unmarshal([]byte(`{"precio":25.5,"stock":"10"}`), &p))
	assert.Equal(t, FlexString("25.5"), p.Precio)
	assert.Equal(t, FlexString("10"), p.Stock)
}
