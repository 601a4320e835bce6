package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy-system/internal/entities"
	"pharmacy-system/internal/repositories"
	apperrors "pharmacy-system/pkg/errors"
)

func TestStore_ReservationsKeepInsertionOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.CreateReservation(ctx, entities.Reservation{ProductID: "p1", CustomerID: "c1", Status: entities.ReservationStatusPending})
	require.NoError(t, err)
	_, err = s.CreateReservation(ctx, entities.Reservation{ProductID: "p2", CustomerID: "c2", Status: entities.ReservationStatusPending})
	require.NoError(t, err)
	_, err = s.CreateReservation(ctx, entities.Reservation{ProductID: "p3", CustomerID: "c1", Status: entities.ReservationStatusCancelled})
	require.NoError(t, err)

	all, err := s.GetReservations(ctx, repositories.ReservationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "p1", all[0].ProductID)

	mine, err := s.GetReservations(ctx, repositories.ReservationFilter{CustomerID: "c1"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestStore_UpdateUnknownIsNotFound(t *testing.T) {
	s := NewStore()
	_, err := s.UpdateReservation(context.Background(), entities.Reservation{ID: "42"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, s.DeleteBranch(context.Background(), "42"), apperrors.ErrNotFound)
}

func TestStore_SaleByReservationIsUnique(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.CreateSale(ctx, entities.Sale{ReservationID: "r1"})
	require.NoError(t, err)
	_, err = s.CreateSale(ctx, entities.Sale{ReservationID: "r1"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	found, err := s.FindSaleByReservation(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", found.ReservationID)
}

func TestStore_UsersScopedByType(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.CreateUser(ctx, entities.User{Username: "ana", Type: entities.UserTypeClient})
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, entities.User{Username: "ana", Type: entities.UserTypeAdmin})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, entities.User{Username: "ana", Type: entities.UserTypeClient})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	u, err := s.FindByUsername(ctx, entities.UserTypeAdmin, "ana")
	require.NoError(t, err)
	assert.Equal(t, entities.UserTypeAdmin, u.Type)
}
