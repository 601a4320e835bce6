package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestReservation_ExpiresExactlyAfter24h(t *testing.T) {
	created := time.Date(2025, 11, 4, 10, 30, 0, 0, time.UTC)
	r := Reservation{CreatedAt: created, Status: ReservationStatusPending}

	assert.Equal(t, created.Add(86_400_000*time.Millisecond), r.ExpiresAt())
	assert.False(t, r.IsExpired(created.Add(23*time.Hour+59*time.Minute)))
	assert.True(t, r.IsExpired(created.Add(24*time.Hour)))
}

func TestReservation_DisplayStatus(t *testing.T) {
	created := time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC)
	later := created.Add(48 * time.Hour)

	cases := []struct {
		status ReservationStatus
		now    time.Time
		want   DisplayStatus
	}{
		{ReservationStatusPending, created, DisplayStatusActive},
		{ReservationStatusPending, later, DisplayStatusExpired},
		{ReservationStatusCompleted, later, DisplayStatusCollected},
		{ReservationStatusCancelled, created, DisplayStatusCancelled},
	}
	for _, tc := range cases {
		r := Reservation{CreatedAt: created, Status: tc.status}
		assert.Equal(t, tc.want, r.DisplayStatus(tc.now), string(tc.status))
	}
}

func TestNormalizeReservationStatus_LegacyConfirmed(t *testing.T) {
	assert.Equal(t, ReservationStatusCompleted, NormalizeReservationStatus("confirmada"))
	assert.Equal(t, ReservationStatusPending, NormalizeReservationStatus("pendiente"))
}

func TestNormalizeReservationStatus_EnglishAliases(t *testing.T) {
	assert.Equal(t, ReservationStatusPending, NormalizeReservationStatus("pending"))
	assert.Equal(t, ReservationStatusCompleted, NormalizeReservationStatus(" Completed "))
	assert.Equal(t, ReservationStatusCancelled, NormalizeReservationStatus("canceled"))
	assert.Equal(t, ReservationStatus("reservada"), NormalizeReservationStatus("reservada"))
}

func TestNormalizeBranchStatus(t *testing.T) {
	assert.Equal(t, BranchStatusActive, NormalizeBranchStatus("active"))
	assert.Equal(t, BranchStatusActive, NormalizeBranchStatus(" ACTIVO "))
	assert.Equal(t, BranchStatusSuspended, NormalizeBranchStatus("suspended"))
	assert.Equal(t, BranchStatusClosed, NormalizeBranchStatus("Cerrado"))

	unknown := NormalizeBranchStatus("en remodelación")
	assert.False(t, unknown.IsKnown())
	assert.False(t, Branch{Status: unknown}.IsActive())
}

func TestSale_ComputeTotal(t *testing.T) {
	sale := Sale{Lines: []SaleLine{
		{ProductName: "Paracetamol 500mg", Quantity: 2, UnitPrice: decimal.RequireFromString("25.50")},
		{ProductName: "Vitamina C 1000mg", Quantity: 1, UnitPrice: decimal.RequireFromString("45.00")},
	}}

	assert.Equal(t, "96.00", sale.ComputeTotal().StringFixed(2))
}
