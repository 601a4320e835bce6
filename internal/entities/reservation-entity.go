package entities

import (
	"strings"
	"time"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pendiente"
	ReservationStatusCompleted ReservationStatus = "completada"
	ReservationStatusCancelled ReservationStatus = "cancelada"
)

// DisplayStatus вычисляется при чтении и никогда не сохраняется.
type DisplayStatus string

const (
	DisplayStatusActive    DisplayStatus = "active"
	DisplayStatusExpired   DisplayStatus = "expired"
	DisplayStatusCollected DisplayStatus = "collected"
	DisplayStatusCancelled DisplayStatus = "cancelled"
)

// ReservationTTL - резерв действует 24 часа с момента создания.
const ReservationTTL = 24 * time.Hour

var reservationStatusAliases = map[string]ReservationStatus{
	"pendiente":  ReservationStatusPending,
	"pending":    ReservationStatusPending,
	"completada": ReservationStatusCompleted,
	"completed":  ReservationStatusCompleted,
	"confirmada": ReservationStatusCompleted,
	"confirmed":  ReservationStatusCompleted,
	"cancelada":  ReservationStatusCancelled,
	"cancelled":  ReservationStatusCancelled,
	"canceled":   ReservationStatusCancelled,
}

// NormalizeReservationStatus принимает сохранённые значения и их английские варианты.
// Неизвестные значения возвращаются как есть.
func NormalizeReservationStatus(raw string) ReservationStatus {
	if s, ok := reservationStatusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return ReservationStatus(raw)
}

func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusCompleted || s == ReservationStatusCancelled
}

type Reservation struct {
	ID           string
	ProductID    string
	Quantity     int
	Date         time.Time
	CreatedAt    time.Time
	Status       ReservationStatus
	BranchID     string
	BranchName   string
	CustomerID   string
	CustomerName string
}

// ExpiresAt всегда CreatedAt + 24ч; срок не хранится.
func (r Reservation) ExpiresAt() time.Time {
	return r.CreatedAt.Add(ReservationTTL)
}

func (r Reservation) IsExpired(now time.Time) bool {
	return r.Status == ReservationStatusPending && !now.Before(r.ExpiresAt())
}

func (r Reservation) DisplayStatus(now time.Time) DisplayStatus {
	switch r.Status {
	case ReservationStatusCompleted:
		return DisplayStatusCollected
	case ReservationStatusCancelled:
		return DisplayStatusCancelled
	}
	if r.IsExpired(now) {
		return DisplayStatusExpired
	}
	return DisplayStatusActive
}
