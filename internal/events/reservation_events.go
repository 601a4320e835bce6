package events

import "pharmacy-system/internal/entities"

const (
	ReservationCreated   = "reservation.created"
	ReservationCompleted = "reservation.completed"
	ReservationCancelled = "reservation.cancelled"
)

// ReservationCreatedEvent возникает после сохранения нового резерва.
type ReservationCreatedEvent struct {
	Reservation entities.Reservation
}

func (e ReservationCreatedEvent) Name() string { return ReservationCreated }

// ReservationCompletedEvent - клиент забрал товар, сотрудник подтвердил выдачу.
type ReservationCompletedEvent struct {
	Reservation entities.Reservation
	Product     entities.Product
	ActorID     string
}

func (e ReservationCompletedEvent) Name() string { return ReservationCompleted }

// ReservationCancelledEvent. Expired=true, если резерв отменён фоновой очисткой.
type ReservationCancelledEvent struct {
	Reservation entities.Reservation
	ActorID     string
	Expired     bool
}

func (e ReservationCancelledEvent) Name() string { return ReservationCancelled }
