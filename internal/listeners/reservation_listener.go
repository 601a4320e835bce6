package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pharmacy-system/internal/events"
	"pharmacy-system/internal/services"
	"pharmacy-system/pkg/eventbus"
)

// ReservationListener пишет журнал переходов резервов и, если включено,
// превращает выданный резерв в продажу.
type ReservationListener struct {
	saleService services.SaleServiceInterface
	autoSale    bool
	logger      *zap.Logger
}

func NewReservationListener(saleService services.SaleServiceInterface, autoSale bool, logger *zap.Logger) *ReservationListener {
	return &ReservationListener{
		saleService: saleService,
		autoSale:    autoSale,
		logger:      logger.Named("reservation-listener"),
	}
}

func (l *ReservationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.ReservationCreated, l.handleCreated)
	bus.Subscribe(events.ReservationCompleted, l.handleCompleted)
	bus.Subscribe(events.ReservationCancelled, l.handleCancelled)
	l.logger.Info("ReservationListener подписан на события резервов", zap.Bool("auto_sale", l.autoSale))
}

func (l *ReservationListener) handleCreated(_ context.Context, e eventbus.Event) error {
	event, ok := e.(events.ReservationCreatedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", e)
	}
	l.logger.Info("reservation.created",
		zap.String("id", event.Reservation.ID),
		zap.String("product_id", event.Reservation.ProductID),
		zap.Int("quantity", event.Reservation.Quantity),
		zap.Time("expires_at", event.Reservation.ExpiresAt()),
	)
	return nil
}

func (l *ReservationListener) handleCompleted(ctx context.Context, e eventbus.Event) error {
	event, ok := e.(events.ReservationCompletedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", e)
	}
	l.logger.Info("reservation.completed",
		zap.String("id", event.Reservation.ID),
		zap.String("actor_id", event.ActorID),
	)

	if !l.autoSale {
		return nil
	}
	if event.Product.ID == "" {
		l.logger.Warn("Товар резерва не найден, продажа не создана", zap.String("reservation_id", event.Reservation.ID))
		return nil
	}
	sale, err := l.saleService.CreateSaleFromReservation(ctx, event.Reservation, event.Product)
	if err != nil {
		return fmt.Errorf("не удалось создать продажу по резерву %s: %w", event.Reservation.ID, err)
	}
	l.logger.Info("Продажа по резерву", zap.String("reservation_id", event.Reservation.ID), zap.String("sale_id", sale.ID))
	return nil
}

func (l *ReservationListener) handleCancelled(_ context.Context, e eventbus.Event) error {
	event, ok := e.(events.ReservationCancelledEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", e)
	}
	l.logger.Info("reservation.cancelled",
		zap.String("id", event.Reservation.ID),
		zap.String("actor_id", event.ActorID),
		zap.Bool("expired", event.Expired),
	)
	return nil
}
