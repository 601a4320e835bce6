package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper периодически отменяет просроченные резервы и возвращает остаток.
type Sweeper struct {
	reservationService ReservationServiceInterface
	interval           time.Duration
	logger             *zap.Logger
}

func NewSweeper(reservationService ReservationServiceInterface, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		reservationService: reservationService,
		interval:           interval,
		logger:             logger.Named("sweeper"),
	}
}

// Run блокирует до отмены ctx. Интервал 0 отключает очистку.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Фоновая очистка резервов отключена")
		return
	}
	s.logger.Info("Фоновая очистка резервов запущена", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Фоновая очистка резервов остановлена")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Sweeper) runOnce(ctx context.Context) {
	result, err := s.reservationService.SweepExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("Ошибка очистки просроченных резервов", zap.Error(err))
		}
		return
	}
	s.logger.Debug("Проход очистки", zap.Int("cancelled", len(result.Cancelled)), zap.Int("failed", len(result.Failed)))
}
