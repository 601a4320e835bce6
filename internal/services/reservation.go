package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"pharmacy-system/internal/dto"
	"pharmacy-system/internal/entities"
	"pharmacy-system/internal/events"
	"pharmacy-system/internal/repositories"
	"pharmacy-system/pkg/clock"
	apperrors "pharmacy-system/pkg/errors"
	"pharmacy-system/pkg/eventbus"
	"pharmacy-system/pkg/types"
	"pharmacy-system/pkg/utils"
)

type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, payload dto.CreateReservationDTO) (*dto.ReservationDTO, error)
	ConfirmPickup(ctx context.Context, id string) (*dto.ReservationDTO, error)
	CancelReservation(ctx context.Context, id string) (*dto.ReservationDTO, error)
	DeleteReservation(ctx context.Context, id string) error
	FindReservation(ctx context.Context, id string) (*dto.ReservationDTO, error)
	ListReservations(ctx context.Context, filter types.Filter) ([]dto.ReservationDTO, uint64, error)
	ListMyReservations(ctx context.Context, filter types.Filter) ([]dto.ReservationDTO, uint64, error)
	SweepExpired(ctx context.Context) (*dto.SweepResultDTO, error)
}

type ReservationService struct {
	reservationRepository repositories.ReservationRepositoryInterface
	productRepository     repositories.ProductRepositoryInterface
	branchRepository      repositories.BranchRepositoryInterface
	locker                LockerInterface
	bus                   *eventbus.Bus
	clock                 clock.Clock
	logger                *zap.Logger
}

func NewReservationService(
	reservationRepository repositories.ReservationRepositoryInterface,
	productRepository repositories.ProductRepositoryInterface,
	branchRepository repositories.BranchRepositoryInterface,
	locker LockerInterface,
	bus *eventbus.Bus,
	clk clock.Clock,
	logger *zap.Logger,
) ReservationServiceInterface {
	return &ReservationService{
		reservationRepository: reservationRepository,
		productRepository:     productRepository,
		branchRepository:      branchRepository,
		locker:                locker,
		bus:                   bus,
		clock:                 clk,
		logger:                logger,
	}
}

func reservationToDTO(r entities.Reservation, product *dto.ProductDTO, now time.Time) dto.ReservationDTO {
	res := dto.ReservationDTO{
		ID:            r.ID,
		ProductID:     r.ProductID,
		Quantity:      r.Quantity,
		Status:        string(r.Status),
		DisplayStatus: string(r.DisplayStatus(now)),
		Date:          r.Date,
		CreatedAt:     r.CreatedAt,
		ExpiresAt:     r.ExpiresAt(),
		BranchID:      r.BranchID,
		BranchName:    r.BranchName,
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
	}
	if product != nil {
		res.Product = shortProduct(*product)
	}
	return res
}

func parseDisplayStatus(raw string) (entities.DisplayStatus, bool) {
	switch s := entities.DisplayStatus(raw); s {
	case entities.DisplayStatusActive, entities.DisplayStatusExpired,
		entities.DisplayStatusCollected, entities.DisplayStatusCancelled:
		return s, true
	}
	return "", false
}

// adjustStock меняет остаток товара на delta. Вызывается только под блокировкой товара.
func (s *ReservationService) adjustStock(ctx context.Context, product *entities.Product, delta int) (*entities.Product, error) {
	stock, ok := parseLooseInt(product.Stock)
	if !ok {
		return nil, fmt.Errorf("остаток товара %s не число (%q): %w", product.ID, product.Stock, apperrors.ErrInsufficientStock)
	}
	updated := *product
	updated.Stock = strconv.Itoa(stock + delta)
	return s.productRepository.UpdateProduct(ctx, updated)
}

// restoreStock возвращает количество резерва на склад; удалённый товар пропускается.
func (s *ReservationService) restoreStock(ctx context.Context, r entities.Reservation) (*entities.Product, error) {
	product, err := s.productRepository.FindProduct(ctx, r.ProductID)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Warn("Товар резерва не найден, остаток не восстановлен",
			zap.String("reservation_id", r.ID), zap.String("product_id", r.ProductID))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.adjustStock(ctx, product, r.Quantity)
}

func (s *ReservationService) CreateReservation(ctx context.Context, payload dto.CreateReservationDTO) (*dto.ReservationDTO, error) {
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if payload.Quantity < 1 {
		return nil, apperrors.ErrInvalidQuantity
	}

	customerID, customerName := session.UserID, session.Name
	if session.IsAdmin() && payload.CustomerID != "" {
		customerID, customerName = payload.CustomerID, payload.CustomerName
	}

	branch, err := s.branchRepository.FindBranch(ctx, payload.BranchID)
	if err != nil {
		return nil, fmt.Errorf("филиал %s: %w", payload.BranchID, err)
	}
	if !branch.IsActive() {
		return nil, apperrors.ErrBranchInactive
	}

	unlock, err := s.locker.Lock(ctx, productLockKey(payload.ProductID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	product, err := s.productRepository.FindProduct(ctx, payload.ProductID)
	if err != nil {
		return nil, fmt.Errorf("товар %s: %w", payload.ProductID, err)
	}
	stock, ok := parseLooseInt(product.Stock)
	if !ok || payload.Quantity > stock {
		return nil, apperrors.ErrInsufficientStock
	}

	now := s.clock.Now()
	reservation := entities.Reservation{
		ProductID:    product.ID,
		Quantity:     payload.Quantity,
		Date:         now,
		CreatedAt:    now,
		Status:       entities.ReservationStatusPending,
		BranchID:     branch.ID,
		BranchName:   branch.Name,
		CustomerID:   customerID,
		CustomerName: customerName,
	}

	decremented, err := s.adjustStock(ctx, product, -payload.Quantity)
	if err != nil {
		return nil, err
	}

	created, err := s.reservationRepository.CreateReservation(ctx, reservation)
	if err != nil {
		if _, rbErr := s.adjustStock(ctx, decremented, payload.Quantity); rbErr != nil {
			s.logger.Error("Не удалось вернуть остаток после ошибки создания резерва",
				zap.String("product_id", product.ID), zap.Error(rbErr))
		}
		return nil, err
	}

	s.logger.Info("Резерв создан",
		zap.String("id", created.ID),
		zap.String("product_id", created.ProductID),
		zap.Int("quantity", created.Quantity),
		zap.String("customer_id", created.CustomerID),
	)
	s.bus.Publish(ctx, events.ReservationCreatedEvent{Reservation: *created})

	adapted := AdaptProduct(*decremented)
	res := reservationToDTO(*created, &adapted, now)
	return &res, nil
}

// lockReservation блокирует товар резерва и перечитывает запись уже под блокировкой.
func (s *ReservationService) lockReservation(ctx context.Context, id string) (*entities.Reservation, func(), error) {
	r, err := s.reservationRepository.FindReservation(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	unlock, err := s.locker.Lock(ctx, productLockKey(r.ProductID))
	if err != nil {
		return nil, nil, err
	}
	r, err = s.reservationRepository.FindReservation(ctx, id)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return r, unlock, nil
}

func (s *ReservationService) productFor(ctx context.Context, productID string) *dto.ProductDTO {
	p, err := s.productRepository.FindProduct(ctx, productID)
	if err != nil {
		return nil
	}
	adapted := AdaptProduct(*p)
	return &adapted
}

func (s *ReservationService) ConfirmPickup(ctx context.Context, id string) (*dto.ReservationDTO, error) {
	r, unlock, err := s.lockReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := s.clock.Now()
	switch {
	case r.Status == entities.ReservationStatusCompleted:
		res := reservationToDTO(*r, s.productFor(ctx, r.ProductID), now)
		return &res, nil
	case r.Status == entities.ReservationStatusCancelled:
		return nil, apperrors.ErrInvalidTransition
	case r.IsExpired(now):
		return nil, apperrors.ErrReservationExpired
	}

	r.Status = entities.ReservationStatusCompleted
	updated, err := s.reservationRepository.UpdateReservation(ctx, *r)
	if err != nil {
		return nil, err
	}

	actorID := ""
	if session, err := utils.GetSessionFromCtx(ctx); err == nil {
		actorID = session.UserID
	}
	s.logger.Info("Выдача по резерву подтверждена", zap.String("id", id), zap.String("actor_id", actorID))

	event := events.ReservationCompletedEvent{Reservation: *updated, ActorID: actorID}
	var product *dto.ProductDTO
	if p, err := s.productRepository.FindProduct(ctx, updated.ProductID); err == nil {
		event.Product = *p
		adapted := AdaptProduct(*p)
		product = &adapted
	}
	s.bus.Publish(ctx, event)

	res := reservationToDTO(*updated, product, now)
	return &res, nil
}

// CancelReservation идемпотентна: повторная отмена ничего не меняет.
func (s *ReservationService) CancelReservation(ctx context.Context, id string) (*dto.ReservationDTO, error) {
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	r, unlock, err := s.lockReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !session.IsAdmin() && r.CustomerID != session.UserID {
		s.logger.Warn("Попытка отменить чужой резерв",
			zap.String("id", id), zap.String("user_id", session.UserID))
		return nil, apperrors.ErrForbidden
	}

	now := s.clock.Now()
	switch r.Status {
	case entities.ReservationStatusCancelled:
		res := reservationToDTO(*r, s.productFor(ctx, r.ProductID), now)
		return &res, nil
	case entities.ReservationStatusCompleted:
		return nil, apperrors.ErrInvalidTransition
	}

	updated, product, err := s.cancelLocked(ctx, *r)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Резерв отменён", zap.String("id", id), zap.String("actor_id", session.UserID))
	s.bus.Publish(ctx, events.ReservationCancelledEvent{Reservation: *updated, ActorID: session.UserID})

	var adapted *dto.ProductDTO
	if product != nil {
		p := AdaptProduct(*product)
		adapted = &p
	}
	res := reservationToDTO(*updated, adapted, now)
	return &res, nil
}

// cancelLocked возвращает остаток и переводит резерв в cancelada. Вызывается под блокировкой товара.
func (s *ReservationService) cancelLocked(ctx context.Context, r entities.Reservation) (*entities.Reservation, *entities.Product, error) {
	restored, err := s.restoreStock(ctx, r)
	if err != nil {
		return nil, nil, err
	}

	r.Status = entities.ReservationStatusCancelled
	updated, err := s.reservationRepository.UpdateReservation(ctx, r)
	if err != nil {
		if restored != nil {
			if _, rbErr := s.adjustStock(ctx, restored, -r.Quantity); rbErr != nil {
				s.logger.Error("Не удалось откатить остаток после ошибки отмены",
					zap.String("reservation_id", r.ID), zap.Error(rbErr))
			}
		}
		return nil, nil, err
	}
	return updated, restored, nil
}

// DeleteReservation - жёсткое удаление сотрудником; для ожидающего резерва остаток возвращается.
func (s *ReservationService) DeleteReservation(ctx context.Context, id string) error {
	r, unlock, err := s.lockReservation(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	var restored *entities.Product
	if r.Status == entities.ReservationStatusPending {
		if restored, err = s.restoreStock(ctx, *r); err != nil {
			return err
		}
	}

	if err := s.reservationRepository.DeleteReservation(ctx, id); err != nil {
		if restored != nil {
			if _, rbErr := s.adjustStock(ctx, restored, -r.Quantity); rbErr != nil {
				s.logger.Error("Не удалось откатить остаток после ошибки удаления",
					zap.String("reservation_id", id), zap.Error(rbErr))
			}
		}
		return err
	}
	s.logger.Info("Резерв удалён", zap.String("id", id))
	return nil
}

func (s *ReservationService) FindReservation(ctx context.Context, id string) (*dto.ReservationDTO, error) {
	r, err := s.reservationRepository.FindReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	res := reservationToDTO(*r, s.productFor(ctx, r.ProductID), s.clock.Now())
	return &res, nil
}

func (s *ReservationService) ListMyReservations(ctx context.Context, filter types.Filter) ([]dto.ReservationDTO, uint64, error) {
	session, err := utils.GetSessionFromCtx(ctx)
	if err != nil {
		return nil, 0, apperrors.ErrUnauthorized
	}
	if filter.Filter == nil {
		filter.Filter = make(map[string]interface{})
	}
	filter.Filter["customer_id"] = session.UserID
	return s.ListReservations(ctx, filter)
}

// ListReservations соединяет резервы с каталогом. Резервы, чей товар не найден, отбрасываются
// с предупреждением в логе. filter[status] принимает и отображаемый статус (active, expired...).
func (s *ReservationService) ListReservations(ctx context.Context, filter types.Filter) ([]dto.ReservationDTO, uint64, error) {
	repoFilter := repositories.ReservationFilter{
		CustomerID: filter.FilterString("customer_id"),
		BranchID:   filter.FilterString("branch_id"),
		ProductID:  filter.FilterString("product_id"),
	}
	var displayFilter entities.DisplayStatus
	if raw := filter.FilterString("status"); raw != "" {
		if ds, ok := parseDisplayStatus(raw); ok {
			displayFilter = ds
		} else {
			repoFilter.Status = entities.NormalizeReservationStatus(raw)
		}
	}

	reservations, err := s.reservationRepository.GetReservations(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	products, err := s.productRepository.GetProducts(ctx)
	if err != nil {
		return nil, 0, err
	}

	catalog := make(map[string]dto.ProductDTO, len(products))
	for _, p := range products {
		catalog[p.ID] = AdaptProduct(p)
	}

	now := s.clock.Now()
	list := make([]dto.ReservationDTO, 0, len(reservations))
	for _, r := range reservations {
		product, ok := catalog[r.ProductID]
		if !ok {
			s.logger.Warn("Резерв ссылается на несуществующий товар, пропущен",
				zap.String("reservation_id", r.ID), zap.String("product_id", r.ProductID))
			continue
		}
		if displayFilter != "" && r.DisplayStatus(now) != displayFilter {
			continue
		}
		list = append(list, reservationToDTO(r, &product, now))
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return utils.Paginate(list, filter), uint64(len(list)), nil
}

// SweepExpired отменяет все ожидающие резервы с истёкшим сроком и возвращает остаток на склад.
func (s *ReservationService) SweepExpired(ctx context.Context) (*dto.SweepResultDTO, error) {
	pending, err := s.reservationRepository.GetReservations(ctx, repositories.ReservationFilter{
		Status: entities.ReservationStatusPending,
	})
	if err != nil {
		return nil, err
	}

	result := &dto.SweepResultDTO{Cancelled: []string{}}
	now := s.clock.Now()
	for _, candidate := range pending {
		if !candidate.IsExpired(now) {
			continue
		}
		cancelled, err := s.expireOne(ctx, candidate.ID)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, err
			}
			s.logger.Warn("Не удалось отменить просроченный резерв", zap.String("id", candidate.ID), zap.Error(err))
			result.Failed = append(result.Failed, candidate.ID)
			continue
		}
		if !cancelled {
			continue
		}
		result.Cancelled = append(result.Cancelled, candidate.ID)
	}

	if len(result.Cancelled) > 0 || len(result.Failed) > 0 {
		s.logger.Info("Очистка просроченных резервов завершена",
			zap.Int("cancelled", len(result.Cancelled)),
			zap.Int("failed", len(result.Failed)),
		)
	}
	return result, nil
}

// expireOne перепроверяет резерв под блокировкой: его могли успеть выдать или отменить.
func (s *ReservationService) expireOne(ctx context.Context, id string) (bool, error) {
	r, unlock, err := s.lockReservation(ctx, id)
	if err != nil {
		return false, err
	}
	defer unlock()

	if !r.IsExpired(s.clock.Now()) {
		return false, nil
	}
	updated, _, err := s.cancelLocked(ctx, *r)
	if err != nil {
		return false, err
	}
	s.bus.Publish(ctx, events.ReservationCancelledEvent{Reservation: *updated, Expired: true})
	return true, nil
}
