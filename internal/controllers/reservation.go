package controllers

import (
	"net/http"

	"pharmacy-system/internal/dto"
	"pharmacy-system/internal/services"
	apperrors "pharmacy-system/pkg/errors"
	"pharmacy-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ReservationController struct {
	reservationService services.ReservationServiceInterface
	logger             *zap.Logger
}

func NewReservationController(reservationService services.ReservationServiceInterface, logger *zap.Logger) *ReservationController {
	return &ReservationController{
		reservationService: reservationService,
		logger:             logger,
	}
}

func (c *ReservationController) CreateReservation(ctx echo.Context) error {
	var payload dto.CreateReservationDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.reservationService.CreateReservation(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Warn("Резерв не создан",
			zap.String("product_id", payload.ProductID),
			zap.Int("quantity", payload.Quantity),
			zap.Error(err),
		)
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Резерв успешно создан", http.StatusCreated)
}

// GetReservations - все резервы для сотрудников; filter[status] принимает active/expired/collected/cancelled.
func (c *ReservationController) GetReservations(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())

	list, total, err := c.reservationService.ListReservations(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список резервов успешно получен", http.StatusOK, total)
}

func (c *ReservationController) GetMyReservations(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())

	list, total, err := c.reservationService.ListMyReservations(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список резервов успешно получен", http.StatusOK, total)
}

func (c *ReservationController) FindReservation(ctx echo.Context) error {
	res, err := c.reservationService.FindReservation(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Резерв успешно найден", http.StatusOK)
}

func (c *ReservationController) ConfirmPickup(ctx echo.Context) error {
	id := ctx.Param("id")

	res, err := c.reservationService.ConfirmPickup(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Warn("Выдача не подтверждена", zap.String("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Выдача подтверждена", http.StatusOK)
}

func (c *ReservationController) CancelReservation(ctx echo.Context) error {
	id := ctx.Param("id")

	res, err := c.reservationService.CancelReservation(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Warn("Резерв не отменён", zap.String("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Резерв отменён", http.StatusOK)
}

func (c *ReservationController) DeleteReservation(ctx echo.Context) error {
	id := ctx.Param("id")

	if err := c.reservationService.DeleteReservation(ctx.Request().Context(), id); err != nil {
		c.logger.Error("Ошибка при удалении резерва", zap.String("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// SweepExpired - ручной запуск очистки просроченных резервов.
func (c *ReservationController) SweepExpired(ctx echo.Context) error {
	res, err := c.reservationService.SweepExpired(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Просроченные резервы обработаны", http.StatusOK)
}
