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

type SaleController struct {
	saleService services.SaleServiceInterface
	logger      *zap.Logger
}

func NewSaleController(saleService services.SaleServiceInterface, logger *zap.Logger) *SaleController {
	return &SaleController{saleService: saleService, logger: logger}
}

func (c *SaleController) GetSales(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())

	sales, total, err := c.saleService.GetSales(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, sales, "Список продаж успешно получен", http.StatusOK, total)
}

func (c *SaleController) FindSale(ctx echo.Context) error {
	res, err := c.saleService.FindSale(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Продажа успешно найдена", http.StatusOK)
}

func (c *SaleController) CreateSale(ctx echo.Context) error {
	var payload dto.CreateSaleDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.saleService.CreateSale(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("Ошибка при создании продажи", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Продажа успешно создана", http.StatusCreated)
}

func (c *SaleController) DeleteSale(ctx echo.Context) error {
	id := ctx.Param("id")

	if err := c.saleService.DeleteSale(ctx.Request().Context(), id); err != nil {
		c.logger.Error("Ошибка при удалении продажи", zap.String("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.NoContent(http.StatusNoContent)
}
