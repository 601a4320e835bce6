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

type BranchController struct {
	branchService services.BranchServiceInterface
	logger        *zap.Logger
}

func NewBranchController(branchService services.BranchServiceInterface, logger *zap.Logger) *BranchController {
	return &BranchController{
		branchService: branchService,
		logger:        logger,
	}
}

func (c *BranchController) GetBranches(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())

	branches, total, err := c.branchService.GetBranches(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("Ошибка при получении списка филиалов", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, branches, "Список филиалов успешно получен", http.StatusOK, total)
}

// GetActiveBranches - филиалы, доступные для выбора при резервировании.
func (c *BranchController) GetActiveBranches(ctx echo.Context) error {
	branches, err := c.branchService.GetActiveBranches(ctx.Request().Context())
	if err != nil {
		c.logger.Error("Ошибка при получении активных филиалов", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, branches, "Список активных филиалов успешно получен", http.StatusOK)
}

func (c *BranchController) FindBranch(ctx echo.Context) error {
	id := ctx.Param("id")

	res, err := c.branchService.FindBranch(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Филиал успешно найден", http.StatusOK)
}

func (c *BranchController) CreateBranch(ctx echo.Context) error {
	var payload dto.CreateBranchDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.branchService.CreateBranch(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("Ошибка при создании филиала", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Филиал успешно создан", http.StatusCreated)
}

func (c *BranchController) UpdateBranch(ctx echo.Context) error {
	id := ctx.Param("id")

	var payload dto.UpdateBranchDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.branchService.UpdateBranch(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Error("Ошибка при обновлении филиала", zap.Error(err), zap.String("id", id))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Филиал успешно обновлен", http.StatusOK)
}

func (c *BranchController) UpdateBranchStatus(ctx echo.Context) error {
	id := ctx.Param("id")

	var payload dto.UpdateBranchStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.branchService.SetBranchStatus(ctx.Request().Context(), id, payload.Status)
	if err != nil {
		c.logger.Error("Ошибка при смене статуса филиала", zap.Error(err), zap.String("id", id))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Статус филиала обновлен", http.StatusOK)
}

func (c *BranchController) DeleteBranch(ctx echo.Context) error {
	id := ctx.Param("id")

	if err := c.branchService.DeleteBranch(ctx.Request().Context(), id); err != nil {
		c.logger.Error("Ошибка при удалении филиала", zap.Error(err), zap.String("id", id))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.NoContent(http.StatusNoContent)
}
