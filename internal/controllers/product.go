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

type ProductController struct {
	productService services.ProductServiceInterface
	logger         *zap.Logger
}

func NewProductController(productService services.ProductServiceInterface, logger *zap.Logger) *ProductController {
	return &ProductController{
		productService: productService,
		logger:         logger,
	}
}

func (c *ProductController) GetProducts(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())

	products, total, err := c.productService.GetProducts(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, products, "Список товаров успешно получен", http.StatusOK, total)
}

func (c *ProductController) FindProduct(ctx echo.Context) error {
	id := ctx.Param("id")

	res, err := c.productService.FindProduct(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Debug("Товар не получен", zap.String("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Товар успешно найден", http.StatusOK)
}

func (c *ProductController) CreateProduct(ctx echo.Context) error {
	var payload dto.CreateProductDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.productService.CreateProduct(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("Ошибка при создании товара", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Товар успешно создан", http.StatusCreated)
}

func (c *ProductController) UpdateProduct(ctx echo.Context) error {
	id := ctx.Param("id")

	var payload dto.UpdateProductDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат данных"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.productService.UpdateProduct(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Error("Ошибка при обновлении товара", zap.Error(err), zap.String("id", id))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Товар успешно обновлен", http.StatusOK)
}

func (c *ProductController) DeleteProduct(ctx echo.Context) error {
	id := ctx.Param("id")

	if err := c.productService.DeleteProduct(ctx.Request().Context(), id); err != nil {
		c.logger.Error("Ошибка при удалении товара", zap.Error(err), zap.String("id", id))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.NoContent(http.StatusNoContent)
}
