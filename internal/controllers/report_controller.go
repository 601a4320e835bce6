package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"pharmacy-system/internal/dto"
	"pharmacy-system/internal/services"
	"pharmacy-system/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (c *ReportController) GetSummary(ctx echo.Context) error {
	summary, err := c.reportService.GetSummary(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, summary, "Сводка успешно сформирована", http.StatusOK)
}

func (c *ReportController) GetReservationsReport(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())
	format := strings.ToLower(ctx.QueryParam("format"))
	c.logger.Debug("Отчет по резервам", zap.Any("filters", filter.Filter), zap.String("format", format))

	data, err := c.reportService.GetReservationsForExport(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if format == "xlsx" {
		rows := make([][]interface{}, 0, len(data))
		for _, r := range data {
			rows = append(rows, reservationRow(r))
		}
		return c.respondWithXLSX(ctx, "Reservas", "reservas", reservationHeaders, rows)
	}
	return utils.SuccessResponse(ctx, data, "Отчет успешно сформирован", http.StatusOK, uint64(len(data)))
}

func (c *ReportController) GetSalesReport(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())
	format := strings.ToLower(ctx.QueryParam("format"))

	data, err := c.reportService.GetSalesForExport(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if format == "xlsx" {
		rows := make([][]interface{}, 0, len(data))
		for _, s := range data {
			rows = append(rows, saleRow(s))
		}
		return c.respondWithXLSX(ctx, "Ventas", "ventas", saleHeaders, rows)
	}
	return utils.SuccessResponse(ctx, data, "Отчет успешно сформирован", http.StatusOK, uint64(len(data)))
}

var reservationHeaders = []string{
	"ID", "Producto", "Cantidad", "Sucursal", "Cliente", "Fecha", "Vence", "Estado", "Estado visible",
}

var saleHeaders = []string{
	"ID", "Fecha", "Cliente", "Productos", "Total", "Método de pago", "Estado", "Reserva",
}

const reportDateFmt = "02.01.2006 15:04"

func reservationRow(r dto.ReservationDTO) []interface{} {
	productName := r.ProductID
	if r.Product != nil {
		productName = r.Product.Name
	}
	return []interface{}{
		r.ID, productName, r.Quantity, r.BranchName, r.CustomerName,
		r.CreatedAt.Format(reportDateFmt), r.ExpiresAt.Format(reportDateFmt), r.Status, r.DisplayStatus,
	}
}

func saleRow(s dto.SaleDTO) []interface{} {
	products := make([]string, 0, len(s.Lines))
	for _, l := range s.Lines {
		products = append(products, fmt.Sprintf("%s x%d", l.ProductName, l.Quantity))
	}
	return []interface{}{
		s.ID, s.Date.Format(reportDateFmt), s.CustomerName, strings.Join(products, "; "),
		s.Total, s.PaymentMethod, s.Status, s.ReservationID,
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, sheet, prefix string, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", lastCol+"1", style)

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
	}
	f.SetColWidth(sheet, "B", lastCol, 22)

	fileName := fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
