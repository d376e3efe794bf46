package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cit-system/internal/dto"
	"cit-system/internal/entities"
	"cit-system/internal/services"
	"cit-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	timeout       time.Duration
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, timeout time.Duration, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, timeout: timeout, logger: logger}
}

// GetCompletedRegister — реестр завершённых заявок.
// format=xlsx отдаёт файл, иначе JSON с пагинацией.
func (c *ReportController) GetCompletedRegister(ctx echo.Context) error {
	filter, format := c.parseFilters(ctx)

	reqCtx, cancel := utils.Ctx(ctx, c.timeout)
	defer cancel()

	data, total, err := c.reportService.GetCompletedRegister(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		return c.respondWithXLSX(ctx, data)
	}
	return utils.SuccessResponse(ctx, data, "Реестр успешно сформирован", http.StatusOK, total)
}

func (c *ReportController) parseFilters(ctx echo.Context) (entities.ReportFilter, string) {
	filter := entities.ReportFilter{Page: 1, PerPage: 50}
	format := strings.ToLower(ctx.QueryParam("format"))

	if p, err := strconv.Atoi(ctx.QueryParam("page")); err == nil && p > 0 {
		filter.Page = p
	}
	if pp, err := strconv.Atoi(ctx.QueryParam("per_page")); err == nil && pp > 0 {
		filter.PerPage = pp
	}
	if format == "xlsx" {
		// Для экспорта выгружается всё
		filter.Page = 1
		filter.PerPage = 100000
	}

	if df := ctx.QueryParam("date_from"); df != "" {
		if t, err := time.Parse(time.RFC3339, df); err == nil {
			filter.DateFrom = &t
		}
	}
	if dt := ctx.QueryParam("date_to"); dt != "" {
		if t, err := time.Parse(time.RFC3339, dt); err == nil {
			filter.DateTo = &t
		}
	}
	if b, err := strconv.ParseUint(ctx.QueryParam("branch_id"), 10, 64); err == nil {
		filter.BranchID = b
	}

	return filter, format
}

var registerHeaders = []string{
	"№", "Референс", "Точка забора", "Точка доставки", "Тип услуги",
	"Филиал", "Экипаж", "Сумма пересчёта", "Номер пломбы", "Завершена", "Создана",
}

func registerRow(item dto.ReportItemDTO) []interface{} {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	var total string
	if item.TotalAmount != nil {
		total = strconv.FormatInt(*item.TotalAmount, 10)
	}
	return []interface{}{
		item.ID, deref(item.ReferenceNumber), item.PickupLocation, item.DeliveryLoc,
		deref(item.ServiceType), deref(item.BranchName), deref(item.StaffName),
		total, deref(item.SealNumber), deref(item.CompletedAt), item.CreatedAt,
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, data []dto.ReportItemDTO) error {
	f := excelize.NewFile()
	sheet := "Реестр инкассаций"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &registerHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "K1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := registerRow(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 18)
	f.SetColWidth(sheet, "C", "D", 35)
	f.SetColWidth(sheet, "E", "G", 22)
	f.SetColWidth(sheet, "J", "K", 20)

	fileName := fmt.Sprintf("cit_register_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
