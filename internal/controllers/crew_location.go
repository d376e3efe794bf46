package controllers

import (
	"net/http"
	"strconv"
	"time"

	"cit-system/internal/dto"
	"cit-system/internal/services"
	apperrors "cit-system/pkg/errors"
	"cit-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CrewLocationController struct {
	locationService services.CrewLocationServiceInterface
	timeout         time.Duration
	logger          *zap.Logger
}

func NewCrewLocationController(locationService services.CrewLocationServiceInterface, timeout time.Duration, logger *zap.Logger) *CrewLocationController {
	return &CrewLocationController{locationService: locationService, timeout: timeout, logger: logger}
}

func (c *CrewLocationController) ReportLocation(ctx echo.Context) error {
	var d dto.CreateCrewLocationDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Некорректное тело запроса", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, c.timeout)
	defer cancel()

	res, err := c.locationService.ReportLocation(reqCtx, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Позиция экипажа записана", http.StatusCreated)
}

func (c *CrewLocationController) GetTrack(ctx echo.Context) error {
	requestID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || requestID == 0 {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Некорректный ID заявки", err), c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, c.timeout)
	defer cancel()

	res, err := c.locationService.GetTrack(reqCtx, requestID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Трек экипажа получен", http.StatusOK, uint64(len(res)))
}
