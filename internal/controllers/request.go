package controllers

import (
	"context"
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

type RequestController struct {
	requestService services.RequestServiceInterface
	timeout        time.Duration
	logger         *zap.Logger
}

func NewRequestController(requestService services.RequestServiceInterface, timeout time.Duration, logger *zap.Logger) *RequestController {
	return &RequestController{
		requestService: requestService,
		timeout:        timeout,
		logger:         logger,
	}
}

func (c *RequestController) requestID(ctx echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("Некорректный ID заявки", err)
	}
	return id, nil
}

func (c *RequestController) CreateRequest(ctx echo.Context) error {
	var d dto.CreateRequestDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Некорректное тело запроса", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, c.timeout)
	defer cancel()

	res, err := c.requestService.CreateRequest(reqCtx, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка успешно создана", http.StatusCreated)
}

func (c *RequestController) FindRequest(ctx echo.Context) error {
	id, err := c.requestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, c.timeout)
	defer cancel()

	res, err := c.requestService.FindRequest(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка успешно получена", http.StatusOK)
}

// ConfirmPickup — PATCH /requests/:id/pickup.
// Все проверки тела выполняются до открытия транзакции.
func (c *RequestController) ConfirmPickup(ctx echo.Context) error {
	id, err := c.requestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var d dto.ConfirmPickupDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Некорректное тело запроса", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if d.CashCount != nil {
		if err := ctx.Validate(d.CashCount); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
	}

	reqCtx, cancel := utils.Ctx(ctx, c.timeout)
	defer cancel()

	res, err := c.requestService.ConfirmPickup(reqCtx, id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Забор подтверждён", http.StatusOK)
}

// ConfirmDelivery — PATCH /requests/:id/delivery.
func (c *RequestController) ConfirmDelivery(ctx echo.Context) error {
	id, err := c.requestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var d dto.ConfirmDeliveryDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Некорректное тело запроса", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, c.timeout)
	defer cancel()

	res, err := c.requestService.ConfirmDelivery(reqCtx, id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Доставка подтверждена", http.StatusOK)
}

func (c *RequestController) AssignVaultOfficer(ctx echo.Context) error {
	id, err := c.requestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var d dto.AssignVaultOfficerDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Некорректное тело запроса", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, c.timeout)
	defer cancel()

	res, err := c.requestService.AssignVaultOfficer(reqCtx, id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Кассир хранилища назначен", http.StatusOK)
}

type updateStatusBody struct {
	Status string `json:"status" validate:"required,oneof=pending assigned in_transit in_progress completed cancelled"`
}

func (c *RequestController) UpdateStatus(ctx echo.Context) error {
	id, err := c.requestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var body updateStatusBody
	if err := ctx.Bind(&body); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Некорректное тело запроса", err), c.logger)
	}
	if err := ctx.Validate(&body); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, c.timeout)
	defer cancel()

	res, err := c.requestService.UpdateRequestStatus(reqCtx, id, body.Status)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Статус заявки обновлён", http.StatusOK)
}

func (c *RequestController) GetPendingRequests(ctx echo.Context) error {
	return c.list(ctx, c.requestService.GetPendingRequests, "Заявки на забор получены")
}

func (c *RequestController) GetInProgressRequests(ctx echo.Context) error {
	return c.list(ctx, c.requestService.GetInProgressRequests, "Заявки в пути получены")
}

func (c *RequestController) GetCompletedRequests(ctx echo.Context) error {
	return c.list(ctx, c.requestService.GetCompletedRequests, "Завершённые заявки получены")
}

func (c *RequestController) GetAllStaffRequests(ctx echo.Context) error {
	return c.list(ctx, c.requestService.GetAllStaffRequests, "Все заявки получены")
}

func (c *RequestController) list(
	ctx echo.Context,
	fn func(reqCtx context.Context) ([]dto.RequestListItemDTO, error),
	message string,
) error {
	reqCtx, cancel := utils.Ctx(ctx, c.timeout)
	defer cancel()

	res, err := fn(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, message, http.StatusOK, uint64(len(res)))
}
