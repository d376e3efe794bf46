package controllers

import (
	"net/http"
	"time"

	"cit-system/internal/services"
	"cit-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type StaffController struct {
	staffService services.StaffServiceInterface
	timeout      time.Duration
	logger       *zap.Logger
}

func NewStaffController(staffService services.StaffServiceInterface, timeout time.Duration, logger *zap.Logger) *StaffController {
	return &StaffController{staffService: staffService, timeout: timeout, logger: logger}
}

func (c *StaffController) GetVaultOfficers(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, c.timeout)
	defer cancel()

	res, err := c.staffService.GetVaultOfficers(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Кассиры хранилища получены", http.StatusOK, uint64(len(res)))
}

// GetAvailableVaultOfficers — кассиры, ранжированные по нагрузке.
func (c *StaffController) GetAvailableVaultOfficers(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, c.timeout)
	defer cancel()

	res, err := c.staffService.GetAvailableVaultOfficers(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Доступные кассиры получены", http.StatusOK, uint64(len(res)))
}
