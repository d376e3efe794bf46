package controllers

import (
	"net/http"
	"time"

	"cit-system/internal/dto"
	"cit-system/internal/services"
	apperrors "cit-system/pkg/errors"
	"cit-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthController struct {
	authService services.AuthServiceInterface
	timeout     time.Duration
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, timeout time.Duration, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, timeout: timeout, logger: logger}
}

func (c *AuthController) Login(ctx echo.Context) error {
	var d dto.LoginDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Некорректное тело запроса", err), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, c.timeout)
	defer cancel()

	res, err := c.authService.Login(reqCtx, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Вход выполнен", http.StatusOK)
}
