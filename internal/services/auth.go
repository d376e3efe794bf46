package services

import (
	"context"
	"errors"

	"cit-system/internal/dto"
	"cit-system/internal/repositories"
	"cit-system/pkg/constants"
	apperrors "cit-system/pkg/errors"
	"cit-system/pkg/service"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, d dto.LoginDTO) (*dto.LoginResponseDTO, error)
}

type AuthService struct {
	staffRepo repositories.StaffRepositoryInterface
	jwtSvc    service.JWTService
	logger    *zap.Logger
}

func NewAuthService(staffRepo repositories.StaffRepositoryInterface, jwtSvc service.JWTService, logger *zap.Logger) AuthServiceInterface {
	return &AuthService{staffRepo: staffRepo, jwtSvc: jwtSvc, logger: logger}
}

// Login проверяет учётные данные сотрудника и выдаёт JWT.
// Неизвестный email и неверный пароль отдаются одной и той же ошибкой.
func (s *AuthService) Login(ctx context.Context, d dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	staff, err := s.staffRepo.FindByEmail(ctx, d.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewHttpError(401, apperrors.ErrInvalidCredentials.Error(), apperrors.ErrInvalidCredentials, nil)
		}
		s.logger.Error("ошибка поиска сотрудника при входе", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(d.Password)) != nil {
		return nil, apperrors.NewHttpError(401, apperrors.ErrInvalidCredentials.Error(), apperrors.ErrInvalidCredentials, nil)
	}

	if staff.Status != constants.StaffActive {
		return nil, apperrors.NewForbiddenError(apperrors.ErrAccountInactive.Error())
	}

	token, err := s.jwtSvc.GenerateToken(staff.ID, staff.RoleName, staff.Name)
	if err != nil {
		s.logger.Error("не удалось выпустить токен", zap.Uint64("staffId", staff.ID), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	resp := &dto.LoginResponseDTO{
		Token: token,
		Staff: dto.LoginStaffDTO{
			ID:   staff.ID,
			Name: staff.Name,
			Role: staff.RoleName,
		},
	}
	if staff.BadgeNumber.Valid {
		resp.Staff.BadgeNumber = &staff.BadgeNumber.String
	}
	return resp, nil
}
