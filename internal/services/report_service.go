package services

import (
	"context"

	"cit-system/internal/dto"
	"cit-system/internal/entities"
	"cit-system/internal/repositories"
	"cit-system/pkg/constants"
	apperrors "cit-system/pkg/errors"
	"cit-system/pkg/utils"

	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	GetCompletedRegister(ctx context.Context, filter entities.ReportFilter) ([]dto.ReportItemDTO, uint64, error)
}

// ReportService — выгрузка реестра завершённых заявок.
// Доступен только ролям с правом просмотра всех заявок.
type ReportService struct {
	reportRepo repositories.ReportRepositoryInterface
	logger     *zap.Logger
}

func NewReportService(reportRepo repositories.ReportRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{reportRepo: reportRepo, logger: logger}
}

func (s *ReportService) GetCompletedRegister(ctx context.Context, filter entities.ReportFilter) ([]dto.ReportItemDTO, uint64, error) {
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil || !constants.CanViewAllRequests(role) {
		return nil, 0, apperrors.NewForbiddenError("Недостаточно прав для выгрузки реестра")
	}

	items, total, err := s.reportRepo.GetCompletedRegister(ctx, filter)
	if err != nil {
		s.logger.Error("не удалось получить реестр завершённых заявок", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ReportItemDTO, 0, len(items))
	for _, item := range items {
		result = append(result, reportItemToDTO(item))
	}
	return result, total, nil
}

func reportItemToDTO(item entities.ReportItem) dto.ReportItemDTO {
	d := dto.ReportItemDTO{
		ID:              item.ID,
		PickupLocation:  item.PickupLocation,
		DeliveryLoc:     item.DeliveryLoc,
		ReferenceNumber: utils.NullStringToStrPtr(item.ReferenceNumber),
		ServiceType:     utils.NullStringToStrPtr(item.ServiceType),
		BranchName:      utils.NullStringToStrPtr(item.BranchName),
		StaffName:       utils.NullStringToStrPtr(item.StaffName),
		SealNumber:      utils.NullStringToStrPtr(item.SealNumber),
		CompletedAt:     utils.NullTimeToString(item.CompletedAt),
		CreatedAt:       item.CreatedAt.Local().Format("2006-01-02 15:04:05"),
	}
	if item.TotalAmount.Valid {
		d.TotalAmount = &item.TotalAmount.Int64
	}
	return d
}
