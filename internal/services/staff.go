package services

import (
	"context"
	"sort"

	"cit-system/internal/dto"
	"cit-system/internal/repositories"

	"go.uber.org/zap"
)

type StaffServiceInterface interface {
	GetVaultOfficers(ctx context.Context) ([]dto.VaultOfficerDTO, error)
	GetAvailableVaultOfficers(ctx context.Context) ([]dto.AvailableVaultOfficerDTO, error)
}

type StaffService struct {
	staffRepo repositories.StaffRepositoryInterface
	logger    *zap.Logger
}

func NewStaffService(staffRepo repositories.StaffRepositoryInterface, logger *zap.Logger) StaffServiceInterface {
	return &StaffService{staffRepo: staffRepo, logger: logger}
}

func (s *StaffService) GetVaultOfficers(ctx context.Context) ([]dto.VaultOfficerDTO, error) {
	return s.staffRepo.ListVaultOfficers(ctx)
}

// GetAvailableVaultOfficers — кассиры хранилища, отсортированные по нагрузке:
// сначала наименее загруженные, при равной нагрузке — по имени.
func (s *StaffService) GetAvailableVaultOfficers(ctx context.Context) ([]dto.AvailableVaultOfficerDTO, error) {
	officers, err := s.staffRepo.ListVaultOfficersWithLoad(ctx)
	if err != nil {
		s.logger.Error("не удалось получить список кассиров с нагрузкой", zap.Error(err))
		return nil, err
	}

	// Репозиторий уже сортирует в SQL; здесь порядок закрепляется как
	// контракт сервиса и не зависит от реализации хранилища.
	sort.SliceStable(officers, func(i, j int) bool {
		if officers[i].ActiveLoad != officers[j].ActiveLoad {
			return officers[i].ActiveLoad < officers[j].ActiveLoad
		}
		return officers[i].Name < officers[j].Name
	})
	return officers, nil
}
