package services

import (
	"context"
	"errors"

	"cit-system/internal/dto"
	"cit-system/internal/entities"
	"cit-system/internal/repositories"
	"cit-system/pkg/constants"
	apperrors "cit-system/pkg/errors"
	"cit-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CrewLocationServiceInterface interface {
	ReportLocation(ctx context.Context, d dto.CreateCrewLocationDTO) (*dto.CrewLocationDTO, error)
	GetTrack(ctx context.Context, requestID uint64) ([]dto.CrewLocationDTO, error)
}

// CrewLocationService принимает точки трека экипажа. Точка пишется только
// пока заявка на стадии «забрано» (my_status = 2): до забора и после
// доставки трек не ведётся.
type CrewLocationService struct {
	txManager    repositories.TxManagerInterface
	requestRepo  repositories.RequestRepositoryInterface
	locationRepo repositories.CrewLocationRepositoryInterface
	logger       *zap.Logger
}

func NewCrewLocationService(
	txManager repositories.TxManagerInterface,
	requestRepo repositories.RequestRepositoryInterface,
	locationRepo repositories.CrewLocationRepositoryInterface,
	logger *zap.Logger,
) CrewLocationServiceInterface {
	return &CrewLocationService{
		txManager:    txManager,
		requestRepo:  requestRepo,
		locationRepo: locationRepo,
		logger:       logger,
	}
}

func (s *CrewLocationService) ReportLocation(ctx context.Context, d dto.CreateCrewLocationDTO) (*dto.CrewLocationDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.NewHttpError(401, apperrors.ErrUnauthorized.Error(), err, nil)
	}
	if d.Latitude == nil || d.Longitude == nil {
		return nil, apperrors.NewValidationError("Координаты (latitude и longitude) обязательны", nil)
	}

	var result dto.CrewLocationDTO
	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		state, err := s.requestRepo.FindForUpdateInTx(txCtx, tx, d.RequestID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError("Заявка не найдена")
			}
			return err
		}

		if !state.StaffID.Valid || state.StaffID.Uint64 != actorID {
			return apperrors.NewForbiddenError("Отправлять позицию может только назначенный экипаж")
		}
		if state.MyStatus != constants.StagePickedUp {
			return apperrors.NewInvalidStateError("Трек ведётся только после подтверждения забора", state.Status)
		}

		loc := &entities.CrewLocation{
			RequestID: d.RequestID,
			StaffID:   actorID,
			Latitude:  *d.Latitude,
			Longitude: *d.Longitude,
		}
		created, err := s.locationRepo.CreateInTx(txCtx, tx, loc)
		if err != nil {
			return err
		}

		// Последняя точка дублируется на заявку
		if err := s.locationRepo.MirrorToRequestInTx(txCtx, tx, d.RequestID, loc.Latitude, loc.Longitude); err != nil {
			return err
		}

		result = crewLocationToDTO(created)
		result.MyStatus = state.MyStatus
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError(
				"Превышено время ожидания — точка могла записаться, проверьте трек", err)
		}
		var httpErr *apperrors.HttpError
		if errors.As(err, &httpErr) {
			return nil, httpErr
		}
		s.logger.Error("ошибка записи точки трека", zap.Uint64("requestId", d.RequestID), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	return &result, nil
}

func (s *CrewLocationService) GetTrack(ctx context.Context, requestID uint64) ([]dto.CrewLocationDTO, error) {
	locations, err := s.locationRepo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	track := make([]dto.CrewLocationDTO, 0, len(locations))
	for i := range locations {
		track = append(track, crewLocationToDTO(&locations[i]))
	}
	return track, nil
}

func crewLocationToDTO(loc *entities.CrewLocation) dto.CrewLocationDTO {
	return dto.CrewLocationDTO{
		ID:        loc.ID,
		RequestID: loc.RequestID,
		StaffID:   loc.StaffID,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		CreatedAt: loc.CreatedAt.Local().Format("2006-01-02 15:04:05"),
	}
}
