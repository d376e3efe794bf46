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

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RequestServiceInterface interface {
	CreateRequest(ctx context.Context, d dto.CreateRequestDTO) (*dto.RequestDTO, error)
	FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error)
	ConfirmPickup(ctx context.Context, id uint64, d dto.ConfirmPickupDTO) (*dto.PickupResultDTO, error)
	ConfirmDelivery(ctx context.Context, id uint64, d dto.ConfirmDeliveryDTO) (*dto.DeliveryResultDTO, error)
	AssignVaultOfficer(ctx context.Context, id uint64, d dto.AssignVaultOfficerDTO) (*dto.RequestDTO, error)
	UpdateRequestStatus(ctx context.Context, id uint64, status string) (*dto.RequestDTO, error)
	GetPendingRequests(ctx context.Context) ([]dto.RequestListItemDTO, error)
	GetInProgressRequests(ctx context.Context) ([]dto.RequestListItemDTO, error)
	GetCompletedRequests(ctx context.Context) ([]dto.RequestListItemDTO, error)
	GetAllStaffRequests(ctx context.Context) ([]dto.RequestListItemDTO, error)
}

// RequestService — оркестратор жизненного цикла заявки. Обе подтверждающие
// операции выполняются в одной транзакции read-committed: проверка статуса
// и все записи либо фиксируются вместе, либо не фиксируются вовсе.
type RequestService struct {
	txManager       repositories.TxManagerInterface
	requestRepo     repositories.RequestRepositoryInterface
	cashCountRepo   repositories.CashCountRepositoryInterface
	deliveryRepo    repositories.DeliveryCompletionRepositoryInterface
	serviceTypeRepo repositories.ServiceTypeRepositoryInterface
	logger          *zap.Logger
}

func NewRequestService(
	txManager repositories.TxManagerInterface,
	requestRepo repositories.RequestRepositoryInterface,
	cashCountRepo repositories.CashCountRepositoryInterface,
	deliveryRepo repositories.DeliveryCompletionRepositoryInterface,
	serviceTypeRepo repositories.ServiceTypeRepositoryInterface,
	logger *zap.Logger,
) RequestServiceInterface {
	return &RequestService{
		txManager:       txManager,
		requestRepo:     requestRepo,
		cashCountRepo:   cashCountRepo,
		deliveryRepo:    deliveryRepo,
		serviceTypeRepo: serviceTypeRepo,
		logger:          logger,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, d dto.CreateRequestDTO) (*dto.RequestDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.NewHttpError(401, apperrors.ErrUnauthorized.Error(), err, nil)
	}

	req, err := s.requestRepo.Create(ctx, actorID, d)
	if err != nil {
		s.logger.Error("не удалось создать заявку", zap.Error(err))
		return nil, err
	}
	return s.toDTO(ctx, req), nil
}

func (s *RequestService) FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.NewHttpError(401, apperrors.ErrUnauthorized.Error(), err, nil)
	}

	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Заявка не найдена")
		}
		return nil, err
	}

	if !req.UserID.Valid || req.UserID.Uint64 != actorID {
		return nil, apperrors.NewForbiddenError("Нет доступа к этой заявке")
	}
	return s.toDTO(ctx, req), nil
}

// ConfirmPickup — подтверждение забора экипажем. Требует статус pending;
// переводит заявку в in_progress (стадия 2) и, если тип услуги предполагает
// пересчёт наличности, атомарно фиксирует CashCount. Откат любой из записей
// откатывает обе: забор без финансовой записи недействителен.
func (s *RequestService) ConfirmPickup(ctx context.Context, id uint64, d dto.ConfirmPickupDTO) (*dto.PickupResultDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.NewHttpError(401, apperrors.ErrUnauthorized.Error(), err, nil)
	}

	var result dto.PickupResultDTO
	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		state, err := s.requestRepo.FindForUpdateInTx(txCtx, tx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError("Заявка не найдена")
			}
			return err
		}

		if state.Status != constants.StatusPending {
			return apperrors.NewInvalidStateError("Заявка не в статусе ожидания забора", state.Status)
		}

		updated, err := s.requestRepo.UpdateStageInTx(txCtx, tx, id, constants.StatusInProgress, constants.StagePickedUp)
		if err != nil {
			return err
		}
		result.Request = requestToDTO(updated)

		if d.CashCount != nil && state.ServiceTypeID.Valid &&
			constants.RequiresCashReconciliation(state.ServiceTypeID.Uint64) {
			cc := cashCountToEntity(id, actorID, *d.CashCount, d.ImageURL)
			created, err := s.cashCountRepo.CreateInTx(txCtx, tx, cc)
			if err != nil {
				return err
			}
			result.CashCount = &dto.CashCountSummaryDTO{
				ID:          created.ID,
				TotalAmount: created.TotalAmount,
			}
			s.logger.Info("пересчёт наличности зафиксирован",
				zap.Uint64("requestId", id),
				zap.Int64("totalAmount", created.TotalAmount))
		}
		return nil
	})
	if err != nil {
		return nil, s.mapTxError(err, id, "подтверждение забора")
	}

	s.enrichServiceType(ctx, result.Request)
	return &result, nil
}

// ConfirmDelivery — подтверждение доставки. Авторизация по назначению:
// подтвердить может только сотрудник, закреплённый за заявкой. Запись о
// передаче апсертится по request_id, поэтому повторный вызов с теми же
// данными сходится к одному и тому же состоянию.
func (s *RequestService) ConfirmDelivery(ctx context.Context, id uint64, d dto.ConfirmDeliveryDTO) (*dto.DeliveryResultDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.NewHttpError(401, apperrors.ErrUnauthorized.Error(), err, nil)
	}

	// Проверка координат до открытия транзакции
	if d.Latitude == nil || d.Longitude == nil {
		return nil, apperrors.NewValidationError("Координаты (latitude и longitude) обязательны", nil)
	}

	actorName := utils.GetUserNameFromCtx(ctx)

	var result dto.DeliveryResultDTO
	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		state, err := s.requestRepo.FindForUpdateInTx(txCtx, tx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError("Заявка не найдена")
			}
			return err
		}

		if !state.StaffID.Valid || state.StaffID.Uint64 != actorID {
			return apperrors.NewForbiddenError("Подтверждать доставку может только назначенный сотрудник")
		}
		if state.Status != constants.StatusInProgress {
			return apperrors.NewInvalidStateError("Заявка не находится в пути", state.Status)
		}

		dc := &entities.DeliveryCompletion{
			RequestID:       id,
			CompletedByID:   actorID,
			CompletedByName: null.NewString(actorName, actorName != ""),
			BankDetails:     d.BankDetails,
			Latitude:        *d.Latitude,
			Longitude:       *d.Longitude,
			Status:          constants.StatusCompleted,
			IsVaultOfficer:  false,
			Notes:           null.NewString(d.Notes, d.Notes != ""),
		}
		saved, err := s.deliveryRepo.UpsertInTx(txCtx, tx, dc)
		if err != nil {
			return err
		}
		result.DeliveryCompletion = deliveryToDTO(saved)

		updated, err := s.requestRepo.UpdateStageInTx(txCtx, tx, id, constants.StatusCompleted, constants.StageDelivered)
		if err != nil {
			return err
		}
		result.Request = requestToDTO(updated)
		return nil
	})
	if err != nil {
		return nil, s.mapTxError(err, id, "подтверждение доставки")
	}

	s.enrichServiceType(ctx, result.Request)
	return &result, nil
}

// AssignVaultOfficer — закрепление кассира хранилища. Доступно только
// владельцу заявки; грубый статус не меняется.
func (s *RequestService) AssignVaultOfficer(ctx context.Context, id uint64, d dto.AssignVaultOfficerDTO) (*dto.RequestDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.NewHttpError(401, apperrors.ErrUnauthorized.Error(), err, nil)
	}

	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Заявка не найдена")
		}
		return nil, err
	}

	if !req.UserID.Valid || req.UserID.Uint64 != actorID {
		return nil, apperrors.NewForbiddenError("Назначать кассира может только владелец заявки")
	}

	updated, err := s.requestRepo.AssignVaultOfficer(ctx, id, d.VaultOfficerID, d.VaultOfficerName)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, updated), nil
}

// UpdateRequestStatus — общий переход грубого статуса по графу переходов.
// Стадии подтверждений он не трогает; их меняют только ConfirmPickup и
// ConfirmDelivery.
func (s *RequestService) UpdateRequestStatus(ctx context.Context, id uint64, status string) (*dto.RequestDTO, error) {
	var result *dto.RequestDTO
	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		state, err := s.requestRepo.FindForUpdateInTx(txCtx, tx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError("Заявка не найдена")
			}
			return err
		}

		if !constants.CanTransition(state.Status, status) {
			return apperrors.NewInvalidTransitionError(state.Status, status)
		}

		updated, err := s.requestRepo.UpdateStatusInTx(txCtx, tx, id, status)
		if err != nil {
			return err
		}
		result = requestToDTO(updated)
		return nil
	})
	if err != nil {
		return nil, s.mapTxError(err, id, "смена статуса")
	}
	return result, nil
}

func (s *RequestService) GetPendingRequests(ctx context.Context) ([]dto.RequestListItemDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.NewHttpError(401, apperrors.ErrUnauthorized.Error(), err, nil)
	}
	return s.requestRepo.ListByStage(ctx, actorID, repositories.StageFilter{
		MyStatus: constants.StagePendingPickup,
	})
}

func (s *RequestService) GetInProgressRequests(ctx context.Context) ([]dto.RequestListItemDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.NewHttpError(401, apperrors.ErrUnauthorized.Error(), err, nil)
	}
	return s.requestRepo.ListByStage(ctx, actorID, repositories.StageFilter{
		Status:   constants.StatusInProgress,
		MyStatus: constants.StagePickedUp,
	})
}

func (s *RequestService) GetCompletedRequests(ctx context.Context) ([]dto.RequestListItemDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.NewHttpError(401, apperrors.ErrUnauthorized.Error(), err, nil)
	}
	return s.requestRepo.ListByStage(ctx, actorID, repositories.StageFilter{
		Status:   constants.StatusCompleted,
		MyStatus: constants.StageDelivered,
	})
}

func (s *RequestService) GetAllStaffRequests(ctx context.Context) ([]dto.RequestListItemDTO, error) {
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, apperrors.NewForbiddenError("Недостаточно прав для просмотра всех заявок")
	}
	if !constants.CanViewAllRequests(role) {
		return nil, apperrors.NewForbiddenError("Недостаточно прав для просмотра всех заявок")
	}
	return s.requestRepo.ListAll(ctx)
}

// mapTxError переводит ошибки транзакции в каллер-ориентированную таксономию.
// Таймаут выделен отдельно: транзакция могла закоммититься, и клиент должен
// перечитать состояние, а не повторять запрос.
func (s *RequestService) mapTxError(err error, requestID uint64, operation string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		s.logger.Error("таймаут транзакции, исход операции неизвестен",
			zap.Uint64("requestId", requestID), zap.String("operation", operation))
		return apperrors.NewTimeoutError(
			"Превышено время ожидания — операция могла завершиться успешно, перечитайте заявку", err)
	}

	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	s.logger.Error("ошибка транзакции",
		zap.Uint64("requestId", requestID), zap.String("operation", operation), zap.Error(err))
	return apperrors.NewInternalError(err)
}

// enrichServiceType подставляет имя типа услуги из кэшируемого справочника.
// Ошибка справочника не ломает уже закоммиченную операцию.
func (s *RequestService) enrichServiceType(ctx context.Context, r *dto.RequestDTO) {
	if r == nil || r.ServiceTypeID == 0 {
		return
	}
	st, err := s.serviceTypeRepo.FindByID(ctx, r.ServiceTypeID)
	if err != nil {
		s.logger.Warn("не удалось получить тип услуги", zap.Uint64("serviceTypeId", r.ServiceTypeID), zap.Error(err))
		return
	}
	r.ServiceType = &st.Name
}

func (s *RequestService) toDTO(ctx context.Context, req *entities.Request) *dto.RequestDTO {
	d := requestToDTO(req)
	s.enrichServiceType(ctx, d)
	return d
}

func requestToDTO(req *entities.Request) *dto.RequestDTO {
	d := &dto.RequestDTO{
		ID:               req.ID,
		PickupLocation:   req.PickupLocation,
		DeliveryLocation: req.DeliveryLocation,
		Status:           req.Status,
		MyStatus:         req.MyStatus,
		CreatedAt:        req.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		UpdatedAt:        req.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
	}
	if req.ReferenceNumber.Valid {
		d.ReferenceNumber = &req.ReferenceNumber.String
	}
	if req.Priority.Valid {
		d.Priority = &req.Priority.String
	}
	if req.ServiceTypeID.Valid {
		d.ServiceTypeID = req.ServiceTypeID.Uint64
	}
	if req.StaffID.Valid {
		d.StaffID = req.StaffID.Uint64
	}
	if req.MyStaffID.Valid {
		d.MyStaffID = req.MyStaffID.Uint64
	}
	if req.MyStaffName.Valid {
		d.MyStaffName = &req.MyStaffName.String
	}
	if req.Latitude.Valid {
		d.Latitude = &req.Latitude.Float64
	}
	if req.Longitude.Valid {
		d.Longitude = &req.Longitude.Float64
	}
	return d
}

func deliveryToDTO(dc *entities.DeliveryCompletion) *dto.DeliveryCompletionDTO {
	d := &dto.DeliveryCompletionDTO{
		RequestID:     dc.RequestID,
		CompletedByID: dc.CompletedByID,
		BankDetails:   dc.BankDetails,
		Latitude:      dc.Latitude,
		Longitude:     dc.Longitude,
		Status:        dc.Status,
		CompletedAt:   dc.CompletedAt.Local().Format("2006-01-02 15:04:05"),
	}
	if dc.CompletedByName.Valid {
		d.CompletedByName = &dc.CompletedByName.String
	}
	if dc.Notes.Valid {
		d.Notes = &dc.Notes.String
	}
	return d
}

func cashCountToEntity(requestID, staffID uint64, c dto.CashCountDTO, imageURL string) *entities.CashCount {
	cc := &entities.CashCount{
		RequestID:    requestID,
		StaffID:      staffID,
		Ones:         c.Ones,
		Fives:        c.Fives,
		Tens:         c.Tens,
		Twenties:     c.Twenties,
		Forties:      c.Forties,
		Fifties:      c.Fifties,
		Hundreds:     c.Hundreds,
		TwoHundreds:  c.TwoHundreds,
		FiveHundreds: c.FiveHundreds,
		Thousands:    c.Thousands,
		TotalAmount:  c.Total(),
	}
	if c.SealNumber != nil && *c.SealNumber != "" {
		cc.SealNumber = null.StringFrom(*c.SealNumber)
	}
	if imageURL != "" {
		cc.ImageURL = null.StringFrom(imageURL)
	}
	return cc
}
