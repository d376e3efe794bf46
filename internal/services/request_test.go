package services

import (
	"context"
	"testing"
	"time"

	"cit-system/internal/dto"
	"cit-system/internal/entities"
	"cit-system/internal/repositories"
	"cit-system/pkg/constants"
	"cit-system/pkg/contextkeys"
	apperrors "cit-system/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Фейки поверх интерфейсов репозиториев ---

type fakeTxManager struct {
	calls int
	err   error // если задана, транзакция падает не заходя в замыкание
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	return fn(ctx, nil)
}

type fakeRequestRepo struct {
	requests map[uint64]*entities.Request
}

func newFakeRequestRepo(reqs ...*entities.Request) *fakeRequestRepo {
	repo := &fakeRequestRepo{requests: make(map[uint64]*entities.Request)}
	for _, r := range reqs {
		repo.requests[r.ID] = r
	}
	return repo
}

func (f *fakeRequestRepo) Create(ctx context.Context, creatorID uint64, d dto.CreateRequestDTO) (*entities.Request, error) {
	id := uint64(len(f.requests) + 1)
	r := &entities.Request{
		ID:               id,
		ReferenceNumber:  null.StringFrom("CIT-2026-0001"),
		PickupLocation:   d.PickupLocation,
		DeliveryLocation: d.DeliveryLocation,
		Status:           constants.StatusPending,
		MyStatus:         constants.StagePendingPickup,
		ServiceTypeID:    null.Uint64From(d.ServiceTypeID),
		UserID:           null.Uint64From(creatorID),
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if d.StaffID != 0 {
		r.StaffID = null.Uint64From(d.StaffID)
	}
	f.requests[id] = r
	return r, nil
}

func (f *fakeRequestRepo) FindByID(ctx context.Context, id uint64) (*entities.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return r, nil
}

func (f *fakeRequestRepo) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.RequestTxState, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &entities.RequestTxState{
		ID:            r.ID,
		Status:        r.Status,
		MyStatus:      r.MyStatus,
		StaffID:       r.StaffID,
		UserID:        r.UserID,
		ServiceTypeID: r.ServiceTypeID,
	}, nil
}

func (f *fakeRequestRepo) UpdateStageInTx(ctx context.Context, tx pgx.Tx, id uint64, status string, myStatus int) (*entities.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	r.Status = status
	r.MyStatus = myStatus
	r.UpdatedAt = time.Now()
	return r, nil
}

func (f *fakeRequestRepo) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) (*entities.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	return r, nil
}

func (f *fakeRequestRepo) AssignVaultOfficer(ctx context.Context, id uint64, officerID uint64, officerName string) (*entities.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	r.MyStaffID = null.Uint64From(officerID)
	r.MyStaffName = null.StringFrom(officerName)
	return r, nil
}

func (f *fakeRequestRepo) ListByStage(ctx context.Context, staffID uint64, filter repositories.StageFilter) ([]dto.RequestListItemDTO, error) {
	items := make([]dto.RequestListItemDTO, 0)
	for _, r := range f.requests {
		if !r.StaffID.Valid || r.StaffID.Uint64 != staffID {
			continue
		}
		if filter.MyStatus != 0 && r.MyStatus != filter.MyStatus {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		items = append(items, dto.RequestListItemDTO{ID: r.ID, Status: r.Status, MyStatus: r.MyStatus})
	}
	return items, nil
}

func (f *fakeRequestRepo) ListAll(ctx context.Context) ([]dto.RequestListItemDTO, error) {
	items := make([]dto.RequestListItemDTO, 0, len(f.requests))
	for _, r := range f.requests {
		items = append(items, dto.RequestListItemDTO{ID: r.ID, Status: r.Status, MyStatus: r.MyStatus})
	}
	return items, nil
}

type fakeCashCountRepo struct {
	byRequest map[uint64]*entities.CashCount
}

func newFakeCashCountRepo() *fakeCashCountRepo {
	return &fakeCashCountRepo{byRequest: make(map[uint64]*entities.CashCount)}
}

func (f *fakeCashCountRepo) CreateInTx(ctx context.Context, tx pgx.Tx, cc *entities.CashCount) (*entities.CashCount, error) {
	if _, exists := f.byRequest[cc.RequestID]; exists {
		return nil, apperrors.NewConflictError("Пересчёт наличности по этой заявке уже зафиксирован", nil)
	}
	cc.ID = uint64(len(f.byRequest) + 1)
	cc.CreatedAt = time.Now()
	f.byRequest[cc.RequestID] = cc
	return cc, nil
}

func (f *fakeCashCountRepo) FindByRequestID(ctx context.Context, requestID uint64) (*entities.CashCount, error) {
	cc, ok := f.byRequest[requestID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cc, nil
}

type fakeDeliveryRepo struct {
	byRequest map[uint64]*entities.DeliveryCompletion
	upserts   int
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{byRequest: make(map[uint64]*entities.DeliveryCompletion)}
}

func (f *fakeDeliveryRepo) UpsertInTx(ctx context.Context, tx pgx.Tx, dc *entities.DeliveryCompletion) (*entities.DeliveryCompletion, error) {
	f.upserts++
	dc.CompletedAt = time.Now()
	f.byRequest[dc.RequestID] = dc
	return dc, nil
}

func (f *fakeDeliveryRepo) FindByRequestID(ctx context.Context, requestID uint64) (*entities.DeliveryCompletion, error) {
	dc, ok := f.byRequest[requestID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return dc, nil
}

type fakeServiceTypeRepo struct{}

func (fakeServiceTypeRepo) FindByID(ctx context.Context, id uint64) (*entities.ServiceType, error) {
	names := map[uint64]string{1: "Pick and Drop", 2: "BSS", 3: "CIT Transfer", 4: "Vault Replenishment"}
	name, ok := names[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &entities.ServiceType{ID: id, Name: name, Status: 1}, nil
}

func (fakeServiceTypeRepo) GetAll(ctx context.Context) ([]entities.ServiceType, error) {
	return nil, nil
}

// --- Вспомогательные конструкторы ---

func actorContext(userID uint64, role, name string) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, contextkeys.UserIDKey, userID)
	ctx = context.WithValue(ctx, contextkeys.UserRoleKey, role)
	ctx = context.WithValue(ctx, contextkeys.UserNameKey, name)
	return ctx
}

func pendingRequest(id, ownerID, staffID, serviceTypeID uint64) *entities.Request {
	return &entities.Request{
		ID:               id,
		ReferenceNumber:  null.StringFrom("CIT-2026-0042"),
		PickupLocation:   "Филиал №1",
		DeliveryLocation: "Хранилище",
		Status:           constants.StatusPending,
		MyStatus:         constants.StagePendingPickup,
		ServiceTypeID:    null.Uint64From(serviceTypeID),
		UserID:           null.Uint64From(ownerID),
		StaffID:          null.Uint64From(staffID),
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

type serviceFixture struct {
	svc        RequestServiceInterface
	txManager  *fakeTxManager
	requests   *fakeRequestRepo
	cashCounts *fakeCashCountRepo
	deliveries *fakeDeliveryRepo
}

func newFixture(reqs ...*entities.Request) *serviceFixture {
	f := &serviceFixture{
		txManager:  &fakeTxManager{},
		requests:   newFakeRequestRepo(reqs...),
		cashCounts: newFakeCashCountRepo(),
		deliveries: newFakeDeliveryRepo(),
	}
	f.svc = NewRequestService(f.txManager, f.requests, f.cashCounts, f.deliveries, fakeServiceTypeRepo{}, zap.NewNop())
	return f
}

// --- Подтверждение забора ---

func TestConfirmPickupWithCashCount(t *testing.T) {
	f := newFixture(pendingRequest(7, 1, 5, 2))
	ctx := actorContext(5, constants.RoleCommander, "Рахимов Далер")

	res, err := f.svc.ConfirmPickup(ctx, 7, dto.ConfirmPickupDTO{
		CashCount: &dto.CashCountDTO{Tens: 1, Twenties: 1, Hundreds: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, constants.StatusInProgress, res.Request.Status)
	assert.Equal(t, constants.StagePickedUp, res.Request.MyStatus)
	require.NotNil(t, res.CashCount)
	assert.EqualValues(t, 130, res.CashCount.TotalAmount)

	stored := f.cashCounts.byRequest[7]
	require.NotNil(t, stored)
	assert.EqualValues(t, 5, stored.StaffID)
	assert.EqualValues(t, 130, stored.TotalAmount)
}

func TestConfirmPickupSkipsCashCountForNonReconciliationType(t *testing.T) {
	// Тип услуги 1 не предполагает пересчёт: стадия меняется, запись не создаётся
	f := newFixture(pendingRequest(7, 1, 5, 1))
	ctx := actorContext(5, constants.RoleCommander, "Рахимов Далер")

	res, err := f.svc.ConfirmPickup(ctx, 7, dto.ConfirmPickupDTO{
		CashCount: &dto.CashCountDTO{Thousands: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, constants.StatusInProgress, res.Request.Status)
	assert.Nil(t, res.CashCount)
	assert.Empty(t, f.cashCounts.byRequest)
}

func TestConfirmPickupWithoutCashCount(t *testing.T) {
	f := newFixture(pendingRequest(7, 1, 5, 2))
	ctx := actorContext(5, constants.RoleCommander, "Рахимов Далер")

	res, err := f.svc.ConfirmPickup(ctx, 7, dto.ConfirmPickupDTO{})
	require.NoError(t, err)
	assert.Equal(t, constants.StagePickedUp, res.Request.MyStatus)
	assert.Empty(t, f.cashCounts.byRequest)
}

func TestConfirmPickupRejectsNonPendingRequest(t *testing.T) {
	req := pendingRequest(7, 1, 5, 2)
	req.Status = constants.StatusInProgress
	req.MyStatus = constants.StagePickedUp
	f := newFixture(req)
	ctx := actorContext(5, constants.RoleCommander, "Рахимов Далер")

	_, err := f.svc.ConfirmPickup(ctx, 7, dto.ConfirmPickupDTO{})
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
	assert.Equal(t, constants.StatusInProgress, httpErr.Context["status"])
}

func TestConfirmPickupDuplicateCashCountConflict(t *testing.T) {
	req := pendingRequest(7, 1, 5, 2)
	f := newFixture(req)
	ctx := actorContext(5, constants.RoleCommander, "Рахимов Далер")

	_, err := f.svc.ConfirmPickup(ctx, 7, dto.ConfirmPickupDTO{
		CashCount: &dto.CashCountDTO{Hundreds: 2},
	})
	require.NoError(t, err)

	// Возвращаем заявку в pending, имитируя гонку двух подтверждений:
	// второй участник проходит проверку статуса, но упирается в уникальность
	req.Status = constants.StatusPending
	req.MyStatus = constants.StagePendingPickup

	_, err = f.svc.ConfirmPickup(ctx, 7, dto.ConfirmPickupDTO{
		CashCount: &dto.CashCountDTO{Hundreds: 2},
	})
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Code)
}

func TestConfirmPickupNotFound(t *testing.T) {
	f := newFixture()
	ctx := actorContext(5, constants.RoleCommander, "Рахимов Далер")

	_, err := f.svc.ConfirmPickup(ctx, 99, dto.ConfirmPickupDTO{})
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)
}

func TestConfirmPickupTimeoutMapsTo408(t *testing.T) {
	f := newFixture(pendingRequest(7, 1, 5, 2))
	f.txManager.err = context.DeadlineExceeded
	ctx := actorContext(5, constants.RoleCommander, "Рахимов Далер")

	_, err := f.svc.ConfirmPickup(ctx, 7, dto.ConfirmPickupDTO{})
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 408, httpErr.Code)
}

// --- Подтверждение доставки ---

func confirmDeliveryBody() dto.ConfirmDeliveryDTO {
	lat, lng := 38.5598, 68.7870
	return dto.ConfirmDeliveryDTO{Latitude: &lat, Longitude: &lng, Notes: "передано без замечаний"}
}

func TestConfirmDeliveryHappyPath(t *testing.T) {
	req := pendingRequest(7, 1, 5, 2)
	req.Status = constants.StatusInProgress
	req.MyStatus = constants.StagePickedUp
	f := newFixture(req)
	ctx := actorContext(5, constants.RoleCommander, "Рахимов Далер")

	res, err := f.svc.ConfirmDelivery(ctx, 7, confirmDeliveryBody())
	require.NoError(t, err)

	assert.Equal(t, constants.StatusCompleted, res.Request.Status)
	assert.Equal(t, constants.StageDelivered, res.Request.MyStatus)
	require.NotNil(t, res.DeliveryCompletion)
	assert.EqualValues(t, 5, res.DeliveryCompletion.CompletedByID)
	require.NotNil(t, res.DeliveryCompletion.CompletedByName)
	assert.Equal(t, "Рахимов Далер", *res.DeliveryCompletion.CompletedByName)
}

func TestConfirmDeliveryForbiddenForUnassignedStaff(t *testing.T) {
	req := pendingRequest(7, 1, 5, 2)
	req.Status = constants.StatusInProgress
	req.MyStatus = constants.StagePickedUp
	f := newFixture(req)
	ctx := actorContext(6, constants.RoleCommander, "Другой Экипаж")

	_, err := f.svc.ConfirmDelivery(ctx, 7, confirmDeliveryBody())
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 403, httpErr.Code)
	assert.Empty(t, f.deliveries.byRequest)
}

func TestConfirmDeliveryRejectsWrongStage(t *testing.T) {
	f := newFixture(pendingRequest(7, 1, 5, 2)) // ещё pending, забор не подтверждён
	ctx := actorContext(5, constants.RoleCommander, "Рахимов Далер")

	_, err := f.svc.ConfirmDelivery(ctx, 7, confirmDeliveryBody())
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestConfirmDeliveryValidatesCoordinatesBeforeTransaction(t *testing.T) {
	f := newFixture(pendingRequest(7, 1, 5, 2))
	ctx := actorContext(5, constants.RoleCommander, "Рахимов Далер")

	lat := 38.5598
	_, err := f.svc.ConfirmDelivery(ctx, 7, dto.ConfirmDeliveryDTO{Latitude: &lat})
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
	assert.Zero(t, f.txManager.calls, "транзакция не должна открываться при невалидном теле")
}

func TestConfirmDeliveryIsIdempotent(t *testing.T) {
	req := pendingRequest(7, 1, 5, 2)
	req.Status = constants.StatusInProgress
	req.MyStatus = constants.StagePickedUp
	f := newFixture(req)
	ctx := actorContext(5, constants.RoleCommander, "Рахимов Далер")

	first, err := f.svc.ConfirmDelivery(ctx, 7, confirmDeliveryBody())
	require.NoError(t, err)

	// Повторное подтверждение: стадия уже completed, операция отклоняется,
	// но записи о передаче остаётся ровно одна
	_, err = f.svc.ConfirmDelivery(ctx, 7, confirmDeliveryBody())
	require.Error(t, err)
	assert.Len(t, f.deliveries.byRequest, 1)
	assert.Equal(t, constants.StatusCompleted, first.Request.Status)
}

// --- Назначение кассира хранилища ---

func TestAssignVaultOfficerByOwner(t *testing.T) {
	f := newFixture(pendingRequest(7, 1, 5, 2))
	ctx := actorContext(1, constants.RoleSupervisor, "Диспетчер")

	res, err := f.svc.AssignVaultOfficer(ctx, 7, dto.AssignVaultOfficerDTO{
		VaultOfficerID:   44,
		VaultOfficerName: "Каримова Нигора",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 44, res.MyStaffID)
	require.NotNil(t, res.MyStaffName)
	assert.Equal(t, "Каримова Нигора", *res.MyStaffName)
	// Грубый статус не меняется
	assert.Equal(t, constants.StatusPending, res.Status)
}

func TestAssignVaultOfficerForbiddenForNonOwner(t *testing.T) {
	f := newFixture(pendingRequest(7, 1, 5, 2))
	ctx := actorContext(2, constants.RoleSupervisor, "Не владелец")

	_, err := f.svc.AssignVaultOfficer(ctx, 7, dto.AssignVaultOfficerDTO{
		VaultOfficerID:   44,
		VaultOfficerName: "Каримова Нигора",
	})
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 403, httpErr.Code)
}

// --- Переходы грубого статуса ---

func TestUpdateRequestStatusLegalTransition(t *testing.T) {
	f := newFixture(pendingRequest(7, 1, 5, 2))
	ctx := actorContext(1, constants.RoleSupervisor, "Диспетчер")

	res, err := f.svc.UpdateRequestStatus(ctx, 7, constants.StatusAssigned)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusAssigned, res.Status)
	// Стадия остаётся прежней: её меняют только подтверждения
	assert.Equal(t, constants.StagePendingPickup, res.MyStatus)
}

func TestUpdateRequestStatusIllegalTransition(t *testing.T) {
	f := newFixture(pendingRequest(7, 1, 5, 2))
	ctx := actorContext(1, constants.RoleSupervisor, "Диспетчер")

	_, err := f.svc.UpdateRequestStatus(ctx, 7, constants.StatusCompleted)
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)

	var transitionErr *apperrors.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, constants.StatusPending, transitionErr.From)
	assert.Equal(t, constants.StatusCompleted, transitionErr.To)

	// Состояние не изменилось
	assert.Equal(t, constants.StatusPending, f.requests.requests[7].Status)
}

// --- Ролевые выборки ---

func TestStageListsAreScopedToActor(t *testing.T) {
	mine := pendingRequest(1, 10, 5, 2)
	foreign := pendingRequest(2, 10, 6, 2)
	done := pendingRequest(3, 10, 5, 2)
	done.Status = constants.StatusCompleted
	done.MyStatus = constants.StageDelivered

	f := newFixture(mine, foreign, done)
	ctx := actorContext(5, constants.RoleCommander, "Рахимов Далер")

	pending, err := f.svc.GetPendingRequests(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.EqualValues(t, 1, pending[0].ID)

	completed, err := f.svc.GetCompletedRequests(ctx)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.EqualValues(t, 3, completed[0].ID)
}

func TestGetAllStaffRequestsRequiresElevatedRole(t *testing.T) {
	f := newFixture(pendingRequest(1, 10, 5, 2), pendingRequest(2, 10, 6, 2))

	_, err := f.svc.GetAllStaffRequests(actorContext(5, constants.RoleCommander, "Экипаж"))
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 403, httpErr.Code)

	all, err := f.svc.GetAllStaffRequests(actorContext(1, constants.RoleSupervisor, "Супервизор"))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
