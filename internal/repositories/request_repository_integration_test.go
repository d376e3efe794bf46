package repositories

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"cit-system/internal/dto"
	"cit-system/internal/entities"
	"cit-system/migrations"
	"cit-system/pkg/constants"
	apperrors "cit-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPool *pgxpool.Pool

// TestMain поднимает пул к тестовой БД и применяет миграции.
// Без TEST_DATABASE_URL интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		if err := migrations.Up(dsn); err != nil {
			log.Fatalf("Не удалось применить миграции к тестовой БД: %v", err)
		}
		pool, err := pgxpool.New(context.Background(), dsn)
		if err != nil {
			log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
		}
		testPool = pool
		defer pool.Close()
	}
	os.Exit(m.Run())
}

func requireTestPool(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан, интеграционный тест пропущен")
	}
}

func cleanupTables(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		`TRUNCATE TABLE crew_locations, delivery_completions, cash_counts, requests, branches, clients, staff RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

func seedStaff(t *testing.T, roleID int) uint64 {
	t.Helper()
	var id uint64
	err := testPool.QueryRow(context.Background(), `
		INSERT INTO staff (name, email, password, role_id, status)
		VALUES ($1, $2, 'x', $3, 1) RETURNING id`,
		fmt.Sprintf("Сотрудник %d", time.Now().UnixNano()),
		fmt.Sprintf("staff-%d@test.local", time.Now().UnixNano()),
		roleID,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestRequestRepository_Integration_CreateAssignsReference(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)

	creatorID := seedStaff(t, 2)
	repo := NewRequestRepository(testPool)

	req, err := repo.Create(context.Background(), creatorID, dto.CreateRequestDTO{
		PickupLocation:   "Филиал №1",
		DeliveryLocation: "Хранилище",
		ServiceTypeID:    2,
	})
	require.NoError(t, err)

	assert.Equal(t, constants.StatusPending, req.Status)
	assert.Equal(t, constants.StagePendingPickup, req.MyStatus)
	require.True(t, req.ReferenceNumber.Valid)
	assert.Equal(t,
		fmt.Sprintf("CIT-%d-%04d", time.Now().Year(), req.ID),
		req.ReferenceNumber.String)
}

func TestRequestRepository_Integration_StageUpdateInTx(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)

	creatorID := seedStaff(t, 2)
	crewID := seedStaff(t, 3)
	repo := NewRequestRepository(testPool)

	created, err := repo.Create(context.Background(), creatorID, dto.CreateRequestDTO{
		PickupLocation:   "Филиал №1",
		DeliveryLocation: "Хранилище",
		ServiceTypeID:    2,
		StaffID:          crewID,
	})
	require.NoError(t, err)

	txManager := NewTxManager(testPool, 5*time.Second)
	err = txManager.RunInTransaction(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
		state, err := repo.FindForUpdateInTx(ctx, tx, created.ID)
		require.NoError(t, err)
		require.Equal(t, constants.StatusPending, state.Status)

		_, err = repo.UpdateStageInTx(ctx, tx, created.ID, constants.StatusInProgress, constants.StagePickedUp)
		return err
	})
	require.NoError(t, err)

	reloaded, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInProgress, reloaded.Status)
	assert.Equal(t, constants.StagePickedUp, reloaded.MyStatus)
}

func TestCashCountRepository_Integration_DuplicateConflict(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)

	creatorID := seedStaff(t, 2)
	requestRepo := NewRequestRepository(testPool)
	cashRepo := NewCashCountRepository(testPool)

	created, err := requestRepo.Create(context.Background(), creatorID, dto.CreateRequestDTO{
		PickupLocation:   "Филиал №1",
		DeliveryLocation: "Хранилище",
		ServiceTypeID:    2,
	})
	require.NoError(t, err)

	txManager := NewTxManager(testPool, 5*time.Second)
	write := func() error {
		return txManager.RunInTransaction(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
			count := &entities.CashCount{
				RequestID:   created.ID,
				StaffID:     creatorID,
				Hundreds:    1,
				Twenties:    1,
				Tens:        1,
				TotalAmount: 130,
			}
			_, err := cashRepo.CreateInTx(ctx, tx, count)
			return err
		})
	}

	require.NoError(t, write())

	err = write()
	require.Error(t, err)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Code)
}
