package repositories

import (
	"context"
	"errors"
	"fmt"

	"cit-system/internal/entities"
	apperrors "cit-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DeliveryCompletionRepositoryInterface interface {
	UpsertInTx(ctx context.Context, tx pgx.Tx, dc *entities.DeliveryCompletion) (*entities.DeliveryCompletion, error)
	FindByRequestID(ctx context.Context, requestID uint64) (*entities.DeliveryCompletion, error)
}

type DeliveryCompletionRepository struct {
	storage *pgxpool.Pool
}

func NewDeliveryCompletionRepository(storage *pgxpool.Pool) DeliveryCompletionRepositoryInterface {
	return &DeliveryCompletionRepository{storage: storage}
}

// UpsertInTx — идемпотентная запись о передаче: request_id — первичный ключ,
// повторное подтверждение с теми же данными сходится к тому же состоянию.
func (r *DeliveryCompletionRepository) UpsertInTx(ctx context.Context, tx pgx.Tx, dc *entities.DeliveryCompletion) (*entities.DeliveryCompletion, error) {
	query := `
		INSERT INTO delivery_completions (request_id, completed_by_id, completed_by_name,
			bank_details, latitude, longitude, status, is_vault_officer, notes, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (request_id) DO UPDATE SET
			completed_by_id   = EXCLUDED.completed_by_id,
			completed_by_name = EXCLUDED.completed_by_name,
			bank_details      = EXCLUDED.bank_details,
			latitude          = EXCLUDED.latitude,
			longitude         = EXCLUDED.longitude,
			status            = EXCLUDED.status,
			is_vault_officer  = EXCLUDED.is_vault_officer,
			notes             = EXCLUDED.notes,
			completed_at      = NOW()
		RETURNING completed_at`

	err := tx.QueryRow(ctx, query,
		dc.RequestID, dc.CompletedByID, dc.CompletedByName,
		dc.BankDetails, dc.Latitude, dc.Longitude, dc.Status, dc.IsVaultOfficer, dc.Notes,
	).Scan(&dc.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи о передаче: %w", err)
	}
	return dc, nil
}

func (r *DeliveryCompletionRepository) FindByRequestID(ctx context.Context, requestID uint64) (*entities.DeliveryCompletion, error) {
	var dc entities.DeliveryCompletion
	err := r.storage.QueryRow(ctx, `
		SELECT request_id, completed_by_id, completed_by_name, bank_details,
			latitude, longitude, status, is_vault_officer, notes, completed_at
		FROM delivery_completions WHERE request_id = $1`, requestID,
	).Scan(
		&dc.RequestID, &dc.CompletedByID, &dc.CompletedByName, &dc.BankDetails,
		&dc.Latitude, &dc.Longitude, &dc.Status, &dc.IsVaultOfficer, &dc.Notes, &dc.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения записи о передаче: %w", err)
	}
	return &dc, nil
}
