package repositories

import (
	"context"
	"errors"
	"fmt"

	"cit-system/internal/entities"
	apperrors "cit-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Код ошибки PostgreSQL для нарушения уникального ограничения.
const pgUniqueViolation = "23505"

type CashCountRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, cc *entities.CashCount) (*entities.CashCount, error)
	FindByRequestID(ctx context.Context, requestID uint64) (*entities.CashCount, error)
}

type CashCountRepository struct {
	storage *pgxpool.Pool
}

func NewCashCountRepository(storage *pgxpool.Pool) CashCountRepositoryInterface {
	return &CashCountRepository{storage: storage}
}

// CreateInTx пишет пересчёт в рамках транзакции подтверждения забора.
// Уникальный индекс по request_id гарантирует не более одной записи на цикл:
// повторная вставка возвращает конфликт, а не дубликат.
func (r *CashCountRepository) CreateInTx(ctx context.Context, tx pgx.Tx, cc *entities.CashCount) (*entities.CashCount, error) {
	query := `
		INSERT INTO cash_counts (request_id, staff_id, ones, fives, tens, twenties, forties,
			fifties, hundreds, two_hundreds, five_hundreds, thousands, total_amount,
			seal_number, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
		RETURNING id, created_at`

	err := tx.QueryRow(ctx, query,
		cc.RequestID, cc.StaffID,
		cc.Ones, cc.Fives, cc.Tens, cc.Twenties, cc.Forties,
		cc.Fifties, cc.Hundreds, cc.TwoHundreds, cc.FiveHundreds, cc.Thousands,
		cc.TotalAmount, cc.SealNumber, cc.ImageURL,
	).Scan(&cc.ID, &cc.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperrors.NewConflictError(
				"Пересчёт наличности по этой заявке уже зафиксирован", err)
		}
		return nil, fmt.Errorf("ошибка записи пересчёта наличности: %w", err)
	}
	return cc, nil
}

func (r *CashCountRepository) FindByRequestID(ctx context.Context, requestID uint64) (*entities.CashCount, error) {
	var cc entities.CashCount
	err := r.storage.QueryRow(ctx, `
		SELECT id, request_id, staff_id, ones, fives, tens, twenties, forties,
			fifties, hundreds, two_hundreds, five_hundreds, thousands, total_amount,
			seal_number, image_url, created_at
		FROM cash_counts WHERE request_id = $1`, requestID,
	).Scan(
		&cc.ID, &cc.RequestID, &cc.StaffID,
		&cc.Ones, &cc.Fives, &cc.Tens, &cc.Twenties, &cc.Forties,
		&cc.Fifties, &cc.Hundreds, &cc.TwoHundreds, &cc.FiveHundreds, &cc.Thousands,
		&cc.TotalAmount, &cc.SealNumber, &cc.ImageURL, &cc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения пересчёта наличности: %w", err)
	}
	return &cc, nil
}
