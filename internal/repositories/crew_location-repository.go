package repositories

import (
	"context"
	"fmt"

	"cit-system/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CrewLocationRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, loc *entities.CrewLocation) (*entities.CrewLocation, error)
	MirrorToRequestInTx(ctx context.Context, tx pgx.Tx, requestID uint64, lat, lng float64) error
	ListByRequest(ctx context.Context, requestID uint64) ([]entities.CrewLocation, error)
}

type CrewLocationRepository struct {
	storage *pgxpool.Pool
}

func NewCrewLocationRepository(storage *pgxpool.Pool) CrewLocationRepositoryInterface {
	return &CrewLocationRepository{storage: storage}
}

func (r *CrewLocationRepository) CreateInTx(ctx context.Context, tx pgx.Tx, loc *entities.CrewLocation) (*entities.CrewLocation, error) {
	err := tx.QueryRow(ctx, `
		INSERT INTO crew_locations (request_id, staff_id, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`,
		loc.RequestID, loc.StaffID, loc.Latitude, loc.Longitude,
	).Scan(&loc.ID, &loc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи точки трека: %w", err)
	}
	return loc, nil
}

// MirrorToRequestInTx дублирует последнюю точку на саму заявку,
// чтобы списки не ходили за актуальной позицией в таблицу трека.
func (r *CrewLocationRepository) MirrorToRequestInTx(ctx context.Context, tx pgx.Tx, requestID uint64, lat, lng float64) error {
	_, err := tx.Exec(ctx,
		`UPDATE requests SET latitude = $1, longitude = $2, updated_at = NOW() WHERE id = $3`,
		lat, lng, requestID,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления позиции заявки: %w", err)
	}
	return nil
}

func (r *CrewLocationRepository) ListByRequest(ctx context.Context, requestID uint64) ([]entities.CrewLocation, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT id, request_id, staff_id, latitude, longitude, created_at
		FROM crew_locations WHERE request_id = $1 ORDER BY created_at`, requestID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения трека: %w", err)
	}
	defer rows.Close()

	locations := make([]entities.CrewLocation, 0)
	for rows.Next() {
		var loc entities.CrewLocation
		if err := rows.Scan(&loc.ID, &loc.RequestID, &loc.StaffID, &loc.Latitude, &loc.Longitude, &loc.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования точки трека: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}
