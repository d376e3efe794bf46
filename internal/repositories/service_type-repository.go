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

type ServiceTypeRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.ServiceType, error)
	GetAll(ctx context.Context) ([]entities.ServiceType, error)
}

type ServiceTypeRepository struct {
	storage *pgxpool.Pool
}

func NewServiceTypeRepository(storage *pgxpool.Pool) ServiceTypeRepositoryInterface {
	return &ServiceTypeRepository{storage: storage}
}

func (r *ServiceTypeRepository) FindByID(ctx context.Context, id uint64) (*entities.ServiceType, error) {
	var st entities.ServiceType
	err := r.storage.QueryRow(ctx,
		`SELECT id, name, status FROM service_types WHERE id = $1`, id,
	).Scan(&st.ID, &st.Name, &st.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения типа услуги: %w", err)
	}
	return &st, nil
}

func (r *ServiceTypeRepository) GetAll(ctx context.Context) ([]entities.ServiceType, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, name, status FROM service_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения типов услуг: %w", err)
	}
	defer rows.Close()

	types := make([]entities.ServiceType, 0)
	for rows.Next() {
		var st entities.ServiceType
		if err := rows.Scan(&st.ID, &st.Name, &st.Status); err != nil {
			return nil, fmt.Errorf("ошибка сканирования типа услуги: %w", err)
		}
		types = append(types, st)
	}
	return types, rows.Err()
}
