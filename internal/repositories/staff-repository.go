package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cit-system/internal/dto"
	"cit-system/internal/entities"
	"cit-system/pkg/constants"
	apperrors "cit-system/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StaffRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Staff, error)
	FindByEmail(ctx context.Context, email string) (*entities.Staff, error)
	ListVaultOfficers(ctx context.Context) ([]dto.VaultOfficerDTO, error)
	ListVaultOfficersWithLoad(ctx context.Context) ([]dto.AvailableVaultOfficerDTO, error)
}

type StaffRepository struct {
	storage *pgxpool.Pool
}

func NewStaffRepository(storage *pgxpool.Pool) StaffRepositoryInterface {
	return &StaffRepository{storage: storage}
}

func (r *StaffRepository) FindByID(ctx context.Context, id uint64) (*entities.Staff, error) {
	return r.findOne(ctx, sq.Eq{"s.id": id})
}

func (r *StaffRepository) FindByEmail(ctx context.Context, email string) (*entities.Staff, error) {
	return r.findOne(ctx, sq.Eq{"s.email": email})
}

func (r *StaffRepository) findOne(ctx context.Context, where sq.Eq) (*entities.Staff, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(
		"s.id", "s.name", "s.email", "s.phone", "s.badge_number",
		"s.password", "s.role_id", "ro.name", "s.status", "s.created_at",
	).
		From("staff s").
		LeftJoin("roles ro ON s.role_id = ro.id").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса сотрудника: %w", err)
	}

	var st entities.Staff
	var roleName sql.NullString
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&st.ID, &st.Name, &st.Email, &st.Phone, &st.BadgeNumber,
		&st.Password, &st.RoleID, &roleName, &st.Status, &st.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования сотрудника: %w", err)
	}
	st.RoleName = roleName.String
	return &st, nil
}

// ListVaultOfficers — активные кассиры хранилища по алфавиту.
func (r *StaffRepository) ListVaultOfficers(ctx context.Context) ([]dto.VaultOfficerDTO, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("id", "name", "phone").
		From("staff").
		Where(sq.Eq{"role_id": constants.RoleVaultOfficerID, "status": constants.StaffActive}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса кассиров: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения кассиров: %w", err)
	}
	defer rows.Close()

	officers := make([]dto.VaultOfficerDTO, 0)
	for rows.Next() {
		var o dto.VaultOfficerDTO
		var phone sql.NullString
		if err := rows.Scan(&o.ID, &o.Name, &phone); err != nil {
			return nil, fmt.Errorf("ошибка сканирования кассира: %w", err)
		}
		if phone.Valid {
			o.Phone = &phone.String
		}
		officers = append(officers, o)
	}
	return officers, rows.Err()
}

// ListVaultOfficersWithLoad возвращает кассиров вместе с числом активных
// назначений (pending/in_progress). Ранжирование — контракт сервиса,
// здесь только данные.
func (r *StaffRepository) ListVaultOfficersWithLoad(ctx context.Context) ([]dto.AvailableVaultOfficerDTO, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(
		"s.id", "s.name", "s.phone",
		"COUNT(r.id) FILTER (WHERE r.status IN ('pending', 'in_progress')) AS active_load",
	).
		From("staff s").
		LeftJoin("requests r ON r.my_staff_id = s.id").
		Where(sq.Eq{"s.role_id": constants.RoleVaultOfficerID, "s.status": constants.StaffActive}).
		GroupBy("s.id", "s.name", "s.phone").
		OrderBy("active_load ASC", "s.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса доступных кассиров: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения доступных кассиров: %w", err)
	}
	defer rows.Close()

	officers := make([]dto.AvailableVaultOfficerDTO, 0)
	for rows.Next() {
		var o dto.AvailableVaultOfficerDTO
		var phone sql.NullString
		if err := rows.Scan(&o.ID, &o.Name, &phone, &o.ActiveLoad); err != nil {
			return nil, fmt.Errorf("ошибка сканирования доступного кассира: %w", err)
		}
		if phone.Valid {
			o.Phone = &phone.String
		}
		officers = append(officers, o)
	}
	return officers, rows.Err()
}
