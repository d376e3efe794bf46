package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cit-system/internal/dto"
	"cit-system/internal/entities"
	apperrors "cit-system/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StageFilter — срез жизненного цикла для ролевых выборок.
// Нулевые значения означают «не фильтровать».
type StageFilter struct {
	Status   string
	MyStatus int
}

type RequestRepositoryInterface interface {
	Create(ctx context.Context, creatorID uint64, d dto.CreateRequestDTO) (*entities.Request, error)
	FindByID(ctx context.Context, id uint64) (*entities.Request, error)
	FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.RequestTxState, error)
	UpdateStageInTx(ctx context.Context, tx pgx.Tx, id uint64, status string, myStatus int) (*entities.Request, error)
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) (*entities.Request, error)
	AssignVaultOfficer(ctx context.Context, id uint64, officerID uint64, officerName string) (*entities.Request, error)
	ListByStage(ctx context.Context, staffID uint64, f StageFilter) ([]dto.RequestListItemDTO, error)
	ListAll(ctx context.Context) ([]dto.RequestListItemDTO, error)
}

type RequestRepository struct {
	storage *pgxpool.Pool
}

func NewRequestRepository(storage *pgxpool.Pool) RequestRepositoryInterface {
	return &RequestRepository{storage: storage}
}

const requestColumns = `id, reference_number, pickup_location, delivery_location, status, my_status,
	priority, service_type_id, user_id, staff_id, branch_id, my_staff_id, my_staff_name,
	latitude, longitude, pickup_date, created_at, updated_at`

func scanRequest(row pgx.Row) (*entities.Request, error) {
	var r entities.Request
	err := row.Scan(
		&r.ID, &r.ReferenceNumber, &r.PickupLocation, &r.DeliveryLocation, &r.Status, &r.MyStatus,
		&r.Priority, &r.ServiceTypeID, &r.UserID, &r.StaffID, &r.BranchID, &r.MyStaffID, &r.MyStaffName,
		&r.Latitude, &r.Longitude, &r.PickupDate, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
	}
	return &r, nil
}

// Create создаёт заявку в статусе pending и присваивает ей
// референс-номер вида CIT-<год>-<порядковый номер>. Номер производен от ID,
// поэтому обе записи идут в одной транзакции.
func (r *RequestRepository) Create(ctx context.Context, creatorID uint64, d dto.CreateRequestDTO) (req *entities.Request, err error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось начать транзакцию: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = commitErr
			}
		}
	}()

	var newID uint64
	insertQuery := `
		INSERT INTO requests (pickup_location, delivery_location, status, my_status, priority,
			service_type_id, user_id, staff_id, branch_id, pickup_date, created_at, updated_at)
		VALUES ($1, $2, 'pending', 1, NULLIF($3, ''), $4, $5, NULLIF($6, 0), NULLIF($7, 0), $8, NOW(), NOW())
		RETURNING id`
	if err = tx.QueryRow(ctx, insertQuery,
		d.PickupLocation, d.DeliveryLocation, d.Priority,
		d.ServiceTypeID, creatorID, d.StaffID, d.BranchID, d.PickupDate,
	).Scan(&newID); err != nil {
		return nil, fmt.Errorf("ошибка создания заявки: %w", err)
	}

	referenceNumber := fmt.Sprintf("CIT-%d-%04d", time.Now().Year(), newID)
	row := tx.QueryRow(ctx,
		`UPDATE requests SET reference_number = $1 WHERE id = $2 RETURNING `+requestColumns,
		referenceNumber, newID,
	)
	return scanRequest(row)
}

func (r *RequestRepository) FindByID(ctx context.Context, id uint64) (*entities.Request, error) {
	row := r.storage.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id)
	return scanRequest(row)
}

// FindForUpdateInTx читает состояние заявки под FOR UPDATE: пока транзакция
// не завершится, конкурентное подтверждение или переназначение будет ждать.
func (r *RequestRepository) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.RequestTxState, error) {
	var st entities.RequestTxState
	err := tx.QueryRow(ctx, `
		SELECT id, status, my_status, staff_id, user_id, service_type_id
		FROM requests WHERE id = $1 FOR UPDATE`, id,
	).Scan(&st.ID, &st.Status, &st.MyStatus, &st.StaffID, &st.UserID, &st.ServiceTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("не удалось прочитать заявку для обновления: %w", err)
	}
	return &st, nil
}

func (r *RequestRepository) UpdateStageInTx(ctx context.Context, tx pgx.Tx, id uint64, status string, myStatus int) (*entities.Request, error) {
	row := tx.QueryRow(ctx, `
		UPDATE requests SET status = $1, my_status = $2, updated_at = NOW()
		WHERE id = $3 RETURNING `+requestColumns,
		status, myStatus, id,
	)
	return scanRequest(row)
}

// UpdateStatusInTx меняет только грубый статус; стадия остаётся прежней.
func (r *RequestRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) (*entities.Request, error) {
	row := tx.QueryRow(ctx, `
		UPDATE requests SET status = $1, updated_at = NOW()
		WHERE id = $2 RETURNING `+requestColumns,
		status, id,
	)
	return scanRequest(row)
}

func (r *RequestRepository) AssignVaultOfficer(ctx context.Context, id uint64, officerID uint64, officerName string) (*entities.Request, error) {
	row := r.storage.QueryRow(ctx, `
		UPDATE requests SET my_staff_id = $1, my_staff_name = $2, updated_at = NOW()
		WHERE id = $3 RETURNING `+requestColumns,
		officerID, officerName, id,
	)
	return scanRequest(row)
}

func (r *RequestRepository) ListByStage(ctx context.Context, staffID uint64, f StageFilter) ([]dto.RequestListItemDTO, error) {
	builder := r.listBuilder().Where(sq.Eq{"r.staff_id": staffID})
	if f.MyStatus != 0 {
		builder = builder.Where(sq.Eq{"r.my_status": f.MyStatus})
	}
	if f.Status != "" {
		builder = builder.Where(sq.Eq{"r.status": f.Status})
	}
	return r.queryList(ctx, builder)
}

func (r *RequestRepository) ListAll(ctx context.Context) ([]dto.RequestListItemDTO, error) {
	return r.queryList(ctx, r.listBuilder())
}

func (r *RequestRepository) listBuilder() sq.SelectBuilder {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	return psql.Select(
		"r.id", "r.reference_number", "r.pickup_location", "r.delivery_location",
		"r.status", "r.my_status", "r.priority",
		"st.name AS service_type", "b.name AS branch_name", "c.name AS client_name",
		"s.id AS staff_id", "s.name AS staff_name", "ro.name AS staff_role",
		"r.pickup_date", "r.created_at",
	).
		From("requests r").
		LeftJoin("service_types st ON r.service_type_id = st.id").
		LeftJoin("branches b ON r.branch_id = b.id").
		LeftJoin("clients c ON b.client_id = c.id").
		LeftJoin("staff s ON r.staff_id = s.id").
		LeftJoin("roles ro ON s.role_id = ro.id").
		OrderBy("r.created_at DESC")
}

func (r *RequestRepository) queryList(ctx context.Context, builder sq.SelectBuilder) ([]dto.RequestListItemDTO, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса списка заявок: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка заявок: %w", err)
	}
	defer rows.Close()

	items := make([]dto.RequestListItemDTO, 0)
	for rows.Next() {
		var (
			item                                 dto.RequestListItemDTO
			refNumber, priority, serviceType     sql.NullString
			branchName, clientName               sql.NullString
			staffName, staffRole                 sql.NullString
			staffID                              sql.NullInt64
			pickupDate                           sql.NullTime
			createdAt                            time.Time
		)
		if err := rows.Scan(
			&item.ID, &refNumber, &item.PickupLocation, &item.DeliveryLocation,
			&item.Status, &item.MyStatus, &priority,
			&serviceType, &branchName, &clientName,
			&staffID, &staffName, &staffRole,
			&pickupDate, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования заявки в списке: %w", err)
		}

		if refNumber.Valid {
			item.ReferenceNumber = &refNumber.String
		}
		if priority.Valid {
			item.Priority = &priority.String
		}
		if serviceType.Valid {
			item.ServiceType = &serviceType.String
		}
		if branchName.Valid {
			branch := dto.BranchSummaryDTO{Name: branchName.String}
			if clientName.Valid {
				branch.Client = &clientName.String
			}
			item.Branch = &branch
		}
		if staffID.Valid {
			item.AssignedStaff = &dto.StaffSummaryDTO{
				ID:   uint64(staffID.Int64),
				Name: staffName.String,
				Role: staffRole.String,
			}
		}
		if pickupDate.Valid {
			formatted := pickupDate.Time.Local().Format("2006-01-02")
			item.PickupDate = &formatted
		}
		item.CreatedAt = createdAt.Local().Format("2006-01-02 15:04:05")

		items = append(items, item)
	}
	return items, rows.Err()
}
