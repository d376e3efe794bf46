package repositories

import (
	"context"
	"fmt"

	"cit-system/internal/entities"
	"cit-system/pkg/constants"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportRepositoryInterface interface {
	GetCompletedRegister(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error)
}

type reportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) ReportRepositoryInterface {
	return &reportRepository{db: db}
}

// GetCompletedRegister — реестр завершённых заявок с итогами пересчёта.
func (r *reportRepository) GetCompletedRegister(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	// Общая база для данных и подсчёта
	base := psql.Select().
		From("requests r").
		LeftJoin("service_types st ON r.service_type_id = st.id").
		LeftJoin("branches b ON r.branch_id = b.id").
		LeftJoin("staff s ON r.staff_id = s.id").
		LeftJoin("cash_counts cc ON cc.request_id = r.id").
		LeftJoin("delivery_completions dc ON dc.request_id = r.id").
		Where(sq.Eq{"r.status": constants.StatusCompleted})

	if filter.DateFrom != nil {
		base = base.Where(sq.GtOrEq{"r.created_at": filter.DateFrom})
	}
	if filter.DateTo != nil {
		base = base.Where(sq.LtOrEq{"r.created_at": filter.DateTo})
	}
	if filter.BranchID != 0 {
		base = base.Where(sq.Eq{"r.branch_id": filter.BranchID})
	}

	countQuery, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчёта реестра: %w", err)
	}
	var total uint64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта реестра: %w", err)
	}

	dataBuilder := base.Columns(
		"r.id", "r.reference_number", "r.pickup_location", "r.delivery_location",
		"st.name", "b.name", "s.name",
		"cc.total_amount", "cc.seal_number", "dc.completed_at", "r.created_at",
	).OrderBy("r.created_at DESC")

	if filter.PerPage > 0 {
		dataBuilder = dataBuilder.Limit(uint64(filter.PerPage))
		if filter.Page > 1 {
			dataBuilder = dataBuilder.Offset(uint64((filter.Page - 1) * filter.PerPage))
		}
	}

	query, args, err := dataBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса реестра: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения реестра: %w", err)
	}
	defer rows.Close()

	items := make([]entities.ReportItem, 0)
	for rows.Next() {
		var item entities.ReportItem
		if err := rows.Scan(
			&item.ID, &item.ReferenceNumber, &item.PickupLocation, &item.DeliveryLoc,
			&item.ServiceType, &item.BranchName, &item.StaffName,
			&item.TotalAmount, &item.SealNumber, &item.CompletedAt, &item.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки реестра: %w", err)
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}
