package entities

import (
	"database/sql"
	"time"
)

// ReportFilter — параметры выгрузки реестра завершённых заявок.
type ReportFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	BranchID uint64
	Page     int
	PerPage  int
}

// ReportItem — строка реестра: завершённая заявка с итогом пересчёта.
type ReportItem struct {
	ID              uint64
	ReferenceNumber sql.NullString
	PickupLocation  string
	DeliveryLoc     string
	ServiceType     sql.NullString
	BranchName      sql.NullString
	StaffName       sql.NullString
	TotalAmount     sql.NullInt64
	SealNumber      sql.NullString
	CompletedAt     sql.NullTime
	CreatedAt       time.Time
}
