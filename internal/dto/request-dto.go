package dto

import "encoding/json"

type CreateRequestDTO struct {
	PickupLocation   string  `json:"pickupLocation" validate:"required"`
	DeliveryLocation string  `json:"deliveryLocation" validate:"required"`
	Priority         string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	ServiceTypeID    uint64  `json:"serviceTypeId" validate:"required"`
	StaffID          uint64  `json:"staffId" validate:"omitempty"`
	BranchID         uint64  `json:"branchId" validate:"omitempty"`
	PickupDate       *string `json:"pickupDate"`
}

// ConfirmPickupDTO — тело подтверждения забора. Пересчёт и фото необязательны,
// но если пересчёт пришёл, каждый номинал проверяется на неотрицательность
// до открытия транзакции.
type ConfirmPickupDTO struct {
	CashCount *CashCountDTO `json:"cashCount" validate:"omitempty"`
	ImageURL  string        `json:"imageUrl" validate:"omitempty,image_url"`
}

// ConfirmDeliveryDTO — координаты обязательны; указатели отличают
// «не передано» от нулевого значения.
type ConfirmDeliveryDTO struct {
	Latitude    *float64        `json:"latitude" validate:"required,latitude"`
	Longitude   *float64        `json:"longitude" validate:"required,longitude"`
	BankDetails json.RawMessage `json:"bankDetails"`
	Notes       string          `json:"notes"`
}

type AssignVaultOfficerDTO struct {
	VaultOfficerID   uint64 `json:"vaultOfficerId" validate:"required"`
	VaultOfficerName string `json:"vaultOfficerName" validate:"required"`
}

type RequestDTO struct {
	ID               uint64   `json:"id"`
	ReferenceNumber  *string  `json:"referenceNumber"`
	PickupLocation   string   `json:"pickupLocation"`
	DeliveryLocation string   `json:"deliveryLocation"`
	Status           string   `json:"status"`
	MyStatus         int      `json:"myStatus"`
	Priority         *string  `json:"priority"`
	ServiceTypeID    uint64   `json:"serviceTypeId"`
	ServiceType      *string  `json:"serviceType"`
	StaffID          uint64   `json:"staffId,omitempty"`
	MyStaffID        uint64   `json:"myStaffId,omitempty"`
	MyStaffName      *string  `json:"myStaffName,omitempty"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
}

// RequestListItemDTO — денормализованная строка ролевых выборок.
// Отсутствующие связи отдаются как null, а не как ошибка.
type RequestListItemDTO struct {
	ID               uint64            `json:"id"`
	ReferenceNumber  *string           `json:"referenceNumber"`
	PickupLocation   string            `json:"pickupLocation"`
	DeliveryLocation string            `json:"deliveryLocation"`
	Status           string            `json:"status"`
	MyStatus         int               `json:"myStatus"`
	Priority         *string           `json:"priority"`
	ServiceType      *string           `json:"serviceType"`
	Branch           *BranchSummaryDTO `json:"branch"`
	AssignedStaff    *StaffSummaryDTO  `json:"assignedStaff"`
	PickupDate       *string           `json:"pickupDate,omitempty"`
	CreatedAt        string            `json:"createdAt"`
}

type BranchSummaryDTO struct {
	Name   string  `json:"name"`
	Client *string `json:"client"`
}

type StaffSummaryDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// PickupResultDTO — результат подтверждения забора.
type PickupResultDTO struct {
	Request   *RequestDTO          `json:"request"`
	CashCount *CashCountSummaryDTO `json:"cashCount"`
}

// DeliveryResultDTO — результат подтверждения доставки.
type DeliveryResultDTO struct {
	Request            *RequestDTO            `json:"request"`
	DeliveryCompletion *DeliveryCompletionDTO `json:"deliveryCompletion"`
}

type DeliveryCompletionDTO struct {
	RequestID       uint64          `json:"requestId"`
	CompletedByID   uint64          `json:"completedById"`
	CompletedByName *string         `json:"completedByName"`
	BankDetails     json.RawMessage `json:"bankDetails,omitempty"`
	Latitude        float64         `json:"latitude"`
	Longitude       float64         `json:"longitude"`
	Status          string          `json:"status"`
	Notes           *string         `json:"notes"`
	CompletedAt     string          `json:"completedAt"`
}
