package dto

type ReportItemDTO struct {
	ID              uint64  `json:"id"`
	ReferenceNumber *string `json:"referenceNumber"`
	PickupLocation  string  `json:"pickupLocation"`
	DeliveryLoc     string  `json:"deliveryLocation"`
	ServiceType     *string `json:"serviceType"`
	BranchName      *string `json:"branch"`
	StaffName       *string `json:"staff"`
	TotalAmount     *int64  `json:"totalAmount"`
	SealNumber      *string `json:"sealNumber"`
	CompletedAt     *string `json:"completedAt"`
	CreatedAt       string  `json:"createdAt"`
}
