package dto

type CreateCrewLocationDTO struct {
	RequestID uint64   `json:"requestId" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

type CrewLocationDTO struct {
	ID        uint64  `json:"id"`
	RequestID uint64  `json:"requestId"`
	StaffID   uint64  `json:"staffId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	CreatedAt string  `json:"createdAt"`
	MyStatus  int     `json:"myStatus"`
}
