package entities

import "time"

// CrewLocation — точка трека экипажа, только дозапись.
type CrewLocation struct {
	ID        uint64
	RequestID uint64
	StaffID   uint64
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
}
