package entities

type ServiceType struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Status int    `json:"status"`
}
