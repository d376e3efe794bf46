package entities

import (
	"encoding/json"
	"time"

	"github.com/aarondl/null/v8"
)

// DeliveryCompletion — запись о финальной передаче. Одна на заявку:
// повторное подтверждение доставки обновляет существующую запись,
// а не создаёт дубликат.
type DeliveryCompletion struct {
	RequestID       uint64
	CompletedByID   uint64
	CompletedByName null.String
	BankDetails     json.RawMessage
	Latitude        float64
	Longitude       float64
	Status          string
	IsVaultOfficer  bool
	Notes           null.String
	CompletedAt     time.Time
}
