package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// CashCount — снимок пересчёта наличности, зафиксированный при заборе.
// Создаётся ровно один раз на цикл забора и после этого не изменяется;
// уникальный индекс по request_id превращает повторную запись в конфликт.
type CashCount struct {
	ID           uint64
	RequestID    uint64
	StaffID      uint64
	Ones         int
	Fives        int
	Tens         int
	Twenties     int
	Forties      int
	Fifties      int
	Hundreds     int
	TwoHundreds  int
	FiveHundreds int
	Thousands    int
	TotalAmount  int64
	SealNumber   null.String
	ImageURL     null.String
	CreatedAt    time.Time
}
