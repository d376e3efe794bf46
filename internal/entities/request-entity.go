package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Request — центральный агрегат: заявка на инкассацию.
// status хранит грубый жизненный цикл, my_status — тонкую числовую стадию.
// Пара всегда должна быть согласована; пишут её только подтверждающие операции.
type Request struct {
	ID               uint64
	ReferenceNumber  null.String
	PickupLocation   string
	DeliveryLocation string
	Status           string
	MyStatus         int
	Priority         null.String
	ServiceTypeID    null.Uint64
	UserID           null.Uint64 // владелец заявки (кто создал)
	StaffID          null.Uint64 // назначенный экипаж
	BranchID         null.Uint64
	MyStaffID        null.Uint64 // кассир хранилища
	MyStaffName      null.String
	Latitude         null.Float64
	Longitude        null.Float64
	PickupDate       null.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RequestTxState — снимок полей заявки, которые читаются под FOR UPDATE
// перед подтверждающей операцией. Проверка легальности и запись происходят
// в одной транзакции, поэтому конкурентный переход между ними невозможен.
type RequestTxState struct {
	ID            uint64
	Status        string
	MyStatus      int
	StaffID       null.Uint64
	UserID        null.Uint64
	ServiceTypeID null.Uint64
}
