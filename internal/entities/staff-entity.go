package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Staff struct {
	ID          uint64
	Name        string
	Email       string
	Phone       null.String
	BadgeNumber null.String
	Password    string
	RoleID      int
	RoleName    string
	Status      int
	CreatedAt   time.Time
}
