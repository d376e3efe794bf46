package dto

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponseDTO struct {
	Token string        `json:"token"`
	Staff LoginStaffDTO `json:"staff"`
}

type LoginStaffDTO struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	BadgeNumber *string `json:"badgeNumber"`
}
