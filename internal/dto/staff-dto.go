package dto

type VaultOfficerDTO struct {
	ID    uint64  `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
}

// AvailableVaultOfficerDTO — кассир хранилища с текущей нагрузкой:
// числом назначенных на него заявок в статусах pending/in_progress.
type AvailableVaultOfficerDTO struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	Phone      *string `json:"phone"`
	ActiveLoad int     `json:"activeLoad"`
}
