package constants

// --- РОЛИ ПЕРСОНАЛА (совпадают с именами в таблице roles) ---
const (
	RoleAdmin        = "ADMIN"
	RoleSupervisor   = "SUPERVISOR"
	RoleCommander    = "COMMANDER"
	RoleOfficer      = "OFFICER"
	RoleDriver       = "DRIVER"
	RoleVaultOfficer = "VAULT_OFFICER"
)

// RoleVaultOfficerID — ID роли кассира хранилища в справочнике ролей.
const RoleVaultOfficerID = 8

// Статусы персонала
const (
	StaffActive   = 1
	StaffInactive = 0
)

// CanViewAllRequests — просмотр заявок всего персонала доступен
// только супервизору и администратору.
func CanViewAllRequests(role string) bool {
	return role == RoleSupervisor || role == RoleAdmin
}
