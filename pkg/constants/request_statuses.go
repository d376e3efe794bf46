package constants

// --- СТАТУСЫ ЗАЯВОК CIT (грубый жизненный цикл, хранится в БД как есть) ---
const (
	StatusPending    = "pending"
	StatusAssigned   = "assigned"
	StatusInTransit  = "in_transit"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// --- СТАДИИ (myStatus): тонкий числовой жизненный цикл поверх статуса ---
const (
	StagePendingPickup = 1 // ожидает забора
	StagePickedUp      = 2 // забрано, в пути
	StageDelivered     = 3 // доставлено
)

// validTransitions — граф допустимых переходов грубого статуса.
// Всё, чего здесь нет, запрещено.
var validTransitions = map[string][]string{
	StatusPending:   {StatusAssigned, StatusCancelled},
	StatusAssigned:  {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusCompleted},
}

// CanTransition — чистая проверка легальности перехода, без побочных эффектов.
func CanTransition(current, requested string) bool {
	for _, next := range validTransitions[current] {
		if next == requested {
			return true
		}
	}
	return false
}

// statusByStage — фиксированное соответствие стадии и статуса.
// Заявка с рассинхронизированной парой — это баг записи, а не чтения.
var statusByStage = map[int]string{
	StagePendingPickup: StatusPending,
	StagePickedUp:      StatusInProgress,
	StageDelivered:     StatusCompleted,
}

func StatusForStage(stage int) (string, bool) {
	s, ok := statusByStage[stage]
	return s, ok
}

// Финальные статусы: заявки никогда физически не удаляются.
var FinalStatuses = []string{
	StatusCompleted,
	StatusCancelled,
}

func IsFinalStatus(status string) bool {
	for _, s := range FinalStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CashReconciliationServiceTypes — типы услуг, для которых при заборе
// фиксируется пересчёт наличности. Набор из трёх ID задан явно;
// согласован с владельцем системы.
var CashReconciliationServiceTypes = map[uint64]bool{
	2: true,
	3: true,
	4: true,
}

func RequiresCashReconciliation(serviceTypeID uint64) bool {
	return CashReconciliationServiceTypes[serviceTypeID]
}
