package seeders

import (
	"context"
	"fmt"
	"log"

	"cit-system/pkg/constants"
	"cit-system/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

type staffSeed struct {
	Name        string
	Email       string
	Phone       string
	BadgeNumber string
	RoleName    string
}

var demoStaff = []staffSeed{
	{"Рахимов Далер", "d.rakhimov@cit.local", "+992900000001", "CIT-001", constants.RoleCommander},
	{"Шарипов Фируз", "f.sharipov@cit.local", "+992900000002", "CIT-002", constants.RoleDriver},
	{"Назаров Умед", "u.nazarov@cit.local", "+992900000003", "CIT-003", constants.RoleOfficer},
	{"Каримова Нигора", "n.karimova@cit.local", "+992900000004", "VLT-001", constants.RoleVaultOfficer},
	{"Саидов Бахром", "b.saidov@cit.local", "+992900000005", "VLT-002", constants.RoleVaultOfficer},
	{"Холова Мавзуна", "m.kholova@cit.local", "+992900000006", "VLT-003", constants.RoleVaultOfficer},
}

// SeedAdmin создаёт администратора, если его ещё нет.
// Email и пароль берутся из окружения, без них сидер молча пропускается.
func SeedAdmin(db *pgxpool.Pool, email, password string) error {
	ctx := context.Background()
	log.Println("  - Запуск сидера Admin...")

	if email == "" || password == "" {
		log.Println("    SEED_ADMIN_EMAIL или SEED_ADMIN_PASSWORD не заданы. Пропускаем создание.")
		return nil
	}

	var existingID uint64
	err := db.QueryRow(ctx, "SELECT id FROM staff WHERE email = $1", email).Scan(&existingID)
	if err == nil {
		log.Println("    Администратор уже существует. Не трогаем.")
		return nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, `
		INSERT INTO staff (name, email, phone, badge_number, password, role_id, status, created_at)
		SELECT 'System Administrator', $1, NULL, 'ADM-001', $2, r.id, $3, NOW()
		FROM roles r WHERE r.name = $4`,
		email, hashed, constants.StaffActive, constants.RoleAdmin,
	)
	if err != nil {
		return fmt.Errorf("ошибка создания администратора: %w", err)
	}
	log.Printf("    Администратор %s создан", email)
	return nil
}

// SeedDemoStaff создаёт демонстрационный экипаж и кассиров хранилища.
// Пароль у всех одинаковый и подходит только для стендов.
func SeedDemoStaff(db *pgxpool.Pool, password string) error {
	ctx := context.Background()
	log.Println("  - Запуск сидера DemoStaff...")

	if password == "" {
		password = "changeme"
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	for _, s := range demoStaff {
		_, err := db.Exec(ctx, `
			INSERT INTO staff (name, email, phone, badge_number, password, role_id, status, created_at)
			SELECT $1, $2, $3, $4, $5, r.id, $6, NOW()
			FROM roles r WHERE r.name = $7
			ON CONFLICT (email) DO NOTHING`,
			s.Name, s.Email, s.Phone, s.BadgeNumber, hashed, constants.StaffActive, s.RoleName,
		)
		if err != nil {
			return fmt.Errorf("ошибка создания сотрудника %s: %w", s.Email, err)
		}
	}
	log.Printf("    Создано до %d демонстрационных сотрудников", len(demoStaff))
	return nil
}
