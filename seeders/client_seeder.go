package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

type branchSeed struct {
	Client string
	Name   string
}

var demoBranches = []branchSeed{
	{"Амонатбанк", "Филиал №1, пр. Рудаки 24"},
	{"Амонатбанк", "Филиал №3, ул. Айни 46"},
	{"Эсхата Банк", "ЦБО Душанбе, ул. Бохтар 35"},
	{"Ориёнбанк", "Головной офис, пр. Рудаки 95/1"},
}

// SeedClientsAndBranches наполняет справочники клиентов и точек обслуживания.
// Повторный запуск ничего не дублирует.
func SeedClientsAndBranches(db *pgxpool.Pool) error {
	ctx := context.Background()
	log.Println("  - Запуск сидера Clients/Branches...")

	for _, b := range demoBranches {
		var clientID uint64
		err := db.QueryRow(ctx, "SELECT id FROM clients WHERE name = $1", b.Client).Scan(&clientID)
		if err != nil {
			if err = db.QueryRow(ctx,
				"INSERT INTO clients (name) VALUES ($1) RETURNING id", b.Client,
			).Scan(&clientID); err != nil {
				return fmt.Errorf("ошибка создания клиента %s: %w", b.Client, err)
			}
		}

		if _, err := db.Exec(ctx, `
			INSERT INTO branches (client_id, name)
			SELECT $1, $2
			WHERE NOT EXISTS (SELECT 1 FROM branches WHERE client_id = $1 AND name = $2)`,
			clientID, b.Name,
		); err != nil {
			return fmt.Errorf("ошибка создания филиала %s: %w", b.Name, err)
		}
	}
	log.Printf("    Справочники клиентов и филиалов наполнены (%d точек)", len(demoBranches))
	return nil
}
