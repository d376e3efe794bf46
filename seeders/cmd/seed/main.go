package main

import (
	"flag"
	"log"
	"os"

	"cit-system/migrations"
	"cit-system/pkg/config"
	"cit-system/pkg/database/postgresql"
	"cit-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("        Сидеры: наполнение базы данных")
	log.Println("======================================================")

	runAdmin := flag.Bool("admin", false, "Создать администратора (SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD)")
	runStaff := flag.Bool("staff", false, "Создать демонстрационный экипаж и кассиров")
	runClients := flag.Bool("clients", false, "Наполнить справочники клиентов и филиалов")
	runAll := flag.Bool("all", false, "Запустить все сидеры")
	flag.Parse()

	if !*runAdmin && !*runStaff && !*runClients && !*runAll {
		log.Println("Не выбран ни один сидер для запуска.")
		flag.PrintDefaults()
		return
	}

	cfg := config.New()
	log.Println("Используется DSN:", cfg.Postgres.DSN)

	if err := migrations.Up(cfg.Postgres.DSN); err != nil {
		log.Fatalf("не удалось применить миграции: %v", err)
	}

	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	if *runAll || *runAdmin {
		if err := seeders.SeedAdmin(dbPool, os.Getenv("SEED_ADMIN_EMAIL"), os.Getenv("SEED_ADMIN_PASSWORD")); err != nil {
			log.Fatalf("сидер Admin завершился с ошибкой: %v", err)
		}
	}
	if *runAll || *runStaff {
		if err := seeders.SeedDemoStaff(dbPool, os.Getenv("SEED_STAFF_PASSWORD")); err != nil {
			log.Fatalf("сидер DemoStaff завершился с ошибкой: %v", err)
		}
	}
	if *runAll || *runClients {
		if err := seeders.SeedClientsAndBranches(dbPool); err != nil {
			log.Fatalf("сидер Clients/Branches завершился с ошибкой: %v", err)
		}
	}

	log.Println("Готово.")
}
