package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"pharmacy-system/internal/storage"
	"pharmacy-system/pkg/config"
	applogger "pharmacy-system/pkg/logger"
	"pharmacy-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение хранилища)      ")
	log.Println("======================================================")

	runBranches := flag.Bool("branches", false, "Наполнить филиалы")
	runProducts := flag.Bool("products", false, "Наполнить каталог товаров")
	runUsers := flag.Bool("users", false, "Создать администратора и демо-клиента")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -branches -products -users)")

	flag.Parse()

	if !*runBranches && !*runProducts && !*runUsers && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -branches -products")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	if cfg.Storage.Backend == config.BackendMemory {
		log.Fatal("❌ Хранилище memory живёт только внутри процесса сервера: сервер наполняет его сам при старте.")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Некорректная конфигурация: %v", err)
	}

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Не удалось подключить хранилище", zap.Error(err))
	}
	defer repos.Close()

	seeder := seeders.New(repos.Products, repos.Branches, repos.Users,
		cfg.Storage.Backend != config.BackendMockAPI, logger.Named("seed"))

	if *runAll || *runBranches {
		if err := seeder.SeedBranches(ctx); err != nil {
			log.Fatalf("❌ Ошибка наполнения филиалов: %v", err)
		}
	}
	if *runAll || *runProducts {
		if err := seeder.SeedProducts(ctx); err != nil {
			log.Fatalf("❌ Ошибка наполнения каталога: %v", err)
		}
	}
	if *runAll || *runUsers {
		if err := seeder.SeedUsers(ctx); err != nil {
			log.Fatalf("❌ Ошибка создания пользователей: %v", err)
		}
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}
