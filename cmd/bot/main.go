package main

import (
	"context"
	"log"
	"os"

	"hangoutbot/internal/adapters/discord"
	"hangoutbot/internal/application"
	"hangoutbot/internal/config"
	"hangoutbot/internal/infrastructure/database"
	"hangoutbot/internal/infrastructure/i18n"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatalf("❌ Migration error: %v", err)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Database error: %v", err)
	}
	defer pool.Close()

	db := database.NewDB(pool)
	scheduling := application.NewSchedulingService(
		database.NewEventRepository(db),
		database.NewTimeslotRepository(db),
		database.NewAvailabilityRepository(db),
		database.NewUserRepository(db),
		db,
	)

	bot, err := discord.NewBot(cfg, scheduling, i18n.NewTranslator("en"))
	if err != nil {
		log.Fatalf("❌ Bot error: %v", err)
	}
	if err := bot.Start(); err != nil {
		log.Printf("❌ Bot stopped: %v", err)
		os.Exit(1)
	}
}
