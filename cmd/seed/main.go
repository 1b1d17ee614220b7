package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"treesync/internal/config"
	"treesync/internal/domain/models"
	"treesync/internal/repository/postgres"

	"github.com/joho/godotenv"
)

// Seeds a demo hierarchy for local development:
//
//	go run ./cmd/seed -user demo
//	go run ./cmd/seed -schema-only
func main() {
	userID := flag.String("user", "demo", "User identity to seed")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed records")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// Prevent demo data from landing in production
	if cfg.Environment == "prod" && !*schemaOnly {
		log.Fatalf("BLOCKED: refusing to seed demo data in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	logger.Info("schema ready", "prefix", cfg.TablePrefix)

	if *schemaOnly {
		return
	}

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	users := postgres.NewUserRepository(repoConfig)
	folders := postgres.NewFolderRepository(repoConfig)
	items := postgres.NewItemRepository(repoConfig)

	if _, err := users.Create(ctx, *userID); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	projects := "seed-folder-projects"
	seedFolders := []models.Folder{
		{ID: projects, UserID: *userID, Name: "Projects", Order: 1},
		{ID: "seed-folder-reading", UserID: *userID, Name: "Reading", Order: 2, Collapsed: true},
		{ID: "seed-folder-go", UserID: *userID, Name: "Go", ParentID: &projects, Order: 1},
	}
	seedItems := []models.Item{
		{ID: "seed-item-pgx", UserID: *userID, Name: "pgx docs", Icon: "book", ParentID: &projects, Order: 1},
		{ID: "seed-item-scratch", UserID: *userID, Name: "Scratchpad", Icon: "note", Order: 9},
	}

	for i := range seedFolders {
		if err := folders.Create(ctx, &seedFolders[i]); err != nil {
			logger.Warn("folder already seeded, skipping", "folder_id", seedFolders[i].ID, "error", err)
		}
	}
	for i := range seedItems {
		if err := items.Create(ctx, &seedItems[i]); err != nil {
			logger.Warn("item already seeded, skipping", "item_id", seedItems[i].ID, "error", err)
		}
	}

	logger.Info("seed complete", "user_id", *userID)
}
