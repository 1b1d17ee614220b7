package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"treesync/internal/bridge"
	"treesync/internal/config"
	"treesync/internal/handler"
	"treesync/internal/middleware"
	"treesync/internal/repository/postgres"
	"treesync/internal/service"
	"treesync/internal/ws"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create pgx connection pool
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

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	itemRepo := postgres.NewItemRepository(repoConfig)
	kindResolver := postgres.NewKindResolver(repoConfig)

	// Fan-out bridge: redis when configured, in-process otherwise
	var eventBridge bridge.Bridge
	if cfg.RedisURL != "" {
		redisBridge, err := bridge.NewRedisBridge(ctx, cfg.RedisURL, logger)
		if err != nil {
			log.Fatalf("Failed to connect fan-out bridge: %v", err)
		}
		eventBridge = redisBridge
		logger.Info("fan-out bridge connected", "transport", "redis")
	} else {
		eventBridge = bridge.NewLocalBridge()
		logger.Warn("REDIS_URL not set, running single-instance fan-out")
	}
	defer eventBridge.Close()

	// Create services
	syncService := service.NewSyncService(userRepo, folderRepo, itemRepo, kindResolver, eventBridge, logger)
	treeService := service.NewTreeService(folderRepo, itemRepo, logger)

	// Realtime plumbing
	registry := ws.NewRegistry(logger)
	router := ws.NewRouter(registry, syncService, logger)
	wsHandler := ws.NewHandler(router, registry, logger)

	// Every instance subscribes; events for users with no local connections
	// fan out to an empty set, which is a no-op.
	if err := eventBridge.Subscribe(ctx, registry.Broadcast); err != nil {
		log.Fatalf("Failed to subscribe fan-out bridge: %v", err)
	}

	treeHandler := handler.NewTreeHandler(treeService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", treeHandler.HealthCheck)
	mux.HandleFunc("GET /api/tree", treeHandler.GetTree)
	mux.HandleFunc("GET /ws", wsHandler.ServeWS)

	// Build middleware chain
	var httpHandler http.Handler = mux
	httpHandler = middleware.Recovery(logger)(httpHandler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived websocket sessions
		IdleTimeout:  60 * time.Second,
	}

	// Run until interrupted, then drain
	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "port", cfg.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	case <-shutdownCtx.Done():
		logger.Info("shutting down")
		drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}
}
