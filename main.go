package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"backoffice/cmd"
	"backoffice/internal/data/repository"
	"backoffice/internal/flash"
	"backoffice/internal/wire"
	"backoffice/pkg/cache"
	"backoffice/pkg/database"
	"backoffice/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)
	if insecure := config.InsecureDefaults(); len(insecure) > 0 && !config.App.Debug {
		logger.Warn("Development defaults in use, set these before exposing the server",
			zap.Strings("settings", insecure))
	}

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, logger); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	// Flash messages live in Redis when configured, in memory otherwise
	var flashes flash.Store
	if config.Redis.Addr != "" {
		client := cache.New(config.Redis.Addr, config.Redis.Password, config.Redis.DB)
		defer client.Close()
		if err := client.Ping(ctx); err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		flashes = flash.NewRedisStore(client, flash.DefaultTTL, logger)
		logger.Info("Flash messages stored in redis", zap.String("addr", config.Redis.Addr))
	} else {
		flashes = flash.NewMemoryStore(flash.DefaultTTL)
		logger.Info("Flash messages stored in memory")
	}

	repos := repository.NewRepository(db, logger)

	app, err := wire.Wiring(repos, flashes, config, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	if err := app.Service.Auth.SeedAdmin(ctx); err != nil {
		logger.Fatal("Failed to seed administrator", zap.Error(err))
	}

	scheduler := cmd.NewScheduler(app.Service.Auth, app.Limiter, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
