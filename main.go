// main.go
package main

import (
	"context"
	"log"
	"time"

	"court-booking/cmd"
	"court-booking/internal/data/repository"
	"court-booking/internal/wire"
	"court-booking/pkg/database"
	"court-booking/pkg/scheduler"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
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

	// Apply schema migrations
	if err := database.RunMigrations(config.Database, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize repositories and the court lock manager
	repos := repository.NewRepository(db, logger)
	txManager := database.NewTxManager(db, config.Booking.ReserveMaxRetries, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, txManager, config, logger)

	// Background sweep: expire lapsed waitlist notifications and promote
	// the next waiter.
	sched, err := scheduler.New(logger)
	if err != nil {
		logger.Fatal("Failed to init scheduler", zap.Error(err))
	}
	sweepInterval := time.Duration(config.Waitlist.SweepMinutes) * time.Minute
	_, err = sched.AddIntervalJob("waitlist-expiry-sweep", sweepInterval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if _, err := app.Service.Waitlist.ExpireStale(ctx, time.Now()); err != nil {
			logger.Error("Waitlist expiry sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Fatal("Failed to register waitlist sweep", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
