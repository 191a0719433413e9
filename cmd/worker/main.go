package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	subscriptionUsecases "invitio/internal/application/subscription/usecases"
	"invitio/internal/infrastructure/config"
	"invitio/internal/infrastructure/database"
	"invitio/internal/infrastructure/repository"
	"invitio/internal/infrastructure/scheduler"
	"invitio/internal/shared/logger"
)

// Standalone expiry worker. Runs the subscription expiry sweep on an
// interval for deployments that keep background work out of the API
// processes.
func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger()
	log.Infow("starting subscription expiry worker", "environment", env)

	if err := database.Init(&cfg.Database); err != nil {
		log.Errorw("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	subscriptionRepo := repository.NewSubscriptionRepository(database.Get())
	expireUC := subscriptionUsecases.NewExpireSubscriptionsUseCase(subscriptionRepo, log)

	sweeper := scheduler.NewExpiryScheduler(
		expireUC,
		time.Duration(cfg.Scheduler.ExpirySweepMinutes)*time.Minute,
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down expiry worker")
	sweeper.Stop()
	log.Infow("expiry worker exited")
}
