package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/bibletext/dailyverse/internal/api"
	"github.com/bibletext/dailyverse/internal/bible"
	"github.com/bibletext/dailyverse/internal/config"
	"github.com/bibletext/dailyverse/internal/database"
	"github.com/bibletext/dailyverse/internal/dispatcher"
	"github.com/bibletext/dailyverse/internal/logger"
	"github.com/bibletext/dailyverse/internal/mailer"
	"github.com/bibletext/dailyverse/internal/migrator"
	"github.com/bibletext/dailyverse/internal/nats"
	"github.com/bibletext/dailyverse/internal/publisher"
	"github.com/bibletext/dailyverse/internal/repository"
	"github.com/bibletext/dailyverse/internal/scheduler"
	"github.com/bibletext/dailyverse/internal/subscription"
	"github.com/bibletext/dailyverse/migrations"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 2. Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()
	log.Info().Msg("starting verse dispatch service")

	// 3. Setup context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")
		cancel()
	}()

	// 4. Run database migrations
	m, err := migrator.NewWithFS(migrations.FS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create migrator")
	}
	if err := m.Up(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// 5. Connect to database
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// 6. Connect to NATS (optional)
	var events dispatcher.EventPublisher
	if cfg.NatsURL != "" {
		nc, err := nats.New(cfg.NatsURL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to nats, event publishing disabled")
		} else {
			defer nc.Close()
			if err := nc.EnsureStream(ctx, "VERSES", []string{"verse.>"}); err != nil {
				log.Warn().Err(err).Msg("failed to ensure stream")
			}
			events = publisher.NewNATSPublisher(nc.Conn)
		}
	}

	// 7. Initialize repositories
	subscribersRepo := repository.NewSubscribersRepository(db.Pool, log)
	logsRepo := repository.NewDeliveryLogsRepository(db.GORM, log)

	// 8. Initialize verse client
	verses := bible.NewClient(bible.Config{
		BaseURL: cfg.BibleAPIBaseURL,
		Timeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second,
	})

	// 9. Initialize mail sender
	var mail mailer.Sender
	if cfg.ResendAPIKey != "" {
		mail = mailer.NewResendSender(cfg.ResendAPIKey, cfg.FromEmail)
	} else {
		log.Warn().Msg("RESEND_API_KEY not set, deliveries go to the log only")
		mail = mailer.NewLogSender(log)
	}

	// 10. Initialize dispatch and subscription services
	limiter := rate.NewLimiter(rate.Limit(cfg.SendRatePerSec), 1)
	dispatchSvc := dispatcher.NewService(subscribersRepo, logsRepo, verses, mail, limiter, events, cfg.AppURL, log)
	subscriptionSvc := subscription.NewService(subscribersRepo, mail, cfg.AppURL, log)

	// 11. Start the in-process hourly trigger
	if cfg.CronEnabled {
		sched := scheduler.New(dispatchSvc, log)
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start scheduler")
		}
		defer sched.Stop()
		log.Info().Msg("hourly dispatch trigger enabled")
	}

	// 12. Start the HTTP server
	handler := api.NewHandler(dispatchSvc, subscriptionSvc, subscribersRepo, logsRepo, log)
	router := api.NewRouter(handler, cfg.CronSecret)
	server := api.NewServer(cfg.HTTPPort, router)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("http server listening")
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("http server stopped")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}

	log.Info().Msg("shutdown complete")
}
