package cmd

import (
	"context"
	"fmt"
	"time"

	"totopredict/application"
	"totopredict/config"
	"totopredict/database"
	"totopredict/domain/engine"
	"totopredict/domain/interfaces"
	"totopredict/httpapi"
	"totopredict/infrastructure"
	"totopredict/infrastructure/observability"
	"totopredict/repository"
	"totopredict/repository/memory"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	if err := cfg.ConfigureLogging(); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	log.WithField("environment", cfg.Environment).Info("Starting totopredict...")

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
			log.WithError(err).Error("Error shutting down metrics")
		}
	}()
	metrics := observability.GetMetrics()

	// Initialize storage
	repoFactory, closeStore, err := newRepositoryFactory(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// Initialize event publishing
	eventPublisher, closePublisher, err := newEventPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePublisher()

	uowFactory := infrastructure.NewUnitOfWorkFactory(repoFactory, eventPublisher)

	// Initialize engine and handlers
	eng, err := engine.New(cfg.EngineConfig())
	if err != nil {
		return fmt.Errorf("failed to create prediction engine: %w", err)
	}

	predictionHandler := application.NewPredictionHandler(uowFactory, eng, metrics)
	drawHandler := application.NewDrawHandler(uowFactory, cfg.RangeMin, cfg.RangeMax, metrics)
	accuracyWorker := application.NewAccuracyWorker(uowFactory, metrics, cfg.AccuracyCheckInterval)
	application.RegisterApplicationSubscriptions(uowFactory, accuracyWorker)

	if cfg.DrawsSeedFile != "" {
		if err := seedDraws(ctx, drawHandler, cfg.DrawsSeedFile); err != nil {
			return err
		}
	}

	stopWorker := accuracyWorker.Start(ctx)
	defer stopWorker()

	server := httpapi.NewServer(predictionHandler, drawHandler)
	if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
		return err
	}

	log.Info("Shutdown completed")
	return nil
}

// newRepositoryFactory picks Postgres when a database is configured, otherwise the in-memory store
func newRepositoryFactory(ctx context.Context, cfg *config.Config) (infrastructure.RepositoryFactory, func(), error) {
	if !cfg.UsesPostgres() {
		log.Warn("DATABASE_URL not set, using in-memory storage")
		return memory.NewStore(), func() {}, nil
	}

	databaseURL := cfg.GetDatabaseURL()

	log.Info("Running database migrations...")
	if err := database.RunMigrationsWithURL(databaseURL); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	return repository.NewUnitOfWorkFactory(db), func() {
		log.Info("Closing database connection...")
		db.Close()
	}, nil
}

// newEventPublisher connects to NATS when servers are configured, otherwise events stay local
func newEventPublisher(ctx context.Context, cfg *config.Config) (interfaces.EventPublisher, func(), error) {
	if cfg.NATSServers == "" {
		log.Info("NATS_SERVERS not set, domain events will not leave the process")
		return infrastructure.NewNoopEventPublisher(), func() {}, nil
	}

	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	publisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
	if err := publisher.EnsureDomainEventStream(natsClient); err != nil {
		_ = natsClient.Close()
		return nil, nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}

	return publisher, func() {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}, nil
}

func seedDraws(ctx context.Context, drawHandler application.DrawHandler, path string) error {
	draws, err := application.LoadDrawsFile(path)
	if err != nil {
		return fmt.Errorf("failed to load seed draws: %w", err)
	}

	added, err := drawHandler.SeedDraws(ctx, draws)
	if err != nil {
		return fmt.Errorf("failed to seed draws: %w", err)
	}

	log.WithFields(log.Fields{
		"file":  path,
		"read":  len(draws),
		"added": added,
	}).Info("Seeded historical draws")
	return nil
}
