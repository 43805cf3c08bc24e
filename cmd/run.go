package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"raffler/application"
	"raffler/config"
	"raffler/database"
	"raffler/domain/interfaces"
	"raffler/infrastructure"
)

// Run initializes and starts the raffle service
func Run(ctx context.Context) error {
	log.Println("Starting raffler service...")

	// Load configuration
	cfg := config.Get()
	params := RaffleParamsFromConfig(cfg)

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Connect to NATS
	log.Printf("Connecting to NATS at %s...", cfg.NATSServers)
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Println("NATS connection established successfully")

	// Initialize the event publishing pipeline
	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure domain event stream: %w", err)
	}
	if err := natsClient.EnsureOracleStream(); err != nil {
		return fmt.Errorf("failed to ensure oracle stream: %w", err)
	}

	// Initialize unit of work factory
	log.Println("Initializing unit of work factory...")
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)

	// Initialize the randomness oracle client
	oracle := infrastructure.NewNATSRandomnessOracle(natsClient, cfg.OracleRequestSubject)

	// Wire the fulfillment consumer
	fulfillmentHandler := application.NewFulfillmentHandler(uowFactory, oracle, params)
	consumer := infrastructure.NewMessageConsumer(natsClient)
	consumer.RegisterHandler(cfg.OracleFulfillmentSubject, fulfillmentHandler.HandleFulfillment)

	consumerErrChan := make(chan error, 1)
	go func() {
		consumerErrChan <- consumer.Start(ctx)
	}()

	// Start the upkeep worker
	upkeepWorker := application.NewUpkeepWorker(uowFactory, oracle, params, cfg.UpkeepPollInterval)
	stopUpkeep := upkeepWorker.Start(ctx)

	log.Printf("Raffler is running in %s mode...", cfg.Environment)

	select {
	case <-ctx.Done():
	case err := <-consumerErrChan:
		if err != nil {
			log.Printf("Message consumer failed: %v", err)
		}
	}

	// Cleanup resources
	log.Println("Shutting down raffler...")

	stopUpkeep()
	consumer.Stop()

	if err := natsClient.Close(); err != nil {
		log.Printf("Error closing NATS connection: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}

// RaffleParamsFromConfig maps the static configuration into the raffle's
// immutable parameters
func RaffleParamsFromConfig(cfg *config.Config) interfaces.RaffleParams {
	return interfaces.RaffleParams{
		EntranceFee:            cfg.EntranceFee,
		IntervalSeconds:        int64(cfg.RoundInterval / time.Second),
		OracleConfirmations:    cfg.OracleConfirmations,
		OracleCallbackGasLimit: cfg.OracleCallbackGasLimit,
		OracleNumWords:         cfg.OracleNumWords,
	}
}
