package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"raffler/cmd"
	"raffler/cmd/debug"
	"raffler/config"
	"raffler/database"
	"raffler/domain/entities"
	"raffler/domain/utils"
	"raffler/infrastructure"
)

func main() {
	// Check if invoked as admin-shell (via symlink)
	if filepath.Base(os.Args[0]) == "admin-shell" {
		if err := runAdminShell(); err != nil {
			log.Fatal("Admin shell error:", err)
		}
		return
	}

	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error:", err)
		}
		return
	}

	// Check for shell mode
	if len(os.Args) > 1 && os.Args[1] == "shell" {
		if err := runAdminShell(); err != nil {
			log.Fatal("Admin shell error:", err)
		}
		return
	}

	// Check for deposit subcommand
	if len(os.Args) > 1 && os.Args[1] == "deposit" {
		if err := handleDeposit(); err != nil {
			log.Fatal("Deposit error:", err)
		}
		return
	}

	// Normal service operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	// Run the application
	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error:", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: raffler migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

// handleDeposit credits an account outside the raffle flow, used to fund
// player accounts
func handleDeposit() error {
	if len(os.Args) < 4 {
		return fmt.Errorf("usage: raffler deposit <address> <amount>")
	}
	address := os.Args[2]
	amount, err := strconv.ParseInt(os.Args[3], 10, 64)
	if err != nil || amount <= 0 {
		return fmt.Errorf("invalid amount: %s", os.Args[3])
	}

	ctx := context.Background()
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Admin deposits don't publish events
	eventPublisher := infrastructure.NewNoopEventPublisher()
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetOrCreate(ctx, address)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	newBalance := account.Balance + amount
	if err := uow.AccountRepository().UpdateBalance(ctx, address, newBalance); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	history := &entities.BalanceHistory{
		AccountAddress:  address,
		BalanceBefore:   account.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    amount,
		TransactionType: entities.TransactionTypeDeposit,
		TransactionMetadata: map[string]any{
			"admin": "true",
		},
	}
	if err := utils.RecordBalanceChange(ctx, uow.BalanceHistoryRepository(), uow.EventBus(), history); err != nil {
		return fmt.Errorf("failed to record balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	log.Printf("Deposited %d to %s, new balance %d", amount, address, newBalance)
	return nil
}

// runAdminShell starts the interactive admin shell against the database
func runAdminShell() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Println("Starting admin shell...")

	cfg := config.Get()
	params := cmd.RaffleParamsFromConfig(cfg)

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// The shell publishes oracle requests for real when NATS is reachable
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer natsClient.Close()

	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)
	oracle := infrastructure.NewNATSRandomnessOracle(natsClient, cfg.OracleRequestSubject)

	shell := debug.NewShell(db, uowFactory, oracle, params)

	if err := shell.Run(ctx); err != nil {
		return fmt.Errorf("admin shell error: %w", err)
	}
	return nil
}
