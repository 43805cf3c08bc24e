package debug

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"raffler/application"
	"raffler/database"
	"raffler/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Shell is an interactive admin shell operating directly on the raffle
// database. Draw requests issued from here go through the same checked
// service path as the upkeep worker.
type Shell struct {
	db         *database.DB
	uowFactory application.UnitOfWorkFactory
	oracle     interfaces.RandomnessOracle
	params     interfaces.RaffleParams
	commands   map[string]Command
	history    []string
	dryRun     bool
	running    bool
}

// Command represents a shell command
type Command struct {
	Handler     CommandHandler
	Description string
	Usage       string
	Category    string // "read", "admin", "utility"
}

// CommandHandler is a function that handles a shell command
type CommandHandler func(s *Shell, args []string) error

// NewShell creates a new admin shell instance
func NewShell(db *database.DB, uowFactory application.UnitOfWorkFactory, oracle interfaces.RandomnessOracle, params interfaces.RaffleParams) *Shell {
	s := &Shell{
		db:         db,
		uowFactory: uowFactory,
		oracle:     oracle,
		params:     params,
		history:    []string{},
		dryRun:     false,
		running:    true,
	}

	s.initializeCommands()

	return s
}

// initializeCommands sets up all available commands
func (s *Shell) initializeCommands() {
	s.commands = map[string]Command{
		"help": {
			Handler:     (*Shell).handleHelp,
			Description: "Show available commands",
			Usage:       "help [command]",
			Category:    "utility",
		},
		"status": {
			Handler:     (*Shell).handleStatus,
			Description: "Show the current round, pool and recent winner",
			Usage:       "status",
			Category:    "read",
		},
		"balance": {
			Handler:     (*Shell).handleBalance,
			Description: "Show an account's balance",
			Usage:       "balance <address>",
			Category:    "read",
		},
		"history": {
			Handler:     (*Shell).handleHistory,
			Description: "Show recent balance changes for an account",
			Usage:       "history <address> [limit]",
			Category:    "read",
		},
		"entries": {
			Handler:     (*Shell).handleEntries,
			Description: "List the entries of the current round",
			Usage:       "entries",
			Category:    "read",
		},
		"winner": {
			Handler:     (*Shell).handleWinner,
			Description: "Show the winner of a finalized round",
			Usage:       "winner <round-id>",
			Category:    "read",
		},
	}

	s.addAdminCommands()
}

// handleHelp displays help information
func (s *Shell) handleHelp(args []string) error {
	if len(args) > 0 {
		cmdName := args[0]
		if cmd, exists := s.commands[cmdName]; exists {
			fmt.Printf("\n%s\n", cmdName)
			fmt.Printf("   %s\n", cmd.Description)
			fmt.Printf("   Usage: %s\n", cmd.Usage)
			fmt.Printf("   Category: %s\n", cmd.Category)
			return nil
		}
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	fmt.Println("\nAvailable Commands:")
	fmt.Println("===================")
	for _, category := range []string{"read", "admin", "utility"} {
		fmt.Printf("\n[%s]\n", category)
		for name, cmd := range s.commands {
			if cmd.Category == category {
				fmt.Printf("  %s - %s\n", padRight(name, 14), cmd.Description)
			}
		}
	}
	fmt.Println("\nBuilt-ins: exit, clear, dry-run [on|off]")
	return nil
}

// Run starts the interactive shell loop
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(os.Stdin)

	for s.running {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fmt.Print("\nraffler> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		s.history = append(s.history, input)

		parts := strings.Fields(input)
		cmdName := parts[0]
		args := parts[1:]

		switch cmdName {
		case "exit", "quit":
			s.running = false
			fmt.Println("Exiting admin shell. Service keeps running.")
			continue
		case "clear":
			fmt.Print("\033[H\033[2J")
			continue
		case "dry-run":
			if err := s.handleDryRun(args); err != nil {
				s.printError(err)
			}
			continue
		}

		cmd, exists := s.commands[cmdName]
		if !exists {
			s.printError(fmt.Errorf("unknown command: %s. Type 'help' for available commands", cmdName))
			continue
		}

		if err := cmd.Handler(s, args); err != nil {
			s.printError(err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// newService wires a raffle service onto a started unit of work
func (s *Shell) newService(uow application.UnitOfWork) interfaces.RaffleService {
	return application.NewRaffleService(uow, s.oracle, s.params)
}

// printError displays an error message in red
func (s *Shell) printError(err error) {
	fmt.Printf("\033[31mError: %s\033[0m\n", err.Error())
}

// printSuccess displays a success message in green
func (s *Shell) printSuccess(msg string) {
	fmt.Printf("\033[32m%s\033[0m\n", msg)
}

// printInfo displays an info message in blue
func (s *Shell) printInfo(msg string) {
	fmt.Printf("\033[34m%s\033[0m\n", msg)
}

// confirmAction prompts the user for confirmation
func (s *Shell) confirmAction(prompt string) bool {
	if s.dryRun {
		s.printInfo("Dry-run mode: would execute action")
		return false
	}

	fmt.Printf("\n\033[33m%s [y/N]: \033[0m", prompt)

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}

	response := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return response == "y" || response == "yes"
}

// handleDryRun toggles dry-run mode
func (s *Shell) handleDryRun(args []string) error {
	if len(args) == 0 {
		status := "off"
		if s.dryRun {
			status = "on"
		}
		s.printInfo(fmt.Sprintf("Dry-run mode is currently: %s", status))
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "on", "true", "1":
		s.dryRun = true
		s.printInfo("Dry-run mode enabled - no changes will be made")
	case "off", "false", "0":
		s.dryRun = false
		s.printSuccess("Dry-run mode disabled")
	default:
		return fmt.Errorf("invalid dry-run value. Use 'on' or 'off'")
	}

	return nil
}

// logAdminAction logs admin actions for audit purposes
func (s *Shell) logAdminAction(action string, details map[string]interface{}) {
	fields := log.Fields{
		"action":    action,
		"timestamp": time.Now().Unix(),
		"source":    "admin_shell",
	}

	for k, v := range details {
		fields[k] = v
	}

	log.WithFields(fields).Info("Admin action executed via shell")
}
