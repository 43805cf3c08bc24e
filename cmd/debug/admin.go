package debug

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"raffler/domain/entities"
	"raffler/domain/services"
	"raffler/domain/utils"
)

// addAdminCommands adds mutating commands to the shell
func (s *Shell) addAdminCommands() {
	adminCommands := map[string]Command{
		"deposit": {
			Handler:     (*Shell).handleDeposit,
			Description: "Credit an account's balance",
			Usage:       "deposit <address> <amount>",
			Category:    "admin",
		},
		"enter": {
			Handler:     (*Shell).handleEnter,
			Description: "Enter the raffle on behalf of an account",
			Usage:       "enter <address> [payment]",
			Category:    "admin",
		},
		"draw": {
			Handler:     (*Shell).handleDraw,
			Description: "Request a draw for the current round if eligible",
			Usage:       "draw",
			Category:    "admin",
		},
	}

	for name, cmd := range adminCommands {
		s.commands[name] = cmd
	}
}

// handleStatus shows the current round, pool and recent winner
func (s *Shell) handleStatus(args []string) error {
	ctx := context.Background()
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	raffleService := s.newService(uow)
	status, err := raffleService.GetStatus(ctx)
	if err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	round := status.Round
	fmt.Printf("\nRound #%d\n", round.ID)
	fmt.Printf("  State:        %s\n", round.State)
	fmt.Printf("  Entrance fee: %s\n", formatNumber(round.EntranceFee))
	fmt.Printf("  Opened at:    %s\n", round.OpenedAt.UTC().Format(time.RFC3339))
	fmt.Printf("  Interval:     %s\n", round.Interval())
	fmt.Printf("  Pool:         %s\n", formatNumber(status.PoolBalance))
	fmt.Printf("  Entries:      %d\n", status.EntryCount)
	if round.PendingRequestID != nil {
		fmt.Printf("  Pending VRF:  %s\n", *round.PendingRequestID)
	}
	if status.RecentWinner != nil {
		fmt.Printf("  Last winner:  %s (round #%d, payout %s)\n",
			status.RecentWinner.PlayerAddress,
			status.RecentWinner.RoundID,
			formatNumber(status.RecentWinner.PayoutAmount))
	}
	return nil
}

// handleBalance shows an account's balance
func (s *Shell) handleBalance(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: balance <address>")
	}
	address := args[0]

	ctx := context.Background()
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByAddress(ctx, address)
	if err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("account %s does not exist", address)
	}

	fmt.Printf("\nAccount %s: %s\n", account.Address, formatNumber(account.Balance))
	return nil
}

// handleHistory shows recent balance changes for an account
func (s *Shell) handleHistory(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: history <address> [limit]")
	}
	address := args[0]

	limit := 10
	if len(args) > 1 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil || parsed <= 0 {
			return fmt.Errorf("invalid limit: %s", args[1])
		}
		limit = parsed
	}

	ctx := context.Background()
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	histories, err := uow.BalanceHistoryRepository().GetByAccount(ctx, address, limit)
	if err != nil {
		return err
	}
	if len(histories) == 0 {
		s.printInfo(fmt.Sprintf("No balance history for %s", address))
		return nil
	}

	rows := make([][]string, 0, len(histories))
	for _, h := range histories {
		rows = append(rows, []string{
			h.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			string(h.TransactionType),
			formatSignedNumber(h.ChangeAmount),
			formatNumber(h.BalanceAfter),
		})
	}
	fmt.Println(formatTable([]string{"Time", "Type", "Change", "Balance"}, rows))
	return nil
}

// handleEntries lists the entries of the current round
func (s *Shell) handleEntries(args []string) error {
	ctx := context.Background()
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := uow.RoundRepository().GetCurrentRound(ctx)
	if err != nil {
		return err
	}
	if round == nil {
		s.printInfo("No active round")
		return nil
	}

	entries, err := uow.EntryRepository().GetByRoundOrdered(ctx, round.ID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		s.printInfo(fmt.Sprintf("Round #%d has no entries yet", round.ID))
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i),
			e.PlayerAddress,
			formatNumber(e.AmountPaid),
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	fmt.Println(formatTable([]string{"Index", "Player", "Paid", "At"}, rows))
	return nil
}

// handleWinner shows the winner of a specific round
func (s *Shell) handleWinner(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: winner <round-id>")
	}
	roundID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || roundID <= 0 {
		return fmt.Errorf("invalid round id: %s", args[0])
	}

	ctx := context.Background()
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	winner, err := uow.WinnerRepository().GetByRound(ctx, roundID)
	if err != nil {
		return err
	}
	if winner == nil {
		s.printInfo(fmt.Sprintf("Round #%d has no winner (not finalized, or never existed)", roundID))
		return nil
	}

	fmt.Printf("\nRound #%d winner\n", winner.RoundID)
	fmt.Printf("  Player:   %s\n", winner.PlayerAddress)
	fmt.Printf("  Payout:   %s\n", formatNumber(winner.PayoutAmount))
	fmt.Printf("  Entry ID: %d\n", winner.WinningEntryID)
	fmt.Printf("  Paid at:  %s\n", winner.CreatedAt.UTC().Format(time.RFC3339))
	return nil
}

// handleDeposit credits an account's balance, creating the account when
// it does not exist yet
func (s *Shell) handleDeposit(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: deposit <address> <amount>")
	}
	address := args[0]

	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || amount <= 0 {
		return fmt.Errorf("invalid amount: %s", args[1])
	}

	if !s.confirmAction(fmt.Sprintf("Credit %s to account %s?", formatNumber(amount), address)) {
		s.printInfo("Deposit cancelled")
		return nil
	}

	ctx := context.Background()
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetOrCreate(ctx, address)
	if err != nil {
		return err
	}

	newBalance := account.Balance + amount
	if err := uow.AccountRepository().UpdateBalance(ctx, address, newBalance); err != nil {
		return err
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
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	s.logAdminAction("deposit", map[string]interface{}{
		"address": address,
		"amount":  amount,
	})
	s.printSuccess(fmt.Sprintf("Account %s credited, new balance %s", address, formatNumber(newBalance)))
	return nil
}

// handleEnter buys a slot in the current round on behalf of an account
func (s *Shell) handleEnter(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: enter <address> [payment]")
	}
	address := args[0]

	payment := s.params.EntranceFee
	if len(args) > 1 {
		parsed, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("invalid payment: %s", args[1])
		}
		payment = parsed
	}

	if !s.confirmAction(fmt.Sprintf("Enter %s with payment %s?", address, formatNumber(payment))) {
		s.printInfo("Entry cancelled")
		return nil
	}

	ctx := context.Background()
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	raffleService := s.newService(uow)
	result, err := raffleService.Enter(ctx, address, payment)
	if err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	s.logAdminAction("enter", map[string]interface{}{
		"address": address,
		"payment": payment,
	})
	s.printSuccess(fmt.Sprintf("Entered. Pool %s, %d entries, balance %s",
		formatNumber(result.PoolBalance), result.EntryCount, formatNumber(result.NewBalance)))
	return nil
}

// handleDraw requests a draw for the current round if it is eligible
func (s *Shell) handleDraw(args []string) error {
	if !s.confirmAction("Request a draw for the current round?") {
		s.printInfo("Draw cancelled")
		return nil
	}

	ctx := context.Background()
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	raffleService := s.newService(uow)
	request, err := raffleService.RequestDraw(ctx)
	if err != nil {
		var notReady *services.DrawNotReadyError
		if errors.As(err, &notReady) {
			return fmt.Errorf("round not eligible: state=%s pool=%d entries=%d",
				notReady.State, notReady.PoolBalance, notReady.EntryCount)
		}
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	s.logAdminAction("draw", map[string]interface{}{
		"round_id":   request.Round.ID,
		"request_id": request.RequestID,
	})
	s.printSuccess(fmt.Sprintf("Draw requested for round #%d, request id %s",
		request.Round.ID, request.RequestID))
	return nil
}
