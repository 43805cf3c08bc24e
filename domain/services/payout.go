package services

import (
	"context"
	"fmt"

	"raffler/domain/entities"
	"raffler/domain/interfaces"
	"raffler/domain/utils"
)

// ledgerPayoutSender credits payouts to ledger accounts. The credit fails
// when no account exists for the recipient, which the finalize path treats
// as a rejected transfer.
type ledgerPayoutSender struct {
	accountRepo        interfaces.AccountRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
}

// NewLedgerPayoutSender creates a payout sender backed by the account ledger
func NewLedgerPayoutSender(
	accountRepo interfaces.AccountRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.PayoutSender {
	return &ledgerPayoutSender{
		accountRepo:        accountRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
	}
}

// Send credits the amount to the recipient's account
func (p *ledgerPayoutSender) Send(ctx context.Context, toAddress string, amount int64) error {
	account, err := p.accountRepo.GetByAddress(ctx, toAddress)
	if err != nil {
		return fmt.Errorf("failed to get recipient account: %w", err)
	}
	if account == nil {
		return fmt.Errorf("recipient account %s does not exist", toAddress)
	}

	newBalance := account.Balance + amount
	if err := p.accountRepo.UpdateBalance(ctx, toAddress, newBalance); err != nil {
		return fmt.Errorf("failed to credit recipient: %w", err)
	}

	history := &entities.BalanceHistory{
		AccountAddress:  toAddress,
		BalanceBefore:   account.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    amount,
		TransactionType: entities.TransactionTypeRaffleWin,
	}
	if err := utils.RecordBalanceChange(ctx, p.balanceHistoryRepo, p.eventPublisher, history); err != nil {
		return fmt.Errorf("failed to record payout: %w", err)
	}

	return nil
}
