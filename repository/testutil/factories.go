package testutil

import (
	"time"

	"raffler/domain/entities"
)

// CreateTestAccount creates a test account with a default balance
func CreateTestAccount(address string) *entities.Account {
	return &entities.Account{
		Address:   address,
		Balance:   100000,
		CreatedAt: time.Now(),
	}
}

// CreateTestAccountWithBalance creates a test account with a specific balance
func CreateTestAccountWithBalance(address string, balance int64) *entities.Account {
	account := CreateTestAccount(address)
	account.Balance = balance
	return account
}

// CreateTestRound creates an open round with sensible defaults
func CreateTestRound(entranceFee, intervalSeconds int64) *entities.Round {
	return entities.NewRound(entranceFee, time.Duration(intervalSeconds)*time.Second, time.Now())
}

// CreateTestEntry creates a test entry for a round
func CreateTestEntry(roundID int64, playerAddress string, amountPaid int64) *entities.Entry {
	return &entities.Entry{
		RoundID:       roundID,
		PlayerAddress: playerAddress,
		AmountPaid:    amountPaid,
		CreatedAt:     time.Now(),
	}
}

// CreateTestBalanceHistory creates a test balance history entry
func CreateTestBalanceHistory(address string, transactionType entities.TransactionType) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		AccountAddress:  address,
		BalanceBefore:   100000,
		BalanceAfter:    90000,
		ChangeAmount:    -10000,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}

// CreateTestWinner creates a test winner record
func CreateTestWinner(roundID int64, playerAddress string, payoutAmount, winningEntryID int64) *entities.Winner {
	return &entities.Winner{
		RoundID:        roundID,
		PlayerAddress:  playerAddress,
		PayoutAmount:   payoutAmount,
		WinningEntryID: winningEntryID,
		CreatedAt:      time.Now(),
	}
}
