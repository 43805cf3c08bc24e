package application

import (
	"raffler/domain/interfaces"
	"raffler/domain/services"
)

// NewRaffleService wires a raffle service from a started unit of work, so
// every repository and the payout ledger share one transaction.
func NewRaffleService(uow UnitOfWork, oracle interfaces.RandomnessOracle, params interfaces.RaffleParams) interfaces.RaffleService {
	payout := services.NewLedgerPayoutSender(
		uow.AccountRepository(),
		uow.BalanceHistoryRepository(),
		uow.EventBus(),
	)

	return services.NewRaffleService(
		uow.RoundRepository(),
		uow.EntryRepository(),
		uow.AccountRepository(),
		uow.WinnerRepository(),
		uow.BalanceHistoryRepository(),
		oracle,
		payout,
		uow.EventBus(),
		params,
	)
}
