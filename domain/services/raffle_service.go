package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"raffler/domain/entities"
	"raffler/domain/events"
	"raffler/domain/interfaces"
	"raffler/domain/utils"

	log "github.com/sirupsen/logrus"
)

// raffleService implements the raffle round lifecycle: entries while open,
// a single in-flight randomness request while calculating, and a
// transactional finalize that pays the full pool to one winner.
type raffleService struct {
	roundRepo          interfaces.RoundRepository
	entryRepo          interfaces.EntryRepository
	accountRepo        interfaces.AccountRepository
	winnerRepo         interfaces.WinnerRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	oracle             interfaces.RandomnessOracle
	payout             interfaces.PayoutSender
	eventPublisher     interfaces.EventPublisher
	params             interfaces.RaffleParams
	now                func() time.Time
}

// NewRaffleService creates a new raffle service
func NewRaffleService(
	roundRepo interfaces.RoundRepository,
	entryRepo interfaces.EntryRepository,
	accountRepo interfaces.AccountRepository,
	winnerRepo interfaces.WinnerRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	oracle interfaces.RandomnessOracle,
	payout interfaces.PayoutSender,
	eventPublisher interfaces.EventPublisher,
	params interfaces.RaffleParams,
) interfaces.RaffleService {
	return &raffleService{
		roundRepo:          roundRepo,
		entryRepo:          entryRepo,
		accountRepo:        accountRepo,
		winnerRepo:         winnerRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		oracle:             oracle,
		payout:             payout,
		eventPublisher:     eventPublisher,
		params:             params,
		now:                time.Now,
	}
}

// Enter buys one slot in the current round for the given payment. The
// round row is locked so an entry cannot commit after a concurrent draw
// request has moved the round to calculating.
func (s *raffleService) Enter(ctx context.Context, playerAddress string, payment int64) (*interfaces.EntryResult, error) {
	round, err := s.roundRepo.GetOrCreateCurrentRoundForUpdate(ctx, s.params.EntranceFee, s.params.IntervalSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to get current round: %w", err)
	}

	// Fee check uses the fee captured on the round at creation
	if payment < round.EntranceFee {
		return nil, ErrEntryFeeTooLow
	}
	if !round.IsOpen() {
		return nil, ErrRoundNotOpen
	}

	account, err := s.accountRepo.GetByAddress(ctx, playerAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, errors.New("account not found")
	}
	if !account.HasSufficientBalance(payment) {
		return nil, ErrInsufficientFunds
	}

	newBalance := account.Balance - payment
	if err := s.accountRepo.UpdateBalance(ctx, playerAddress, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update account balance: %w", err)
	}

	history := &entities.BalanceHistory{
		AccountAddress:  playerAddress,
		BalanceBefore:   account.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    -payment,
		TransactionType: entities.TransactionTypeEntryFee,
		TransactionMetadata: map[string]any{
			"round_id": round.ID,
		},
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	entry := &entities.Entry{
		RoundID:       round.ID,
		PlayerAddress: playerAddress,
		AmountPaid:    payment,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	if err := s.eventPublisher.Publish(events.PlayerEnteredEvent{
		RoundID:       round.ID,
		PlayerAddress: playerAddress,
		AmountPaid:    payment,
	}); err != nil {
		log.WithError(err).Error("Failed to publish player entered event")
	}

	pool, err := s.entryRepo.PoolBalanceForRound(ctx, round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool balance: %w", err)
	}
	count, err := s.entryRepo.CountForRound(ctx, round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	return &interfaces.EntryResult{
		Entry:       entry,
		NewBalance:  newBalance,
		PoolBalance: pool,
		EntryCount:  count,
	}, nil
}

// CheckDrawEligibility evaluates the draw predicate without mutating state
func (s *raffleService) CheckDrawEligibility(ctx context.Context) (*interfaces.DrawEligibility, error) {
	round, err := s.roundRepo.GetOrCreateCurrentRound(ctx, s.params.EntranceFee, s.params.IntervalSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to get current round: %w", err)
	}

	pool, count, err := s.roundSnapshot(ctx, round.ID)
	if err != nil {
		return nil, err
	}

	return &interfaces.DrawEligibility{
		Ready:       round.DrawEligible(pool, count, s.now()),
		State:       round.State,
		PoolBalance: pool,
		EntryCount:  count,
	}, nil
}

// RequestDraw closes entries and issues the randomness request. The
// eligibility predicate is re-evaluated here under a row lock; callers must
// not rely on an earlier CheckDrawEligibility result still holding.
func (s *raffleService) RequestDraw(ctx context.Context) (*interfaces.DrawRequest, error) {
	round, err := s.roundRepo.GetCurrentRoundForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock current round: %w", err)
	}
	if round == nil {
		return nil, &DrawNotReadyError{State: entities.RoundStateOpen}
	}

	pool, count, err := s.roundSnapshot(ctx, round.ID)
	if err != nil {
		return nil, err
	}

	// A second request while calculating fails here: the round is no
	// longer open, so the predicate is false.
	if !round.DrawEligible(pool, count, s.now()) {
		return nil, &DrawNotReadyError{
			State:       round.State,
			PoolBalance: pool,
			EntryCount:  count,
		}
	}

	// The request goes out before this transaction commits: the returned
	// id must be persisted with the state change, and publishing after
	// commit would lose it. If the commit then fails, the orphan request's
	// fulfillment matches no pending id and is dropped.
	requestID, err := s.oracle.RequestRandomWords(ctx, interfaces.RandomnessRequest{
		Confirmations:    s.params.OracleConfirmations,
		CallbackGasLimit: s.params.OracleCallbackGasLimit,
		NumWords:         s.params.OracleNumWords,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request random words: %w", err)
	}

	round.BeginDraw(requestID)
	if err := s.roundRepo.Update(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to update round: %w", err)
	}

	if err := s.eventPublisher.Publish(events.DrawRequestedEvent{
		RoundID:   round.ID,
		RequestID: requestID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish draw requested event")
	}

	log.WithFields(log.Fields{
		"round_id":   round.ID,
		"request_id": requestID,
		"pool":       pool,
		"entries":    count,
	}).Info("Draw requested")

	return &interfaces.DrawRequest{Round: round, RequestID: requestID}, nil
}

// FulfillRandomness consumes an oracle fulfillment. All round state is
// mutated first and the single external credit happens last, so a rejected
// payout aborts the enclosing transaction and leaves the round calculating
// and retryable.
func (s *raffleService) FulfillRandomness(ctx context.Context, requestID string, randomWords []*big.Int) (*interfaces.DrawResult, error) {
	if len(randomWords) == 0 {
		return nil, errors.New("fulfillment carried no random words")
	}
	randomValue := randomWords[0]

	round, err := s.roundRepo.GetByPendingRequestIDForUpdate(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pending request: %w", err)
	}
	if round == nil {
		return nil, ErrUnknownRequest
	}

	entries, err := s.entryRepo.GetByRoundOrdered(ctx, round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	// Guaranteed non-empty: the draw guard required entries and none can
	// be added while calculating.
	if len(entries) == 0 {
		return nil, fmt.Errorf("round %d is calculating with no entries", round.ID)
	}

	index := new(big.Int).Mod(randomValue, big.NewInt(int64(len(entries)))).Int64()
	winningEntry := entries[index]

	pool, err := s.entryRepo.PoolBalanceForRound(ctx, round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool balance: %w", err)
	}

	now := s.now()
	round.Complete(randomValue.String(), now)
	if err := s.roundRepo.Update(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to finalize round: %w", err)
	}

	winner := &entities.Winner{
		RoundID:        round.ID,
		PlayerAddress:  winningEntry.PlayerAddress,
		PayoutAmount:   pool,
		WinningEntryID: winningEntry.ID,
	}
	if err := s.winnerRepo.Create(ctx, winner); err != nil {
		return nil, fmt.Errorf("failed to create winner record: %w", err)
	}

	nextRound := entities.NewRound(s.params.EntranceFee, time.Duration(s.params.IntervalSeconds)*time.Second, now)
	if err := s.roundRepo.Create(ctx, nextRound); err != nil {
		return nil, fmt.Errorf("failed to open next round: %w", err)
	}

	if err := s.eventPublisher.Publish(events.WinnerPickedEvent{
		RoundID:       round.ID,
		WinnerAddress: winner.PlayerAddress,
		PayoutAmount:  pool,
	}); err != nil {
		log.WithError(err).Error("Failed to publish winner picked event")
	}

	// External interaction last
	if err := s.payout.Send(ctx, winner.PlayerAddress, pool); err != nil {
		return nil, &PayoutFailedError{
			WinnerAddress: winner.PlayerAddress,
			Amount:        pool,
			Cause:         err,
		}
	}

	log.WithFields(log.Fields{
		"round_id":      round.ID,
		"winner":        winner.PlayerAddress,
		"payout":        pool,
		"winning_index": index,
		"entries":       len(entries),
	}).Info("Round finalized")

	return &interfaces.DrawResult{
		Round:        round,
		Winner:       winner,
		WinningIndex: index,
		NextRound:    nextRound,
	}, nil
}

// GetStatus returns the current raffle state, pool, entry count and most
// recent winner
func (s *raffleService) GetStatus(ctx context.Context) (*interfaces.RaffleStatus, error) {
	round, err := s.roundRepo.GetOrCreateCurrentRound(ctx, s.params.EntranceFee, s.params.IntervalSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to get current round: %w", err)
	}

	pool, count, err := s.roundSnapshot(ctx, round.ID)
	if err != nil {
		return nil, err
	}

	recentWinner, err := s.winnerRepo.GetMostRecent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent winner: %w", err)
	}

	return &interfaces.RaffleStatus{
		Round:        round,
		PoolBalance:  pool,
		EntryCount:   count,
		RecentWinner: recentWinner,
	}, nil
}

// GetEntry returns the entry at a zero-based position in the current round
func (s *raffleService) GetEntry(ctx context.Context, index int64) (*entities.Entry, error) {
	round, err := s.roundRepo.GetCurrentRound(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current round: %w", err)
	}
	if round == nil {
		return nil, nil
	}

	entry, err := s.entryRepo.GetByRoundAndIndex(ctx, round.ID, index)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry, nil
}

// roundSnapshot loads the derived pool balance and entry count for a round
func (s *raffleService) roundSnapshot(ctx context.Context, roundID int64) (pool, count int64, err error) {
	pool, err = s.entryRepo.PoolBalanceForRound(ctx, roundID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get pool balance: %w", err)
	}
	count, err = s.entryRepo.CountForRound(ctx, roundID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return pool, count, nil
}
