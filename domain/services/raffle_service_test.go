package services

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"raffler/domain/entities"
	"raffler/domain/events"
	"raffler/domain/interfaces"
	"raffler/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testParams = interfaces.RaffleParams{
	EntranceFee:            100,
	IntervalSeconds:        100,
	OracleConfirmations:    3,
	OracleCallbackGasLimit: 500000,
	OracleNumWords:         1,
}

type raffleMocks struct {
	roundRepo          *testhelpers.MockRoundRepository
	entryRepo          *testhelpers.MockEntryRepository
	accountRepo        *testhelpers.MockAccountRepository
	winnerRepo         *testhelpers.MockWinnerRepository
	balanceHistoryRepo *testhelpers.MockBalanceHistoryRepository
	oracle             *testhelpers.MockRandomnessOracle
	payout             *testhelpers.MockPayoutSender
	eventPublisher     *testhelpers.MockEventPublisher
}

func setupRaffleMocks() *raffleMocks {
	return &raffleMocks{
		roundRepo:          new(testhelpers.MockRoundRepository),
		entryRepo:          new(testhelpers.MockEntryRepository),
		accountRepo:        new(testhelpers.MockAccountRepository),
		winnerRepo:         new(testhelpers.MockWinnerRepository),
		balanceHistoryRepo: new(testhelpers.MockBalanceHistoryRepository),
		oracle:             new(testhelpers.MockRandomnessOracle),
		payout:             new(testhelpers.MockPayoutSender),
		eventPublisher:     new(testhelpers.MockEventPublisher),
	}
}

func (m *raffleMocks) service(now time.Time) *raffleService {
	svc := NewRaffleService(
		m.roundRepo, m.entryRepo, m.accountRepo, m.winnerRepo,
		m.balanceHistoryRepo, m.oracle, m.payout, m.eventPublisher,
		testParams,
	).(*raffleService)
	svc.now = func() time.Time { return now }
	return svc
}

// Helper to create a test round with common defaults
func createTestRound(id int64, opts ...func(*entities.Round)) *entities.Round {
	round := &entities.Round{
		ID:              id,
		State:           entities.RoundStateOpen,
		EntranceFee:     testParams.EntranceFee,
		IntervalSeconds: testParams.IntervalSeconds,
		OpenedAt:        time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		CreatedAt:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(round)
	}
	return round
}

func calculating(requestID string) func(*entities.Round) {
	return func(r *entities.Round) {
		r.BeginDraw(requestID)
	}
}

func TestRaffleService_Enter(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		payment    int64
		setupMocks func(*raffleMocks)
		wantErr    error
	}{
		{
			name:    "payment below entrance fee",
			payment: 99,
			setupMocks: func(m *raffleMocks) {
				m.roundRepo.On("GetOrCreateCurrentRoundForUpdate", mock.Anything, testParams.EntranceFee, testParams.IntervalSeconds).
					Return(createTestRound(1), nil)
			},
			wantErr: ErrEntryFeeTooLow,
		},
		{
			name:    "round not open",
			payment: 100,
			setupMocks: func(m *raffleMocks) {
				m.roundRepo.On("GetOrCreateCurrentRoundForUpdate", mock.Anything, testParams.EntranceFee, testParams.IntervalSeconds).
					Return(createTestRound(1, calculating("req-1")), nil)
			},
			wantErr: ErrRoundNotOpen,
		},
		{
			name:    "insufficient account balance",
			payment: 100,
			setupMocks: func(m *raffleMocks) {
				m.roundRepo.On("GetOrCreateCurrentRoundForUpdate", mock.Anything, testParams.EntranceFee, testParams.IntervalSeconds).
					Return(createTestRound(1), nil)
				m.accountRepo.On("GetByAddress", mock.Anything, "alice").
					Return(&entities.Account{Address: "alice", Balance: 50}, nil)
			},
			wantErr: ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mocks := setupRaffleMocks()
			tt.setupMocks(mocks)
			svc := mocks.service(now)

			result, err := svc.Enter(context.Background(), "alice", tt.payment)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
			// No entry is recorded on a failed enter
			mocks.entryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			mocks.accountRepo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRaffleService_Enter_Success(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	mocks := setupRaffleMocks()
	round := createTestRound(1)

	mocks.roundRepo.On("GetOrCreateCurrentRoundForUpdate", mock.Anything, testParams.EntranceFee, testParams.IntervalSeconds).
		Return(round, nil)
	mocks.accountRepo.On("GetByAddress", mock.Anything, "alice").
		Return(&entities.Account{Address: "alice", Balance: 500}, nil)
	mocks.accountRepo.On("UpdateBalance", mock.Anything, "alice", int64(400)).Return(nil)
	mocks.balanceHistoryRepo.On("Record", mock.Anything, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
		return h.AccountAddress == "alice" &&
			h.ChangeAmount == -100 &&
			h.TransactionType == entities.TransactionTypeEntryFee
	})).Return(nil)
	mocks.entryRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *entities.Entry) bool {
		return e.RoundID == 1 && e.PlayerAddress == "alice" && e.AmountPaid == 100
	})).Return(nil)
	mocks.entryRepo.On("PoolBalanceForRound", mock.Anything, int64(1)).Return(int64(100), nil)
	mocks.entryRepo.On("CountForRound", mock.Anything, int64(1)).Return(int64(1), nil)
	mocks.eventPublisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)
	mocks.eventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		entered, ok := e.(events.PlayerEnteredEvent)
		return ok && entered.RoundID == 1 && entered.PlayerAddress == "alice" && entered.AmountPaid == 100
	})).Return(nil)

	svc := mocks.service(now)
	result, err := svc.Enter(context.Background(), "alice", 100)

	require.NoError(t, err)
	assert.Equal(t, int64(400), result.NewBalance)
	assert.Equal(t, int64(100), result.PoolBalance)
	assert.Equal(t, int64(1), result.EntryCount)
	mocks.entryRepo.AssertExpectations(t)
	mocks.eventPublisher.AssertExpectations(t)
}

// Enter must read the round through the locking variant so an entry
// transaction serializes against a concurrent draw request; a plain read
// could see a stale open round and commit an entry into a calculating one.
func TestRaffleService_Enter_UsesLockingRoundRead(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	mocks := setupRaffleMocks()

	mocks.roundRepo.On("GetOrCreateCurrentRoundForUpdate", mock.Anything, testParams.EntranceFee, testParams.IntervalSeconds).
		Return(createTestRound(1), nil)
	mocks.accountRepo.On("GetByAddress", mock.Anything, "alice").
		Return(&entities.Account{Address: "alice", Balance: 500}, nil)
	mocks.accountRepo.On("UpdateBalance", mock.Anything, "alice", int64(400)).Return(nil)
	mocks.balanceHistoryRepo.On("Record", mock.Anything, mock.Anything).Return(nil)
	mocks.entryRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mocks.entryRepo.On("PoolBalanceForRound", mock.Anything, int64(1)).Return(int64(100), nil)
	mocks.entryRepo.On("CountForRound", mock.Anything, int64(1)).Return(int64(1), nil)
	mocks.eventPublisher.On("Publish", mock.Anything).Return(nil)

	svc := mocks.service(now)
	_, err := svc.Enter(context.Background(), "alice", 100)

	require.NoError(t, err)
	mocks.roundRepo.AssertCalled(t, "GetOrCreateCurrentRoundForUpdate", mock.Anything, testParams.EntranceFee, testParams.IntervalSeconds)
	mocks.roundRepo.AssertNotCalled(t, "GetOrCreateCurrentRound", mock.Anything, mock.Anything, mock.Anything)
	mocks.roundRepo.AssertNotCalled(t, "GetCurrentRound", mock.Anything)
}

// A payment above the fee is accepted in full; every successful call
// appends exactly one slot.
func TestRaffleService_Enter_OverpaymentAccepted(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	mocks := setupRaffleMocks()

	mocks.roundRepo.On("GetOrCreateCurrentRoundForUpdate", mock.Anything, testParams.EntranceFee, testParams.IntervalSeconds).
		Return(createTestRound(1), nil)
	mocks.accountRepo.On("GetByAddress", mock.Anything, "bob").
		Return(&entities.Account{Address: "bob", Balance: 1000}, nil)
	mocks.accountRepo.On("UpdateBalance", mock.Anything, "bob", int64(850)).Return(nil)
	mocks.balanceHistoryRepo.On("Record", mock.Anything, mock.Anything).Return(nil)
	mocks.entryRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *entities.Entry) bool {
		return e.AmountPaid == 150
	})).Return(nil)
	mocks.entryRepo.On("PoolBalanceForRound", mock.Anything, int64(1)).Return(int64(150), nil)
	mocks.entryRepo.On("CountForRound", mock.Anything, int64(1)).Return(int64(1), nil)
	mocks.eventPublisher.On("Publish", mock.Anything).Return(nil)

	svc := mocks.service(now)
	result, err := svc.Enter(context.Background(), "bob", 150)

	require.NoError(t, err)
	assert.Equal(t, int64(850), result.NewBalance)
}

func TestRaffleService_CheckDrawEligibility(t *testing.T) {
	t.Parallel()

	openedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		round     *entities.Round
		now       time.Time
		pool      int64
		entries   int64
		wantReady bool
	}{
		{
			name:      "ready after interval with entries",
			round:     createTestRound(1),
			now:       openedAt.Add(101 * time.Second),
			pool:      300,
			entries:   3,
			wantReady: true,
		},
		{
			name:      "not ready before interval",
			round:     createTestRound(1),
			now:       openedAt.Add(50 * time.Second),
			pool:      300,
			entries:   3,
			wantReady: false,
		},
		{
			name:      "not ready while calculating",
			round:     createTestRound(1, calculating("req-1")),
			now:       openedAt.Add(101 * time.Second),
			pool:      300,
			entries:   3,
			wantReady: false,
		},
		{
			name:      "not ready with no entries",
			round:     createTestRound(1),
			now:       openedAt.Add(101 * time.Second),
			pool:      0,
			entries:   0,
			wantReady: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mocks := setupRaffleMocks()
			mocks.roundRepo.On("GetOrCreateCurrentRound", mock.Anything, testParams.EntranceFee, testParams.IntervalSeconds).
				Return(tt.round, nil)
			mocks.entryRepo.On("PoolBalanceForRound", mock.Anything, tt.round.ID).Return(tt.pool, nil)
			mocks.entryRepo.On("CountForRound", mock.Anything, tt.round.ID).Return(tt.entries, nil)

			svc := mocks.service(tt.now)
			eligibility, err := svc.CheckDrawEligibility(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.wantReady, eligibility.Ready)
			assert.Equal(t, tt.pool, eligibility.PoolBalance)
			assert.Equal(t, tt.entries, eligibility.EntryCount)
		})
	}
}

func TestRaffleService_RequestDraw_Success(t *testing.T) {
	t.Parallel()

	round := createTestRound(1)
	now := round.OpenedAt.Add(101 * time.Second)
	mocks := setupRaffleMocks()

	mocks.roundRepo.On("GetCurrentRoundForUpdate", mock.Anything).Return(round, nil)
	mocks.entryRepo.On("PoolBalanceForRound", mock.Anything, int64(1)).Return(int64(300), nil)
	mocks.entryRepo.On("CountForRound", mock.Anything, int64(1)).Return(int64(3), nil)
	mocks.oracle.On("RequestRandomWords", mock.Anything, interfaces.RandomnessRequest{
		Confirmations:    testParams.OracleConfirmations,
		CallbackGasLimit: testParams.OracleCallbackGasLimit,
		NumWords:         testParams.OracleNumWords,
	}).Return("req-42", nil)
	mocks.roundRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *entities.Round) bool {
		return r.IsCalculating() && r.PendingRequestID != nil && *r.PendingRequestID == "req-42"
	})).Return(nil)
	mocks.eventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		requested, ok := e.(events.DrawRequestedEvent)
		return ok && requested.RoundID == 1 && requested.RequestID == "req-42"
	})).Return(nil)

	svc := mocks.service(now)
	result, err := svc.RequestDraw(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "req-42", result.RequestID)
	assert.Equal(t, entities.RoundStateCalculating, result.Round.State)
	mocks.oracle.AssertNumberOfCalls(t, "RequestRandomWords", 1)
	mocks.eventPublisher.AssertExpectations(t)
}

func TestRaffleService_RequestDraw_NotReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		round   *entities.Round
		now     func(r *entities.Round) time.Time
		pool    int64
		entries int64
	}{
		{
			name:    "interval not elapsed",
			round:   createTestRound(1),
			now:     func(r *entities.Round) time.Time { return r.OpenedAt.Add(10 * time.Second) },
			pool:    300,
			entries: 3,
		},
		{
			name:    "second request while calculating",
			round:   createTestRound(1, calculating("req-1")),
			now:     func(r *entities.Round) time.Time { return r.OpenedAt.Add(200 * time.Second) },
			pool:    300,
			entries: 3,
		},
		{
			name:    "no entries",
			round:   createTestRound(1),
			now:     func(r *entities.Round) time.Time { return r.OpenedAt.Add(200 * time.Second) },
			pool:    0,
			entries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mocks := setupRaffleMocks()
			mocks.roundRepo.On("GetCurrentRoundForUpdate", mock.Anything).Return(tt.round, nil)
			mocks.entryRepo.On("PoolBalanceForRound", mock.Anything, tt.round.ID).Return(tt.pool, nil)
			mocks.entryRepo.On("CountForRound", mock.Anything, tt.round.ID).Return(tt.entries, nil)

			svc := mocks.service(tt.now(tt.round))
			result, err := svc.RequestDraw(context.Background())

			assert.Nil(t, result)
			var notReady *DrawNotReadyError
			require.ErrorAs(t, err, &notReady)
			assert.Equal(t, tt.round.State, notReady.State)
			assert.Equal(t, tt.pool, notReady.PoolBalance)
			assert.Equal(t, tt.entries, notReady.EntryCount)
			// No request may be issued when the predicate fails
			mocks.oracle.AssertNotCalled(t, "RequestRandomWords", mock.Anything, mock.Anything)
			mocks.roundRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func fulfillEntries(roundID int64, addresses ...string) []*entities.Entry {
	entries := make([]*entities.Entry, 0, len(addresses))
	for i, addr := range addresses {
		entries = append(entries, &entities.Entry{
			ID:            int64(i + 1),
			RoundID:       roundID,
			PlayerAddress: addr,
			AmountPaid:    100,
		})
	}
	return entries
}

func TestRaffleService_FulfillRandomness_Success(t *testing.T) {
	t.Parallel()

	round := createTestRound(1, calculating("req-42"))
	now := round.OpenedAt.Add(200 * time.Second)
	mocks := setupRaffleMocks()

	entries := fulfillEntries(1, "alice", "bob", "carol")

	mocks.roundRepo.On("GetByPendingRequestIDForUpdate", mock.Anything, "req-42").Return(round, nil)
	mocks.entryRepo.On("GetByRoundOrdered", mock.Anything, int64(1)).Return(entries, nil)
	mocks.entryRepo.On("PoolBalanceForRound", mock.Anything, int64(1)).Return(int64(300), nil)
	mocks.roundRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *entities.Round) bool {
		return r.IsCompleted() && r.RandomWord != nil && *r.RandomWord == "7"
	})).Return(nil)
	mocks.winnerRepo.On("Create", mock.Anything, mock.MatchedBy(func(w *entities.Winner) bool {
		// 7 mod 3 == 1 → bob wins the full pool
		return w.RoundID == 1 && w.PlayerAddress == "bob" && w.PayoutAmount == 300 && w.WinningEntryID == 2
	})).Return(nil)
	mocks.roundRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *entities.Round) bool {
		return r.State == entities.RoundStateOpen && r.OpenedAt.Equal(now) && r.PendingRequestID == nil
	})).Return(nil)
	mocks.eventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		picked, ok := e.(events.WinnerPickedEvent)
		return ok && picked.WinnerAddress == "bob" && picked.PayoutAmount == 300
	})).Return(nil)
	mocks.payout.On("Send", mock.Anything, "bob", int64(300)).Return(nil)

	svc := mocks.service(now)
	result, err := svc.FulfillRandomness(context.Background(), "req-42", []*big.Int{big.NewInt(7)})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.WinningIndex)
	assert.Equal(t, "bob", result.Winner.PlayerAddress)
	assert.Equal(t, int64(300), result.Winner.PayoutAmount)
	require.NotNil(t, result.NextRound)
	assert.True(t, result.NextRound.OpenedAt.After(round.OpenedAt))
	mocks.payout.AssertNumberOfCalls(t, "Send", 1)
	mocks.winnerRepo.AssertExpectations(t)
	mocks.roundRepo.AssertExpectations(t)
}

// Winner selection is deterministic: index = randomValue mod entry count,
// exact for values far beyond int64 range.
func TestRaffleService_FulfillRandomness_ModuloSelection(t *testing.T) {
	t.Parallel()

	huge, ok := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	require.True(t, ok)

	tests := []struct {
		name       string
		randomWord *big.Int
		addresses  []string
		wantWinner string
		wantIndex  int64
	}{
		{
			name:       "example scenario seven mod three",
			randomWord: big.NewInt(7),
			addresses:  []string{"alice", "bob", "carol"},
			wantWinner: "bob",
			wantIndex:  1,
		},
		{
			name:       "zero picks the first entry",
			randomWord: big.NewInt(0),
			addresses:  []string{"alice", "bob"},
			wantWinner: "alice",
			wantIndex:  0,
		},
		{
			name:       "single entry always wins",
			randomWord: big.NewInt(999999),
			addresses:  []string{"alice"},
			wantWinner: "alice",
			wantIndex:  0,
		},
		{
			// 2^256-1 mod 3 == 0
			name:       "uint256 max value",
			randomWord: huge,
			addresses:  []string{"alice", "bob", "carol"},
			wantWinner: "alice",
			wantIndex:  0,
		},
		{
			name:       "duplicate addresses occupy separate slots",
			randomWord: big.NewInt(3),
			addresses:  []string{"alice", "alice", "bob"},
			wantWinner: "alice",
			wantIndex:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			round := createTestRound(1, calculating("req-42"))
			now := round.OpenedAt.Add(200 * time.Second)
			mocks := setupRaffleMocks()

			entries := fulfillEntries(1, tt.addresses...)
			pool := int64(len(entries)) * 100

			mocks.roundRepo.On("GetByPendingRequestIDForUpdate", mock.Anything, "req-42").Return(round, nil)
			mocks.entryRepo.On("GetByRoundOrdered", mock.Anything, int64(1)).Return(entries, nil)
			mocks.entryRepo.On("PoolBalanceForRound", mock.Anything, int64(1)).Return(pool, nil)
			mocks.roundRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
			mocks.winnerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
			mocks.roundRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
			mocks.eventPublisher.On("Publish", mock.Anything).Return(nil)
			mocks.payout.On("Send", mock.Anything, tt.wantWinner, pool).Return(nil)

			svc := mocks.service(now)
			result, err := svc.FulfillRandomness(context.Background(), "req-42", []*big.Int{tt.randomWord})

			require.NoError(t, err)
			assert.Equal(t, tt.wantIndex, result.WinningIndex)
			assert.Equal(t, tt.wantWinner, result.Winner.PlayerAddress)
			assert.Equal(t, pool, result.Winner.PayoutAmount)
		})
	}
}

func TestRaffleService_FulfillRandomness_UnknownRequest(t *testing.T) {
	t.Parallel()

	mocks := setupRaffleMocks()
	mocks.roundRepo.On("GetByPendingRequestIDForUpdate", mock.Anything, "req-unknown").
		Return((*entities.Round)(nil), nil)

	svc := mocks.service(time.Now())
	result, err := svc.FulfillRandomness(context.Background(), "req-unknown", []*big.Int{big.NewInt(1)})

	assert.Nil(t, result)
	require.ErrorIs(t, err, ErrUnknownRequest)
	mocks.payout.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestRaffleService_FulfillRandomness_PayoutFailure(t *testing.T) {
	t.Parallel()

	round := createTestRound(1, calculating("req-42"))
	now := round.OpenedAt.Add(200 * time.Second)
	mocks := setupRaffleMocks()

	entries := fulfillEntries(1, "alice", "bob", "carol")

	mocks.roundRepo.On("GetByPendingRequestIDForUpdate", mock.Anything, "req-42").Return(round, nil)
	mocks.entryRepo.On("GetByRoundOrdered", mock.Anything, int64(1)).Return(entries, nil)
	mocks.entryRepo.On("PoolBalanceForRound", mock.Anything, int64(1)).Return(int64(300), nil)
	mocks.roundRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	mocks.winnerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mocks.roundRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mocks.eventPublisher.On("Publish", mock.Anything).Return(nil)
	mocks.payout.On("Send", mock.Anything, "bob", int64(300)).Return(errors.New("recipient rejected credit"))

	svc := mocks.service(now)
	result, err := svc.FulfillRandomness(context.Background(), "req-42", []*big.Int{big.NewInt(7)})

	assert.Nil(t, result)
	var payoutErr *PayoutFailedError
	require.ErrorAs(t, err, &payoutErr)
	assert.Equal(t, "bob", payoutErr.WinnerAddress)
	assert.Equal(t, int64(300), payoutErr.Amount)
	assert.EqualError(t, payoutErr.Cause, "recipient rejected credit")
}

func TestRaffleService_FulfillRandomness_NoRandomWords(t *testing.T) {
	t.Parallel()

	mocks := setupRaffleMocks()
	svc := mocks.service(time.Now())

	result, err := svc.FulfillRandomness(context.Background(), "req-42", nil)

	assert.Nil(t, result)
	require.Error(t, err)
	mocks.roundRepo.AssertNotCalled(t, "GetByPendingRequestIDForUpdate", mock.Anything, mock.Anything)
}

func TestRaffleService_GetStatus(t *testing.T) {
	t.Parallel()

	round := createTestRound(1)
	winner := &entities.Winner{RoundID: 0, PlayerAddress: "dave", PayoutAmount: 200}
	mocks := setupRaffleMocks()

	mocks.roundRepo.On("GetOrCreateCurrentRound", mock.Anything, testParams.EntranceFee, testParams.IntervalSeconds).
		Return(round, nil)
	mocks.entryRepo.On("PoolBalanceForRound", mock.Anything, int64(1)).Return(int64(300), nil)
	mocks.entryRepo.On("CountForRound", mock.Anything, int64(1)).Return(int64(3), nil)
	mocks.winnerRepo.On("GetMostRecent", mock.Anything).Return(winner, nil)

	svc := mocks.service(time.Now())
	status, err := svc.GetStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, round, status.Round)
	assert.Equal(t, int64(300), status.PoolBalance)
	assert.Equal(t, int64(3), status.EntryCount)
	assert.Equal(t, "dave", status.RecentWinner.PlayerAddress)
}

func TestRaffleService_GetEntry(t *testing.T) {
	t.Parallel()

	round := createTestRound(1)
	entry := &entities.Entry{ID: 5, RoundID: 1, PlayerAddress: "bob", AmountPaid: 100}
	mocks := setupRaffleMocks()

	mocks.roundRepo.On("GetCurrentRound", mock.Anything).Return(round, nil)
	mocks.entryRepo.On("GetByRoundAndIndex", mock.Anything, int64(1), int64(1)).Return(entry, nil)

	svc := mocks.service(time.Now())
	got, err := svc.GetEntry(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "bob", got.PlayerAddress)
}
