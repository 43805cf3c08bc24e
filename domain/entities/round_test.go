package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRound_IsOpen(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name        string
		state       RoundState
		completedAt *time.Time
		want        bool
	}{
		{
			name:  "open round accepts entries",
			state: RoundStateOpen,
			want:  true,
		},
		{
			name:  "calculating round rejects entries",
			state: RoundStateCalculating,
			want:  false,
		},
		{
			name:  "closed round rejects entries",
			state: RoundStateClosed,
			want:  false,
		},
		{
			name:        "completed round rejects entries regardless of state",
			state:       RoundStateOpen,
			completedAt: &now,
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			round := &Round{
				State:       tt.state,
				CompletedAt: tt.completedAt,
			}

			assert.Equal(t, tt.want, round.IsOpen())
		})
	}
}

func TestRound_DrawEligible(t *testing.T) {
	t.Parallel()

	openedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	interval := int64(100)

	tests := []struct {
		name        string
		state       RoundState
		now         time.Time
		poolBalance int64
		entryCount  int64
		want        bool
	}{
		{
			name:        "ready when all conditions hold",
			state:       RoundStateOpen,
			now:         openedAt.Add(101 * time.Second),
			poolBalance: 3,
			entryCount:  3,
			want:        true,
		},
		{
			name:        "not ready before interval elapses",
			state:       RoundStateOpen,
			now:         openedAt.Add(99 * time.Second),
			poolBalance: 3,
			entryCount:  3,
			want:        false,
		},
		{
			name:        "not ready exactly at the interval boundary",
			state:       RoundStateOpen,
			now:         openedAt.Add(100 * time.Second),
			poolBalance: 3,
			entryCount:  3,
			want:        false,
		},
		{
			name:        "not ready while calculating",
			state:       RoundStateCalculating,
			now:         openedAt.Add(101 * time.Second),
			poolBalance: 3,
			entryCount:  3,
			want:        false,
		},
		{
			name:        "not ready with empty pool",
			state:       RoundStateOpen,
			now:         openedAt.Add(101 * time.Second),
			poolBalance: 0,
			entryCount:  0,
			want:        false,
		},
		{
			name:        "not ready with funds but no entries",
			state:       RoundStateOpen,
			now:         openedAt.Add(101 * time.Second),
			poolBalance: 3,
			entryCount:  0,
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			round := &Round{
				State:           tt.state,
				IntervalSeconds: interval,
				OpenedAt:        openedAt,
			}

			assert.Equal(t, tt.want, round.DrawEligible(tt.poolBalance, tt.entryCount, tt.now))
		})
	}
}

func TestRound_BeginDraw(t *testing.T) {
	t.Parallel()

	round := NewRound(100, time.Hour, time.Now())
	assert.True(t, round.IsOpen())
	assert.Nil(t, round.PendingRequestID)

	round.BeginDraw("req-1")

	assert.Equal(t, RoundStateCalculating, round.State)
	assert.True(t, round.IsCalculating())
	assert.False(t, round.IsOpen())
	if assert.NotNil(t, round.PendingRequestID) {
		assert.Equal(t, "req-1", *round.PendingRequestID)
	}
}

func TestRound_Complete(t *testing.T) {
	t.Parallel()

	round := NewRound(100, time.Hour, time.Now())
	round.BeginDraw("req-1")

	completedAt := time.Now()
	round.Complete("7", completedAt)

	assert.True(t, round.IsCompleted())
	assert.False(t, round.IsOpen())
	assert.False(t, round.IsCalculating())
	if assert.NotNil(t, round.RandomWord) {
		assert.Equal(t, "7", *round.RandomWord)
	}
	if assert.NotNil(t, round.CompletedAt) {
		assert.Equal(t, completedAt, *round.CompletedAt)
	}
}

func TestNewRound(t *testing.T) {
	t.Parallel()

	openedAt := time.Now()
	round := NewRound(250, 90*time.Second, openedAt)

	assert.Equal(t, RoundStateOpen, round.State)
	assert.Equal(t, int64(250), round.EntranceFee)
	assert.Equal(t, int64(90), round.IntervalSeconds)
	assert.Equal(t, 90*time.Second, round.Interval())
	assert.Equal(t, openedAt, round.OpenedAt)
	assert.Nil(t, round.PendingRequestID)
	assert.Nil(t, round.CompletedAt)
}
