package infrastructure

import (
	"context"
	"testing"

	"raffler/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	PublishedEvents []events.Event
	PublishError    error
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

func TestNATSTransactionalPublisher_FlushDelivers(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}

	transPublisher := NewNATSTransactionalPublisher(mockPublisher).(*NATSTransactionalPublisher)

	handlerCalled := false
	var receivedEvent events.Event

	transPublisher.RegisterLocalHandler(events.EventTypeWinnerPicked, func(ctx context.Context, event events.Event) error {
		handlerCalled = true
		receivedEvent = event
		return nil
	})

	testEvent := events.WinnerPickedEvent{
		RoundID:       42,
		WinnerAddress: "alice",
		PayoutAmount:  300,
	}

	err := transPublisher.Publish(testEvent)
	require.NoError(t, err)

	// Nothing delivered until flush
	assert.False(t, handlerCalled)
	assert.Len(t, mockPublisher.PublishedEvents, 0)

	err = transPublisher.Flush(context.Background())
	require.NoError(t, err)

	assert.True(t, handlerCalled)
	assert.Equal(t, testEvent, receivedEvent)

	assert.Len(t, mockPublisher.PublishedEvents, 1)
	assert.Equal(t, testEvent, mockPublisher.PublishedEvents[0])
}

func TestNATSTransactionalPublisher_MultipleLocalHandlers(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}

	transPublisher := NewNATSTransactionalPublisher(mockPublisher).(*NATSTransactionalPublisher)

	handler1Called := false
	handler2Called := false

	transPublisher.RegisterLocalHandler(events.EventTypeDrawRequested, func(ctx context.Context, event events.Event) error {
		handler1Called = true
		return nil
	})

	transPublisher.RegisterLocalHandler(events.EventTypeDrawRequested, func(ctx context.Context, event events.Event) error {
		handler2Called = true
		return nil
	})

	testEvent := events.DrawRequestedEvent{
		RoundID:   42,
		RequestID: "req-abc",
	}

	err := transPublisher.Publish(testEvent)
	require.NoError(t, err)

	err = transPublisher.Flush(context.Background())
	require.NoError(t, err)

	assert.True(t, handler1Called)
	assert.True(t, handler2Called)
}

func TestNATSTransactionalPublisher_Discard(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}

	transPublisher := NewNATSTransactionalPublisher(mockPublisher).(*NATSTransactionalPublisher)

	handlerCalled := false

	transPublisher.RegisterLocalHandler(events.EventTypePlayerEntered, func(ctx context.Context, event events.Event) error {
		handlerCalled = true
		return nil
	})

	testEvent := events.PlayerEnteredEvent{
		RoundID:       42,
		PlayerAddress: "bob",
		AmountPaid:    100,
	}

	err := transPublisher.Publish(testEvent)
	require.NoError(t, err)

	transPublisher.Discard()

	// Nothing may escape a rolled-back transaction
	assert.False(t, handlerCalled)
	assert.Len(t, mockPublisher.PublishedEvents, 0)

	// A later flush delivers nothing either
	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 0)
}
