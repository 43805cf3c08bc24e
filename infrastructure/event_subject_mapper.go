package infrastructure

import (
	"fmt"

	"raffler/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypePlayerEntered:
		return "raffle.player_entered"
	case events.EventTypeDrawRequested:
		return "raffle.draw_requested"
	case events.EventTypeWinnerPicked:
		return "raffle.winner_picked"
	case events.EventTypeBalanceChange:
		return "accounts.balance_changed"
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "raffle.player_entered":
		return events.EventTypePlayerEntered
	case "raffle.draw_requested":
		return events.EventTypeDrawRequested
	case "raffle.winner_picked":
		return events.EventTypeWinnerPicked
	case "accounts.balance_changed":
		return events.EventTypeBalanceChange
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"raffle.player_entered",
		"raffle.draw_requested",
		"raffle.winner_picked",
		"accounts.balance_changed",
	}
}
