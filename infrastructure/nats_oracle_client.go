package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"raffler/application/dto"
	"raffler/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// NATSRandomnessOracle implements the RandomnessOracle interface by
// publishing requests to the oracle's NATS subject. The request id is
// generated client-side so the fulfillment can be matched without waiting
// for an oracle round trip.
type NATSRandomnessOracle struct {
	publisher      MessagePublisher
	requestSubject string
}

// NewNATSRandomnessOracle creates a new NATS-backed randomness oracle client
func NewNATSRandomnessOracle(publisher MessagePublisher, requestSubject string) *NATSRandomnessOracle {
	return &NATSRandomnessOracle{
		publisher:      publisher,
		requestSubject: requestSubject,
	}
}

// RequestRandomWords publishes a randomness request and returns the id the
// fulfillment will carry
func (o *NATSRandomnessOracle) RequestRandomWords(ctx context.Context, req interfaces.RandomnessRequest) (string, error) {
	requestID := uuid.New().String()

	payload := dto.RandomnessRequestDTO{
		RequestID:        requestID,
		Confirmations:    req.Confirmations,
		CallbackGasLimit: req.CallbackGasLimit,
		NumWords:         req.NumWords,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal randomness request: %w", err)
	}

	if err := o.publisher.Publish(ctx, o.requestSubject, data); err != nil {
		return "", fmt.Errorf("failed to publish randomness request: %w", err)
	}

	log.WithFields(log.Fields{
		"request_id": requestID,
		"subject":    o.requestSubject,
		"num_words":  req.NumWords,
	}).Info("Randomness request published")

	return requestID, nil
}
