package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"raffler/application/dto"
	"raffler/domain/interfaces"
	"raffler/domain/services"

	log "github.com/sirupsen/logrus"
)

// FulfillmentHandler consumes randomness fulfillments from the oracle and
// finalizes the matching round inside a single transaction. A returned
// error NAKs the message, so JetStream redelivers it and the draw is
// retried; fulfillments that match no pending request are acknowledged and
// dropped.
type FulfillmentHandler struct {
	uowFactory UnitOfWorkFactory
	oracle     interfaces.RandomnessOracle
	params     interfaces.RaffleParams
}

// NewFulfillmentHandler creates a new fulfillment handler
func NewFulfillmentHandler(uowFactory UnitOfWorkFactory, oracle interfaces.RandomnessOracle, params interfaces.RaffleParams) *FulfillmentHandler {
	return &FulfillmentHandler{
		uowFactory: uowFactory,
		oracle:     oracle,
		params:     params,
	}
}

// HandleFulfillment processes a raw fulfillment message
func (h *FulfillmentHandler) HandleFulfillment(ctx context.Context, data []byte) error {
	var fulfillment dto.RandomnessFulfillmentDTO
	if err := json.Unmarshal(data, &fulfillment); err != nil {
		// Malformed messages will never parse; drop instead of redelivering
		log.WithError(err).Error("Dropping unparseable fulfillment message")
		return nil
	}

	randomWords, err := parseRandomWords(fulfillment.RandomWords)
	if err != nil {
		log.WithFields(log.Fields{
			"request_id": fulfillment.RequestID,
			"error":      err,
		}).Error("Dropping fulfillment with invalid random words")
		return nil
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	raffleService := NewRaffleService(uow, h.oracle, h.params)

	result, err := raffleService.FulfillRandomness(ctx, fulfillment.RequestID, randomWords)
	if err != nil {
		if errors.Is(err, services.ErrUnknownRequest) {
			// Not ours, or already fulfilled: ack and move on
			log.WithField("request_id", fulfillment.RequestID).Warn("Fulfillment matched no pending request, ignoring")
			return nil
		}

		var payoutErr *services.PayoutFailedError
		if errors.As(err, &payoutErr) {
			log.WithFields(log.Fields{
				"request_id": fulfillment.RequestID,
				"winner":     payoutErr.WinnerAddress,
				"amount":     payoutErr.Amount,
			}).WithError(payoutErr.Cause).Error("Payout failed, round stays calculating for retry")
		}
		return fmt.Errorf("failed to fulfill randomness for request %s: %w", fulfillment.RequestID, err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit fulfillment: %w", err)
	}

	log.WithFields(log.Fields{
		"request_id": fulfillment.RequestID,
		"round_id":   result.Round.ID,
		"winner":     result.Winner.PlayerAddress,
		"payout":     result.Winner.PayoutAmount,
		"next_round": result.NextRound.ID,
	}).Info("Fulfillment processed")

	return nil
}

// parseRandomWords converts the wire's decimal strings to big integers
func parseRandomWords(words []string) ([]*big.Int, error) {
	if len(words) == 0 {
		return nil, errors.New("fulfillment carried no random words")
	}

	parsed := make([]*big.Int, 0, len(words))
	for _, word := range words {
		value, ok := new(big.Int).SetString(word, 10)
		if !ok {
			return nil, fmt.Errorf("random word %q is not a decimal integer", word)
		}
		if value.Sign() < 0 {
			return nil, fmt.Errorf("random word %q is negative", word)
		}
		parsed = append(parsed, value)
	}
	return parsed, nil
}
