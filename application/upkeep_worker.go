package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"raffler/domain/interfaces"
	"raffler/domain/services"

	log "github.com/sirupsen/logrus"
)

// UpkeepWorker periodically evaluates the draw predicate and requests a
// draw when the current round becomes eligible. It is the automation
// counterpart of manual draw requests: both run the same checked path, so
// a concurrent manual request simply makes the worker's attempt a no-op.
type UpkeepWorker struct {
	uowFactory   UnitOfWorkFactory
	oracle       interfaces.RandomnessOracle
	params       interfaces.RaffleParams
	pollInterval time.Duration
}

// NewUpkeepWorker creates a new upkeep worker
func NewUpkeepWorker(uowFactory UnitOfWorkFactory, oracle interfaces.RandomnessOracle, params interfaces.RaffleParams, pollInterval time.Duration) *UpkeepWorker {
	return &UpkeepWorker{
		uowFactory:   uowFactory,
		oracle:       oracle,
		params:       params,
		pollInterval: pollInterval,
	}
}

// Start begins the upkeep loop and returns a stop function
func (w *UpkeepWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.WithField("poll_interval", w.pollInterval).Info("Upkeep worker started")

		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Upkeep worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Upkeep worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				if err := w.performUpkeep(ctx); err != nil {
					log.WithError(err).Error("Upkeep pass failed")
				}
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// performUpkeep checks eligibility and requests a draw when the round is ready
func (w *UpkeepWorker) performUpkeep(ctx context.Context) error {
	eligibility, err := w.checkEligibility(ctx)
	if err != nil {
		return err
	}
	if !eligibility.Ready {
		log.WithFields(log.Fields{
			"state":   eligibility.State,
			"pool":    eligibility.PoolBalance,
			"entries": eligibility.EntryCount,
		}).Debug("Round not eligible for draw")
		return nil
	}

	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	raffleService := NewRaffleService(uow, w.oracle, w.params)

	request, err := raffleService.RequestDraw(ctx)
	if err != nil {
		// Lost the race to another requester between check and request
		var notReady *services.DrawNotReadyError
		if errors.As(err, &notReady) {
			log.WithField("state", notReady.State).Debug("Round no longer eligible, skipping")
			return nil
		}
		return fmt.Errorf("failed to request draw: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit draw request: %w", err)
	}

	log.WithFields(log.Fields{
		"round_id":   request.Round.ID,
		"request_id": request.RequestID,
	}).Info("Upkeep requested a draw")

	return nil
}

// checkEligibility evaluates the draw predicate in a read-only transaction
func (w *UpkeepWorker) checkEligibility(ctx context.Context) (*interfaces.DrawEligibility, error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	raffleService := NewRaffleService(uow, w.oracle, w.params)

	eligibility, err := raffleService.CheckDrawEligibility(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check draw eligibility: %w", err)
	}

	// GetOrCreate may have opened the first round; keep it
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit eligibility check: %w", err)
	}

	return eligibility, nil
}
