package infrastructure

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// MessageHandler defines a function that handles raw message bytes
type MessageHandler func(ctx context.Context, data []byte) error

// MessageConsumer manages NATS subscriptions and routes messages to handlers
type MessageConsumer struct {
	natsClient *NATSClient
	handlers   map[string]MessageHandler
	mu         sync.RWMutex

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewMessageConsumer creates a new message consumer on an established
// NATS client
func NewMessageConsumer(natsClient *NATSClient) *MessageConsumer {
	ctx, cancel := context.WithCancel(context.Background())

	return &MessageConsumer{
		natsClient: natsClient,
		handlers:   make(map[string]MessageHandler),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// RegisterHandler registers a handler for a specific subject
func (mc *MessageConsumer) RegisterHandler(subject string, handler MessageHandler) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.handlers[subject] = handler
	log.WithField("subject", subject).Info("Registered message handler")
}

// Start subscribes to all registered subjects and blocks until Stop is
// called or the context is cancelled
func (mc *MessageConsumer) Start(ctx context.Context) error {
	log.Info("Starting message consumer")

	mc.mu.RLock()
	subjects := make([]string, 0, len(mc.handlers))
	for subject := range mc.handlers {
		subjects = append(subjects, subject)
	}
	mc.mu.RUnlock()

	for _, subject := range subjects {
		if err := mc.subscribe(subject); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
	}

	log.WithField("subjects", subjects).Info("Message consumer started")

	select {
	case <-ctx.Done():
	case <-mc.ctx.Done():
	}

	return nil
}

// Stop gracefully shuts down the consumer
func (mc *MessageConsumer) Stop() {
	log.Info("Stopping message consumer")
	mc.cancel()
}

// subscribe sets up a subscription for a specific subject
func (mc *MessageConsumer) subscribe(subject string) error {
	return mc.natsClient.Subscribe(subject, func(data []byte) error {
		mc.mu.RLock()
		handler, exists := mc.handlers[subject]
		mc.mu.RUnlock()

		if !exists {
			return fmt.Errorf("no handler registered for subject: %s", subject)
		}

		ctx := context.Background()

		if err := handler(ctx, data); err != nil {
			log.WithFields(log.Fields{
				"subject": subject,
				"error":   err,
			}).Error("Failed to handle message")
			return err
		}

		return nil
	})
}
