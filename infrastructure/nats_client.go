package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const (
	reconnectWait = 2 * time.Second
	maxReconnects = 10

	// consumerAckWait bounds how long a fulfillment may be processed
	// before JetStream considers it unacknowledged and redelivers.
	consumerAckWait    = 30 * time.Second
	consumerMaxDeliver = 5
)

// NATSClient owns the process's NATS connection and JetStream context. It
// publishes raw messages and manages durable subscriptions whose handlers
// ack on success and NAK on error.
type NATSClient struct {
	servers       string
	nc            *nats.Conn
	js            nats.JetStreamContext
	subscriptions map[string]*nats.Subscription
	mu            sync.RWMutex
}

// NewNATSClient creates a client for the given server list. Connect must
// be called before any other method.
func NewNATSClient(servers string) *NATSClient {
	return &NATSClient{
		servers:       servers,
		subscriptions: make(map[string]*nats.Subscription),
	}
}

// Connect establishes the connection and the JetStream context
func (c *NATSClient) Connect(ctx context.Context) error {
	nc, err := nats.Connect(c.servers,
		nats.Name("raffler"),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Error("NATS disconnected with error")
			} else {
				log.Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.WithFields(log.Fields{
				"subject": sub.Subject,
				"error":   err,
			}).Error("NATS async error")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	c.nc = nc
	c.js = js

	log.WithField("servers", c.servers).Info("Connected to NATS with JetStream")
	return nil
}

// Subscribe registers a handler on a durable JetStream consumer. A handler
// error NAKs the message so it is redelivered, up to the consumer's
// delivery limit.
func (c *NATSClient) Subscribe(subject string, handler func([]byte) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.js == nil {
		return fmt.Errorf("not connected to NATS JetStream")
	}

	sub, err := c.js.Subscribe(
		subject,
		func(msg *nats.Msg) { dispatch(subject, msg, handler) },
		nats.Durable(consumerName(subject)),
		nats.ManualAck(),
		nats.AckExplicit(),
		nats.MaxDeliver(consumerMaxDeliver),
		nats.AckWait(consumerAckWait),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	c.subscriptions[subject] = sub
	log.WithField("subject", subject).Info("Subscribed to NATS subject")
	return nil
}

// consumerName derives a durable consumer name from a subject. Consumer
// names cannot contain subject separators or wildcards.
func consumerName(subject string) string {
	name := strings.ReplaceAll(subject, ".", "_")
	name = strings.ReplaceAll(name, "*", "wildcard")
	return "raffler-" + name
}

func dispatch(subject string, msg *nats.Msg, handler func([]byte) error) {
	if err := handler(msg.Data); err != nil {
		log.WithFields(log.Fields{
			"subject": subject,
			"error":   err,
		}).Error("Failed to process message")

		if nakErr := msg.Nak(); nakErr != nil {
			log.WithError(nakErr).Error("Failed to NAK message")
		}
		return
	}

	if ackErr := msg.Ack(); ackErr != nil {
		log.WithError(ackErr).Error("Failed to ACK message")
	}
}

// Publish sends a message through JetStream
func (c *NATSClient) Publish(ctx context.Context, subject string, data []byte) error {
	if c.js == nil {
		return fmt.Errorf("not connected to NATS JetStream")
	}

	if _, err := c.js.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish message to subject %s: %w", subject, err)
	}

	log.WithFields(log.Fields{
		"subject": subject,
		"size":    len(data),
	}).Debug("Published message to NATS")
	return nil
}

// IsConnected reports whether the underlying connection is up
func (c *NATSClient) IsConnected() bool {
	return c.nc != nil && c.nc.IsConnected()
}

// Close unsubscribes everything and closes the connection
func (c *NATSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for subject, sub := range c.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			log.WithFields(log.Fields{
				"subject": subject,
				"error":   err,
			}).Error("Failed to unsubscribe")
		}
	}
	c.subscriptions = make(map[string]*nats.Subscription)

	if c.nc != nil {
		c.nc.Close()
		log.Info("NATS connection closed")
	}

	return nil
}

// ensureStream creates the stream if it does not already exist
func (c *NATSClient) ensureStream(streamName, description string, subjects []string) error {
	if c.js == nil {
		return fmt.Errorf("not connected to NATS JetStream")
	}

	if _, err := c.js.StreamInfo(streamName); err == nil {
		log.WithField("stream", streamName).Info("JetStream stream already exists")
		return nil
	}

	_, err := c.js.AddStream(&nats.StreamConfig{
		Name:        streamName,
		Subjects:    subjects,
		Retention:   nats.LimitsPolicy,
		MaxAge:      24 * time.Hour,
		MaxMsgs:     1000000,
		Storage:     nats.FileStorage,
		Replicas:    1,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", streamName, err)
	}

	log.WithFields(log.Fields{
		"stream":   streamName,
		"subjects": subjects,
	}).Info("Created JetStream stream")
	return nil
}

// EnsureOracleStream creates the stream carrying outbound randomness
// requests and inbound fulfillments
func (c *NATSClient) EnsureOracleStream() error {
	return c.ensureStream("vrf_events", "Randomness oracle requests and fulfillments", []string{"vrf.*"})
}
