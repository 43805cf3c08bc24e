package infrastructure

import (
	"context"
)

// MessagePublisher defines the interface for publishing raw messages to a
// message bus subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}
