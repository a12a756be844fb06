package messaging

import (
	"context"
)

// Broker is the interface the outbox worker publishes through.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
