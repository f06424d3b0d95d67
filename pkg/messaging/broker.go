package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Channel published to by the outbox processor.
const SummaryEventsChannel = "summary.events"

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
