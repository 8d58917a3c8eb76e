package messagebroker

import (
	"context"
	"time"
)

// Producer for produce operations
//go:generate go run -mod=mod github.com/golang/mock/mockgen -build_flags=-mod=mod -destination=mocks/mock_producer.go -package=mocks . Producer
type Producer interface {
	// SendMessage hands a message to the client's send queue and returns without
	// waiting for the broker acknowledgement
	SendMessage(context.Context, SendMessageToTopicRequest) (*SendMessageToTopicResponse, error)

	// Errors reports asynchronous delivery failures. The channel is closed by Close.
	Errors() <-chan DeliveryError

	// Close flushes buffered messages for at most timeout and releases the client.
	// It returns the number of messages that were still undelivered.
	Close(ctx context.Context, timeout time.Duration) int
}
