package messagebroker

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultFlushTimeout bounds how long Close waits for buffered records to drain
const DefaultFlushTimeout = 15 * time.Second

// DefaultErrorBufferSize is the capacity of the delivery error channel
const DefaultErrorBufferSize = 1024

// BrokerConfig holds broker's configuration
type BrokerConfig struct {
	// A list of host/port pairs to use for establishing the initial connection to the broker cluster
	Brokers      []string
	EnableTLS    bool
	CertDir      string
	DebugEnabled bool
}

// ProducerClientOptions holds client specific configuration for producer
type ProducerClientOptions struct {
	Topic string
	// FlushTimeout bounds the drain performed by Close when it is called with a zero timeout
	FlushTimeout time.Duration
	// ErrorBufferSize is the capacity of the channel returned by Errors
	ErrorBufferSize int
}

func (o *ProducerClientOptions) flushTimeout() time.Duration {
	if o.FlushTimeout <= 0 {
		return DefaultFlushTimeout
	}
	return o.FlushTimeout
}

func (o *ProducerClientOptions) errorBufferSize() int {
	if o.ErrorBufferSize <= 0 {
		return DefaultErrorBufferSize
	}
	return o.ErrorBufferSize
}

func getCertFile(certDir, filename string) (string, error) {
	configPath := filepath.Join(certDir, filename)

	_, err := os.Stat(configPath)
	if err == nil {
		return filepath.Abs(configPath)
	}
	return "", err
}
