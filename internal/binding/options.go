package binding

import (
	"context"
	"time"

	"github.com/razorpay/kafkabench/pkg/kafkaprops"
	"github.com/razorpay/kafkabench/pkg/messagebroker"
)

// ProducerFactory builds the producer used by a client
type ProducerFactory func(ctx context.Context, conf *kafkaprops.Configuration, bConfig *messagebroker.BrokerConfig, options *messagebroker.ProducerClientOptions) (messagebroker.Producer, error)

// DeliveryErrorHandler is called for every asynchronous delivery failure, from a
// single goroutine, in the order the failures were reported
type DeliveryErrorHandler func(messagebroker.DeliveryError)

type options struct {
	newProducer     ProducerFactory
	onDeliveryError DeliveryErrorHandler
	flushTimeout    time.Duration
	propertiesPath  string
	enableTLS       bool
	certDir         string
	debug           bool
	clock           func() time.Time
}

// Option configures a KafkaClient
type Option func(*options)

func evaluateOptions(opts []Option) options {
	o := options{
		newProducer:  newKafkaProducer,
		flushTimeout: messagebroker.DefaultFlushTimeout,
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) brokerConfig(conf *kafkaprops.Configuration) *messagebroker.BrokerConfig {
	return &messagebroker.BrokerConfig{
		Brokers:      conf.BrokerList(),
		EnableTLS:    o.enableTLS,
		CertDir:      o.certDir,
		DebugEnabled: o.debug,
	}
}

func newKafkaProducer(ctx context.Context, _ *kafkaprops.Configuration, bConfig *messagebroker.BrokerConfig, options *messagebroker.ProducerClientOptions) (messagebroker.Producer, error) {
	p, err := messagebroker.NewKafkaProducer(ctx, bConfig, options)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// WithProducerFactory replaces the kafka producer constructor
func WithProducerFactory(f ProducerFactory) Option {
	return func(o *options) {
		o.newProducer = f
	}
}

// WithDeliveryErrorHandler registers a callback for asynchronous delivery failures
func WithDeliveryErrorHandler(h DeliveryErrorHandler) Option {
	return func(o *options) {
		o.onDeliveryError = h
	}
}

// WithFlushTimeout bounds how long Cleanup waits for buffered records
func WithFlushTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.flushTimeout = d
		}
	}
}

// WithPropertiesPath loads kafka.properties from path instead of the bundled resource.
// The kafka.properties.path runtime property still takes precedence.
func WithPropertiesPath(path string) Option {
	return func(o *options) {
		o.propertiesPath = path
	}
}

// WithTLS enables TLS using the certificates found in certDir
func WithTLS(certDir string) Option {
	return func(o *options) {
		o.enableTLS = true
		o.certDir = certDir
	}
}

// WithDebug turns on librdkafka debug logging
func WithDebug(enabled bool) Option {
	return func(o *options) {
		o.debug = enabled
	}
}

// WithClock overrides the source of the ts field
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}
