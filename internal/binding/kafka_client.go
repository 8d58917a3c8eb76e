package binding

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/magiconair/properties"
	"github.com/razorpay/kafkabench/internal/merror"
	"github.com/razorpay/kafkabench/pkg/kafkaprops"
	"github.com/razorpay/kafkabench/pkg/logger"
	"github.com/razorpay/kafkabench/pkg/messagebroker"
	"github.com/razorpay/kafkabench/pkg/tracing"
)

// State of the adapter lifecycle
type State int

const (
	// Uninitialized before Initialize
	Uninitialized State = iota
	// Ready between Initialize and Shutdown
	Ready
	// Closed after Shutdown, terminal
	Closed
)

// String ...
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// PublishResult tells whether a record was handed to the producer.
// Submitted does not mean delivered: delivery failures arrive later through
// the delivery error handler and DeliveryFailures.
type PublishResult struct {
	Submitted bool
	MessageID string
	Err       error
}

// Status maps the result to a plugin status
func (r PublishResult) Status() Status {
	if r.Submitted {
		return OK
	}
	return StatusOf(r.Err)
}

var _ DB = (*KafkaClient)(nil)

// KafkaClient publishes every insert and update as a JSON record on a single topic.
type KafkaClient struct {
	runtime *properties.Properties
	opts    options

	mu         sync.RWMutex
	state      State
	topic      string
	producer   messagebroker.Producer
	staticCols map[string]string
	drainDone  chan struct{}

	deliveryFailures atomic.Int64
}

// NewKafkaClient returns an uninitialized client. runtime holds the driver's
// properties; static_col.* entries and kafka.properties.path are read from it by Init.
func NewKafkaClient(runtime *properties.Properties, opts ...Option) *KafkaClient {
	if runtime == nil {
		runtime = kafkaprops.NewRuntime()
	}
	return &KafkaClient{
		runtime: runtime,
		opts:    evaluateOptions(opts),
	}
}

// Init loads kafka.properties and the static columns and initializes the client.
func (c *KafkaClient) Init(ctx context.Context) error {
	conf, err := c.loadConfiguration()
	if err != nil {
		logger.Ctx(ctx).Errorw("failed to load kafka configuration", "error", err.Error())
		return err
	}
	return c.Initialize(ctx, conf, kafkaprops.StaticColumns(c.runtime))
}

func (c *KafkaClient) loadConfiguration() (*kafkaprops.Configuration, error) {
	if path, ok := c.runtime.Get(kafkaprops.PropertiesPathKey); ok && path != "" {
		return kafkaprops.LoadFile(path)
	}
	if c.opts.propertiesPath != "" {
		return kafkaprops.LoadFile(c.opts.propertiesPath)
	}
	return kafkaprops.LoadBundled()
}

// Initialize builds the producer for conf and moves the client to Ready.
// Serializers other than the string serializer are rejected with a ConfigurationError;
// a producer that cannot be built yields a ConnectionError.
func (c *KafkaClient) Initialize(ctx context.Context, conf *kafkaprops.Configuration, staticCols map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Uninitialized {
		return merror.Newf(merror.LifecycleError, "initialize called while adapter is %v", c.state)
	}
	if conf == nil {
		return merror.New(merror.ConfigurationError, "missing kafka configuration")
	}
	if !kafkaprops.IsStringSerializer(conf.KeySerializer()) {
		return merror.Newf(merror.ConfigurationError, "unsupported %s %q", kafkaprops.KeySerializer, conf.KeySerializer())
	}
	if !kafkaprops.IsStringSerializer(conf.ValueSerializer()) {
		return merror.Newf(merror.ConfigurationError, "unsupported %s %q", kafkaprops.ValueSerializer, conf.ValueSerializer())
	}

	if conf.LingerMs() != 0 || conf.BatchSize() != 0 {
		logger.Ctx(ctx).Infow("linger.ms and batch.size are fixed by the binding, ignoring file values",
			"linger.ms", conf.LingerMs(), "batch.size", conf.BatchSize())
	}

	producer, err := c.opts.newProducer(ctx, conf, c.opts.brokerConfig(conf), &messagebroker.ProducerClientOptions{
		Topic:        conf.Topic(),
		FlushTimeout: c.opts.flushTimeout,
	})
	if err != nil {
		if code := merror.CodeOf(err); code != merror.ConnectionError && code != merror.ConfigurationError {
			err = merror.Wrap(merror.ConnectionError, err, "failed to create producer")
		}
		logger.Ctx(ctx).Errorw("failed to initialize kafka binding", "error", err.Error())
		return err
	}

	cols := make(map[string]string, len(staticCols))
	for k, v := range staticCols {
		cols[k] = v
	}

	c.producer = producer
	c.topic = conf.Topic()
	c.staticCols = cols
	c.drainDone = make(chan struct{})
	c.state = Ready

	go c.drainDeliveryErrors(ctx, producer.Errors())

	logger.Ctx(ctx).Infow("kafka binding initialized", "topic", c.topic, "staticColumns", len(cols))
	return nil
}

func (c *KafkaClient) drainDeliveryErrors(ctx context.Context, errs <-chan messagebroker.DeliveryError) {
	defer close(c.drainDone)
	if errs == nil {
		return
	}
	for derr := range errs {
		c.deliveryFailures.Add(1)
		bindingDeliveryFailures.WithLabelValues(env, derr.Topic).Inc()
		if c.opts.onDeliveryError != nil {
			c.opts.onDeliveryError(derr)
		}
	}
	logger.Ctx(ctx).Debugw("delivery error channel closed", "failures", c.deliveryFailures.Load())
}

// Publish serializes key, fields, the capture time and the static columns into a
// JSON record and enqueues it on the topic. It does not wait for the broker.
func (c *KafkaClient) Publish(ctx context.Context, key string, fields map[string]string) PublishResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state != Ready {
		bindingPublishCount.WithLabelValues(env, "rejected").Inc()
		return PublishResult{Err: merror.Newf(merror.LifecycleError, "publish called while adapter is %v", c.state)}
	}

	payload, err := encodeRecord(buildRecord(key, fields, c.staticCols, c.opts.clock()))
	if err != nil {
		bindingPublishCount.WithLabelValues(env, "rejected").Inc()
		return PublishResult{Err: merror.Wrap(merror.Unknown, err, "failed to encode record")}
	}

	resp, err := c.producer.SendMessage(ctx, messagebroker.SendMessageToTopicRequest{
		Topic:   c.topic,
		Message: payload,
	})
	if err != nil {
		bindingPublishCount.WithLabelValues(env, "rejected").Inc()
		return PublishResult{Err: err}
	}

	bindingPublishCount.WithLabelValues(env, "submitted").Inc()
	return PublishResult{Submitted: true, MessageID: resp.MessageID}
}

// Insert publishes the record
func (c *KafkaClient) Insert(ctx context.Context, _ string, key string, values map[string][]byte) Status {
	return c.write(ctx, "insert", key, values)
}

// Update publishes the record, same as Insert. The topic is an append-only log.
func (c *KafkaClient) Update(ctx context.Context, _ string, key string, values map[string][]byte) Status {
	return c.write(ctx, "update", key, values)
}

func (c *KafkaClient) write(ctx context.Context, op string, key string, values map[string][]byte) Status {
	res := c.Publish(ctx, key, stringMap(values))
	if res.Err != nil {
		logger.Ctx(ctx).Errorw("failed to publish record", "operation", op, "key", key,
			"traceID", tracing.TraceID(ctx), "error", res.Err.Error())
	}
	return res.Status()
}

// Read is not supported by a producer
func (c *KafkaClient) Read(_ context.Context, _ string, _ string, _ []string, _ map[string][]byte) Status {
	return NotImplemented
}

// Scan is not supported by a producer
func (c *KafkaClient) Scan(_ context.Context, _ string, _ string, _ int, _ []string, _ *[]map[string][]byte) Status {
	return NotImplemented
}

// Delete is not supported by a producer
func (c *KafkaClient) Delete(_ context.Context, _ string, _ string) Status {
	return NotImplemented
}

// Cleanup shuts the client down using the configured flush timeout
func (c *KafkaClient) Cleanup(ctx context.Context) error {
	return c.Shutdown(ctx, c.opts.flushTimeout)
}

// Shutdown flushes buffered records for at most timeout and releases the producer.
// It waits for in-flight Publish calls; Publish calls after it are rejected.
// Only the first call has an effect.
func (c *KafkaClient) Shutdown(ctx context.Context, timeout time.Duration) error {
	c.mu.Lock()
	if c.state != Ready {
		c.state = Closed
		c.mu.Unlock()
		return nil
	}
	producer := c.producer
	c.producer = nil
	c.state = Closed
	c.mu.Unlock()

	pending := producer.Close(ctx, timeout)
	<-c.drainDone

	logger.Ctx(ctx).Infow("kafka binding closed", "topic", c.topic, "undelivered", pending, "deliveryFailures", c.deliveryFailures.Load())
	return nil
}

// State returns the current lifecycle state
func (c *KafkaClient) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// DeliveryFailures is the number of asynchronous delivery failures observed so far
func (c *KafkaClient) DeliveryFailures() int64 {
	return c.deliveryFailures.Load()
}
