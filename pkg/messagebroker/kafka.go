package messagebroker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	kafkapkg "github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/razorpay/kafkabench/internal/merror"
	"github.com/razorpay/kafkabench/pkg/logger"
	"github.com/rs/xid"
)

const (
	messageIDHeader = "messageID"

	// producer tuning owned by the binding, not exposed through kafka.properties
	compressionType = "lz4"
	lingerMs        = 500
	batchSize       = 102400
)

// KafkaProducer is an asynchronous kafka producer.
//
// SendMessage only enqueues into the client's buffer. Delivery reports are
// consumed by a background goroutine and failures are published on Errors.
//
// Close MUST be called to stop the background goroutine and flush in-flight messages.
type KafkaProducer struct {
	Producer *kafkapkg.Producer

	// holds the broker config
	Config *BrokerConfig

	// holds the client configs
	POptions *ProducerClientOptions

	mu         sync.RWMutex
	closed     bool
	errCh      chan DeliveryError
	eventsDone chan struct{}
	closedCh   chan struct{}
	once       sync.Once

	// records accepted by Produce whose delivery report has not been seen yet
	inFlight atomic.Int64
}

// NewKafkaProducer returns a kafka producer bound to options.Topic
func NewKafkaProducer(ctx context.Context, bConfig *BrokerConfig, options *ProducerClientOptions) (*KafkaProducer, error) {
	err := validateKafkaProducerBrokerConfig(bConfig)
	if err != nil {
		return nil, err
	}

	err = validateKafkaProducerClientConfig(options)
	if err != nil {
		return nil, err
	}

	configMap := &kafkapkg.ConfigMap{
		"bootstrap.servers":   strings.Join(bConfig.Brokers, ","),
		"compression.type":    compressionType,
		"linger.ms":           lingerMs,
		"batch.size":          batchSize,
		"go.delivery.reports": true,
	}

	if bConfig.DebugEnabled {
		configMap.SetKey("debug", "broker,topic,msg")
	}

	if bConfig.EnableTLS {
		certs, err := readKafkaCerts(bConfig.CertDir)
		if err != nil {
			return nil, merror.Wrap(merror.ConnectionError, err, "kafka: failed to read tls certificates")
		}

		// Refer : https://github.com/edenhill/librdkafka/wiki/Using-SSL-with-librdkafka#configure-librdkafka-client
		configMap.SetKey("security.protocol", "ssl")
		configMap.SetKey("ssl.ca.location", certs.caCertPath)
		configMap.SetKey("ssl.certificate.location", certs.userCertPath)
		configMap.SetKey("ssl.key.location", certs.userKeyPath)
	}

	p, err := kafkapkg.NewProducer(configMap)
	if err != nil {
		return nil, merror.Wrap(merror.ConnectionError, err, "kafka: failed to create producer")
	}

	kp := &KafkaProducer{
		Producer:   p,
		Config:     bConfig,
		POptions:   options,
		errCh:      make(chan DeliveryError, options.errorBufferSize()),
		eventsDone: make(chan struct{}),
		closedCh:   make(chan struct{}),
	}

	go kp.monitorProducerEvents(ctx)

	logger.Ctx(ctx).Infow("kafka producer created", "brokers", bConfig.Brokers, "topic", options.Topic)

	return kp, nil
}

type kafkaCerts struct {
	caCertPath   string
	userCertPath string
	userKeyPath  string
}

func readKafkaCerts(certDir string) (*kafkaCerts, error) {
	caCertPath, err := getCertFile(certDir, "ca-cert.pem")
	if err != nil {
		return nil, err
	}
	userCertPath, err := getCertFile(certDir, "user-cert.pem")
	if err != nil {
		return nil, err
	}
	userKeyPath, err := getCertFile(certDir, "user.key")
	if err != nil {
		return nil, err
	}

	return &kafkaCerts{
		caCertPath:   caCertPath,
		userCertPath: userCertPath,
		userKeyPath:  userKeyPath,
	}, nil
}

// SendMessage enqueues a message on the topic. The partition is left to the client
// and no message key is set. It returns once the client accepted the message.
func (k *KafkaProducer) SendMessage(ctx context.Context, request SendMessageToTopicRequest) (*SendMessageToTopicResponse, error) {
	messageBrokerOperationCount.WithLabelValues(env, Kafka, "SendMessage").Inc()

	startTime := time.Now()
	defer func() {
		messageBrokerOperationTimeTaken.WithLabelValues(env, Kafka, "SendMessage").Observe(time.Now().Sub(startTime).Seconds())
	}()

	span, ctx := opentracing.StartSpanFromContext(ctx, "Kafka:SendMessage")
	ext.SpanKindProducer.Set(span)
	defer span.Finish()

	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.closed {
		return nil, merror.New(merror.LifecycleError, "kafka: producer is closed")
	}

	topic := request.Topic
	if topic == "" {
		topic = k.POptions.Topic
	}

	// generate a message id and attach
	msgID := xid.New().String()
	kHeaders := convertRequestToKafkaHeaders(request, msgID)

	carrier := kafkaHeadersCarrier(kHeaders)
	if err := opentracing.GlobalTracer().Inject(span.Context(), opentracing.TextMap, &carrier); err != nil {
		logger.Ctx(ctx).Debugw("failed to inject span context into kafka headers", "error", err.Error())
	}

	k.inFlight.Add(1)
	err := k.Producer.Produce(&kafkapkg.Message{
		TopicPartition: kafkapkg.TopicPartition{Topic: &topic, Partition: kafkapkg.PartitionAny},
		Value:          request.Message,
		Headers:        []kafkapkg.Header(carrier),
		Opaque:         msgID,
	}, nil)
	if err != nil {
		k.inFlight.Add(-1)
		messageBrokerSendRejected.WithLabelValues(env, topic).Inc()
		return nil, produceError(err)
	}

	return &SendMessageToTopicResponse{MessageID: msgID}, nil
}

// Errors returns the channel on which delivery failures are published.
// The channel is buffered; failures arriving while it is full are logged and dropped.
func (k *KafkaProducer) Errors() <-chan DeliveryError {
	return k.errCh
}

// Close flushes pending messages and releases the producer.
//
// Close waits at most timeout (or the configured flush timeout when zero) for
// buffered messages. Messages without a delivery report after that are lost; their
// count is returned. Calling Close more than once does nothing.
func (k *KafkaProducer) Close(ctx context.Context, timeout time.Duration) int {
	lost := 0
	k.once.Do(func() {
		logger.Ctx(ctx).Infow("closing kafka producer", "topic", k.POptions.Topic)

		k.mu.Lock()
		k.closed = true
		k.mu.Unlock()

		if timeout <= 0 {
			timeout = k.POptions.flushTimeout()
		}

		// flush while the monitor still reports delivery results
		pendingRequests := k.Producer.Flush(int(timeout.Milliseconds()))

		close(k.closedCh)
		<-k.eventsDone

		lost = int(k.inFlight.Load())
		if lost > 0 {
			messageBrokerMessagesLost.WithLabelValues(env, k.POptions.Topic).Add(float64(lost))
			logger.Ctx(ctx).Warnw("flush incomplete, messages will be lost", "messages", lost, "pendingRequests", pendingRequests)
		}

		k.Producer.Close()
		close(k.errCh)

		logger.Ctx(ctx).Infow("kafka producer closed", "topic", k.POptions.Topic)
	})
	return lost
}

func (k *KafkaProducer) monitorProducerEvents(ctx context.Context) {
	defer close(k.eventsDone)
	for {
		select {
		case <-k.closedCh:
			return
		case ev, ok := <-k.Producer.Events():
			if !ok {
				return
			}
			k.handleEvent(ctx, ev)
		}
	}
}

func (k *KafkaProducer) handleEvent(ctx context.Context, ev kafkapkg.Event) {
	switch e := ev.(type) {
	case *kafkapkg.Message:
		k.inFlight.Add(-1)
		topic := ""
		if e.TopicPartition.Topic != nil {
			topic = *e.TopicPartition.Topic
		}
		if e.TopicPartition.Error != nil {
			messageBrokerDeliveryCount.WithLabelValues(env, topic, "failed").Inc()
			msgID, _ := e.Opaque.(string)
			k.reportDeliveryError(ctx, DeliveryError{MessageID: msgID, Topic: topic, Err: e.TopicPartition.Error})
			return
		}
		messageBrokerDeliveryCount.WithLabelValues(env, topic, "delivered").Inc()
	case kafkapkg.Error:
		messageBrokerClientErrors.WithLabelValues(env, fmt.Sprintf("%v", e.IsFatal())).Inc()
		if e.IsFatal() || e.Code() == kafkapkg.ErrAllBrokersDown {
			logger.Ctx(ctx).Errorw("kafka producer error", "code", e.Code().String(), "fatal", e.IsFatal(), "error", e.Error())
		} else {
			logger.Ctx(ctx).Warnw("ignoring transient kafka error", "code", e.Code().String(), "error", e.Error())
		}
	default:
		logger.Ctx(ctx).Debugw("ignored kafka event", "event", e.String())
	}
}

func (k *KafkaProducer) reportDeliveryError(ctx context.Context, derr DeliveryError) {
	logger.Ctx(ctx).Errorw("failed to deliver message", "messageID", derr.MessageID, "topic", derr.Topic, "error", derr.Err.Error())
	select {
	case k.errCh <- derr:
	default:
		messageBrokerDeliveryErrorsDropped.WithLabelValues(env, derr.Topic).Inc()
		logger.Ctx(ctx).Warnw("delivery error channel full, dropping report", "messageID", derr.MessageID)
	}
}

func convertRequestToKafkaHeaders(request SendMessageToTopicRequest, msgID string) []kafkapkg.Header {
	kHeaders := make([]kafkapkg.Header, 0, len(request.Attributes)+1)
	for _, attribute := range request.Attributes {
		for k, v := range attribute {
			kHeaders = append(kHeaders, kafkapkg.Header{
				Key:   k,
				Value: v,
			})
		}
	}
	return append(kHeaders, kafkapkg.Header{
		Key:   messageIDHeader,
		Value: []byte(msgID),
	})
}

func produceError(err error) error {
	kafkaErr, ok := err.(kafkapkg.Error)
	if !ok {
		return merror.Wrap(merror.Unknown, err, "kafka: failed to produce")
	}

	switch kafkaErr.Code() {
	case kafkapkg.ErrQueueFull:
		return merror.Wrap(merror.Unknown, err, "kafka: producer queue full")
	case kafkapkg.ErrInvalidMsgSize, kafkapkg.ErrMsgSizeTooLarge:
		return merror.Wrap(merror.Unknown, err, "kafka: invalid message size")
	case kafkapkg.ErrUnknownTopicOrPart, kafkapkg.ErrUnknownTopic:
		return merror.Wrap(merror.Unknown, err, "kafka: unknown topic or partition")
	default:
		return merror.Wrap(merror.Unknown, err, "kafka: failed to produce")
	}
}
