//go:build unit
// +build unit

package messagebroker

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkapkg "github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/razorpay/kafkabench/internal/merror"
	"github.com/stretchr/testify/assert"
)

func Test_readKafkaCerts_Success(t *testing.T) {
	certs, err := readKafkaCerts("testdata")

	assert.NotNil(t, certs)
	assert.Nil(t, err)
	assert.NotEmpty(t, certs.caCertPath)
	assert.NotEmpty(t, certs.userCertPath)
	assert.NotEmpty(t, certs.userKeyPath)
}

func Test_readKafkaCerts_Failure(t *testing.T) {
	testDirs := []string{
		"testdata1", "testdata2", "testdata3",
	}

	for _, dir := range testDirs {
		certs, err := readKafkaCerts(dir)
		assert.NotNil(t, err)
		assert.Nil(t, certs)
	}
}

func Test_NewKafkaProducer_InvalidConfig(t *testing.T) {
	ctx := context.Background()

	p, err := NewKafkaProducer(ctx, &BrokerConfig{Brokers: []string{"not-a-broker"}}, getValidProducerClientOptions())
	assert.Nil(t, p)
	assert.True(t, merror.Is(err, merror.ConnectionError))

	p, err = NewKafkaProducer(ctx, getValidBrokerConfig(), &ProducerClientOptions{})
	assert.Nil(t, p)
	assert.True(t, merror.Is(err, merror.ConfigurationError))

	p, err = NewKafkaProducer(ctx, &BrokerConfig{Brokers: []string{"b1:9092"}, EnableTLS: true, CertDir: "missing"}, getValidProducerClientOptions())
	assert.Nil(t, p)
	assert.True(t, merror.Is(err, merror.ConnectionError))
}

func Test_KafkaProducer_SendAndClose(t *testing.T) {
	ctx := context.Background()

	p, err := NewKafkaProducer(ctx, getValidBrokerConfig(), getValidProducerClientOptions())
	assert.Nil(t, err)
	assert.NotNil(t, p)

	resp, err := p.SendMessage(ctx, SendMessageToTopicRequest{
		Message:    []byte(`{"uuid":"user1"}`),
		Attributes: []map[string][]byte{{"source": []byte("test")}},
	})
	assert.Nil(t, err)
	assert.NotEmpty(t, resp.MessageID)

	// no broker is reachable, so the record can only be dropped by the bounded flush
	pending := p.Close(ctx, 100*time.Millisecond)
	assert.GreaterOrEqual(t, pending, 0)

	_, err = p.SendMessage(ctx, SendMessageToTopicRequest{Message: []byte("{}")})
	assert.True(t, merror.Is(err, merror.LifecycleError))

	// second close is a no-op
	assert.Equal(t, 0, p.Close(ctx, time.Millisecond))

	_, open := <-p.Errors()
	assert.False(t, open)
}

func Test_KafkaProducer_CloseWithoutMessages(t *testing.T) {
	ctx := context.Background()

	p, err := NewKafkaProducer(ctx, getValidBrokerConfig(), getValidProducerClientOptions())
	assert.Nil(t, err)

	// queued protocol requests are not records and are not reported as lost
	assert.Equal(t, 0, p.Close(ctx, 100*time.Millisecond))
}

func newEventTestProducer(bufferSize int) *KafkaProducer {
	return &KafkaProducer{
		POptions: &ProducerClientOptions{Topic: "t1", ErrorBufferSize: bufferSize},
		errCh:    make(chan DeliveryError, bufferSize),
	}
}

func failedMessage(topic, msgID string, cause error) *kafkapkg.Message {
	return &kafkapkg.Message{
		TopicPartition: kafkapkg.TopicPartition{Topic: &topic, Partition: 0, Error: cause},
		Opaque:         msgID,
	}
}

func Test_handleEvent_DeliveryFailure(t *testing.T) {
	ctx := context.Background()
	k := newEventTestProducer(4)
	k.inFlight.Add(1)

	cause := errors.New("boom")
	k.handleEvent(ctx, failedMessage("t1", "m1", cause))

	select {
	case derr := <-k.Errors():
		assert.Equal(t, "m1", derr.MessageID)
		assert.Equal(t, "t1", derr.Topic)
		assert.Equal(t, cause, derr.Err)
		assert.Equal(t, "delivery of message [m1] to topic [t1] failed: boom", derr.Error())
	default:
		t.Fatal("delivery failure was not published on Errors()")
	}
	assert.Equal(t, int64(0), k.inFlight.Load())
}

func Test_handleEvent_DropsWhenErrorChannelFull(t *testing.T) {
	ctx := context.Background()
	k := newEventTestProducer(1)
	k.inFlight.Add(2)

	done := make(chan struct{})
	go func() {
		defer close(done)
		k.handleEvent(ctx, failedMessage("t1", "m1", errors.New("first")))
		k.handleEvent(ctx, failedMessage("t1", "m2", errors.New("second")))
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handleEvent blocked on a full error channel")
	}

	assert.Len(t, k.errCh, 1)
	derr := <-k.Errors()
	assert.Equal(t, "m1", derr.MessageID)
	assert.Equal(t, int64(0), k.inFlight.Load())
}

func Test_handleEvent_Delivered(t *testing.T) {
	ctx := context.Background()
	k := newEventTestProducer(1)
	k.inFlight.Add(1)

	k.handleEvent(ctx, failedMessage("t1", "m1", nil))

	assert.Len(t, k.errCh, 0)
	assert.Equal(t, int64(0), k.inFlight.Load())
}

func Test_handleEvent_ClientError(t *testing.T) {
	ctx := context.Background()
	k := newEventTestProducer(1)

	k.handleEvent(ctx, kafkapkg.NewError(kafkapkg.ErrAllBrokersDown, "all brokers down", false))
	k.handleEvent(ctx, kafkapkg.NewError(kafkapkg.ErrTransport, "transport", false))
	k.handleEvent(ctx, kafkapkg.NewError(kafkapkg.ErrFatal, "fatal", true))

	// client errors are not delivery failures
	assert.Len(t, k.errCh, 0)
	assert.Equal(t, int64(0), k.inFlight.Load())
}

func Test_convertRequestToKafkaHeaders(t *testing.T) {
	headers := convertRequestToKafkaHeaders(SendMessageToTopicRequest{
		Attributes: []map[string][]byte{{"a": []byte("1")}},
	}, "id-1")

	assert.Len(t, headers, 2)
	assert.Equal(t, "a", headers[0].Key)
	assert.Equal(t, messageIDHeader, headers[1].Key)
	assert.Equal(t, []byte("id-1"), headers[1].Value)
}

func Test_DeliveryError(t *testing.T) {
	cause := merror.New(merror.Unknown, "broker down")
	derr := DeliveryError{MessageID: "m1", Topic: "t1", Err: cause}

	assert.Equal(t, "delivery of message [m1] to topic [t1] failed: Unknown: broker down", derr.Error())
	assert.Equal(t, cause, derr.Unwrap())
}

func getValidBrokerConfig() *BrokerConfig {
	return &BrokerConfig{
		Brokers:      []string{"localhost:9092"},
		EnableTLS:    false,
		DebugEnabled: false,
	}
}

func getValidProducerClientOptions() *ProducerClientOptions {
	return &ProducerClientOptions{
		Topic:        "t1",
		FlushTimeout: time.Second,
	}
}
